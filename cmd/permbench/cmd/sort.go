package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamirms/permsort"
)

// sortCmd represents the sort command
var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Sort a record file in place",
	Long: `Read the permutation a record file holds, sort the file in place with
the chosen strategy, and verify the result.

Example:
  permbench sort --strategy multi --in records.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, _ := cmd.Flags().GetString("strategy")
		in, _ := cmd.Flags().GetString("in")
		check, _ := cmd.Flags().GetBool("check")

		stats, err := sortFile(strategy, in, check)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(),
			"%s: %d records sorted with %s store in %v (%d swaps, %d fixed, %d handles, %d setup seeks, %d seeks)\n",
			in, stats.Records, strategy, stats.Elapsed, stats.Swaps, stats.FixedPoints,
			stats.Store.Handles, stats.Store.SetupSeeks, stats.Store.Seeks)
		return nil
	},
}

func init() {
	sortCmd.Flags().String("strategy", strategySingle, "Store strategy: single or multi")
	sortCmd.Flags().String("in", "records.txt", "Record file to sort")
	sortCmd.Flags().Bool("check", false, "Decode every record read and compare it with the permutation")
	rootCmd.AddCommand(sortCmd)
}

// sortFile sorts the record file at path and verifies the result.
func sortFile(strategy, path string, check bool) (stats permsort.Stats, err error) {
	perm, err := permsort.ReadPermutation(path)
	if err != nil {
		return stats, fmt.Errorf("read permutation: %w", err)
	}
	if err := permsort.ValidatePermutation(perm); err != nil {
		return stats, fmt.Errorf("%s: %w", path, err)
	}
	store, err := openStore(strategy, path, permsort.RecordWidth(len(perm)), len(perm))
	if err != nil {
		return stats, err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	expected := permsort.ExpectedSwaps(perm)
	step := max(expected/10, 1)
	done := 0
	opts := []permsort.SortOption{
		permsort.WithLogger(logger),
		permsort.WithSwapHook(func(i, j int) {
			done++
			if done%step == 0 {
				logger.Debug("sort progress", "swaps", done, "expected", expected)
			}
		}),
	}
	if check {
		opts = append(opts, permsort.WithRecordCheck())
	}
	stats, err = permsort.SortInPlace(store, perm, opts...)
	if err != nil {
		if sf, ok := permsort.IsStorageFailure(err); ok {
			logger.Error("sort aborted", "path", path, "i", sf.I, "j", sf.J,
				"index", sf.Index, "op", sf.Op, "swaps", stats.Swaps)
		}
		return stats, err
	}
	if err := permsort.VerifySorted(path); err != nil {
		return stats, err
	}
	return stats, nil
}
