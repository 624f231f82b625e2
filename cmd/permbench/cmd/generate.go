package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamirms/permsort"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a shuffled record file",
	Long: `Write N records holding a random permutation of 1..N, each padded to
width digits(N)+2 and terminated by a line feed.

Example:
  permbench generate --records 100000 --seed 7 --out records.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("records")
		seed, _ := cmd.Flags().GetUint64("seed")
		out, _ := cmd.Flags().GetString("out")
		if n < 0 {
			return fmt.Errorf("--records must be non-negative, got %d", n)
		}

		perm := permsort.Shuffle(n, seed)
		if err := permsort.CreateRecordFile(out, perm); err != nil {
			return err
		}
		logger.Info("record file written", "path", out, "records", n,
			"width", permsort.RecordWidth(n), "fixed_points", permsort.FixedPoints(perm),
			"expected_swaps", permsort.ExpectedSwaps(perm))
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records, width %d\n", out, n, permsort.RecordWidth(n))
		return nil
	},
}

func init() {
	generateCmd.Flags().Int("records", 1000, "Number of records")
	generateCmd.Flags().Uint64("seed", 1, "Shuffle seed")
	generateCmd.Flags().String("out", "records.txt", "Output path")
	rootCmd.AddCommand(generateCmd)
}
