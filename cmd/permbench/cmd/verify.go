package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamirms/permsort"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that a record file is sorted",
	Long: `Check that every slot i of a record file holds i+1 and print the
file's digest.

Example:
  permbench verify --in records.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		if err := permsort.VerifySorted(in); err != nil {
			return err
		}
		digest, err := permsort.Digest(in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: sorted, digest %016x\n", in, digest)
		return nil
	},
}

func init() {
	verifyCmd.Flags().String("in", "records.txt", "Record file to verify")
	rootCmd.AddCommand(verifyCmd)
}
