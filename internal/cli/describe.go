package cli

import (
	"fmt"

	"github.com/javajack/xlbudget"
	"github.com/spf13/cobra"
)

var describeFlags pipelineFlags

var describeCmd = &cobra.Command{
	Use:   "describe <input.xlsx>",
	Short: "Show the subtotals the pipeline would write",
	Long: `Runs the pipeline in memory and prints, per sheet, the layout after the
structural stages and every classified row with its planned formula.
The input file is not modified.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := describeFlags.options(cmd, cfg)
		if err != nil {
			return err
		}
		out, err := xlbudget.DescribeFile(args[0], opts...)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	describeFlags.register(describeCmd)
	rootCmd.AddCommand(describeCmd)
}
