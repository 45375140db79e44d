package cli

import (
	"errors"
	"fmt"

	"github.com/javajack/xlbudget"
	"github.com/spf13/cobra"
)

var (
	validateStrict bool
	validateFlags  pipelineFlags
)

var validateCmd = &cobra.Command{
	Use:   "validate <input.xlsx>",
	Short: "Report rows the pipeline cannot total",
	Long: `Checks every sheet without writing anything. Warnings are printed for coded
rows that have no child rows and for code-like rows that match no rule.
The command fails on errors, and also on warnings with --strict.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
	validateFlags.register(validateCmd)
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	opts, err := validateFlags.options(cmd, cfg)
	if err != nil {
		return err
	}
	issues, err := xlbudget.ValidateFile(args[0], opts...)
	if err != nil {
		return err
	}
	for _, is := range issues {
		fmt.Fprintln(cmd.OutOrStdout(), is)
	}
	if len(issues) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no issues found")
		return nil
	}
	if xlbudget.HasErrors(issues) || validateStrict {
		return errors.New(pluralIssues(len(issues)))
	}
	return nil
}

func pluralIssues(n int) string {
	if n == 1 {
		return "1 issue found"
	}
	return fmt.Sprintf("%d issues found", n)
}
