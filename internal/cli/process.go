package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/javajack/xlbudget"
	"github.com/javajack/xlbudget/internal/journal"
	"github.com/spf13/cobra"
)

var (
	processOutput    string
	processNoJournal bool
	processFlags     pipelineFlags
)

var processCmd = &cobra.Command{
	Use:   "process <input.xlsx>",
	Short: "Process a ledger workbook",
	Long: `Runs the ledger pipeline over every sheet and writes the result.

Examples:
  xlbudget process rkakl.xlsx
  xlbudget process rkakl.xlsx -o out.xlsx --scan above
  xlbudget process rkakl.xlsx --marker "jumlah" --sheet Sheet1`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output file (default <input>_processed.xlsx)")
	processCmd.Flags().BoolVar(&processNoJournal, "no-journal", false, "do not record this run in the journal")
	processFlags.register(processCmd)

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}
	outputPath := processOutput
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath)
	}

	opts, err := processFlags.options(cmd, cfg)
	if err != nil {
		return err
	}

	logger.Info("processing workbook", "input", inputPath, "output", outputPath)
	rep, runErr := xlbudget.ProcessFile(inputPath, outputPath, opts...)

	if cfg.Journal.Enabled && !processNoJournal {
		if err := recordRun(cmd.Context(), inputPath, outputPath, rep, runErr); err != nil {
			logger.Warn("journal not updated", "error", err)
		}
	}
	if rep != nil {
		printReport(cmd, rep)
	}
	if runErr != nil {
		return fmt.Errorf("process %s: %w", inputPath, runErr)
	}
	logger.Info("workbook written", "output", outputPath, "formulas", rep.Formulas())
	return nil
}

func recordRun(ctx context.Context, input, output string, rep *xlbudget.Report, runErr error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	j, err := journal.Open(loader.JournalPath(cfg))
	if err != nil {
		return err
	}
	defer j.Close()
	if runErr != nil {
		output = ""
	}
	return j.Record(ctx, journal.FromReport(journal.NewRunID(), input, output, rep, runErr)...)
}

func printReport(cmd *cobra.Command, rep *xlbudget.Report) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHEET\tSTATUS\tRANGE\tFORMULAS\tTIME")
	for _, s := range rep.Sheets {
		switch {
		case s.Skipped:
			fmt.Fprintf(w, "%s\tskipped\t\t\t\n", s.Sheet)
		case s.Err != nil:
			fmt.Fprintf(w, "%s\tfailed\t\t\t%s\n", s.Sheet, s.Duration.Round(1e6))
		default:
			fmt.Fprintf(w, "%s\tok\t%s\t%d\t%s\n", s.Sheet, s.Range, s.Formulas, s.Duration.Round(1e6))
		}
	}
	w.Flush()
}

// defaultOutputPath turns "dir/ledger.xlsx" into "dir/ledger_processed.xlsx".
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_processed.xlsx"
}
