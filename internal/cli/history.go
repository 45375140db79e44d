package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/javajack/xlbudget/internal/journal"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently processed sheets",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	j, err := journal.Open(loader.JournalPath(cfg))
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tINPUT\tSHEET\tSTATUS\tFORMULAS\tDETAIL")
	for _, e := range entries {
		detail := e.Range
		if e.Error != "" {
			detail = e.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			e.CreatedAt.Local().Format(time.DateTime), e.Input, e.Sheet, e.Status, e.Formulas, detail)
	}
	return w.Flush()
}
