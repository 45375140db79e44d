package cli

import (
	"github.com/javajack/xlbudget"
	"github.com/javajack/xlbudget/internal/config"
	"github.com/spf13/cobra"
)

// pipelineFlags are the processing flags shared by process, describe and
// validate. Set flags override the config file.
type pipelineFlags struct {
	marker     string
	markerExpr string
	scan       string
	workers    int
	sheets     []string
	trace      bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.marker, "marker", "", "pad rows containing this text (case-insensitive) with blank rows")
	fl.StringVar(&f.markerExpr, "marker-expr", "", `pad rows where this expression holds, e.g. 'column == "A" && text startsWith "Jumlah"'`)
	fl.StringVar(&f.scan, "scan", "", "where subtotal rows find their children: below or above")
	fl.IntVarP(&f.workers, "workers", "w", 0, "sheets processed in parallel (default: number of CPUs)")
	fl.StringSliceVar(&f.sheets, "sheet", nil, "only process these sheets (repeatable)")
	fl.BoolVar(&f.trace, "trace", false, "log every rule match and formula at debug level")
}

// options merges the flags into a copy of c and converts the result.
func (f *pipelineFlags) options(cmd *cobra.Command, c *config.Config) ([]xlbudget.Option, error) {
	merged := *c
	fl := cmd.Flags()
	if fl.Changed("marker") {
		merged.Marker = f.marker
	}
	if fl.Changed("marker-expr") {
		merged.MarkerExpr = f.markerExpr
	}
	if fl.Changed("scan") {
		merged.ScanDirection = f.scan
	}
	if fl.Changed("workers") {
		merged.Workers = f.workers
	}
	if fl.Changed("sheet") {
		merged.Sheets = f.sheets
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	opts, err := merged.Options()
	if err != nil {
		return nil, err
	}
	if f.trace {
		traceLogger, err := newLogger(cmd.ErrOrStderr(), config.LogConfig{Level: "debug", Format: merged.Log.Format})
		if err != nil {
			return nil, err
		}
		opts = append(opts, xlbudget.WithObserver(xlbudget.SlogObserver(traceLogger)))
	}
	return opts, nil
}
