package xlbudget

import (
	"context"
	"log/slog"
)

// EventKind identifies what an Event reports.
type EventKind int

const (
	EventStageDone      EventKind = iota // a pipeline stage finished
	EventRuleMatched                     // a row was classified by a subtotal rule
	EventRangeChosen                     // the rows summed for a classified row were collected
	EventFormulaWritten                  // a formula was written into a cell
	EventMarkerRow                       // blank rows were inserted around a marker row
)

func (k EventKind) String() string {
	switch k {
	case EventStageDone:
		return "stage_done"
	case EventRuleMatched:
		return "rule_matched"
	case EventRangeChosen:
		return "range_chosen"
	case EventFormulaWritten:
		return "formula_written"
	case EventMarkerRow:
		return "marker_row"
	default:
		return "unknown"
	}
}

// Event is a tracing record emitted while a grid is processed. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Sheet   string
	Stage   string
	Row     int    // 0-based row the event concerns
	Rule    RuleID // for rule events
	Rows    []int  // rows collected for a subtotal
	Cell    CellRef
	Formula string
}

// Observer is notified of tracing events. Implement it to log, count, or
// inspect what the pipeline decided for each row.
type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(e Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

// observerOrNop never returns nil.
func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}

// sheetObserver stamps the sheet name on every event.
type sheetObserver struct {
	sheet string
	next  Observer
}

func (s sheetObserver) Observe(e Event) {
	e.Sheet = s.sheet
	s.next.Observe(e)
}

// SlogObserver writes every event to logger at debug level, except stage
// completion which is logged at info.
func SlogObserver(logger *slog.Logger) Observer {
	return ObserverFunc(func(e Event) {
		attrs := []slog.Attr{slog.String("event", e.Kind.String())}
		if e.Sheet != "" {
			attrs = append(attrs, slog.String("sheet", e.Sheet))
		}
		level := slog.LevelDebug
		switch e.Kind {
		case EventStageDone:
			level = slog.LevelInfo
			attrs = append(attrs, slog.String("stage", e.Stage))
		case EventRuleMatched:
			attrs = append(attrs, slog.Int("row", e.Row+1), slog.String("rule", e.Rule.String()))
		case EventRangeChosen:
			attrs = append(attrs, slog.Int("row", e.Row+1), slog.String("rule", e.Rule.String()), slog.Any("rows", oneBased(e.Rows)))
		case EventFormulaWritten:
			attrs = append(attrs, slog.String("cell", e.Cell.CellName()), slog.String("formula", e.Formula))
		case EventMarkerRow:
			attrs = append(attrs, slog.Int("row", e.Row+1))
		}
		logger.LogAttrs(context.Background(), level, "xlbudget", attrs...)
	})
}

func oneBased(rows []int) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r + 1
	}
	return out
}
