package xlbudget

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr/vm"
	"golang.org/x/text/cases"
)

// MarkerMatcher decides whether a cell marks its row for padding.
type MarkerMatcher interface {
	Match(ref CellRef, text string) (bool, error)
}

// MarkerContains matches cells whose text contains substr, ignoring case.
// Folding is Unicode-aware, so "STRASSE" matches "straße".
func MarkerContains(substr string) MarkerMatcher {
	return containsMatcher{folded: cases.Fold().String(substr)}
}

type containsMatcher struct {
	folded string
}

func (m containsMatcher) Match(_ CellRef, text string) (bool, error) {
	if m.folded == "" || text == "" {
		return false, nil
	}
	return strings.Contains(cases.Fold().String(text), m.folded), nil
}

// MarkerExpr matches cells for which the boolean expression holds. See
// CompileMarkerExpr for the available variables.
func MarkerExpr(expression string) (MarkerMatcher, error) {
	program, err := CompileMarkerExpr(expression)
	if err != nil {
		return nil, err
	}
	return exprMatcher{program: program}, nil
}

type exprMatcher struct {
	program *vm.Program
}

func (m exprMatcher) Match(ref CellRef, text string) (bool, error) {
	if text == "" {
		return false, nil
	}
	return runMarkerExpr(m.program, markerEnv{
		Text:   text,
		Row:    ref.Row + 1,
		Col:    ref.Col + 1,
		Column: ColToName(ref.Col),
	})
}

// MarkerRowInserter surrounds every row holding a marker cell with one blank
// row above and one below.
type MarkerRowInserter struct {
	Match MarkerMatcher
}

// MarkedRows returns the rows holding at least one matching cell, ascending.
func (m MarkerRowInserter) MarkedRows(g *Grid) ([]int, error) {
	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("marker rows: %w", err)
	}
	if m.Match == nil {
		return nil, nil
	}
	var rows []int
	last := -1
	for _, ref := range g.Refs() {
		if ref.Row == last {
			continue
		}
		ok, err := m.Match.Match(ref, g.Text(ref))
		if err != nil {
			return nil, fmt.Errorf("marker rows: cell %s: %w", ref.CellName(), err)
		}
		if ok {
			rows = append(rows, ref.Row)
			last = ref.Row
		}
	}
	return rows, nil
}

// Apply inserts the blank row pairs. Marked rows are handled from the bottom
// up so earlier indexes stay valid; for each, the row below is inserted
// before the row above.
func (m MarkerRowInserter) Apply(g *Grid, obs Observer) error {
	obs = observerOrNop(obs)
	rows, err := m.MarkedRows(g)
	if err != nil {
		return err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		k := rows[i]
		if err := InsertRow(g, k+1); err != nil {
			return fmt.Errorf("marker rows: %w", err)
		}
		if err := InsertRow(g, k); err != nil {
			return fmt.Errorf("marker rows: %w", err)
		}
		obs.Observe(Event{Kind: EventMarkerRow, Row: k})
	}
	return nil
}
