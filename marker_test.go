package xlbudget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerContains(t *testing.T) {
	m := MarkerContains("JUMLAH")
	for text, want := range map[string]bool{
		"Sub Jumlah":  true,
		"jumlah akun": true,
		"Total":       false,
		"":            false,
	} {
		ok, err := m.Match(CellRef{}, text)
		require.NoError(t, err)
		assert.Equal(t, want, ok, text)
	}

	ok, _ := MarkerContains("STRASSE").Match(CellRef{}, "Hauptstraße 5")
	assert.True(t, ok, "folding is Unicode-aware")

	ok, _ = MarkerContains("").Match(CellRef{}, "anything")
	assert.False(t, ok, "an empty marker matches nothing")
}

// A lone marker row ends up between two blank rows.
func TestMarkerRowInserter_Symmetry(t *testing.T) {
	for k := 0; k < 4; k++ {
		g := NewGrid()
		g.Set(NewCellRef(k, 0), NewStringCell("Jumlah"))
		before := g.UsedRange().MaxRow

		ins := MarkerRowInserter{Match: MarkerContains("jumlah")}
		require.NoError(t, ins.Apply(g, nil))

		assert.Equal(t, "Jumlah", g.Text(NewCellRef(k+1, 0)), "k=%d", k)
		assert.Nil(t, g.Get(NewCellRef(k, 0)), "k=%d", k)
		assert.Nil(t, g.Get(NewCellRef(k+2, 0)), "k=%d", k)
		assert.Equal(t, before+2, g.UsedRange().MaxRow, "k=%d", k)
	}
}

func TestMarkerRowInserter_MultipleMarkers(t *testing.T) {
	g := gridOf(t, map[string]any{
		"A1": "head",
		"A2": "Total", "B2": "total again",
		"A3": "x",
		"C5": "TOTAL",
	})
	ins := MarkerRowInserter{Match: MarkerContains("total")}

	rows, err := ins.MarkedRows(g)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, rows, "a row with several matching cells is listed once")

	var marked []int
	require.NoError(t, ins.Apply(g, ObserverFunc(func(e Event) {
		assert.Equal(t, EventMarkerRow, e.Kind)
		marked = append(marked, e.Row)
	})))
	assert.Equal(t, []int{4, 1}, marked)

	assert.Equal(t, map[string]string{
		"A1": "head|",
		"A3": "Total|", "B3": "total again|",
		"A5": "x|",
		"C8": "TOTAL|",
	}, snapshot(g))
	assert.Equal(t, 8, g.UsedRange().MaxRow)
}

func TestMarkerRowInserter_ShiftsFormulas(t *testing.T) {
	g := gridOf(t, map[string]any{
		"A1": "Jumlah", "U1": NewFormulaCell("=SUM(U2,U3)"),
		"U2": 1, "U3": 2,
	})
	require.NoError(t, MarkerRowInserter{Match: MarkerContains("jumlah")}.Apply(g, nil))
	assert.Equal(t, "=SUM(U4,U5)", formulaAt(t, g, "U2"))
	assert.Equal(t, "1", textAt(t, g, "U4"))
}

func TestMarkerRowInserter_NoMatcher(t *testing.T) {
	g := gridOf(t, map[string]any{"A1": "Jumlah"})
	require.NoError(t, MarkerRowInserter{}.Apply(g, nil))
	assert.Equal(t, "Jumlah", textAt(t, g, "A1"))
}

func TestMarkerRowInserter_Expr(t *testing.T) {
	m, err := MarkerExpr(`text startsWith "Sub" && column == "B"`)
	require.NoError(t, err)
	g := gridOf(t, map[string]any{
		"A1": "Sub A",
		"B2": "Sub B",
	})
	rows, err := MarkerRowInserter{Match: m}.MarkedRows(g)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, rows)
}
