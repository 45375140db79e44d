package xlbudget

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// gridOf builds a grid from "A1"-style keys. string values become string
// cells, float64 and int values numeric cells.
func gridOf(t *testing.T, cells map[string]any) *Grid {
	t.Helper()
	g := NewGrid()
	for name, v := range cells {
		ref, err := ParseCellRef(name)
		require.NoError(t, err)
		switch x := v.(type) {
		case string:
			g.Set(ref, NewStringCell(x))
		case float64:
			g.Set(ref, NewNumberCell(x))
		case int:
			g.Set(ref, NewNumberCell(float64(x)))
		case *Cell:
			g.Set(ref, x)
		default:
			t.Fatalf("unsupported value %T for %s", v, name)
		}
	}
	return g
}

func mustRef(t *testing.T, name string) CellRef {
	t.Helper()
	ref, err := ParseCellRef(name)
	require.NoError(t, err)
	return ref
}

// textAt returns the text of the named cell.
func textAt(t *testing.T, g *Grid, name string) string {
	t.Helper()
	return g.Text(mustRef(t, name))
}

// formulaAt returns the formula of the named cell, "" when blank.
func formulaAt(t *testing.T, g *Grid, name string) string {
	t.Helper()
	c := g.Get(mustRef(t, name))
	if c == nil {
		return ""
	}
	return c.Formula
}

// snapshot renders every present cell as name → text|formula.
func snapshot(g *Grid) map[string]string {
	out := make(map[string]string, g.Len())
	for _, ref := range g.Refs() {
		c := g.Get(ref)
		out[ref.CellName()] = c.Text() + "|" + c.Formula
	}
	return out
}

// ledgerCells is a raw export: sub-component A, account 521211 and two
// detail lines. D carries the marker, F the volume text and H the unit price.
func ledgerCells() map[string]any {
	return map[string]any{
		"A1": "A",
		"A2": "521211",
		"D3": "-", "F3": "2 OK x 3 HR", "H3": 1000,
		"D4": "-", "F4": "5 PKT", "H4": 200,
	}
}

// ledgerWorkbook writes ledgerCells into Sheet1 of a new workbook and adds an
// untouched Notes sheet.
func ledgerWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for cell, v := range ledgerCells() {
		require.NoError(t, f.SetCellValue("Sheet1", cell, v))
	}
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "B2", "keep me"))
	return f
}
