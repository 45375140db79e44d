package xlbudget

import (
	"fmt"
	"regexp"
	"strings"
)

// SplitColumn splits the text in column col on the literal delimiter and
// writes the trimmed parts to col, col+1, … of the same row, overwriting
// whatever is there. Rows whose cell at col is blank are left untouched.
//
// Neighbouring data is destroyed unless the caller first makes room with
// InsertBlankColumns.
func SplitColumn(g *Grid, col int, delimiter string) error {
	if err := g.Check(); err != nil {
		return fmt.Errorf("split column %s: %w", ColToName(max(col, 0)), err)
	}
	if col < 0 {
		return fmt.Errorf("split column: negative column index %d", col)
	}
	if delimiter == "" {
		return fmt.Errorf("split column %s: empty delimiter", ColToName(col))
	}

	for _, r := range g.occupiedRows() {
		src := g.Get(NewCellRef(r, col))
		if src == nil || src.TrimmedText() == "" {
			continue
		}
		parts := strings.Split(src.Text(), delimiter)
		for i, p := range parts {
			g.Set(NewCellRef(r, col+i), NewStringCell(strings.TrimSpace(p)))
		}
	}
	return nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// UnwrapText flattens line breaks and tabs into single spaces, collapses
// whitespace runs and trims the result.
func UnwrapText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.NewReplacer("\n", " ", "\t", " ").Replace(s)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// NormalizeText unwraps the text of every present cell and retypes it as a
// string. Cells carrying a formula keep their numeric type. Running it twice
// gives the same grid as running it once.
func NormalizeText(g *Grid) error {
	if err := g.Check(); err != nil {
		return fmt.Errorf("normalize text: %w", err)
	}
	for _, cell := range g.cells {
		cell.Value = UnwrapText(cell.Text())
		if cell.HasFormula() {
			cell.Type = CellNumber
			continue
		}
		cell.Type = CellString
	}
	return nil
}
