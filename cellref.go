package xlbudget

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRef addresses a single cell of a grid.
type CellRef struct {
	Row int // 0-based row index
	Col int // 0-based column index
}

// NewCellRef creates a CellRef from 0-based row and column indexes.
func NewCellRef(row, col int) CellRef {
	return CellRef{Row: row, Col: col}
}

// ParseCellRef parses a cell reference string like "A1" or "$U$20".
func ParseCellRef(s string) (CellRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference")
	}
	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.ReplaceAll(s, "$", "")
	if s == "" {
		return CellRef{}, fmt.Errorf("invalid cell reference: %q", s)
	}

	col, row, err := parseCellName(s)
	if err != nil {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}
	return CellRef{Row: row, Col: col}, nil
}

// parseCellName parses "A1" into col=0, row=0.
func parseCellName(name string) (col, row int, err error) {
	i := 0
	for i < len(name) && isAlpha(name[i]) {
		i++
	}
	if i == 0 || i == len(name) {
		return 0, 0, fmt.Errorf("invalid cell name: %q", name)
	}

	col, err = NameToCol(name[:i])
	if err != nil {
		return 0, 0, err
	}

	rowNum := 0
	for _, ch := range name[i:] {
		if ch < '0' || ch > '9' {
			return 0, 0, fmt.Errorf("invalid row in cell name: %q", name)
		}
		rowNum = rowNum*10 + int(ch-'0')
	}
	if rowNum < 1 {
		return 0, 0, fmt.Errorf("invalid row number in cell name: %q", name)
	}
	return col, rowNum - 1, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// String formats the CellRef as "A1".
func (c CellRef) String() string {
	return c.CellName()
}

// CellName returns the textual form used in formulas, e.g. "U21" for row 20, col 20.
func (c CellRef) CellName() string {
	return ColToName(c.Col) + strconv.Itoa(c.Row+1)
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA", 702→"AAA"
func ColToName(col int) string {
	result := ""
	col++
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts a column name to a 0-based column index.
// "A"→0, "Z"→25, "AA"→26
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(name)
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col - 1, nil
}

// Range is an inclusive rectangle of cells. It describes both the used range
// of a grid and its merge regions.
type Range struct {
	MinRow int
	MinCol int
	MaxRow int
	MaxCol int
}

// NewRange creates a Range spanning two corner cells.
func NewRange(first, last CellRef) Range {
	return Range{MinRow: first.Row, MinCol: first.Col, MaxRow: last.Row, MaxCol: last.Col}
}

// ParseRange parses a range descriptor like "A1:U40". A single cell "A1" is a
// degenerate range.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("empty range")
	}
	parts := strings.SplitN(s, ":", 2)
	first, err := ParseCellRef(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	last := first
	if len(parts) == 2 {
		last, err = ParseCellRef(parts[1])
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
		}
	}
	r := NewRange(first, last)
	if !r.Valid() {
		return Range{}, fmt.Errorf("invalid range %q: corners are inverted", s)
	}
	return r, nil
}

// First returns the top-left cell.
func (r Range) First() CellRef { return CellRef{Row: r.MinRow, Col: r.MinCol} }

// Last returns the bottom-right cell.
func (r Range) Last() CellRef { return CellRef{Row: r.MaxRow, Col: r.MaxCol} }

// String formats the range as "A1:C5", or "A1" when it covers one cell.
func (r Range) String() string {
	if r.MinRow == r.MaxRow && r.MinCol == r.MaxCol {
		return r.First().CellName()
	}
	return r.First().CellName() + ":" + r.Last().CellName()
}

// Valid reports whether the range has non-negative, non-inverted corners.
func (r Range) Valid() bool {
	return r.MinRow >= 0 && r.MinCol >= 0 && r.MinRow <= r.MaxRow && r.MinCol <= r.MaxCol
}

// Contains returns true if the given cell lies within this range.
func (r Range) Contains(ref CellRef) bool {
	return ref.Row >= r.MinRow && ref.Row <= r.MaxRow &&
		ref.Col >= r.MinCol && ref.Col <= r.MaxCol
}

// Union returns the smallest range enclosing both r and o.
func (r Range) Union(o Range) Range {
	return Range{
		MinRow: min(r.MinRow, o.MinRow),
		MinCol: min(r.MinCol, o.MinCol),
		MaxRow: max(r.MaxRow, o.MaxRow),
		MaxCol: max(r.MaxCol, o.MaxCol),
	}
}

// Width returns the number of columns.
func (r Range) Width() int { return r.MaxCol - r.MinCol + 1 }

// Height returns the number of rows.
func (r Range) Height() int { return r.MaxRow - r.MinRow + 1 }
