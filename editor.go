package xlbudget

import (
	"fmt"
	"sort"
)

// DeleteColumns removes the given columns. For every row, cells right of a
// deleted column shift left to fill the gap; deleted columns are processed from
// the highest index to the lowest so no cell is shifted twice. The used range
// shrinks by the number of deleted columns, formulas are rewritten, and merge
// regions are re-anchored (regions left with no surviving column are dropped).
//
// Columns right of the used range hold no cells and are ignored.
func DeleteColumns(g *Grid, cols []int) error {
	if err := g.Check(); err != nil {
		return fmt.Errorf("delete columns: %w", err)
	}
	for _, c := range cols {
		if c < 0 {
			return fmt.Errorf("delete columns: negative column index %d", c)
		}
	}

	maxCol := g.used.MaxCol
	deleted := uniqueSorted(cols, func(c int) bool { return c <= maxCol })
	if len(deleted) == 0 {
		return nil
	}

	rows := g.occupiedRows()
	for i := len(deleted) - 1; i >= 0; i-- {
		d := deleted[i]
		for _, r := range rows {
			for c := d; c < maxCol; c++ {
				g.move(NewCellRef(r, c+1), NewCellRef(r, c))
			}
			delete(g.cells, NewCellRef(r, maxCol))
		}
	}

	g.used.MaxCol = max(g.used.MaxCol-len(deleted), g.used.MinCol)
	for _, cell := range g.cells {
		if cell.HasFormula() {
			cell.Formula = DeleteFormulaCols(cell.Formula, deleted)
		}
	}
	g.merges = remapMergeCols(g.merges, deleted, g.used.MaxCol)
	g.fit()
	return nil
}

// remapMergeCols re-anchors merge regions after deleted columns were removed.
func remapMergeCols(merges []Range, deleted []int, maxCol int) []Range {
	isDeleted := make(map[int]bool, len(deleted))
	for _, d := range deleted {
		isDeleted[d] = true
	}
	shift := func(c int) int {
		n := 0
		for _, d := range deleted {
			if d < c {
				n++
			}
		}
		return c - n
	}

	out := merges[:0]
	for _, m := range merges {
		first, last := m.MinCol, m.MaxCol
		for first <= last && isDeleted[first] {
			first++
		}
		for last >= first && isDeleted[last] {
			last--
		}
		if first > last {
			continue
		}
		m.MinCol, m.MaxCol = shift(first), shift(last)
		if !m.Valid() || m.MaxCol > maxCol {
			continue
		}
		if m.MinCol == m.MaxCol && m.MinRow == m.MaxRow {
			continue
		}
		out = append(out, m)
	}
	return out
}

// InsertBlankColumns shifts every cell right of afterCol by count columns and
// leaves the count newly exposed columns blank. Cells are moved starting from
// the rightmost column so no source is overwritten before it is read.
// afterCol may be -1 to insert before column A.
func InsertBlankColumns(g *Grid, afterCol, count int) error {
	if err := g.Check(); err != nil {
		return fmt.Errorf("insert columns: %w", err)
	}
	if afterCol < -1 || count < 0 {
		return fmt.Errorf("insert columns: invalid position %d or count %d", afterCol, count)
	}
	if count == 0 {
		return nil
	}

	newMax := g.used.MaxCol + count
	for _, r := range g.occupiedRows() {
		for c := newMax; c > afterCol+count; c-- {
			g.move(NewCellRef(r, c-count), NewCellRef(r, c))
		}
		for c := afterCol + 1; c <= afterCol+count; c++ {
			delete(g.cells, NewCellRef(r, c))
		}
	}

	g.used.MaxCol = newMax
	for _, cell := range g.cells {
		if cell.HasFormula() {
			cell.Formula = ShiftFormulaCols(cell.Formula, afterCol+1, count)
		}
	}
	for i, m := range g.merges {
		if m.MinCol > afterCol {
			m.MinCol += count
		}
		if m.MaxCol > afterCol {
			m.MaxCol += count
		}
		g.merges[i] = m
	}
	g.fit()
	return nil
}

// InsertRow shifts every row at or below atRow down by one and leaves row
// atRow blank. Formula references to rows at or below atRow are incremented,
// and merge corners at or below atRow move down with their rows.
func InsertRow(g *Grid, atRow int) error {
	return InsertRows(g, atRow, 1)
}

// InsertRows is InsertRow for count rows at once.
func InsertRows(g *Grid, atRow, count int) error {
	if err := g.Check(); err != nil {
		return fmt.Errorf("insert rows: %w", err)
	}
	if atRow < 0 || count < 0 {
		return fmt.Errorf("insert rows: invalid position %d or count %d", atRow, count)
	}
	if count == 0 {
		return nil
	}

	cols := g.occupiedCols()
	for r := g.used.MaxRow; r >= atRow; r-- {
		for _, c := range cols {
			g.move(NewCellRef(r, c), NewCellRef(r+count, c))
		}
	}
	for r := atRow; r < atRow+count; r++ {
		for _, c := range cols {
			delete(g.cells, NewCellRef(r, c))
		}
	}

	g.used.MaxRow += count
	for _, cell := range g.cells {
		if cell.HasFormula() {
			cell.Formula = ShiftFormulaRows(cell.Formula, atRow, count)
		}
	}
	for i, m := range g.merges {
		if m.MinRow >= atRow {
			m.MinRow += count
		}
		if m.MaxRow >= atRow {
			m.MaxRow += count
		}
		g.merges[i] = m
	}
	g.fit()
	return nil
}

// Unmerge drops every merge region. Cell contents are untouched.
func Unmerge(g *Grid) error {
	if err := g.Check(); err != nil {
		return fmt.Errorf("unmerge: %w", err)
	}
	g.merges = nil
	return nil
}

// move copies the cell at src to dst, clearing dst when src is blank.
func (g *Grid) move(src, dst CellRef) {
	if c, ok := g.cells[src]; ok {
		g.cells[dst] = c
		return
	}
	delete(g.cells, dst)
}

// occupiedRows returns the sorted distinct rows holding at least one cell.
func (g *Grid) occupiedRows() []int {
	seen := make(map[int]bool)
	for ref := range g.cells {
		seen[ref.Row] = true
	}
	return sortedKeys(seen)
}

// occupiedCols returns the sorted distinct columns holding at least one cell.
func (g *Grid) occupiedCols() []int {
	seen := make(map[int]bool)
	for ref := range g.cells {
		seen[ref.Col] = true
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// uniqueSorted returns the distinct values of in accepted by keep, ascending.
func uniqueSorted(in []int, keep func(int) bool) []int {
	seen := make(map[int]bool, len(in))
	for _, v := range in {
		if keep(v) {
			seen[v] = true
		}
	}
	return sortedKeys(seen)
}
