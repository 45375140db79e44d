package xlbudget

import (
	"fmt"
	"sort"
)

// Grid is a sparse, addressable sheet snapshot: cells keyed by position, a
// declared used range, and merge regions. A grid is owned by exactly one
// pipeline at a time and is mutated in place.
//
// Every present cell lies within the used range at the end of each public call.
// Edits adjust the declared range arithmetically (inserting blank columns widens
// it even though no cell moves there) and then widen it further if occupancy
// requires.
type Grid struct {
	cells  map[CellRef]*Cell
	used   Range
	dimErr error
	merges []Range
}

// NewGrid creates an empty grid whose used range is the single cell A1.
func NewGrid() *Grid {
	return &Grid{cells: make(map[CellRef]*Cell)}
}

// SetDimension replaces the declared used range with the parsed descriptor
// (e.g. "A1:U40"). An unparseable or missing descriptor marks the grid invalid:
// every later operation fails with ErrInvalidGrid.
func (g *Grid) SetDimension(dim string) error {
	r, err := ParseRange(dim)
	if err != nil {
		g.dimErr = err
		return fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}
	g.dimErr = nil
	g.used = r
	g.fit()
	return nil
}

// Check returns ErrInvalidGrid (wrapped) when the grid cannot be operated on.
func (g *Grid) Check() error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidGrid)
	}
	if g.dimErr != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGrid, g.dimErr)
	}
	if !g.used.Valid() {
		return fmt.Errorf("%w: used range %+v is inverted", ErrInvalidGrid, g.used)
	}
	return nil
}

// Get returns the cell at ref, or nil when the position is blank.
func (g *Grid) Get(ref CellRef) *Cell {
	return g.cells[ref]
}

// Set stores cell at ref, widening the used range if needed. A nil cell clears
// the position. Negative positions are ignored.
func (g *Grid) Set(ref CellRef, cell *Cell) {
	if ref.Row < 0 || ref.Col < 0 {
		return
	}
	if cell == nil {
		g.Clear(ref)
		return
	}
	if g.cells == nil {
		g.cells = make(map[CellRef]*Cell)
	}
	g.cells[ref] = cell
	g.used = g.used.Union(Range{MinRow: ref.Row, MinCol: ref.Col, MaxRow: ref.Row, MaxCol: ref.Col})
}

// Clear removes the cell at ref. Clearing the last present cell collapses the
// used range to A1.
func (g *Grid) Clear(ref CellRef) {
	delete(g.cells, ref)
	g.collapse()
}

// Text returns the trimmed text of the cell at ref ("" when blank).
func (g *Grid) Text(ref CellRef) string {
	return g.cells[ref].TrimmedText()
}

// Len returns the number of present cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// UsedRange returns the declared used range.
func (g *Grid) UsedRange() Range {
	return g.used
}

// OccupiedRange scans all present cells and returns the tightest enclosing
// range. An empty grid yields the single cell A1.
func (g *Grid) OccupiedRange() Range {
	first := true
	var r Range
	for ref := range g.cells {
		cr := Range{MinRow: ref.Row, MinCol: ref.Col, MaxRow: ref.Row, MaxCol: ref.Col}
		if first {
			r = cr
			first = false
			continue
		}
		r = r.Union(cr)
	}
	return r
}

// fit widens the declared range to enclose every present cell.
func (g *Grid) fit() {
	if len(g.cells) == 0 {
		return
	}
	g.used = g.used.Union(g.OccupiedRange())
}

// collapse resets the used range of an empty grid to A1. An invalid
// dimension stays recorded.
func (g *Grid) collapse() {
	if len(g.cells) == 0 {
		g.used = Range{}
	}
}

// Refs returns the positions of all present cells in row-major order.
func (g *Grid) Refs() []CellRef {
	refs := make([]CellRef, 0, len(g.cells))
	for ref := range g.cells {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Row != refs[j].Row {
			return refs[i].Row < refs[j].Row
		}
		return refs[i].Col < refs[j].Col
	})
	return refs
}

// Merges returns a copy of the merge regions.
func (g *Grid) Merges() []Range {
	out := make([]Range, len(g.merges))
	copy(out, g.merges)
	return out
}

// AddMerge records a merge region. Inverted regions are dropped.
func (g *Grid) AddMerge(r Range) {
	if !r.Valid() {
		return
	}
	g.merges = append(g.merges, r)
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cp := &Grid{
		cells:  make(map[CellRef]*Cell, len(g.cells)),
		used:   g.used,
		dimErr: g.dimErr,
		merges: g.Merges(),
	}
	for ref, c := range g.cells {
		cp.cells[ref] = c.Clone()
	}
	return cp
}
