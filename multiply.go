package xlbudget

import "fmt"

// ProductSynthesizer writes a product formula into TargetCol for every row
// whose driver cell is non-blank. MultiplierCols lists the factor columns in
// order and includes the driver itself as the first factor.
type ProductSynthesizer struct {
	DriverCol      int
	MultiplierCols []int
	TargetCol      int
}

// DefaultProductSynthesizer returns the ledger layout: quantity in D, with
// factors D, G and J, and the product in O.
func DefaultProductSynthesizer() ProductSynthesizer {
	return ProductSynthesizer{DriverCol: 3, MultiplierCols: []int{3, 6, 9}, TargetCol: 14}
}

// Formula returns the product formula for row, or "" when the driver is blank.
//
// With zero or one non-blank factor the formula is the bare driver reference.
// Otherwise the driver is multiplied by every other non-blank factor in column
// order.
func (p ProductSynthesizer) Formula(g *Grid, row int) string {
	driver := NewCellRef(row, p.DriverCol)
	if g.Get(driver).IsBlank() {
		return ""
	}
	refs := []CellRef{driver}
	count := 0
	for _, c := range p.MultiplierCols {
		ref := NewCellRef(row, c)
		if g.Get(ref).IsBlank() {
			continue
		}
		count++
		if c != p.DriverCol {
			refs = append(refs, ref)
		}
	}
	if count <= 1 {
		return driver.CellName()
	}
	return ProductFormula(refs)
}

// Apply writes the product formula for every row of the used range.
func (p ProductSynthesizer) Apply(g *Grid, obs Observer) error {
	if err := g.Check(); err != nil {
		return fmt.Errorf("product formulas: %w", err)
	}
	if p.DriverCol < 0 || p.TargetCol < 0 {
		return fmt.Errorf("product formulas: invalid driver %d or target %d", p.DriverCol, p.TargetCol)
	}
	obs = observerOrNop(obs)
	used := g.used
	for r := used.MinRow; r <= used.MaxRow; r++ {
		f := p.Formula(g, r)
		if f == "" {
			continue
		}
		target := NewCellRef(r, p.TargetCol)
		writeFormula(g, target, f)
		obs.Observe(Event{Kind: EventFormulaWritten, Row: r, Cell: target, Formula: f})
	}
	return nil
}

// LineTotalSynthesizer writes Left*Right into TargetCol when both source cells
// are non-blank. A source holding a formula counts as non-blank.
type LineTotalSynthesizer struct {
	LeftCol   int
	RightCol  int
	TargetCol int
}

// DefaultLineTotalSynthesizer returns the ledger layout: O times S into U.
func DefaultLineTotalSynthesizer() LineTotalSynthesizer {
	return LineTotalSynthesizer{LeftCol: 14, RightCol: 18, TargetCol: 20}
}

// Apply writes the line total formula for every qualifying row.
func (l LineTotalSynthesizer) Apply(g *Grid, obs Observer) error {
	if err := g.Check(); err != nil {
		return fmt.Errorf("line totals: %w", err)
	}
	obs = observerOrNop(obs)
	used := g.used
	for r := used.MinRow; r <= used.MaxRow; r++ {
		left, right := NewCellRef(r, l.LeftCol), NewCellRef(r, l.RightCol)
		if g.Get(left).IsBlank() || g.Get(right).IsBlank() {
			continue
		}
		target := NewCellRef(r, l.TargetCol)
		f := ProductFormula([]CellRef{left, right})
		writeFormula(g, target, f)
		obs.Observe(Event{Kind: EventFormulaWritten, Row: r, Cell: target, Formula: f})
	}
	return nil
}

// writeFormula attaches f to the cell at ref, creating the cell if needed.
func writeFormula(g *Grid, ref CellRef, f string) {
	cell := g.Get(ref)
	if cell == nil {
		g.Set(ref, NewFormulaCell(f))
		return
	}
	cell.SetFormula(f)
}
