package xlbudget

import (
	"fmt"
	"strconv"
	"strings"
)

// CellType represents the type of data in a cell.
type CellType int

const (
	CellBlank CellType = iota
	CellString
	CellNumber
)

// String returns a human-readable name for the CellType.
func (ct CellType) String() string {
	switch ct {
	case CellBlank:
		return "Blank"
	case CellString:
		return "String"
	case CellNumber:
		return "Number"
	default:
		return "Unknown"
	}
}

// Cell holds a single cell's value and, optionally, the formula that produces it.
// A cell carrying a formula is always typed CellNumber.
type Cell struct {
	Value   any      // string, float64, or nil
	Type    CellType // value type
	Formula string   // formula text as synthesized or read from the codec
}

// NewStringCell creates a string-typed cell.
func NewStringCell(s string) *Cell {
	return &Cell{Value: s, Type: CellString}
}

// NewNumberCell creates a numeric cell.
func NewNumberCell(v float64) *Cell {
	return &Cell{Value: v, Type: CellNumber}
}

// NewFormulaCell creates a numeric cell whose value comes from formula.
func NewFormulaCell(formula string) *Cell {
	return &Cell{Type: CellNumber, Formula: formula}
}

// Text returns the cell value rendered as text. Numbers use the shortest
// representation, so 100100.0 renders as "100100".
func (c *Cell) Text() string {
	if c == nil || c.Value == nil {
		return ""
	}
	switch v := c.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TrimmedText returns Text with surrounding whitespace removed.
func (c *Cell) TrimmedText() string {
	return strings.TrimSpace(c.Text())
}

// IsBlank reports whether the cell holds neither non-blank text nor a formula.
func (c *Cell) IsBlank() bool {
	if c == nil {
		return true
	}
	return c.Formula == "" && c.TrimmedText() == ""
}

// HasFormula reports whether the cell's value is produced by a formula.
func (c *Cell) HasFormula() bool {
	return c != nil && c.Formula != ""
}

// SetFormula attaches formula to the cell and retypes it as numeric. The last
// known literal value is kept for codecs that cache it.
func (c *Cell) SetFormula(formula string) {
	c.Formula = formula
	c.Type = CellNumber
}

// Clone returns a copy of the cell.
func (c *Cell) Clone() *Cell {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
