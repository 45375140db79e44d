package xlbudget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftFormulaRows(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		atRow   int
		want    string
	}{
		{"sum list", "=SUM(U3,U4)", 2, "=SUM(U4,U5)"},
		{"above untouched", "=SUM(U1,U2)", 2, "=SUM(U1,U2)"},
		{"boundary row", "D3*G3", 2, "D4*G4"},
		{"mixed", "=SUM(U2,U3)", 2, "=SUM(U2,U4)"},
		{"range operand", "=SUM(A1:A10)", 4, "=SUM(A1:A11)"},
		{"absolute", "$A$5+B$7", 0, "$A$6+B$8"},
		{"sheet prefix", "Sheet1!A3+'Data 2'!B9", 0, "Sheet1!A4+'Data 2'!B10"},
		{"string literal", `=IF(A3>0,"A3","B9")`, 0, `=IF(A4>0,"A3","B9")`},
		{"function name", "=LOG10(A2)", 0, "=LOG10(A3)"},
		{"lower case", "=a3+A3", 1, "=a4+A4"},
		{"lower function name", "=log10(a2)", 0, "=log10(a3)"},
		{"row span", "=SUM(2:3)", 1, "=SUM(3:4)"},
		{"row span straddles", "=SUM($2:$3)", 2, "=SUM($2:$4)"},
		{"column span untouched", "=SUM(A:C)", 0, "=SUM(A:C)"},
		{"no refs", "=1+2", 0, "=1+2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShiftFormulaRows(tt.formula, tt.atRow, 1))
		})
	}
}

func TestShiftFormulaRows_ZeroDelta(t *testing.T) {
	assert.Equal(t, "=SUM(A1)", ShiftFormulaRows("=SUM(A1)", 0, 0))
	assert.Equal(t, "", ShiftFormulaRows("", 0, 1))
}

func TestShiftFormulaCols(t *testing.T) {
	assert.Equal(t, "A1*F1", ShiftFormulaCols("A1*C1", 1, 3))
	assert.Equal(t, "=SUM(A1:AB2)", ShiftFormulaCols("=SUM(A1:Z2)", 25, 2))
	assert.Equal(t, "A1", ShiftFormulaCols("A1", 1, 3))
}

func TestDeleteFormulaCols(t *testing.T) {
	assert.Equal(t, "A1*B1", DeleteFormulaCols("A1*D1", []int{1, 2}))
	assert.Equal(t, "A1*#REF!", DeleteFormulaCols("A1*C1", []int{1, 2}))
	assert.Equal(t, "=SUM(#REF!)", DeleteFormulaCols("=SUM(B1:C3)", []int{1, 2}))
	assert.Equal(t, "=SUM(A1:B3)", DeleteFormulaCols("=SUM(A1:D3)", []int{1, 2}))
	assert.Equal(t, "Z9", DeleteFormulaCols("Z9", nil))
}

func TestColumnSpans(t *testing.T) {
	assert.Equal(t, "=SUM(A:E)", ShiftFormulaCols("=SUM(A:C)", 1, 2))
	assert.Equal(t, "=SUM(b:$d)", ShiftFormulaCols("=SUM(a:$c)", 0, 1))
	assert.Equal(t, "=SUM(A:B)", DeleteFormulaCols("=SUM(A:D)", []int{1, 2}))
	assert.Equal(t, "=SUM(#REF!)", DeleteFormulaCols("=SUM(B:C)", []int{1, 2}))
	assert.Equal(t, "=SUM(2:3)", DeleteFormulaCols("=SUM(2:3)", []int{0}), "row spans ignore column edits")
}

func TestRewriteOutsideQuotes(t *testing.T) {
	shift := func(row, col int) (int, int, bool) { return row + 1, col, true }
	assert.Equal(t, `A2&"He said ""A1"""&B3`, rewriteOutsideQuotes(`A1&"He said ""A1"""&B2`, shift))
}

func TestSumAndProductFormula(t *testing.T) {
	refs := []CellRef{NewCellRef(0, 20), NewCellRef(1, 20)}
	assert.Equal(t, "=SUM(U1,U2)", SumFormula(refs))
	assert.Equal(t, "U1*U2", ProductFormula(refs))
	assert.Equal(t, "D4", ProductFormula([]CellRef{NewCellRef(3, 3)}))
}
