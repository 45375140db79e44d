package xlbudget

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// refREF is written in place of a reference whose target column was deleted.
const refREF = "#REF!"

// refRegex matches, in order of preference, a single A1-style reference, a
// whole-row range ("2:3") or a whole-column range ("A:C"). Any part may be
// absolute and column letters are case-insensitive.
var refRegex = regexp.MustCompile(`(\$?)([A-Za-z]{1,3})(\$?)([0-9]+)` +
	`|(\$?)([0-9]+):(\$?)([0-9]+)` +
	`|(\$?)([A-Za-z]{1,3}):(\$?)([A-Za-z]{1,3})`)

// refMapper translates a 0-based (row, col) reference. ok=false means the
// referenced cell no longer exists.
type refMapper func(row, col int) (newRow, newCol int, ok bool)

// ShiftFormulaRows moves every reference to a row at or below atRow (0-based)
// by delta rows. References above atRow are left untouched.
func ShiftFormulaRows(formula string, atRow, delta int) string {
	if delta == 0 {
		return formula
	}
	return rewriteFormula(formula, func(row, col int) (int, int, bool) {
		if row >= atRow {
			return row + delta, col, true
		}
		return row, col, true
	})
}

// ShiftFormulaCols moves every reference to a column at or right of atCol by
// delta columns.
func ShiftFormulaCols(formula string, atCol, delta int) string {
	if delta == 0 {
		return formula
	}
	return rewriteFormula(formula, func(row, col int) (int, int, bool) {
		if col >= atCol {
			return row, col + delta, true
		}
		return row, col, true
	})
}

// DeleteFormulaCols rewrites references after the given columns were removed.
// deleted must be sorted ascending without duplicates.
func DeleteFormulaCols(formula string, deleted []int) string {
	if len(deleted) == 0 {
		return formula
	}
	return rewriteFormula(formula, func(row, col int) (int, int, bool) {
		n := 0
		for _, d := range deleted {
			if d == col {
				return row, col, false
			}
			if d < col {
				n++
			}
		}
		return row, col - n, true
	})
}

// rewriteFormula applies fn to every cell reference found in range operands of
// formula. String literals, function names and everything else keep their
// exact original text.
func rewriteFormula(formula string, fn refMapper) string {
	if formula == "" {
		return formula
	}
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)

	var b strings.Builder
	cursor := 0
	for _, tok := range tokens {
		if tok.TValue == "" {
			continue
		}
		idx := strings.Index(formula[cursor:], tok.TValue)
		if idx < 0 {
			// Escaped quotes inside string literals do not round-trip through
			// the tokenizer; fall back to the quote-aware scanner.
			return rewriteOutsideQuotes(formula, fn)
		}
		start := cursor + idx
		end := start + len(tok.TValue)
		if tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeRange {
			b.WriteString(formula[cursor:start])
			b.WriteString(rewriteOperand(tok.TValue, fn))
		} else {
			b.WriteString(formula[cursor:end])
		}
		cursor = end
	}
	b.WriteString(formula[cursor:])
	return b.String()
}

// rewriteOutsideQuotes rewrites references in every segment of formula that is
// not inside a double-quoted string literal.
func rewriteOutsideQuotes(formula string, fn refMapper) string {
	var b strings.Builder
	inString := false
	segStart := 0
	for i := 0; i < len(formula); i++ {
		if formula[i] != '"' {
			continue
		}
		if !inString {
			b.WriteString(rewriteRefs(formula[segStart:i], fn))
			segStart = i
			inString = true
			continue
		}
		if i+1 < len(formula) && formula[i+1] == '"' {
			i++
			continue
		}
		b.WriteString(formula[segStart : i+1])
		segStart = i + 1
		inString = false
	}
	if inString {
		b.WriteString(formula[segStart:])
	} else {
		b.WriteString(rewriteRefs(formula[segStart:], fn))
	}
	return b.String()
}

// rewriteOperand rewrites a range operand such as "A1", "$B$2:C9" or
// "Sheet1!A1". The sheet prefix is never touched.
func rewriteOperand(operand string, fn refMapper) string {
	prefix := ""
	body := operand
	if idx := strings.LastIndex(operand, "!"); idx >= 0 {
		prefix, body = operand[:idx+1], operand[idx+1:]
	}
	out := rewriteRefs(body, fn)
	if strings.Contains(out, refREF) {
		return refREF
	}
	return prefix + out
}

// rewriteRefs rewrites each standalone reference in s. Matches are processed
// in reverse so earlier indexes stay valid. Whole-row ranges are mapped with
// col -1 and whole-column ranges with row -1.
func rewriteRefs(s string, fn refMapper) string {
	matches := refRegex.FindAllStringSubmatchIndex(s, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if !isRefBoundary(s, m[0], m[1]) {
			continue
		}
		group := func(k int) string { return s[m[2*k]:m[2*k+1]] }

		var replacement string
		var ok bool
		switch {
		case m[2] >= 0:
			replacement, ok = mapCell(group(1), group(2), group(3), group(4), fn)
		case m[10] >= 0:
			replacement, ok = mapRowSpan(group(5), group(6), group(7), group(8), fn)
		default:
			replacement, ok = mapColSpan(group(9), group(10), group(11), group(12), fn)
		}
		if !ok {
			continue
		}
		s = s[:m[0]] + replacement + s[m[1]:]
	}
	return s
}

// mapCell maps one cell reference. ok=false leaves the text untouched.
func mapCell(colAbs, colName, rowAbs, rowDigits string, fn refMapper) (string, bool) {
	col, err := NameToCol(colName)
	if err != nil {
		return "", false
	}
	rowNum, err := strconv.Atoi(rowDigits)
	if err != nil || rowNum < 1 {
		return "", false
	}
	newRow, newCol, ok := fn(rowNum-1, col)
	if !ok || newRow < 0 || newCol < 0 {
		return refREF, true
	}
	return colAbs + colLetters(newCol, colName) + rowAbs + strconv.Itoa(newRow+1), true
}

// mapRowSpan maps a whole-row range such as "2:3".
func mapRowSpan(abs1, first, abs2, last string, fn refMapper) (string, bool) {
	out := make([]string, 0, 2)
	for _, p := range [][2]string{{abs1, first}, {abs2, last}} {
		rowNum, err := strconv.Atoi(p[1])
		if err != nil || rowNum < 1 {
			return "", false
		}
		newRow, _, ok := fn(rowNum-1, -1)
		if !ok || newRow < 0 {
			return refREF, true
		}
		out = append(out, p[0]+strconv.Itoa(newRow+1))
	}
	return out[0] + ":" + out[1], true
}

// mapColSpan maps a whole-column range such as "A:C".
func mapColSpan(abs1, first, abs2, last string, fn refMapper) (string, bool) {
	out := make([]string, 0, 2)
	for _, p := range [][2]string{{abs1, first}, {abs2, last}} {
		col, err := NameToCol(p[1])
		if err != nil {
			return "", false
		}
		_, newCol, ok := fn(-1, col)
		if !ok || newCol < 0 {
			return refREF, true
		}
		out = append(out, p[0]+colLetters(newCol, p[1]))
	}
	return out[0] + ":" + out[1], true
}

// colLetters names col in the letter case the reference was written in.
func colLetters(col int, written string) string {
	name := ColToName(col)
	if written == strings.ToLower(written) {
		return strings.ToLower(name)
	}
	return name
}

// isRefBoundary reports whether s[start:end] stands alone rather than being
// part of a longer identifier or a function name.
func isRefBoundary(s string, start, end int) bool {
	if start > 0 {
		p := s[start-1]
		if isAlpha(p) || isDigit(p) || p == '_' || p == '.' {
			return false
		}
	}
	if end < len(s) {
		n := s[end]
		if isAlpha(n) || isDigit(n) || n == '_' || n == '(' || n == '.' {
			return false
		}
	}
	return true
}

// SumFormula builds "=SUM(ref1,ref2,…)" over refs in the given order.
func SumFormula(refs []CellRef) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.CellName()
	}
	return "=SUM(" + strings.Join(names, ",") + ")"
}

// ProductFormula builds "ref1*ref2*…"; a single ref yields the bare reference.
func ProductFormula(refs []CellRef) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.CellName()
	}
	return strings.Join(names, "*")
}
