package xlbudget

import (
	"fmt"
	"regexp"

	"github.com/xuri/excelize/v2"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // processing will fail
	SeverityWarning                 // processing succeeds but the output may be incomplete
)

// ValidationIssue represents a single problem found in a sheet.
type ValidationIssue struct {
	Severity Severity
	Sheet    string
	CellRef  CellRef
	Message  string
}

// String formats the issue as "[ERROR] Sheet1!A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	if v.Sheet == "" {
		return fmt.Sprintf("[%s] %s: %s", sev, v.CellRef, v.Message)
	}
	return fmt.Sprintf("[%s] %s!%s: %s", sev, v.Sheet, v.CellRef, v.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []ValidationIssue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// codeLike matches lead text that looks like a ledger code: digits, optionally
// followed by dotted groups.
var codeLike = regexp.MustCompile(`^\d+(\.[0-9A-Za-z]+)*$`)

// Validate runs the structural stages over a copy of g and checks the
// resulting layout for subtotal problems. g is not modified.
func Validate(g *Grid, opts ...Option) []ValidationIssue {
	return validateSheet("", g, newOptions(opts))
}

// ValidateWorkbook validates every selected sheet of wb.
func ValidateWorkbook(wb *Workbook, opts ...Option) []ValidationIssue {
	o := newOptions(opts)
	var issues []ValidationIssue
	for _, s := range wb.Sheets {
		if !o.wantsSheet(s.Name) {
			continue
		}
		issues = append(issues, validateSheet(s.Name, s.Grid, o)...)
	}
	return issues
}

// ValidateFile opens the workbook at path and validates it. A non-nil error
// indicates the file could not be opened or read at all.
func ValidateFile(path string, opts ...Option) ([]ValidationIssue, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()

	wb, err := ReadWorkbook(f)
	if err != nil {
		return nil, err
	}
	return ValidateWorkbook(wb, opts...), nil
}

func validateSheet(sheet string, g *Grid, o *Options) []ValidationIssue {
	errorIssue := func(err error) []ValidationIssue {
		return []ValidationIssue{{Severity: SeverityError, Sheet: sheet, Message: err.Error()}}
	}

	sub, prepared, err := prepare(g, o)
	if err != nil {
		return errorIssue(err)
	}
	plan, err := sub.Plan(prepared, nil)
	if err != nil {
		return errorIssue(err)
	}

	var issues []ValidationIssue
	classified := make(map[int]bool, len(plan))
	for _, st := range plan {
		classified[st.Row] = true
		if len(st.Rows) > 0 {
			continue
		}
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			Sheet:    sheet,
			CellRef:  NewCellRef(st.Row, sub.LeadCol),
			Message:  fmt.Sprintf("%s row has no child rows; subtotal left untouched", st.Rule),
		})
	}

	used := prepared.UsedRange()
	for r := used.MinRow; r <= used.MaxRow; r++ {
		if classified[r] {
			continue
		}
		ref := NewCellRef(r, sub.LeadCol)
		lead := prepared.Text(ref)
		if codeLike.MatchString(lead) {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Sheet:    sheet,
				CellRef:  ref,
				Message:  fmt.Sprintf("code %q matches no subtotal rule", lead),
			})
		}
	}
	return issues
}

// prepare runs every stage before subtotal synthesis over a copy of g and
// returns the subtotal synthesizer the pipeline would use with it.
func prepare(g *Grid, o *Options) (SubtotalSynthesizer, *Grid, error) {
	sub := DefaultSubtotalSynthesizer()
	sub.Direction = o.direction
	if err := g.Check(); err != nil {
		return sub, nil, err
	}
	stages, err := DefaultStages(o)
	if err != nil {
		return sub, nil, err
	}
	cp := g.Clone()
	for _, s := range stages {
		if s.Name() == StageSubtotals {
			break
		}
		if err := s.Apply(cp, nil); err != nil {
			return sub, nil, NewStageError("", s.Name(), err)
		}
	}
	return sub, cp, nil
}
