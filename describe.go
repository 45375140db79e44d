package xlbudget

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Describe returns a human-readable outline of what the pipeline would do to
// g: its ranges and merges, the stages, and every classified row with its
// planned subtotal. g is not modified.
func Describe(g *Grid, opts ...Option) (string, error) {
	var b strings.Builder
	if err := describeSheet(&b, "", g, newOptions(opts)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DescribeFile opens the workbook at path and describes every selected sheet.
func DescribeFile(path string, opts ...Option) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()

	wb, err := ReadWorkbook(f)
	if err != nil {
		return "", err
	}

	o := newOptions(opts)
	var b strings.Builder
	fmt.Fprintf(&b, "Workbook: %s\n", path)
	for _, s := range wb.Sheets {
		if !o.wantsSheet(s.Name) {
			fmt.Fprintf(&b, "Sheet %q skipped\n", s.Name)
			continue
		}
		if err := describeSheet(&b, s.Name, s.Grid, o); err != nil {
			return "", fmt.Errorf("sheet %q: %w", s.Name, err)
		}
	}
	return b.String(), nil
}

func describeSheet(b *strings.Builder, name string, g *Grid, o *Options) error {
	sub, prepared, err := prepare(g, o)
	if err != nil {
		return err
	}
	plan, err := sub.Plan(prepared, nil)
	if err != nil {
		return err
	}

	if name != "" {
		fmt.Fprintf(b, "Sheet %q\n", name)
	}
	in := g.UsedRange()
	out := prepared.UsedRange()
	fmt.Fprintf(b, "  Input:  %s (%dx%d), %d cells, %d merges\n", in, in.Width(), in.Height(), g.Len(), len(g.Merges()))
	fmt.Fprintf(b, "  Layout: %s (%dx%d)\n", out, out.Width(), out.Height())

	stages, err := DefaultStages(o)
	if err != nil {
		return err
	}
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name()
	}
	fmt.Fprintf(b, "  Stages: %s\n", strings.Join(names, " > "))
	fmt.Fprintf(b, "  Subtotals (scan %s):\n", sub.Direction)
	if len(plan) == 0 {
		b.WriteString("    none\n")
		return nil
	}

	// Plan order follows the visiting order; print top to bottom.
	for i := range plan {
		st := plan[len(plan)-1-i]
		if sub.Direction == ScanAbove {
			st = plan[i]
		}
		lead := prepared.Text(NewCellRef(st.Row, sub.LeadCol))
		target := NewCellRef(st.Row, sub.ChildrenCol).CellName()
		formula := st.Formula
		if formula == "" {
			formula = "(no children)"
		}
		fmt.Fprintf(b, "    %-6s %-14s %-14q %s\n", target, st.Rule, lead, formula)
	}
	return nil
}
