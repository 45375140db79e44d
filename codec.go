package xlbudget

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet read into a grid.
type Sheet struct {
	Name string
	Grid *Grid
}

// Workbook holds every sheet of a workbook in sheet order.
type Workbook struct {
	Sheets []*Sheet
}

// Sheet returns the named sheet, or nil.
func (wb *Workbook) Sheet(name string) *Sheet {
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// ReadWorkbook reads every sheet of f into a grid.
func ReadWorkbook(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		g, err := ReadSheet(f, name)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, &Sheet{Name: name, Grid: g})
	}
	return wb, nil
}

// ReadSheet reads one sheet. The declared dimension becomes the used range; a
// sheet without a dimension element uses its occupied range instead, and an
// unparseable dimension yields ErrInvalidGrid.
//
// Only cells present in the sheet data have their formulas and types looked up.
// Cells covered by a merge region keep their own raw text: excelize reports
// the top-left formula for them, which would otherwise be copied.
func ReadSheet(f *excelize.File, sheet string) (*Grid, error) {
	g := NewGrid()

	dim, err := f.GetSheetDimension(sheet)
	if err != nil {
		return nil, fmt.Errorf("read dimension of sheet %q: %w", sheet, err)
	}
	if dim != "" {
		if err := g.SetDimension(dim); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("read merges from sheet %q: %w", sheet, err)
	}
	var regions []Range
	for _, m := range merges {
		r, err := ParseRange(m.GetStartAxis() + ":" + m.GetEndAxis())
		if err != nil {
			continue
		}
		regions = append(regions, r)
	}
	covered := func(ref CellRef) bool {
		for _, r := range regions {
			if r.Contains(ref) && ref != r.First() {
				return true
			}
		}
		return false
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	defer rows.Close()
	for r := 0; rows.Next(); r++ {
		row, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read row %d of sheet %q: %w", r+1, sheet, err)
		}
		for c, val := range row {
			ref := NewCellRef(r, c)
			if covered(ref) {
				if val != "" {
					g.Set(ref, NewStringCell(val))
				}
				continue
			}
			cell, err := readCell(f, sheet, ref.CellName(), val)
			if err != nil {
				return nil, err
			}
			if cell != nil {
				g.Set(ref, cell)
			}
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}

	for _, r := range regions {
		g.AddMerge(r)
	}
	return g, nil
}

func readCell(f *excelize.File, sheet, name, val string) (*Cell, error) {
	formula, err := f.GetCellFormula(sheet, name)
	if err != nil {
		return nil, fmt.Errorf("read formula %s!%s: %w", sheet, name, err)
	}
	if val == "" && formula == "" {
		return nil, nil
	}

	cell := NewStringCell(val)
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return nil, fmt.Errorf("read type %s!%s: %w", sheet, name, err)
	}
	if typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset || formula != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			cell = NewNumberCell(v)
		}
	}
	if formula != "" {
		cell.SetFormula(formula)
	}
	return cell, nil
}

// WriteWorkbook renders the workbook into a new excelize file. Formulas are
// written without their leading "=", which excelize adds itself.
func WriteWorkbook(wb *Workbook) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, s := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return nil, fmt.Errorf("rename sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", s.Name, err)
		}
		if err := WriteSheet(f, s.Name, s.Grid); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteSheet writes every present cell and merge region of g into sheet and
// records the used range as the sheet dimension.
func WriteSheet(f *excelize.File, sheet string, g *Grid) error {
	for _, ref := range g.Refs() {
		cell := g.Get(ref)
		name := ref.CellName()
		var err error
		switch {
		case cell.HasFormula():
			err = f.SetCellFormula(sheet, name, strings.TrimPrefix(cell.Formula, "="))
		case cell.Type == CellNumber:
			if v, ok := cell.Value.(float64); ok {
				err = f.SetCellFloat(sheet, name, v, -1, 64)
			} else {
				err = f.SetCellValue(sheet, name, cell.Value)
			}
		default:
			err = f.SetCellStr(sheet, name, cell.Text())
		}
		if err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, name, err)
		}
	}
	if err := f.SetSheetDimension(sheet, g.UsedRange().String()); err != nil {
		return fmt.Errorf("set dimension of sheet %q: %w", sheet, err)
	}
	for _, m := range g.Merges() {
		if err := f.MergeCell(sheet, m.First().CellName(), m.Last().CellName()); err != nil {
			return fmt.Errorf("merge %s!%s: %w", sheet, m, err)
		}
	}
	return nil
}
