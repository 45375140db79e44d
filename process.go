package xlbudget

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetResult summarizes the processing of one sheet.
type SheetResult struct {
	Sheet    string
	Skipped  bool // not selected by WithSheets
	Range    Range
	Formulas int
	Duration time.Duration
	Err      error
}

// Report lists the per-sheet results in sheet order.
type Report struct {
	Sheets []SheetResult
}

// Formulas returns the total number of formula cells across processed sheets.
func (r *Report) Formulas() int {
	n := 0
	for _, s := range r.Sheets {
		n += s.Formulas
	}
	return n
}

// ProcessFile reads inputPath, runs the pipeline over its sheets and writes
// the result to outputPath. The output file is removed on failure.
func ProcessFile(inputPath, outputPath string, opts ...Option) (*Report, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("open input %q: %w", inputPath, err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create output file %q: %w", outputPath, err)
	}
	defer out.Close()

	rep, err := ProcessReader(in, out, opts...)
	if err != nil {
		os.Remove(outputPath)
		return rep, err
	}
	return rep, nil
}

// ProcessBytes processes an xlsx held in memory and returns the output bytes.
func ProcessBytes(data []byte, opts ...Option) ([]byte, *Report, error) {
	var buf bytes.Buffer
	rep, err := ProcessReader(bytes.NewReader(data), &buf, opts...)
	if err != nil {
		return nil, rep, err
	}
	return buf.Bytes(), rep, nil
}

// ProcessReader processes an xlsx read from r and writes the output to w.
// Nothing is written when any sheet fails.
func ProcessReader(r io.Reader, w io.Writer, opts ...Option) (*Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb, err := ReadWorkbook(f)
	if err != nil {
		return nil, err
	}
	rep, err := ProcessWorkbook(wb, opts...)
	if err != nil {
		return rep, err
	}

	out, err := WriteWorkbook(wb)
	if err != nil {
		return rep, err
	}
	defer out.Close()
	if err := out.Write(w); err != nil {
		return rep, fmt.Errorf("write workbook: %w", err)
	}
	return rep, nil
}

// ProcessWorkbook runs the pipeline over every selected sheet in place.
// Sheets are independent, so up to WithWorkers of them run in parallel, each
// worker owning its sheet's grid. All sheet failures are joined.
func ProcessWorkbook(wb *Workbook, opts ...Option) (*Report, error) {
	o := newOptions(opts)
	stages, err := DefaultStages(o)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	p := &Pipeline{stages: stages, obs: o.observer()}

	rep := &Report{Sheets: make([]SheetResult, len(wb.Sheets))}
	sem := make(chan struct{}, o.workers)
	var wg sync.WaitGroup
	for i, s := range wb.Sheets {
		rep.Sheets[i] = SheetResult{Sheet: s.Name}
		if !o.wantsSheet(s.Name) {
			rep.Sheets[i].Skipped = true
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(res *SheetResult, s *Sheet) {
			defer wg.Done()
			defer func() { <-sem }()
			start := time.Now()
			res.Err = p.Run(s.Name, s.Grid)
			res.Duration = time.Since(start)
			if res.Err == nil {
				res.Range = s.Grid.UsedRange()
				res.Formulas = countFormulas(s.Grid)
			}
		}(&rep.Sheets[i], s)
	}
	wg.Wait()

	var errs []error
	for _, res := range rep.Sheets {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return rep, errors.Join(errs...)
}

func countFormulas(g *Grid) int {
	n := 0
	for _, c := range g.cells {
		if c.HasFormula() {
			n++
		}
	}
	return n
}
