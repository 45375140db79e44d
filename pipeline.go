package xlbudget

import (
	"errors"
	"fmt"
)

// Stage is one step of the fixed ledger pipeline. Apply mutates the grid in
// place; on error the grid must be discarded.
type Stage interface {
	Name() string
	Apply(g *Grid, obs Observer) error
}

type stageFunc struct {
	name string
	fn   func(g *Grid, obs Observer) error
}

func (s stageFunc) Name() string                      { return s.name }
func (s stageFunc) Apply(g *Grid, obs Observer) error { return s.fn(g, obs) }

func edit(name string, fn func(g *Grid) error) Stage {
	return stageFunc{name: name, fn: func(g *Grid, _ Observer) error { return fn(g) }}
}

// Stage names, in pipeline order.
const (
	StageUnmerge      = "unmerge"
	StageUnwrap       = "unwrap"
	StageDropColumns  = "drop-columns"
	StageSplitSpace   = "split-description"
	StageSplitDot     = "split-code"
	StageDropCodeTail = "drop-code-tail"
	StageSplitBracket = "split-bracket"
	StageSplitVolume  = "split-volume"
	StageMarkerRows   = "marker-rows"
	StageProducts     = "products"
	StageLineTotals   = "line-totals"
	StageSubtotals    = "subtotals"
)

// DefaultStages returns the ledger pipeline. The sequence is fixed; options
// only enable marker padding and choose the subtotal scan direction.
func DefaultStages(o *Options) ([]Stage, error) {
	if o == nil {
		o = defaultOptions()
	}
	stages := []Stage{
		edit(StageUnmerge, Unmerge),
		edit(StageUnwrap, NormalizeText),
		edit(StageDropColumns, func(g *Grid) error { return DeleteColumns(g, []int{1, 2}) }),
		edit(StageSplitSpace, func(g *Grid) error {
			if err := InsertBlankColumns(g, 4, 3); err != nil {
				return err
			}
			return SplitColumn(g, 4, " ")
		}),
		edit(StageSplitDot, func(g *Grid) error {
			if err := InsertBlankColumns(g, 4, 1); err != nil {
				return err
			}
			return SplitColumn(g, 4, ".")
		}),
		edit(StageDropCodeTail, func(g *Grid) error { return DeleteColumns(g, []int{5}) }),
		edit(StageSplitBracket, func(g *Grid) error { return SplitColumn(g, 2, "[") }),
		edit(StageSplitVolume, func(g *Grid) error {
			if err := InsertBlankColumns(g, 3, 10); err != nil {
				return err
			}
			if err := SplitColumn(g, 3, "]"); err != nil {
				return err
			}
			return SplitColumn(g, 3, " ")
		}),
	}

	match, err := o.markerMatcher()
	if err != nil {
		return nil, err
	}
	if match != nil {
		stages = append(stages, stageFunc{name: StageMarkerRows, fn: MarkerRowInserter{Match: match}.Apply})
	}

	sub := DefaultSubtotalSynthesizer()
	sub.Direction = o.direction
	stages = append(stages,
		stageFunc{name: StageProducts, fn: DefaultProductSynthesizer().Apply},
		stageFunc{name: StageLineTotals, fn: DefaultLineTotalSynthesizer().Apply},
		stageFunc{name: StageSubtotals, fn: sub.Apply},
	)
	return stages, nil
}

// Pipeline runs stages over one sheet's grid.
type Pipeline struct {
	stages []Stage
	obs    Observer
}

// NewPipeline builds the default pipeline for the given options.
func NewPipeline(opts ...Option) (*Pipeline, error) {
	o := newOptions(opts)
	stages, err := DefaultStages(o)
	if err != nil {
		return nil, err
	}
	return &Pipeline{stages: stages, obs: o.observer()}, nil
}

// Stages returns the names of the stages in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run applies every stage in order. The first failure is returned as a
// *StageError and stops the run.
func (p *Pipeline) Run(sheet string, g *Grid) error {
	if err := g.Check(); err != nil {
		return NewStageError(sheet, "input", err)
	}
	obs := Observer(sheetObserver{sheet: sheet, next: observerOrNop(p.obs)})
	for _, s := range p.stages {
		if err := s.Apply(g, obs); err != nil {
			var se *StageError
			if errors.As(err, &se) {
				return err
			}
			return NewStageError(sheet, s.Name(), err)
		}
		obs.Observe(Event{Kind: EventStageDone, Stage: s.Name()})
	}
	g.collapse()
	return nil
}

// Process runs the default pipeline over a single grid.
func Process(g *Grid, opts ...Option) error {
	p, err := NewPipeline(opts...)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	return p.Run("", g)
}
