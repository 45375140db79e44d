package xlbudget

import (
	"errors"
	"fmt"
)

// ErrInvalidGrid indicates a grid whose used-range descriptor is missing or
// cannot be parsed. Operations return it before mutating anything.
var ErrInvalidGrid = errors.New("invalid grid")

// StageError reports which pipeline stage failed, and on which sheet.
type StageError struct {
	Sheet string
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("stage %q: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("sheet %q stage %q: %v", e.Sheet, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(sheet, stage string, err error) *StageError {
	return &StageError{Sheet: sheet, Stage: stage, Err: err}
}
