package calibrate

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkrivan/garchcal/pkg/garch"
)

// Result is the outcome of one optimization run. A failed search is still
// a Result with Success unset, never a raised error.
type Result struct {
	RunID       uuid.UUID
	Params      garch.Parameters
	Objective   float64
	Success     bool
	Method      string
	StartIndex  int
	SolverName  string
	Evaluations int
	Elapsed     time.Duration
	Warnings    []string
}

func newResult(method string) Result {
	return Result{
		RunID:  uuid.Must(uuid.NewV7()),
		Method: method,
	}
}

// annotateStationarity surfaces a constraint violation on the winning
// parameters as a warning. It never invalidates the result.
func (r *Result) annotateStationarity() {
	if !r.Params.Stationary() {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("%v: persistence %.4f >= 1", ErrNotStationary, r.Params.Persistence()))
	}
}
