package calibrate

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/mkrivan/garchcal/pkg/garch"
	"github.com/mkrivan/garchcal/pkg/series"
	"github.com/mkrivan/garchcal/pkg/utility/random"
)

// Grid holds the discretized candidate values per parameter. The grid
// path searches GARCH(1,1) sets; higher orders go through MultiStart.
type Grid struct {
	Omega           []float64
	Alpha           []float64
	Beta            []float64
	Drift           []float64
	InitialVariance []float64
	VolatilityScale []float64
}

func DefaultGrid() Grid {
	return Grid{
		Omega:           []float64{0.00005, 0.0001, 0.0002, 0.0005},
		Alpha:           []float64{0.05, 0.08, 0.12, 0.15, 0.20},
		Beta:            []float64{0.80, 0.85, 0.90, 0.92, 0.95},
		Drift:           []float64{0.006, 0.008, 0.010, 0.012},
		InitialVariance: []float64{0.001, 0.002, 0.003, 0.004},
		VolatilityScale: []float64{0.8, 0.9, 1.0, 1.1, 1.2},
	}
}

// Combinations is the full cartesian product size, infeasible cells
// included.
func (g Grid) Combinations() int {
	return len(g.Omega) * len(g.Alpha) * len(g.Beta) *
		len(g.Drift) * len(g.InitialVariance) * len(g.VolatilityScale)
}

// ProgressFunc receives the number of evaluated combinations, the total
// combination count and the best objective so far.
type ProgressFunc func(evaluated, total int, best float64)

// GridSearch exhaustively evaluates every stationary grid cell and keeps
// the running minimum. Deterministic for a fixed grid and root seed, also
// under parallel evaluation: candidate streams are derived from the cell
// index and ties resolve toward the lower index.
type GridSearch struct {
	grid       Grid
	weights    Weights
	sampleSize int
	workers    int
	seq        *random.Seq
	progress   ProgressFunc
}

type GridOption func(*GridSearch)

func WithGrid(g Grid) GridOption {
	return func(gs *GridSearch) { gs.grid = g }
}

func WithGridWeights(w Weights) GridOption {
	return func(gs *GridSearch) { gs.weights = w }
}

func WithGridSampleSize(n int) GridOption {
	return func(gs *GridSearch) { gs.sampleSize = n }
}

func WithGridWorkers(n int) GridOption {
	return func(gs *GridSearch) {
		if n > 0 {
			gs.workers = n
		}
	}
}

func WithGridSeq(seq *random.Seq) GridOption {
	return func(gs *GridSearch) { gs.seq = seq }
}

func WithGridProgress(fn ProgressFunc) GridOption {
	return func(gs *GridSearch) { gs.progress = fn }
}

func NewGridSearch(options ...GridOption) *GridSearch {
	gs := &GridSearch{
		grid:       DefaultGrid(),
		weights:    GridWeights(),
		sampleSize: 5000,
		workers:    runtime.NumCPU(),
		seq:        random.NewSeq(0),
	}
	for _, option := range options {
		option(gs)
	}
	return gs
}

type gridCandidate struct {
	idx    int
	params garch.Parameters
}

type gridScore struct {
	idx       int
	params    garch.Parameters
	objective float64
	err       error
}

// Search never fails on a valid target; cancellation returns the best
// result found so far. Success reports whether any combination was
// evaluated.
func (gs *GridSearch) Search(ctx context.Context, target series.Summary) Result {
	result := newResult("grid")
	start := time.Now()

	total := gs.grid.Combinations()
	eval := NewEvaluator(gs.weights, target, gs.sampleSize)

	slog.Info("starting grid search",
		"run_id", result.RunID,
		"combinations", total,
		"sample_size", gs.sampleSize,
		"workers", gs.workers,
		"seed", gs.seq.Root())

	tasks := make(chan gridCandidate)
	scores := make(chan gridScore)

	var wg sync.WaitGroup
	for w := 0; w < gs.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range tasks {
				obj, err := eval.Score(c.params, gs.seq.Stream(uint64(c.idx)))
				scores <- gridScore{idx: c.idx, params: c.params, objective: obj, err: err}
			}
		}()
	}

	skipped := 0
	go func() {
		defer close(tasks)
		idx := -1
		for _, omega := range gs.grid.Omega {
			for _, alpha := range gs.grid.Alpha {
				for _, beta := range gs.grid.Beta {
					for _, drift := range gs.grid.Drift {
						for _, v0 := range gs.grid.InitialVariance {
							for _, scale := range gs.grid.VolatilityScale {
								idx++
								if alpha+beta >= 1 {
									continue
								}
								c := gridCandidate{
									idx: idx,
									params: garch.Parameters{
										Omega:           omega,
										Alpha:           []float64{alpha},
										Beta:            []float64{beta},
										Drift:           drift,
										InitialVariance: v0,
										VolatilityScale: scale,
									},
								}
								select {
								case tasks <- c:
								case <-ctx.Done():
									return
								}
							}
						}
					}
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(scores)
	}()

	best := math.Inf(1)
	bestIdx := -1
	var bestParams garch.Parameters
	evaluated := 0

	for s := range scores {
		if s.err != nil {
			slog.Warn("skipping combination", "idx", s.idx, "error", s.err)
			continue
		}
		evaluated++
		if s.objective < best || (s.objective == best && s.idx < bestIdx) {
			best = s.objective
			bestIdx = s.idx
			bestParams = s.params
		}
		if evaluated%100 == 0 {
			slog.Info("grid search progress", "evaluated", evaluated, "total", total, "best", best)
		}
		if gs.progress != nil {
			gs.progress(evaluated, total, best)
		}
	}

	// Count feasibility skips for the final log line.
	for _, alpha := range gs.grid.Alpha {
		for _, beta := range gs.grid.Beta {
			if alpha+beta >= 1 {
				skipped += len(gs.grid.Omega) * len(gs.grid.Drift) *
					len(gs.grid.InitialVariance) * len(gs.grid.VolatilityScale)
			}
		}
	}

	result.Params = bestParams
	result.Objective = best
	result.Success = evaluated > 0 && !math.IsInf(best, 1)
	result.Evaluations = evaluated
	result.Elapsed = time.Since(start)
	if result.Success {
		result.annotateStationarity()
	}

	slog.Info("grid search finished",
		"run_id", result.RunID,
		"evaluated", evaluated,
		"skipped_non_stationary", skipped,
		"best", best,
		"elapsed", result.Elapsed)

	return result
}
