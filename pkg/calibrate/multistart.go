package calibrate

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mkrivan/garchcal/pkg/garch"
	"github.com/mkrivan/garchcal/pkg/series"
	"github.com/mkrivan/garchcal/pkg/utility/random"
)

// stationarityMargin keeps solved parameter sets strictly inside the
// Persistence < 1 region.
const stationarityMargin = 1e-3

// Attempt is the tagged outcome of one (start, solver) task. Either Err
// is set, or Params carry a solved set with its validated objective.
type Attempt struct {
	StartIndex int
	Solver     string
	Params     garch.Parameters
	Objective  float64
	Err        error
}

// MultiStart runs every local solver from every starting point, then
// keeps the best attempt after re-scoring each success with an
// independent full-size re-simulation. The volatility scale is not part
// of the solver vector; it is solved per evaluation by ScaleSolver,
// and the objective therefore excludes the std term.
type MultiStart struct {
	starts     []garch.Parameters
	solvers    []localSolver
	weights    Weights
	inLoopSize int
	fullSize   int
	workers    int
	seq        *random.Seq
}

type MultiStartOption func(*MultiStart)

func WithStarts(starts []garch.Parameters) MultiStartOption {
	return func(ms *MultiStart) {
		if len(starts) > 0 {
			ms.starts = starts
		}
	}
}

func WithSolvers(solvers ...localSolver) MultiStartOption {
	return func(ms *MultiStart) {
		if len(solvers) > 0 {
			ms.solvers = solvers
		}
	}
}

func WithMultiStartWeights(w Weights) MultiStartOption {
	return func(ms *MultiStart) { ms.weights = w }
}

// WithSampleSizes sets the in-loop and validation sample sizes. The
// in-loop size is deliberately smaller; successful attempts are
// re-scored at the full size to cut evaluation noise before comparison.
func WithSampleSizes(inLoop, full int) MultiStartOption {
	return func(ms *MultiStart) {
		if inLoop > 0 {
			ms.inLoopSize = inLoop
		}
		if full > 0 {
			ms.fullSize = full
		}
	}
}

func WithMultiStartWorkers(n int) MultiStartOption {
	return func(ms *MultiStart) {
		if n > 0 {
			ms.workers = n
		}
	}
}

func WithMultiStartSeq(seq *random.Seq) MultiStartOption {
	return func(ms *MultiStart) { ms.seq = seq }
}

// DefaultStarts are the hand-chosen starting points. The first is the
// usual GARCH(1,1) guess; the last seeds the higher-order search.
func DefaultStarts() []garch.Parameters {
	return []garch.Parameters{
		{Omega: 0.0002, Alpha: []float64{0.15}, Beta: []float64{0.80}, Drift: 0.010, InitialVariance: 0.003},
		{Omega: 0.0001, Alpha: []float64{0.08}, Beta: []float64{0.90}, Drift: 0.008, InitialVariance: 0.002},
		{Omega: 0.00005, Alpha: []float64{0.05, 0.03}, Beta: []float64{0.85}, Drift: 0.010, InitialVariance: 0.002},
		{Omega: 0.00012, Alpha: []float64{0.06, 0.04, 0.02}, Beta: []float64{0.80, 0.06}, Drift: 0.0098, InitialVariance: 0.0018},
	}
}

func defaultSolvers() []localSolver {
	return []localSolver{
		nelderMead{label: "nelder-mead", maxIter: 100, ftol: 1e-6},
		coordinateDescent{
			maxEvals:    200,
			tol:         1e-6,
			initialStep: 0.05,
			backtrack:   0.5,
			minStep:     1e-4,
		},
		nelderMead{label: "nelder-mead-penalty", maxIter: 100, ftol: 1e-6, constrained: true},
	}
}

func NewMultiStart(options ...MultiStartOption) *MultiStart {
	ms := &MultiStart{
		starts:     DefaultStarts(),
		solvers:    defaultSolvers(),
		weights:    MultiStartWeights(),
		inLoopSize: 4000,
		fullSize:   10000,
		workers:    runtime.NumCPU(),
		seq:        random.NewSeq(0),
	}
	for _, option := range options {
		option(ms)
	}
	return ms
}

// Search runs the (start x solver) task list and folds the tagged
// attempts with a keep-best-validated reduction. When every attempt
// fails, the first starting point comes back with Success unset.
func (ms *MultiStart) Search(ctx context.Context, target series.Summary) Result {
	result := newResult("multistart")
	start := time.Now()

	taskCount := len(ms.starts) * len(ms.solvers)
	slog.Info("starting multi-start search",
		"run_id", result.RunID,
		"starts", len(ms.starts),
		"solvers", len(ms.solvers),
		"in_loop_sample_size", ms.inLoopSize,
		"validation_sample_size", ms.fullSize,
		"seed", ms.seq.Root())

	var evaluations atomic.Int64

	type task struct {
		attemptIdx int
		startIdx   int
		solverIdx  int
	}
	tasks := make(chan task)
	attempts := make(chan Attempt)

	workers := ms.workers
	if workers > taskCount {
		workers = taskCount
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tk := range tasks {
				attempts <- ms.attempt(ctx, target, tk.attemptIdx, tk.startIdx, tk.solverIdx, &evaluations)
			}
		}()
	}

	go func() {
		defer close(tasks)
		idx := 0
		for si := range ms.starts {
			for vi := range ms.solvers {
				select {
				case tasks <- task{attemptIdx: idx, startIdx: si, solverIdx: vi}:
				case <-ctx.Done():
					return
				}
				idx++
			}
		}
	}()

	go func() {
		wg.Wait()
		close(attempts)
	}()

	best := math.Inf(1)
	bestStart, bestSolverIdx := -1, -1
	var bestParams garch.Parameters

	for a := range attempts {
		if a.Err != nil {
			slog.Warn("attempt failed",
				"start", a.StartIndex,
				"solver", a.Solver,
				"error", a.Err)
			continue
		}
		// Tie-break toward the earlier task for deterministic parallel
		// folds.
		better := a.Objective < best ||
			(a.Objective == best && (a.StartIndex < bestStart ||
				(a.StartIndex == bestStart && ms.solverIndex(a.Solver) < bestSolverIdx)))
		if better {
			best = a.Objective
			bestStart = a.StartIndex
			bestSolverIdx = ms.solverIndex(a.Solver)
			bestParams = a.Params
		}
		slog.Info("attempt validated",
			"start", a.StartIndex,
			"solver", a.Solver,
			"objective", a.Objective,
			"best", best)
	}

	result.Evaluations = int(evaluations.Load())
	result.Elapsed = time.Since(start)

	if bestStart < 0 {
		// Explicit failure result, not a raised fault.
		failed := ms.starts[0].Clone()
		failed.VolatilityScale = 1.0
		result.Params = failed
		result.Objective = math.Inf(1)
		slog.Warn("all attempts failed", "run_id", result.RunID, "tasks", taskCount)
		return result
	}

	result.Params = bestParams
	result.Objective = best
	result.Success = true
	result.StartIndex = bestStart
	result.SolverName = ms.solvers[bestSolverIdx].name()
	result.annotateStationarity()

	slog.Info("multi-start search finished",
		"run_id", result.RunID,
		"start", result.StartIndex,
		"solver", result.SolverName,
		"objective", result.Objective,
		"evaluations", result.Evaluations,
		"elapsed", result.Elapsed)

	return result
}

func (ms *MultiStart) solverIndex(name string) int {
	for i, s := range ms.solvers {
		if s.name() == name {
			return i
		}
	}
	return -1
}

// attempt runs one local solve and, on success, re-scores the solved
// parameters with an independent full-size re-simulation.
func (ms *MultiStart) attempt(ctx context.Context, target series.Summary, attemptIdx, startIdx, solverIdx int, evaluations *atomic.Int64) Attempt {
	startParams := ms.starts[startIdx]
	solver := ms.solvers[solverIdx]
	p, q := startParams.Order()

	// Every attempt owns a derived sub-sequence, so the outcome does not
	// depend on worker scheduling.
	seq := ms.seq.Derive(uint64(attemptIdx))

	inLoopEval := NewEvaluator(ms.weights, target, ms.inLoopSize)
	fullEval := NewEvaluator(ms.weights, target, ms.fullSize)
	scaleSolver := NewScaleSolver(ms.inLoopSize)

	objective := func(x []float64) float64 {
		params := decodeVector(x, p, q)
		scale, err := scaleSolver.Solve(params, target.Std, seq)
		if err != nil {
			return math.Inf(1)
		}
		params.VolatilityScale = scale
		score, err := inLoopEval.Score(params, seq.Next())
		if err != nil {
			return math.Inf(1)
		}
		evaluations.Add(1)
		return score
	}

	sv := solver
	if nm, ok := solver.(nelderMead); ok && nm.constrained {
		nm.penalty = stationarityPenalty(p, q)
		sv = nm
	}
	if cd, ok := solver.(coordinateDescent); ok {
		cd.feasible = func(x []float64) bool {
			return vectorPersistence(x, p, q) < 1-stationarityMargin
		}
		sv = cd
	}

	x, _, err := sv.minimize(ctx, objective, encodeVector(startParams), vectorBounds(p, q))
	if err != nil {
		// Budget exhaustion still yields a usable iterate; anything
		// else fails the attempt.
		if !errors.Is(err, ErrNotConverged) || x == nil {
			return Attempt{StartIndex: startIdx, Solver: solver.name(), Err: err}
		}
		slog.Debug("solver exhausted its budget, using best iterate",
			"start", startIdx, "solver", solver.name())
	}

	params := decodeVector(x, p, q)
	scale, err := NewScaleSolver(ms.fullSize).Solve(params, target.Std, seq)
	if err != nil {
		return Attempt{StartIndex: startIdx, Solver: solver.name(), Err: err}
	}
	params.VolatilityScale = scale

	validated, err := fullEval.Score(params, seq.Next())
	if err != nil {
		return Attempt{StartIndex: startIdx, Solver: solver.name(), Err: err}
	}

	return Attempt{
		StartIndex: startIdx,
		Solver:     solver.name(),
		Params:     params,
		Objective:  validated,
	}
}

// Vector layout: [omega, alpha_1..alpha_p, beta_1..beta_q, drift, v0].
// The volatility scale deliberately stays out of the vector.

func encodeVector(p garch.Parameters) []float64 {
	x := make([]float64, 0, 3+len(p.Alpha)+len(p.Beta))
	x = append(x, p.Omega)
	x = append(x, p.Alpha...)
	x = append(x, p.Beta...)
	x = append(x, p.Drift, p.InitialVariance)
	return x
}

func decodeVector(x []float64, p, q int) garch.Parameters {
	return garch.Parameters{
		Omega:           x[0],
		Alpha:           append([]float64(nil), x[1:1+p]...),
		Beta:            append([]float64(nil), x[1+p:1+p+q]...),
		Drift:           x[1+p+q],
		InitialVariance: x[2+p+q],
		VolatilityScale: 1.0,
	}
}

// vectorBounds generalizes the GARCH(1,1) boxes: the first lag keeps
// them, higher lags relax the lower bound so small tail coefficients
// stay representable.
func vectorBounds(p, q int) []bound {
	b := make([]bound, 0, 3+p+q)
	b = append(b, bound{1e-5, 1e-3})
	for i := 0; i < p; i++ {
		if i == 0 {
			b = append(b, bound{0.01, 0.4})
		} else {
			b = append(b, bound{0, 0.4})
		}
	}
	for j := 0; j < q; j++ {
		if j == 0 {
			b = append(b, bound{0.3, 0.99})
		} else {
			b = append(b, bound{0, 0.5})
		}
	}
	b = append(b, bound{0.005, 0.020})
	b = append(b, bound{0.001, 0.010})
	return b
}

func vectorPersistence(x []float64, p, q int) float64 {
	var sum float64
	for _, c := range x[1 : 1+p+q] {
		sum += c
	}
	return sum
}

func stationarityPenalty(p, q int) objectiveFunc {
	return func(x []float64) float64 {
		excess := vectorPersistence(x, p, q) - (1 - stationarityMargin)
		if excess <= 0 {
			return 0
		}
		return 1e6 * excess * excess
	}
}
