package calibrate

import (
	"context"
	"errors"
)

var (
	ErrNotConverged  = errors.New("solver did not converge")
	ErrNotStationary = errors.New("variance process is not stationary")
)

type objectiveFunc func(x []float64) float64

type bound struct {
	lo, hi float64
}

func clampToBounds(x []float64, b []bound) []float64 {
	out := append([]float64(nil), x...)
	for i := range out {
		if out[i] < b[i].lo {
			out[i] = b[i].lo
		} else if out[i] > b[i].hi {
			out[i] = b[i].hi
		}
	}
	return out
}

// localSolver is one bounded minimization strategy of the multi-start
// search. Implementations must stay inside the given box bounds; the
// stationarity constraint is honored only by the solvers able to.
// On budget exhaustion a solver returns its best point found together
// with ErrNotConverged, so callers can still use the iterate.
type localSolver interface {
	name() string
	minimize(ctx context.Context, f objectiveFunc, x0 []float64, b []bound) ([]float64, float64, error)
}

// nelderMead is a bounded downhill-simplex solver. Points are clamped
// into the box before evaluation. The constrained variant gets a penalty
// term steering the simplex away from the infeasible region; the plain
// variant relies on bounds alone.
type nelderMead struct {
	label       string
	maxIter     int
	ftol        float64
	constrained bool
	penalty     objectiveFunc
}

func (nm nelderMead) name() string { return nm.label }

func (nm nelderMead) minimize(ctx context.Context, f objectiveFunc, x0 []float64, b []bound) ([]float64, float64, error) {
	n := len(x0)
	obj := func(x []float64) float64 {
		y := clampToBounds(x, b)
		v := f(y)
		if nm.penalty != nil {
			v += nm.penalty(y)
		}
		return v
	}

	// Initial simplex: start point plus one vertex per dimension,
	// displaced by 5% of the bound range.
	simplex := make([][]float64, n+1)
	values := make([]float64, n+1)
	simplex[0] = clampToBounds(x0, b)
	values[0] = obj(simplex[0])
	for i := 0; i < n; i++ {
		v := append([]float64(nil), simplex[0]...)
		step := 0.05 * (b[i].hi - b[i].lo)
		if v[i]+step > b[i].hi {
			v[i] -= step
		} else {
			v[i] += step
		}
		simplex[i+1] = v
		values[i+1] = obj(v)
	}

	const (
		reflect  = 1.0
		expand   = 2.0
		contract = 0.5
		shrink   = 0.5
	)

	for iter := 0; iter < nm.maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		// Order vertices best to worst.
		for i := 1; i < len(values); i++ {
			for j := i; j > 0 && values[j] < values[j-1]; j-- {
				values[j], values[j-1] = values[j-1], values[j]
				simplex[j], simplex[j-1] = simplex[j-1], simplex[j]
			}
		}

		if values[n]-values[0] < nm.ftol {
			best := clampToBounds(simplex[0], b)
			return best, values[0], nil
		}

		// Centroid of all but the worst vertex.
		centroid := make([]float64, n)
		for _, v := range simplex[:n] {
			for i := range centroid {
				centroid[i] += v[i] / float64(n)
			}
		}

		point := func(coeff float64) []float64 {
			p := make([]float64, n)
			for i := range p {
				p[i] = centroid[i] + coeff*(centroid[i]-simplex[n][i])
			}
			return p
		}

		reflected := point(reflect)
		fr := obj(reflected)
		switch {
		case fr < values[0]:
			expanded := point(expand)
			if fe := obj(expanded); fe < fr {
				simplex[n], values[n] = expanded, fe
			} else {
				simplex[n], values[n] = reflected, fr
			}
		case fr < values[n-1]:
			simplex[n], values[n] = reflected, fr
		default:
			contracted := point(-contract)
			if fc := obj(contracted); fc < values[n] {
				simplex[n], values[n] = contracted, fc
			} else {
				for i := 1; i <= n; i++ {
					for j := range simplex[i] {
						simplex[i][j] = simplex[0][j] + shrink*(simplex[i][j]-simplex[0][j])
					}
					values[i] = obj(simplex[i])
				}
			}
		}
	}

	for i := 1; i < len(values); i++ {
		if values[i] < values[0] {
			values[0], simplex[0] = values[i], simplex[i]
		}
	}
	return clampToBounds(simplex[0], b), values[0], ErrNotConverged
}

// coordinateDescent probes each coordinate in both directions with a
// backtracking step size. Steps leaving the feasible region are skipped,
// which enforces the linear stationarity constraint directly.
type coordinateDescent struct {
	maxEvals    int
	tol         float64
	initialStep float64
	backtrack   float64
	minStep     float64
	feasible    func(x []float64) bool
}

func (coordinateDescent) name() string { return "coordinate-descent" }

func (cd coordinateDescent) minimize(ctx context.Context, f objectiveFunc, x0 []float64, b []bound) ([]float64, float64, error) {
	current := clampToBounds(x0, b)
	best := f(current)
	evals := 1
	step := cd.initialStep
	lastBest := best

	for evals < cd.maxEvals {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		improved := false
		for i := range current {
			for _, dir := range []float64{1, -1} {
				if evals >= cd.maxEvals {
					break
				}
				candidate := append([]float64(nil), current...)
				candidate[i] += dir * step * (b[i].hi - b[i].lo)
				candidate = clampToBounds(candidate, b)
				if cd.feasible != nil && !cd.feasible(candidate) {
					continue
				}
				v := f(candidate)
				evals++
				if v < best {
					best = v
					current = candidate
					improved = true
					break
				}
			}
		}

		if improved {
			if lastBest-best < cd.tol {
				return current, best, nil
			}
			lastBest = best
			step = cd.initialStep
			continue
		}

		step *= cd.backtrack
		if step < cd.minStep {
			return current, best, nil
		}
	}

	return current, best, ErrNotConverged
}
