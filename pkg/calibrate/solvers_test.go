package calibrate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadratic(center []float64) objectiveFunc {
	return func(x []float64) float64 {
		var sum float64
		for i := range x {
			d := x[i] - center[i]
			sum += d * d
		}
		return sum
	}
}

func unitBounds(n int) []bound {
	b := make([]bound, n)
	for i := range b {
		b[i] = bound{0, 1}
	}
	return b
}

func TestNelderMead_MinimizesQuadratic(t *testing.T) {
	nm := nelderMead{label: "nelder-mead", maxIter: 500, ftol: 1e-10}
	x, v, err := nm.minimize(context.Background(), quadratic([]float64{0.3, 0.7}), []float64{0.9, 0.1}, unitBounds(2))
	require.NoError(t, err)

	assert.InDelta(t, 0.3, x[0], 1e-3)
	assert.InDelta(t, 0.7, x[1], 1e-3)
	assert.Less(t, v, 1e-6)
}

func TestNelderMead_RespectsBounds(t *testing.T) {
	// Unconstrained minimum sits outside the box; the solution must be
	// clamped to the boundary.
	nm := nelderMead{label: "nelder-mead", maxIter: 500, ftol: 1e-10}
	x, _, err := nm.minimize(context.Background(), quadratic([]float64{2.0}), []float64{0.5}, unitBounds(1))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x[0], 1e-6)
}

func TestNelderMead_PenaltyKeepsFeasible(t *testing.T) {
	// Quadratic pulls both coordinates toward 0.9 (sum 1.8); the
	// penalty on x0+x1 >= 1 must hold the solution near the constraint
	// boundary instead.
	nm := nelderMead{
		label:       "nelder-mead-penalty",
		maxIter:     500,
		ftol:        1e-10,
		constrained: true,
		penalty: func(x []float64) float64 {
			excess := x[0] + x[1] - 0.999
			if excess <= 0 {
				return 0
			}
			return 1e6 * excess * excess
		},
	}
	x, _, err := nm.minimize(context.Background(), quadratic([]float64{0.9, 0.9}), []float64{0.2, 0.2}, unitBounds(2))
	require.NoError(t, err)
	assert.LessOrEqual(t, x[0]+x[1], 1.01)
}

func TestNelderMead_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nm := nelderMead{label: "nelder-mead", maxIter: 500, ftol: 1e-10}
	_, _, err := nm.minimize(ctx, quadratic([]float64{0.5}), []float64{0.1}, unitBounds(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoordinateDescent_MinimizesQuadratic(t *testing.T) {
	cd := coordinateDescent{
		maxEvals:    2000,
		tol:         1e-10,
		initialStep: 0.05,
		backtrack:   0.5,
		minStep:     1e-6,
	}
	x, v, err := cd.minimize(context.Background(), quadratic([]float64{0.3, 0.7}), []float64{0.9, 0.1}, unitBounds(2))
	require.NoError(t, err)

	assert.InDelta(t, 0.3, x[0], 1e-2)
	assert.InDelta(t, 0.7, x[1], 1e-2)
	assert.Less(t, v, 1e-3)
}

func TestCoordinateDescent_SkipsInfeasibleSteps(t *testing.T) {
	cd := coordinateDescent{
		maxEvals:    2000,
		tol:         1e-10,
		initialStep: 0.05,
		backtrack:   0.5,
		minStep:     1e-6,
		feasible: func(x []float64) bool {
			return x[0]+x[1] < 1
		},
	}
	x, _, err := cd.minimize(context.Background(), quadratic([]float64{0.9, 0.9}), []float64{0.2, 0.2}, unitBounds(2))
	require.NoError(t, err)
	assert.Less(t, x[0]+x[1], 1.0, "iterates must stay feasible")
}

func TestCoordinateDescent_ReportsNonConvergence(t *testing.T) {
	cd := coordinateDescent{
		maxEvals:    5,
		tol:         0,
		initialStep: 0.05,
		backtrack:   0.5,
		minStep:     1e-12,
	}
	_, _, err := cd.minimize(context.Background(), quadratic([]float64{0.3, 0.7, 0.1, 0.9}), []float64{0.9, 0.1, 0.9, 0.1}, unitBounds(4))
	assert.True(t, errors.Is(err, ErrNotConverged))
}
