package calibrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrivan/garchcal/pkg/garch"
	"github.com/mkrivan/garchcal/pkg/utility/random"
)

// flatVarianceParameters pins the variance recurrence at the clamp
// ceiling (omega alone exceeds it), so the simulated std is scale *
// sqrt(ceiling) up to sampling noise and the scale objective is unimodal.
func flatVarianceParameters() garch.Parameters {
	return garch.Parameters{
		Omega:           0.02,
		Alpha:           []float64{0},
		Beta:            []float64{0},
		Drift:           0,
		InitialVariance: 0.01,
		VolatilityScale: 1.0,
	}
}

func TestScaleSolver_RecoversKnownScale(t *testing.T) {
	// With variance railed at 0.01, std = scale * 0.1. Target 0.03
	// should solve near scale 0.3. Frozen probes make the bracket
	// narrowing exact.
	solver := NewScaleSolver(4000, WithFrozenProbes())
	scale, err := solver.Solve(flatVarianceParameters(), 0.03, random.NewSeq(99))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, scale, ScaleLow)
	assert.LessOrEqual(t, scale, ScaleHigh)
	assert.InDelta(t, 0.3, scale, 0.02)
}

func TestScaleSolver_StaysInsideBracket(t *testing.T) {
	solver := NewScaleSolver(1000)

	// Unreachable dispersion target: best achievable std is 0.3 at the
	// bracket edge; the solver must still return a bracket value.
	scale, err := solver.Solve(flatVarianceParameters(), 5.0, random.NewSeq(3))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, scale, ScaleLow)
	assert.LessOrEqual(t, scale, ScaleHigh)
}

func TestScaleSolver_DeterministicWithFixedSeed(t *testing.T) {
	a, err := NewScaleSolver(1000).Solve(flatVarianceParameters(), 0.025, random.NewSeq(7))
	require.NoError(t, err)
	b, err := NewScaleSolver(1000).Solve(flatVarianceParameters(), 0.025, random.NewSeq(7))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
