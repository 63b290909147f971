package calibrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrivan/garchcal/pkg/utility/random"
)

func smallGrid() Grid {
	return Grid{
		Omega:           []float64{0.0002},
		Alpha:           []float64{0.05, 0.15},
		Beta:            []float64{0.80, 0.90},
		Drift:           []float64{0.008, 0.012},
		InitialVariance: []float64{0.003},
		VolatilityScale: []float64{1.0},
	}
}

func TestGridSearch_SkipsNonStationaryCells(t *testing.T) {
	// alpha 0.15 + beta 0.90 >= 1 is the only infeasible (alpha, beta)
	// pair; it spans two drift cells of the 2x2x2 grid.
	gs := NewGridSearch(
		WithGrid(smallGrid()),
		WithGridSampleSize(500),
		WithGridWorkers(1),
		WithGridSeq(random.NewSeq(5)),
	)

	result := gs.Search(context.Background(), referenceTarget())

	require.True(t, result.Success)
	assert.Equal(t, 6, result.Evaluations, "8 cells minus 2 infeasible")
	assert.Less(t, result.Params.Persistence(), 1.0, "infeasible cell must never win")
}

func TestGridSearch_BestIsNonIncreasing(t *testing.T) {
	var bests []float64
	gs := NewGridSearch(
		WithGrid(smallGrid()),
		WithGridSampleSize(500),
		WithGridWorkers(1),
		WithGridSeq(random.NewSeq(5)),
		WithGridProgress(func(evaluated, total int, best float64) {
			bests = append(bests, best)
		}),
	)

	result := gs.Search(context.Background(), referenceTarget())
	require.True(t, result.Success)
	require.NotEmpty(t, bests)

	for i := 1; i < len(bests); i++ {
		assert.LessOrEqual(t, bests[i], bests[i-1], "best-so-far must never increase")
	}
	assert.Equal(t, result.Objective, bests[len(bests)-1])
}

func TestGridSearch_Deterministic(t *testing.T) {
	run := func() Result {
		return NewGridSearch(
			WithGrid(smallGrid()),
			WithGridSampleSize(500),
			WithGridWorkers(4),
			WithGridSeq(random.NewSeq(5)),
		).Search(context.Background(), referenceTarget())
	}

	a, b := run(), run()
	assert.Equal(t, a.Objective, b.Objective)
	assert.Equal(t, a.Params, b.Params)
}

func TestGridSearch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewGridSearch(
		WithGrid(smallGrid()),
		WithGridSampleSize(500),
		WithGridWorkers(1),
		WithGridSeq(random.NewSeq(5)),
	).Search(ctx, referenceTarget())

	// Cancellation surfaces as a best-effort result, never a fault.
	assert.LessOrEqual(t, result.Evaluations, 6)
}

func TestGrid_Combinations(t *testing.T) {
	assert.Equal(t, 8, smallGrid().Combinations())
	assert.Equal(t, 4*5*5*4*4*5, DefaultGrid().Combinations())
}
