package calibrate

import (
	"math/rand"

	"github.com/mkrivan/garchcal/pkg/garch"
	"github.com/mkrivan/garchcal/pkg/series"
)

// Weights is the named weight table of the calibration objective. The
// objective is the weighted sum of squared differences between simulated
// and target statistics. IncludeStd selects "full" mode; the multi-start
// path excludes std because the volatility scale is solved separately.
type Weights struct {
	Mean   float64
	Median float64
	Std    float64
	P05    float64
	P10    float64
	P25    float64
	P75    float64
	P90    float64
	P95    float64

	IncludeStd bool
}

// GridWeights is the weight preset of the exhaustive search, std term
// included.
func GridWeights() Weights {
	return Weights{
		Mean:       15.0,
		Median:     12.0,
		Std:        25.0,
		P05:        8.0,
		P10:        8.0,
		P25:        6.0,
		P75:        6.0,
		P90:        8.0,
		P95:        8.0,
		IncludeStd: true,
	}
}

// MultiStartWeights is the heavier preset of the multi-start search. Std
// is excluded since the scale solver pins dispersion on its own.
func MultiStartWeights() Weights {
	return Weights{
		Mean:       25.0,
		Median:     20.0,
		Std:        35.0,
		P05:        15.0,
		P10:        15.0,
		P25:        12.0,
		P75:        12.0,
		P90:        15.0,
		P95:        15.0,
		IncludeStd: false,
	}
}

// Evaluator scores a parameter set against a target summary. Each Score
// call simulates one fresh series, so repeated scoring of the same
// parameters is noisy unless the caller controls the generator seed.
type Evaluator struct {
	weights    Weights
	target     series.Summary
	sampleSize int
}

func NewEvaluator(weights Weights, target series.Summary, sampleSize int) *Evaluator {
	return &Evaluator{
		weights:    weights,
		target:     target,
		sampleSize: sampleSize,
	}
}

func (e *Evaluator) Score(params garch.Parameters, rng *rand.Rand) (float64, error) {
	sim, err := garch.NewSimulator(params, rng)
	if err != nil {
		return 0, err
	}
	sum, err := series.Describe(sim.Run(e.sampleSize))
	if err != nil {
		return 0, err
	}
	return e.Distance(sum), nil
}

// Distance is the pure weighted squared distance between an already
// computed summary and the target.
func (e *Evaluator) Distance(sum series.Summary) float64 {
	term := func(w, sim, tgt float64) float64 {
		d := sim - tgt
		return w * d * d
	}

	total := term(e.weights.Mean, sum.Mean, e.target.Mean) +
		term(e.weights.Median, sum.Median, e.target.Median) +
		term(e.weights.P05, sum.P05, e.target.P05) +
		term(e.weights.P10, sum.P10, e.target.P10) +
		term(e.weights.P25, sum.P25, e.target.P25) +
		term(e.weights.P75, sum.P75, e.target.P75) +
		term(e.weights.P90, sum.P90, e.target.P90) +
		term(e.weights.P95, sum.P95, e.target.P95)

	if e.weights.IncludeStd {
		total += term(e.weights.Std, sum.Std, e.target.Std)
	}
	return total
}
