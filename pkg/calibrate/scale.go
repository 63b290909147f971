package calibrate

import (
	"math"
	"math/rand"

	"github.com/mkrivan/garchcal/pkg/garch"
	"github.com/mkrivan/garchcal/pkg/series"
	"github.com/mkrivan/garchcal/pkg/utility/random"
)

const (
	ScaleLow       = 0.1
	ScaleHigh      = 3.0
	ScaleTolerance = 1e-3
)

// ScaleSolver searches the volatility scale whose simulated standard
// deviation matches the target, all other parameters held fixed. Each
// bracket probe re-simulates with a fresh derived stream, so the probed
// objective is noisy and results are only approximately reproducible
// unless the caller fixes the root seed of the supplied Seq.
type ScaleSolver struct {
	lo         float64
	hi         float64
	tol        float64
	sampleSize int
	frozen     bool
}

type ScaleOption func(*ScaleSolver)

// WithFrozenProbes reuses one fixed shock sequence for every probe, so
// the probed objective becomes a deterministic function of the scale and
// the bracket narrowing is exact. The default draws fresh noise for
// every probe.
func WithFrozenProbes() ScaleOption {
	return func(s *ScaleSolver) { s.frozen = true }
}

func NewScaleSolver(sampleSize int, options ...ScaleOption) *ScaleSolver {
	s := &ScaleSolver{
		lo:         ScaleLow,
		hi:         ScaleHigh,
		tol:        ScaleTolerance,
		sampleSize: sampleSize,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Solve narrows the bracket toward whichever tolerance-offset probe beats
// the midpoint and the opposite side, stopping early when the midpoint
// beats both offsets.
func (s *ScaleSolver) Solve(params garch.Parameters, targetStd float64, seq *random.Seq) (float64, error) {
	probe := func(scale float64) (float64, error) {
		p := params.Clone()
		p.VolatilityScale = scale
		var rng *rand.Rand
		if s.frozen {
			rng = seq.Stream(0)
		} else {
			rng = seq.Next()
		}
		sim, err := garch.NewSimulator(p, rng)
		if err != nil {
			return 0, err
		}
		sum, err := series.Describe(sim.Run(s.sampleSize))
		if err != nil {
			return 0, err
		}
		return math.Abs(sum.Std - targetStd), nil
	}

	lo, hi := s.lo, s.hi
	for hi-lo > s.tol {
		mid := (lo + hi) / 2

		errMid, err := probe(mid)
		if err != nil {
			return 0, err
		}
		errHigh, err := probe(mid + s.tol)
		if err != nil {
			return 0, err
		}
		errLow, err := probe(mid - s.tol)
		if err != nil {
			return 0, err
		}

		if errLow < errMid && errLow < errHigh {
			hi = mid
		} else if errHigh < errMid && errHigh < errLow {
			lo = mid
		} else {
			break
		}
	}

	return (lo + hi) / 2, nil
}
