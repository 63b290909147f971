package garch

import (
	"math"
	"math/rand"

	"github.com/mkrivan/garchcal/pkg/series"
	"github.com/mkrivan/garchcal/pkg/utility/circular"
)

// Instantaneous variance is clamped to this band at every step, a runtime
// safety net independent of the stationarity constraint.
const (
	VarianceFloor = 1e-4
	VarianceCeil  = 1e-2
)

// Simulator generates synthetic return series from a GARCH(p,q)
// parameter set. The caller supplies the random generator, so two
// simulators built from the same parameters and an identically seeded
// generator produce identical series.
type Simulator struct {
	params    Parameters
	rng       *rand.Rand
	shocks    *circular.Window[float64]
	variances *circular.Window[float64]
}

func NewSimulator(params Parameters, rng *rand.Rand) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p, q := params.Order()
	lags := p
	if q > lags {
		lags = q
	}
	return &Simulator{
		params:    params,
		rng:       rng,
		shocks:    circular.NewWindow[float64](lags, 0),
		variances: circular.NewWindow[float64](lags, params.InitialVariance),
	}, nil
}

// Run produces a fresh series of n returns. Every call is an independent
// draw; nothing is cached between calls.
func (s *Simulator) Run(n int) series.Series {
	out := make(series.Series, n)
	for i := range out {
		out[i] = s.step()
	}
	return out
}

func (s *Simulator) step() float64 {
	shock := s.normal() * s.params.VolatilityScale
	ret := s.params.Drift + shock*math.Sqrt(s.variances.Get(0))

	// Variance recurrence over the lag windows, read before the new
	// shock and variance are pushed.
	next := s.params.Omega
	for i, a := range s.params.Alpha {
		lagged := s.shocks.Get(i)
		next += a * lagged * lagged
	}
	for j, b := range s.params.Beta {
		next += b * s.variances.Get(j)
	}
	next = clampVariance(next)

	s.shocks.Push(shock)
	s.variances.Push(next)
	return ret
}

// normal draws a standard-normal variate from two uniforms via the
// Box-Muller cosine branch. The sine-branch value is discarded.
func (s *Simulator) normal() float64 {
	u1 := s.rng.Float64()
	for u1 == 0 {
		u1 = s.rng.Float64()
	}
	u2 := s.rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func clampVariance(v float64) float64 {
	if v < VarianceFloor {
		return VarianceFloor
	}
	if v > VarianceCeil {
		return VarianceCeil
	}
	return v
}
