package garch

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameters = errors.New("invalid garch parameters")
)

// Parameters is a full GARCH(p,q) parameter set. Alpha holds the ARCH
// coefficients for lags 1..p, Beta the GARCH coefficients for lags 1..q.
// A set is created whole and never partially mutated.
type Parameters struct {
	Omega           float64
	Alpha           []float64
	Beta            []float64
	Drift           float64
	InitialVariance float64
	VolatilityScale float64
}

// Order returns (p, q).
func (p Parameters) Order() (int, int) {
	return len(p.Alpha), len(p.Beta)
}

// Persistence is the sum of all ARCH and GARCH coefficients.
func (p Parameters) Persistence() float64 {
	var sum float64
	for _, a := range p.Alpha {
		sum += a
	}
	for _, b := range p.Beta {
		sum += b
	}
	return sum
}

// Stationary reports whether the variance process has a finite long-run
// mean, i.e. Persistence() < 1. During search this is a target
// constraint; the simulator's variance clamp holds regardless.
func (p Parameters) Stationary() bool {
	return p.Persistence() < 1
}

func (p Parameters) Validate() error {
	if len(p.Alpha) == 0 {
		return fmt.Errorf("%w: at least one ARCH coefficient required", ErrInvalidParameters)
	}
	if len(p.Beta) == 0 {
		return fmt.Errorf("%w: at least one GARCH coefficient required", ErrInvalidParameters)
	}
	for i, a := range p.Alpha {
		if a < 0 {
			return fmt.Errorf("%w: alpha[%d] = %f is negative", ErrInvalidParameters, i, a)
		}
	}
	for j, b := range p.Beta {
		if b < 0 {
			return fmt.Errorf("%w: beta[%d] = %f is negative", ErrInvalidParameters, j, b)
		}
	}
	if p.Omega < 0 {
		return fmt.Errorf("%w: omega = %f is negative", ErrInvalidParameters, p.Omega)
	}
	if p.InitialVariance <= 0 {
		return fmt.Errorf("%w: initial variance = %f is not positive", ErrInvalidParameters, p.InitialVariance)
	}
	if p.VolatilityScale <= 0 {
		return fmt.Errorf("%w: volatility scale = %f is not positive", ErrInvalidParameters, p.VolatilityScale)
	}
	return nil
}

// Clone returns a deep copy, so optimizers can derive candidates without
// aliasing coefficient slices.
func (p Parameters) Clone() Parameters {
	out := p
	out.Alpha = append([]float64(nil), p.Alpha...)
	out.Beta = append([]float64(nil), p.Beta...)
	return out
}
