package series

import (
	"math"
	"sort"
)

// Summary is the fixed statistical reduction of a return series. Moments
// are population moments (denominator n) and percentiles use the
// nearest-rank-floor estimator, not interpolation.
type Summary struct {
	Mean   float64
	Median float64
	Std    float64
	P05    float64
	P10    float64
	P25    float64
	P75    float64
	P90    float64
	P95    float64
}

// StatNames lists the summary statistics in reporting order.
var StatNames = []string{"mean", "median", "std", "p05", "p10", "p25", "p75", "p90", "p95"}

func (s Summary) Stat(name string) float64 {
	switch name {
	case "mean":
		return s.Mean
	case "median":
		return s.Median
	case "std":
		return s.Std
	case "p05":
		return s.P05
	case "p10":
		return s.P10
	case "p25":
		return s.P25
	case "p75":
		return s.P75
	case "p90":
		return s.P90
	case "p95":
		return s.P95
	}
	panic("unknown statistic " + name)
}

// Describe reduces a series to its Summary. The empty series is the only
// error case.
func Describe(s Series) (Summary, error) {
	n := len(s)
	if n == 0 {
		return Summary{}, ErrNoData
	}

	sorted := make([]float64, n)
	copy(sorted, s)
	sort.Float64s(sorted)

	var sum float64
	for _, r := range s {
		sum += r
	}
	mean := sum / float64(n)

	var sq float64
	for _, r := range s {
		d := r - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(n))

	// Nearest-rank-floor: sorted[min(p*n/100, n-1)].
	pct := func(p int) float64 {
		idx := p * n / 100
		if idx > n-1 {
			idx = n - 1
		}
		return sorted[idx]
	}

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Summary{
		Mean:   mean,
		Median: median,
		Std:    std,
		P05:    pct(5),
		P10:    pct(10),
		P25:    pct(25),
		P75:    pct(75),
		P90:    pct(90),
		P95:    pct(95),
	}, nil
}
