package validate

import (
	"math"

	"github.com/mkrivan/garchcal/pkg/garch"
	"github.com/mkrivan/garchcal/pkg/series"
	"github.com/mkrivan/garchcal/pkg/utility/random"
)

const (
	DefaultRealizations = 10
	DefaultSampleSize   = 10000

	// Per-percentile band bias threshold.
	bandBiasLimit = 0.01
)

// Validator certifies a chosen parameter set by re-simulating it many
// times and measuring how stable each target statistic is across
// realizations.
type Validator struct {
	realizations int
	sampleSize   int
}

type Option func(*Validator)

func WithRealizations(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.realizations = n
		}
	}
}

func WithSampleSize(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.sampleSize = n
		}
	}
}

func NewValidator(options ...Option) *Validator {
	v := &Validator{
		realizations: DefaultRealizations,
		sampleSize:   DefaultSampleSize,
	}
	for _, option := range options {
		option(v)
	}
	return v
}

// Check runs the independent realizations and aggregates per-statistic
// bias and RMSE against the target summary.
func (v *Validator) Check(params garch.Parameters, target series.Summary, seq *random.Seq) (Report, error) {
	summaries := make([]series.Summary, v.realizations)
	for i := range summaries {
		sim, err := garch.NewSimulator(params, seq.Stream(uint64(i)))
		if err != nil {
			return Report{}, err
		}
		sum, err := series.Describe(sim.Run(v.sampleSize))
		if err != nil {
			return Report{}, err
		}
		summaries[i] = sum
	}

	report := Report{
		Realizations: v.realizations,
		SampleSize:   v.sampleSize,
		Stats:        make([]StatReport, 0, len(series.StatNames)),
	}

	var biasSum, rmseSum float64
	for _, name := range series.StatNames {
		tgt := target.Stat(name)

		values := make([]float64, len(summaries))
		for i, sum := range summaries {
			values[i] = sum.Stat(name)
		}

		sr := reduceStat(name, tgt, values)
		report.Stats = append(report.Stats, sr)
		biasSum += math.Abs(sr.Bias)
		rmseSum += sr.RMSE
	}

	n := float64(len(series.StatNames))
	report.AvgBias = biasSum / n
	report.AvgRMSE = rmseSum / n
	report.Classification = classify(report.AvgBias)
	return report, nil
}

func reduceStat(name string, target float64, values []float64) StatReport {
	n := float64(len(values))

	mean := 0.0
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		mean += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean /= n

	var variance, sqDev float64
	for _, v := range values {
		d := v - mean
		variance += d * d
		e := v - target
		sqDev += e * e
	}
	variance /= n

	bias := mean - target
	return StatReport{
		Name:   name,
		Target: target,
		Mean:   mean,
		Std:    math.Sqrt(variance),
		Min:    min,
		Max:    max,
		Bias:   bias,
		RMSE:   math.Sqrt(sqDev / n),
		Pass:   !isPercentile(name) || math.Abs(bias) <= bandBiasLimit,
	}
}

func isPercentile(name string) bool {
	return len(name) == 3 && name[0] == 'p'
}

func classify(avgBias float64) string {
	switch {
	case avgBias < 0.005:
		return "excellent"
	case avgBias < 0.01:
		return "good"
	case avgBias < 0.02:
		return "moderate"
	default:
		return "poor"
	}
}
