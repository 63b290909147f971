package validate

import (
	"fmt"
	"log/slog"
)

type StatReport struct {
	Name   string
	Target float64
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Bias   float64
	RMSE   float64
	Pass   bool
}

type Report struct {
	Realizations   int
	SampleSize     int
	Stats          []StatReport
	AvgBias        float64
	AvgRMSE        float64
	Classification string
}

// FailedBands lists the percentile statistics whose bias fell outside
// the accepted band.
func (r Report) FailedBands() []string {
	var failed []string
	for _, s := range r.Stats {
		if !s.Pass {
			failed = append(failed, s.Name)
		}
	}
	return failed
}

func (r Report) Print() {
	slog.Info("consistency check",
		"realizations", r.Realizations,
		"sample_size", r.SampleSize,
		"avg_bias", fmt.Sprintf("%.6f", r.AvgBias),
		"avg_rmse", fmt.Sprintf("%.6f", r.AvgRMSE),
		"classification", r.Classification)

	for _, s := range r.Stats {
		slog.Info("statistic",
			"name", s.Name,
			"target", fmt.Sprintf("%.6f", s.Target),
			"mean", fmt.Sprintf("%.6f", s.Mean),
			"std", fmt.Sprintf("%.6f", s.Std),
			"min", fmt.Sprintf("%.6f", s.Min),
			"max", fmt.Sprintf("%.6f", s.Max),
			"bias", fmt.Sprintf("%+.6f", s.Bias),
			"rmse", fmt.Sprintf("%.6f", s.RMSE),
			"pass", s.Pass)
	}

	if failed := r.FailedBands(); len(failed) > 0 {
		slog.Warn("percentile bands outside tolerance", "bands", failed)
	}
}
