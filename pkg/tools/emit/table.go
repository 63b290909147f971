package emit

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mkrivan/garchcal/pkg/series"
	"github.com/mkrivan/garchcal/pkg/validate"
)

// ComparisonTable renders the statistic-by-statistic view of a target
// summary next to a simulated one.
func ComparisonTable(target, simulated series.Summary) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "Statistic\tTarget\tSimulated\tDifference")
	for _, name := range series.StatNames {
		tgt := target.Stat(name)
		sim := simulated.Stat(name)
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%+.6f\n", name, tgt, sim, sim-tgt)
	}

	_ = w.Flush()
	return b.String()
}

// ValidationTable renders the per-statistic consistency report.
func ValidationTable(report validate.Report) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "Statistic\tTarget\tMean\tStd\tBias\tRMSE\tPass")
	for _, s := range report.Stats {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%+.6f\t%.6f\t%v\n",
			s.Name, s.Target, s.Mean, s.Std, s.Bias, s.RMSE, s.Pass)
	}

	_ = w.Flush()
	return b.String()
}
