package series

import "errors"

var (
	ErrNoData = errors.New("series contains no data points")
)

// Series is an ordered sequence of periodic returns. Observed series come
// from an external source, simulated ones are generated fresh per
// evaluation. Treated as immutable once produced.
type Series []float64
