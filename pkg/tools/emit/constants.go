package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/govalues/decimal"

	"github.com/mkrivan/garchcal/pkg/garch"
)

// dec6 renders a value with exactly six decimal places, matching the
// front-end constant format.
func dec6(v float64) string {
	d, err := decimal.NewFromFloat64(v)
	if err != nil {
		return strconv.FormatFloat(v, 'f', 6, 64)
	}
	return d.Rescale(6).String()
}

func jsArray(values []float64) string {
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = dec6(v)
	}
	return "[" + strings.Join(rendered, ", ") + "]"
}

// JSConstants renders the parameter set as the JavaScript block the
// front-end simulation consumes. First-order models keep the scalar
// constant form, higher orders switch alpha and beta to arrays.
func JSConstants(params garch.Parameters) string {
	var b strings.Builder

	fmt.Fprintf(&b, "const omega = %s;        // Constant\n", dec6(params.Omega))

	p, q := params.Order()
	if p == 1 && q == 1 {
		fmt.Fprintf(&b, "const alpha = %s;        // ARCH parameter\n", dec6(params.Alpha[0]))
		fmt.Fprintf(&b, "const beta = %s;         // GARCH parameter\n", dec6(params.Beta[0]))
	} else {
		fmt.Fprintf(&b, "const alpha = %s;  // ARCH parameters\n", jsArray(params.Alpha))
		fmt.Fprintf(&b, "const beta = %s;  // GARCH parameters\n", jsArray(params.Beta))
	}

	fmt.Fprintf(&b, "const drift = %s;       // Monthly drift term\n", dec6(params.Drift))
	fmt.Fprintf(&b, "let variance = %s;  // Initial variance\n", dec6(params.InitialVariance))
	fmt.Fprintf(&b, "const volatilityScale = %s;  // Volatility scaling factor\n", dec6(params.VolatilityScale))
	return b.String()
}
