package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mkrivan/garchcal/internal/dbg"
	"github.com/mkrivan/garchcal/pkg/data/returns"
	"github.com/mkrivan/garchcal/pkg/garch"
	"github.com/mkrivan/garchcal/pkg/series"
	"github.com/mkrivan/garchcal/pkg/tools/emit"
	"github.com/mkrivan/garchcal/pkg/utility/random"
)

// Re-simulates a fixed parameter set against the historical target so a
// shipped constant block can be sanity-checked without re-optimizing.
func main() {
	logger := dbg.NewLogger(false)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	dataFile := DataFile
	if len(os.Args) > 1 {
		dataFile = os.Args[1]
	}

	doc, err := returns.Load(dataFile)
	if err != nil {
		logger.Fatal("error loading historical returns", zap.Error(err))
	}
	logger.Info("historical returns loaded", zap.Int("data_points", len(doc.Returns)))

	target, err := series.Describe(doc.Series())
	if err != nil {
		logger.Fatal("error describing historical returns", zap.Error(err))
	}

	params := garch.Parameters{
		Omega:           Omega,
		Alpha:           []float64{Alpha},
		Beta:            []float64{Beta},
		Drift:           Drift,
		InitialVariance: InitialVariance,
		VolatilityScale: VolatilityScale,
	}

	sim, err := garch.NewSimulator(params, random.NewSeq(Seed).Stream(0))
	if err != nil {
		logger.Fatal("invalid parameter set", zap.Error(err))
	}
	simulated, err := series.Describe(sim.Run(SampleSize))
	if err != nil {
		logger.Fatal("error describing simulation", zap.Error(err))
	}

	fmt.Println("\nComparison:")
	fmt.Print(emit.ComparisonTable(target, simulated))

	fmt.Println("\nJavaScript Code:")
	fmt.Print(emit.JSConstants(params))

	fmt.Printf("\nPersistence (alpha + beta): %.4f\n", params.Persistence())
}
