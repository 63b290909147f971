package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mkrivan/garchcal/internal/dbg"
	"github.com/mkrivan/garchcal/pkg/calibrate"
	"github.com/mkrivan/garchcal/pkg/data/returns"
	"github.com/mkrivan/garchcal/pkg/garch"
	"github.com/mkrivan/garchcal/pkg/series"
	"github.com/mkrivan/garchcal/pkg/tools/emit"
	"github.com/mkrivan/garchcal/pkg/utility/random"
	"github.com/mkrivan/garchcal/pkg/validate"
)

func main() {
	cfg, err := loadConfig(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := dbg.NewLogger(cfg.Production)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	logger.Info("garch calibration",
		zap.String("mode", cfg.Mode),
		zap.String("data_file", cfg.DataFile))
	defer logger.Info("done")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	doc, err := returns.Load(cfg.DataFile)
	if err != nil {
		logger.Fatal("error loading historical returns", zap.Error(err))
	}
	logger.Info("historical returns loaded",
		zap.String("symbol", doc.Symbol),
		zap.Int("data_points", len(doc.Returns)),
		zap.String("date_range", doc.DateRange))

	target, err := series.Describe(doc.Series())
	if err != nil {
		logger.Fatal("error describing historical returns", zap.Error(err))
	}

	seq := random.NewSeq(cfg.Seed)
	result := run(ctx, cfg, target, seq)

	logger.Info("optimization finished",
		zap.String("run_id", result.RunID.String()),
		zap.String("method", result.Method),
		zap.Bool("success", result.Success),
		zap.Float64("objective", result.Objective),
		zap.Int("evaluations", result.Evaluations),
		zap.Duration("elapsed", result.Elapsed))
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if !result.Success {
		logger.Fatal("no feasible parameters found")
	}

	sim, err := garch.NewSimulator(result.Params, seq.Stream(0))
	if err != nil {
		logger.Fatal("error building simulator for winner", zap.Error(err))
	}
	simulated, err := series.Describe(sim.Run(cfg.SampleSize))
	if err != nil {
		logger.Fatal("error describing winner simulation", zap.Error(err))
	}

	report, err := validate.NewValidator(
		validate.WithRealizations(cfg.Realizations),
		validate.WithSampleSize(cfg.SampleSize),
	).Check(result.Params, target, seq.Derive(1))
	if err != nil {
		logger.Fatal("error validating winner", zap.Error(err))
	}
	report.Print()

	fmt.Println("\nComparison:")
	fmt.Print(emit.ComparisonTable(target, simulated))
	fmt.Println("\nConsistency:")
	fmt.Print(emit.ValidationTable(report))

	fmt.Println("\nOptimized JavaScript GARCH Parameters:")
	fmt.Print(emit.JSConstants(result.Params))

	fmt.Printf("\nPersistence (alpha + beta): %.4f\n", result.Params.Persistence())
	if !result.Params.Stationary() {
		fmt.Println("WARNING: variance process is not stationary")
	}
}

func run(ctx context.Context, cfg Config, target series.Summary, seq *random.Seq) calibrate.Result {
	switch cfg.Mode {
	case ModeMultiStart:
		ms := calibrate.NewMultiStart(
			calibrate.WithSampleSizes(cfg.InLoopSampleSize, cfg.SampleSize),
			calibrate.WithMultiStartWorkers(cfg.Workers),
			calibrate.WithMultiStartSeq(seq.Derive(0)),
		)
		return ms.Search(ctx, target)
	default:
		gs := calibrate.NewGridSearch(
			calibrate.WithGridSampleSize(cfg.InLoopSampleSize),
			calibrate.WithGridWorkers(cfg.Workers),
			calibrate.WithGridSeq(seq.Derive(0)),
		)
		return gs.Search(ctx, target)
	}
}
