package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDataFile         = "data/historical_returns.json"
	DefaultMode             = ModeGrid
	DefaultSampleSize       = 10000
	DefaultInLoopSampleSize = 4000
	DefaultRealizations     = 10
)

const (
	ModeGrid       = "grid"
	ModeMultiStart = "multistart"
)

type Config struct {
	DataFile         string `yaml:"data_file"`
	Mode             string `yaml:"mode"`
	Seed             uint64 `yaml:"seed"`
	SampleSize       int    `yaml:"sample_size"`
	InLoopSampleSize int    `yaml:"in_loop_sample_size"`
	Realizations     int    `yaml:"realizations"`
	Workers          int    `yaml:"workers"`
	Production       bool   `yaml:"production_logging"`
}

// loadConfig starts from the defaults and, when a config file path is
// given as the first argument, overlays the yaml document on top.
func loadConfig(args []string) (Config, error) {
	cfg := Config{
		DataFile:         DefaultDataFile,
		Mode:             DefaultMode,
		SampleSize:       DefaultSampleSize,
		InLoopSampleSize: DefaultInLoopSampleSize,
		Realizations:     DefaultRealizations,
	}

	if len(args) > 1 {
		raw, err := os.ReadFile(args[1])
		if err != nil {
			return Config{}, fmt.Errorf("unable to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("unable to parse config file: %w", err)
		}
	}

	if cfg.Mode != ModeGrid && cfg.Mode != ModeMultiStart {
		return Config{}, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if cfg.SampleSize <= 0 || cfg.InLoopSampleSize <= 0 || cfg.Realizations <= 0 {
		return Config{}, fmt.Errorf("sample sizes and realizations must be positive")
	}
	return cfg, nil
}
