package main

// Parameter set under test, matching the constants shipped to the
// front-end simulation.
const (
	DataFile = "data/historical_returns.json"

	Omega           = 0.0002
	Alpha           = 0.15
	Beta            = 0.80
	Drift           = 0.010
	InitialVariance = 0.003
	VolatilityScale = 0.52

	SampleSize = 10000
	Seed       = 1
)
