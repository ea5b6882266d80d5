package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleConfig = `
name: Series B Backsolve
netProceeds: 5000000
capTable:
  commonShares: 1000000
  securities:
    - id: common
      name: Common Stock
      shareCount: 3000000
    - id: series-a
      name: Series A Preferred
      shareCount: 2000000
      seniority: 1
      participating: true
  optionPools:
    - id: pool-2021
      name: 2021 Option Pool
      shareCount: 200000
      strikePrice: 2.0
breakpoints:
  - exercisePrice: 0
    participants:
      - securityId: series-a
        shares: 2000000
  - exercisePrice: 5000000
    participants:
      - securityId: series-a
        shares: 2000000
      - securityId: common
        shares: 3000000
assumptions:
  volatilityPct: 45
  riskFreeRatePct: 3
  timeToLiquidityYears: 2.5
dlom:
  weights:
    chaffee: 40
    finnerty: 30
    ghaidarov: 20
    longstaff: 10
backsolve:
  targets:
    - securityId: common
      targetPricePerShare: 2.75
solver:
  maxIterations: 100
  convergenceThreshold: 0.01
  tolerance: 0.000001
logging:
  level: info
  format: console
output:
  format: pretty
`

func writeSampleConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "valuation.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(writeSampleConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Name != "Series B Backsolve" {
		t.Errorf("Name = %q, expected %q", conf.Name, "Series B Backsolve")
	}
	if conf.NetProceeds != 5000000 {
		t.Errorf("NetProceeds = %v, expected 5000000", conf.NetProceeds)
	}
	if conf.CapTable.CommonShares != 1000000 {
		t.Errorf("CommonShares = %v, expected 1000000", conf.CapTable.CommonShares)
	}
	if len(conf.CapTable.Securities) != 2 {
		t.Fatalf("expected 2 securities, got %d", len(conf.CapTable.Securities))
	}
	if !conf.CapTable.Securities[1].Participating {
		t.Error("expected series-a to be participating")
	}
	if len(conf.Breakpoints) != 2 {
		t.Fatalf("expected 2 breakpoints, got %d", len(conf.Breakpoints))
	}
	if conf.Breakpoints[1].Participants[1].SecurityID != "common" {
		t.Errorf("unexpected participant id %q", conf.Breakpoints[1].Participants[1].SecurityID)
	}
	if conf.Assumptions.VolatilityPct != 45 {
		t.Errorf("VolatilityPct = %v, expected 45", conf.Assumptions.VolatilityPct)
	}
	if conf.Solver.Tolerance != 0.000001 {
		t.Errorf("Tolerance = %v, expected 1e-6", conf.Solver.Tolerance)
	}
	if len(conf.Backsolve.Targets) != 1 || conf.Backsolve.Targets[0].SecurityID != "common" {
		t.Errorf("unexpected backsolve targets: %+v", conf.Backsolve.Targets)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.DLOM.Weights.Chaffee != 40 {
		t.Errorf("Chaffee weight = %v, expected 40", conf.DLOM.Weights.Chaffee)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfiguration() expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if err := conf.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestValidateRejectsUnorderedBreakpoints(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	conf.Breakpoints[0].ExercisePrice = 9000000

	if err := conf.Validate(); err == nil {
		t.Error("Validate() expected error for unordered breakpoints")
	}
}

func TestValidateRejectsNegativeWeight(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	conf.DLOM.Weights.Finnerty = -5

	if err := conf.Validate(); err == nil {
		t.Error("Validate() expected error for negative weight")
	}
}

func TestValidateRejectsUnknownTarget(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	conf.Backsolve.Targets[0].SecurityID = "series-z"

	if err := conf.Validate(); err == nil {
		t.Error("Validate() expected error for unknown target security")
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings for the sample config, got %v", warnings)
	}

	conf.Assumptions.VolatilityPct = 500
	conf.NetProceeds = 0
	warnings := conf.ValidateConfiguration()
	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", warnings)
	}
}

func TestToDLOMWeightsDefaultsWhenUnset(t *testing.T) {
	conf := &Configuration{}
	weights := conf.ToDLOMWeights()
	if weights.Total() != 100 {
		t.Errorf("expected default weights to total 100, got %v", weights.Total())
	}
}

func TestToBreakpointsPreservesOrder(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	breakpoints := conf.ToBreakpoints()
	if len(breakpoints) != 2 {
		t.Fatalf("expected 2 breakpoints, got %d", len(breakpoints))
	}
	if breakpoints[0].Sequence != 0 || breakpoints[1].Sequence != 1 {
		t.Error("expected sequence numbers assigned in input order")
	}
	if breakpoints[1].ExercisePrice != 5000000 {
		t.Errorf("ExercisePrice = %v, expected 5000000", breakpoints[1].ExercisePrice)
	}
}
