// Package config defines the data structures related to configuration and
// includes functions for loading and validating the valuation config file.
package config

import (
	"fmt"
	"io"

	"github.com/spf13/viper"
)

// Configuration holds all configuration for a valuation run: the capital
// structure, the breakpoint waterfall, the option-pricing assumptions, and
// the solver controls.
type Configuration struct {
	Name        string
	NetProceeds float64
	CapTable    CapTableConfig
	Breakpoints []BreakpointConfig
	Assumptions Assumptions
	DLOM        DLOMConfig
	Backsolve   BacksolveConfig
	Solver      SolverConfig
	Logging     LoggingConfig `yaml:"logging,omitempty"`
	Output      OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// CapTableConfig describes the capital structure supplied by the caller.
type CapTableConfig struct {
	CommonShares float64
	Securities   []SecurityConfig
	OptionPools  []OptionPoolConfig
}

// SecurityConfig is one security class on the capital table.
type SecurityConfig struct {
	ID            string
	Name          string
	ShareCount    float64
	StrikePrice   float64
	Seniority     int
	Participating bool
}

// OptionPoolConfig is one option tranche whose exercise depends on the
// resolved price per share.
type OptionPoolConfig struct {
	ID          string
	Name        string
	ShareCount  float64
	StrikePrice float64
}

// BreakpointConfig is one exit-value band of the allocation waterfall. The
// sequence is significant: exercise prices must be non-decreasing.
type BreakpointConfig struct {
	Sequence      int
	ExercisePrice float64
	UpperBound    float64
	Participants  []ParticipantConfig
}

// ParticipantConfig is one security's participation in a breakpoint band.
type ParticipantConfig struct {
	SecurityID string
	Shares     float64
}

// Assumptions holds the Black-Scholes assumption set for the valuation.
// Percentage fields are expressed as percentages (45 means 45%).
type Assumptions struct {
	VolatilityPct        float64
	RiskFreeRatePct      float64
	TimeToLiquidityYears float64
	DividendYieldPct     float64
}

// DLOMConfig holds the model weights and calibration overrides for the
// marketability discount. Zero calibration values fall back to defaults.
type DLOMConfig struct {
	Weights            WeightsConfig
	AverageStrikeRatio float64
	GhaidarovScale     float64
	LongstaffScale     float64
}

// WeightsConfig is the DLOM blending vector.
type WeightsConfig struct {
	Chaffee   float64
	Finnerty  float64
	Ghaidarov float64
	Longstaff float64
}

// BacksolveConfig lists the target securities to backsolve.
type BacksolveConfig struct {
	Targets []TargetConfig
}

// TargetConfig identifies a security with a known transaction price.
type TargetConfig struct {
	SecurityID          string
	TargetPricePerShare float64
}

// SolverConfig carries the iteration controls. Zero values fall back to the
// package defaults in pkg/constants.
type SolverConfig struct {
	MaxIterations        int
	ConvergenceThreshold float64
	Tolerance            float64
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from an
// in-memory reader, e.g. an HTTP upload.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}
