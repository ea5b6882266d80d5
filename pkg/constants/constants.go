// Package constants provides shared constants for the opm-engine application.
package constants

// Solver defaults
const (
	// DefaultMaxIterations is the iteration cap for the circular resolver and
	// the backsolve root search
	DefaultMaxIterations = 100

	// DefaultConvergenceThreshold is the price-per-share delta below which the
	// circular resolver is considered converged
	DefaultConvergenceThreshold = 0.01

	// DefaultBacksolveTolerance is the per-share residual below which the
	// backsolve root search is considered converged
	DefaultBacksolveTolerance = 1e-6

	// InitialPricePerShare seeds the circular resolver's fixed-point iteration
	InitialPricePerShare = 1.0
)

// DLOM calibration defaults
const (
	// DefaultAverageStrikeRatio sets the Finnerty model's effective strike as a
	// fraction of spot, approximating the average-strike assumption
	DefaultAverageStrikeRatio = 0.92

	// DefaultGhaidarovScale calibrates the Ghaidarov closed-form approximation
	DefaultGhaidarovScale = 0.35

	// DefaultLongstaffScale calibrates the Longstaff upper-bound approximation
	DefaultLongstaffScale = 0.25

	// DefaultModelWeight is the equal weighting applied to each DLOM model when
	// no weight vector is configured
	DefaultModelWeight = 25.0
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxDiscountPercent bounds any DLOM model output
	MaxDiscountPercent = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "valuation.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
