// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/equityval/opm-engine/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons and for display.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ClampNonNegative floors a value at zero. Monetary outputs from the pricing
// primitives are never negative.
func ClampNonNegative(val float64) float64 {
	if val < 0 {
		return 0
	}
	return val
}

// ClampPercent bounds a percentage-style value to [0, 100].
func ClampPercent(val float64) float64 {
	if val < 0 {
		return 0
	}
	if val > constants.MaxDiscountPercent {
		return constants.MaxDiscountPercent
	}
	return val
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}
