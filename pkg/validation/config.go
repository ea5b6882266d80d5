// Package validation provides valuation configuration validation utilities.
package validation

import (
	"fmt"
)

// ValidateWeights rejects negative DLOM model weights. An all-zero vector is
// allowed; the blend degrades to zero rather than erroring.
func ValidateWeights(chaffee, finnerty, ghaidarov, longstaff float64) error {
	weights := map[string]float64{
		"chaffee":   chaffee,
		"finnerty":  finnerty,
		"ghaidarov": ghaidarov,
		"longstaff": longstaff,
	}
	for name, weight := range weights {
		if weight < 0 {
			return fmt.Errorf("DLOM weight %s must be non-negative, got %.4f", name, weight)
		}
	}
	return nil
}

// AssumptionWarnings flags assumption values that are legal but implausible
// for a private-company valuation. These are warnings, not errors; unusual
// cap tables exist.
func AssumptionWarnings(volatilityPct, riskFreeRatePct, timeToLiquidityYears, dividendYieldPct float64) []string {
	var warnings []string

	if volatilityPct <= 0 {
		warnings = append(warnings, "volatility is zero or negative - option values collapse to intrinsic value and DLOM will be zero")
	} else if volatilityPct < 10 {
		warnings = append(warnings, fmt.Sprintf("volatility %.1f%% is unusually low for a private company", volatilityPct))
	} else if volatilityPct > 150 {
		warnings = append(warnings, fmt.Sprintf("volatility %.1f%% is unusually high", volatilityPct))
	}

	if riskFreeRatePct < 0 {
		warnings = append(warnings, fmt.Sprintf("risk-free rate %.2f%% is negative", riskFreeRatePct))
	} else if riskFreeRatePct > 15 {
		warnings = append(warnings, fmt.Sprintf("risk-free rate %.2f%% is unusually high", riskFreeRatePct))
	}

	if timeToLiquidityYears <= 0 {
		warnings = append(warnings, "time to liquidity is zero or negative - option values collapse to intrinsic value and DLOM will be zero")
	} else if timeToLiquidityYears > 10 {
		warnings = append(warnings, fmt.Sprintf("time to liquidity %.1f years is unusually long", timeToLiquidityYears))
	}

	if dividendYieldPct < 0 {
		warnings = append(warnings, fmt.Sprintf("dividend yield %.2f%% is negative", dividendYieldPct))
	} else if dividendYieldPct > 10 {
		warnings = append(warnings, fmt.Sprintf("dividend yield %.2f%% is unusually high for a private company", dividendYieldPct))
	}

	return warnings
}
