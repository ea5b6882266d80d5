// Package dlom computes the discount for lack of marketability using four
// put-option-based estimators and a weighted blend. The calculator is pure:
// it holds no state, performs no I/O, and is recomputed on every request.
package dlom

import (
	"math"

	"github.com/equityval/opm-engine/pkg/blackscholes"
	"github.com/equityval/opm-engine/pkg/constants"
	"github.com/equityval/opm-engine/pkg/mathutil"
)

// Inputs holds the assumption set for one DLOM calculation. Percentage fields
// are expressed as percentages (20 means 20%), matching how assumption records
// arrive from the caller.
type Inputs struct {
	StockPrice            float64
	StrikePrice           float64
	VolatilityPct         float64
	RiskFreeRatePct       float64
	TimeToExpirationYears float64
	DividendYieldPct      float64
}

// Weights is the blending vector across the four models. Weights are
// non-negative and normalized internally; a zero total degrades to a zero
// blended discount rather than dividing by zero.
type Weights struct {
	Chaffee   float64
	Finnerty  float64
	Ghaidarov float64
	Longstaff float64
}

// DefaultWeights returns the equal 25/25/25/25 weighting.
func DefaultWeights() Weights {
	return Weights{
		Chaffee:   constants.DefaultModelWeight,
		Finnerty:  constants.DefaultModelWeight,
		Ghaidarov: constants.DefaultModelWeight,
		Longstaff: constants.DefaultModelWeight,
	}
}

// Total sums the weight vector.
func (w Weights) Total() float64 {
	return w.Chaffee + w.Finnerty + w.Ghaidarov + w.Longstaff
}

// ModelParams carries the calibration constants baked into the models. They
// are configuration, not algorithmic invariants, and can be overridden per
// valuation context.
type ModelParams struct {
	// AverageStrikeRatio sets the Finnerty model's effective strike as a
	// fraction of spot, approximating the average-strike assumption without
	// an exact Asian-option closed form.
	AverageStrikeRatio float64

	// GhaidarovScale calibrates the Ghaidarov closed-form approximation.
	GhaidarovScale float64

	// LongstaffScale calibrates the Longstaff upper-bound approximation.
	LongstaffScale float64
}

// DefaultModelParams returns the calibration used in production valuations.
func DefaultModelParams() ModelParams {
	return ModelParams{
		AverageStrikeRatio: constants.DefaultAverageStrikeRatio,
		GhaidarovScale:     constants.DefaultGhaidarovScale,
		LongstaffScale:     constants.DefaultLongstaffScale,
	}
}

func (mp ModelParams) withDefaults() ModelParams {
	defaults := DefaultModelParams()
	if mp.AverageStrikeRatio <= 0 {
		mp.AverageStrikeRatio = defaults.AverageStrikeRatio
	}
	if mp.GhaidarovScale <= 0 {
		mp.GhaidarovScale = defaults.GhaidarovScale
	}
	if mp.LongstaffScale <= 0 {
		mp.LongstaffScale = defaults.LongstaffScale
	}
	return mp
}

// Result holds the four model outputs and the weighted blend, all as
// percentages of spot clamped to [0, 100].
type Result struct {
	Chaffee         float64
	Finnerty        float64
	Ghaidarov       float64
	Longstaff       float64
	WeightedAverage float64
}

// Calculate produces all four discount estimates and their weighted blend.
// Zero or negative volatility or time means no marketability risk, so every
// model returns 0.
func Calculate(inputs Inputs, weights Weights, params ModelParams) Result {
	params = params.withDefaults()

	var result Result
	if inputs.VolatilityPct <= 0 || inputs.TimeToExpirationYears <= 0 {
		return result
	}

	sigma := inputs.VolatilityPct / constants.PercentageMultiplier
	rate := inputs.RiskFreeRatePct / constants.PercentageMultiplier
	yield := inputs.DividendYieldPct / constants.PercentageMultiplier

	result.Chaffee = chaffee(inputs, sigma, rate, yield)
	result.Finnerty = finnerty(inputs, sigma, rate, yield, params.AverageStrikeRatio)
	result.Ghaidarov = ghaidarov(sigma, inputs.TimeToExpirationYears, params.GhaidarovScale)
	result.Longstaff = longstaff(sigma, rate, inputs.TimeToExpirationYears, params.LongstaffScale)
	result.WeightedAverage = blend(result, weights)

	return result
}

// chaffee prices a protective put at the given strike and expresses it as a
// percentage of spot.
func chaffee(inputs Inputs, sigma, rate, yield float64) float64 {
	if inputs.StockPrice <= 0 {
		return 0
	}
	put := blackscholes.Put(blackscholes.Params{
		Spot:          inputs.StockPrice,
		Strike:        inputs.StrikePrice,
		Volatility:    sigma,
		RiskFreeRate:  rate,
		TimeToExpiry:  inputs.TimeToExpirationYears,
		DividendYield: yield,
	})
	return mathutil.ClampPercent(put / inputs.StockPrice * constants.PercentageMultiplier)
}

// finnerty approximates an average-strike put by repricing the protective put
// with the strike pulled down to a fixed fraction of spot.
func finnerty(inputs Inputs, sigma, rate, yield, strikeRatio float64) float64 {
	if inputs.StockPrice <= 0 {
		return 0
	}
	put := blackscholes.Put(blackscholes.Params{
		Spot:          inputs.StockPrice,
		Strike:        inputs.StockPrice * strikeRatio,
		Volatility:    sigma,
		RiskFreeRate:  rate,
		TimeToExpiry:  inputs.TimeToExpirationYears,
		DividendYield: yield,
	})
	return mathutil.ClampPercent(put / inputs.StockPrice * constants.PercentageMultiplier)
}

// ghaidarov is a closed-form approximation: a saturating monotonic function
// of sigma*sqrt(T), no option-pricing call involved.
func ghaidarov(sigma, years, scale float64) float64 {
	volTerm := sigma * math.Sqrt(years)
	discount := constants.PercentageMultiplier * (1.0 - math.Exp(-scale*volTerm))
	return mathutil.ClampPercent(discount)
}

// longstaff is a closed-form upper-bound approximation: linear in
// sigma*sqrt(T) with a rate adjustment through r*T.
func longstaff(sigma, rate, years, scale float64) float64 {
	volTerm := sigma * math.Sqrt(years)
	discount := constants.PercentageMultiplier * scale * volTerm * (1.0 + rate*years)
	return mathutil.ClampPercent(discount)
}

// blend computes the weight-normalized average of the four models.
func blend(result Result, weights Weights) float64 {
	total := weights.Total()
	if total <= 0 {
		return 0
	}
	weighted := result.Chaffee*weights.Chaffee +
		result.Finnerty*weights.Finnerty +
		result.Ghaidarov*weights.Ghaidarov +
		result.Longstaff*weights.Longstaff
	return mathutil.ClampPercent(weighted / total)
}
