// Package blackscholes provides the option-pricing primitives used by the
// allocation waterfall, the backsolve solver, and the DLOM models.
package blackscholes

import (
	"math"

	"github.com/equityval/opm-engine/pkg/mathutil"
)

// Params holds the inputs to a single Black-Scholes valuation. Volatility,
// RiskFreeRate, and DividendYield are annualized decimal fractions;
// TimeToExpiry is in years.
type Params struct {
	Spot          float64
	Strike        float64
	Volatility    float64
	RiskFreeRate  float64
	TimeToExpiry  float64
	DividendYield float64
}

// Degenerate reports whether the parameters carry no time value (zero or
// negative time to expiry or volatility). Pricing degenerate parameters
// returns intrinsic value rather than an error; real cap tables contain
// zero-term options.
func (p Params) Degenerate() bool {
	return p.TimeToExpiry <= 0 || p.Volatility <= 0
}

// Abramowitz & Stegun 26.2.17 coefficients for the normal CDF polynomial
// approximation (absolute error below 7.5e-8).
const (
	cdfGamma = 0.2316419
	cdfA1    = 0.319381530
	cdfA2    = -0.356563782
	cdfA3    = 1.781477937
	cdfA4    = -1.821255978
	cdfA5    = 1.330274429
)

// NormCDF approximates the standard normal cumulative distribution function
// with a closed-form polynomial. The ~1e-7 accuracy is acceptable in this
// domain since the inputs are themselves estimates.
func NormCDF(z float64) float64 {
	if z < 0 {
		return 1.0 - NormCDF(-z)
	}
	k := 1.0 / (1.0 + cdfGamma*z)
	poly := k * (cdfA1 + k*(cdfA2+k*(cdfA3+k*(cdfA4+k*cdfA5))))
	return 1.0 - NormPDF(z)*poly
}

// NormPDF is the standard normal probability density function.
func NormPDF(z float64) float64 {
	return math.Exp(-0.5*z*z) / math.Sqrt(2.0*math.Pi)
}

// D1 computes [ln(S/K) + (r - q + sigma^2/2)T] / (sigma*sqrt(T)).
// Callers must check Degenerate() first; D1 on degenerate params returns 0.
func D1(p Params) float64 {
	if p.Degenerate() || p.Spot <= 0 || p.Strike <= 0 {
		return 0
	}
	numerator := math.Log(p.Spot/p.Strike) +
		(p.RiskFreeRate-p.DividendYield+0.5*p.Volatility*p.Volatility)*p.TimeToExpiry
	return numerator / (p.Volatility * math.Sqrt(p.TimeToExpiry))
}

// D2 computes d1 - sigma*sqrt(T).
func D2(p Params) float64 {
	if p.Degenerate() || p.Spot <= 0 || p.Strike <= 0 {
		return 0
	}
	return D1(p) - p.Volatility*math.Sqrt(p.TimeToExpiry)
}

// Call prices a European call: S*exp(-qT)*N(d1) - K*exp(-rT)*N(d2).
// Degenerate parameters short-circuit to intrinsic value; the result is
// clamped to be non-negative.
func Call(p Params) float64 {
	if p.Degenerate() {
		return mathutil.ClampNonNegative(p.Spot - p.Strike)
	}
	if p.Spot <= 0 {
		return 0
	}
	if p.Strike <= 0 {
		// A zero-strike call is the discounted forward itself.
		return mathutil.ClampNonNegative(p.Spot * math.Exp(-p.DividendYield*p.TimeToExpiry))
	}
	d1 := D1(p)
	d2 := D2(p)
	price := p.Spot*math.Exp(-p.DividendYield*p.TimeToExpiry)*NormCDF(d1) -
		p.Strike*math.Exp(-p.RiskFreeRate*p.TimeToExpiry)*NormCDF(d2)
	return mathutil.ClampNonNegative(price)
}

// Put prices a European put: K*exp(-rT)*N(-d2) - S*exp(-qT)*N(-d1).
// Degenerate parameters short-circuit to intrinsic value; the result is
// clamped to be non-negative.
func Put(p Params) float64 {
	if p.Degenerate() {
		return mathutil.ClampNonNegative(p.Strike - p.Spot)
	}
	if p.Strike <= 0 {
		return 0
	}
	if p.Spot <= 0 {
		return mathutil.ClampNonNegative(p.Strike * math.Exp(-p.RiskFreeRate*p.TimeToExpiry))
	}
	d1 := D1(p)
	d2 := D2(p)
	price := p.Strike*math.Exp(-p.RiskFreeRate*p.TimeToExpiry)*NormCDF(-d2) -
		p.Spot*math.Exp(-p.DividendYield*p.TimeToExpiry)*NormCDF(-d1)
	return mathutil.ClampNonNegative(price)
}
