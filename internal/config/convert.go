package config

import (
	"github.com/equityval/opm-engine/pkg/backsolve"
	"github.com/equityval/opm-engine/pkg/blackscholes"
	"github.com/equityval/opm-engine/pkg/captable"
	"github.com/equityval/opm-engine/pkg/constants"
	"github.com/equityval/opm-engine/pkg/dlom"
	"github.com/equityval/opm-engine/pkg/resolver"
)

// ToCapTable converts the configured capital structure into the resolver's
// input type.
func (c *Configuration) ToCapTable() captable.CapTable {
	table := captable.CapTable{
		CommonShares: c.CapTable.CommonShares,
	}
	for _, pool := range c.CapTable.OptionPools {
		table.OptionPools = append(table.OptionPools, captable.OptionPool{
			ID:          pool.ID,
			Name:        pool.Name,
			ShareCount:  pool.ShareCount,
			StrikePrice: pool.StrikePrice,
		})
	}
	return table
}

// ToBreakpoints converts the configured waterfall into the solver's input
// type, preserving sequence order.
func (c *Configuration) ToBreakpoints() []captable.Breakpoint {
	breakpoints := make([]captable.Breakpoint, 0, len(c.Breakpoints))
	for i, bp := range c.Breakpoints {
		converted := captable.Breakpoint{
			Sequence:      i,
			ExercisePrice: bp.ExercisePrice,
			UpperBound:    bp.UpperBound,
		}
		for _, p := range bp.Participants {
			converted.Participants = append(converted.Participants, captable.Participant{
				SecurityID: p.SecurityID,
				Shares:     p.Shares,
			})
		}
		breakpoints = append(breakpoints, converted)
	}
	return breakpoints
}

// ToBlackScholesParams maps the percentage-style assumptions to the decimal
// fractions the pricing primitives expect. Spot and strike are filled in by
// the solver per breakpoint.
func (c *Configuration) ToBlackScholesParams() blackscholes.Params {
	return blackscholes.Params{
		Volatility:    c.Assumptions.VolatilityPct / constants.PercentageMultiplier,
		RiskFreeRate:  c.Assumptions.RiskFreeRatePct / constants.PercentageMultiplier,
		TimeToExpiry:  c.Assumptions.TimeToLiquidityYears,
		DividendYield: c.Assumptions.DividendYieldPct / constants.PercentageMultiplier,
	}
}

// ToDLOMInputs builds the DLOM assumption set around a computed per-share
// value, struck at the money.
func (c *Configuration) ToDLOMInputs(pricePerShare float64) dlom.Inputs {
	return dlom.Inputs{
		StockPrice:            pricePerShare,
		StrikePrice:           pricePerShare,
		VolatilityPct:         c.Assumptions.VolatilityPct,
		RiskFreeRatePct:       c.Assumptions.RiskFreeRatePct,
		TimeToExpirationYears: c.Assumptions.TimeToLiquidityYears,
		DividendYieldPct:      c.Assumptions.DividendYieldPct,
	}
}

// ToDLOMWeights returns the configured weight vector, defaulting to the equal
// 25/25/25/25 split when none is configured.
func (c *Configuration) ToDLOMWeights() dlom.Weights {
	w := dlom.Weights{
		Chaffee:   c.DLOM.Weights.Chaffee,
		Finnerty:  c.DLOM.Weights.Finnerty,
		Ghaidarov: c.DLOM.Weights.Ghaidarov,
		Longstaff: c.DLOM.Weights.Longstaff,
	}
	if w.Total() == 0 {
		return dlom.DefaultWeights()
	}
	return w
}

// ToDLOMModelParams returns the calibration constants with any configured
// overrides applied.
func (c *Configuration) ToDLOMModelParams() dlom.ModelParams {
	return dlom.ModelParams{
		AverageStrikeRatio: c.DLOM.AverageStrikeRatio,
		GhaidarovScale:     c.DLOM.GhaidarovScale,
		LongstaffScale:     c.DLOM.LongstaffScale,
	}
}

// ToResolverOptions maps the solver block to the circular resolver controls.
func (c *Configuration) ToResolverOptions() resolver.Options {
	return resolver.Options{
		MaxIterations:        c.Solver.MaxIterations,
		ConvergenceThreshold: c.Solver.ConvergenceThreshold,
	}
}

// ToBacksolveOptions maps the solver block to the backsolve controls.
func (c *Configuration) ToBacksolveOptions() backsolve.Options {
	return backsolve.Options{
		MaxIterations: c.Solver.MaxIterations,
		Tolerance:     c.Solver.Tolerance,
	}
}
