// Package valuation defines the data structures related to a valuation run
// and includes functions for computing them. A run backsolves the equity
// value implied by each target security's known transaction price, resolves
// circular option exercise when net proceeds are configured, and layers the
// marketability discount onto the resulting per-share value.
package valuation

import (
	"fmt"

	"github.com/equityval/opm-engine/internal/config"
	"github.com/equityval/opm-engine/pkg/backsolve"
	"github.com/equityval/opm-engine/pkg/constants"
	"github.com/equityval/opm-engine/pkg/dlom"
	"github.com/equityval/opm-engine/pkg/resolver"
	"go.uber.org/zap"
)

// Valuation holds all information related to one backsolve target.
type Valuation struct {
	Name                    string
	TargetSecurityID        string
	Backsolve               backsolve.Result
	Resolution              *resolver.Result
	DLOM                    dlom.Result
	PricePerShare           float64
	DiscountedPricePerShare float64
}

// GetValuation processes the valuations for all backsolve targets.
func GetValuation(logger *zap.Logger, conf config.Configuration) ([]Valuation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	breakpoints := conf.ToBreakpoints()
	params := conf.ToBlackScholesParams()
	weights := conf.ToDLOMWeights()
	modelParams := conf.ToDLOMModelParams()
	solver := backsolve.New(logger)

	// The circular exercise resolution depends only on net proceeds and the
	// capital table, so one resolve covers every target.
	var resolution *resolver.Result
	if conf.NetProceeds > 0 {
		resolved := resolver.Resolve(logger, conf.ToCapTable(), conf.NetProceeds, conf.ToResolverOptions())
		resolution = &resolved
		logger.Debug("circular exercise resolved",
			zap.String("op", "valuation.GetValuation"),
			zap.Float64("pricePerShare", resolved.FinalPricePerShare),
			zap.Int("iterations", resolved.Iterations),
			zap.Bool("converged", resolved.Converged),
		)
	}

	var results []Valuation
	for _, target := range conf.Backsolve.Targets {
		solved, err := solver.Solve(target.SecurityID, target.TargetPricePerShare, breakpoints, params, conf.ToBacksolveOptions())
		if err != nil {
			return results, fmt.Errorf("backsolve failed for target %s: %w", target.SecurityID, err)
		}

		discounts := dlom.Calculate(conf.ToDLOMInputs(solved.ActualPricePerShare), weights, modelParams)
		discounted := solved.ActualPricePerShare * (1 - discounts.WeightedAverage/constants.PercentageMultiplier)

		result := Valuation{
			Name:                    conf.Name,
			TargetSecurityID:        target.SecurityID,
			Backsolve:               solved,
			Resolution:              resolution,
			DLOM:                    discounts,
			PricePerShare:           solved.ActualPricePerShare,
			DiscountedPricePerShare: discounted,
		}
		results = append(results, result)

		logger.Info("valuation target computed",
			zap.String("op", "valuation.GetValuation"),
			zap.String("runId", solved.RunID),
			zap.String("security", target.SecurityID),
			zap.Float64("equityValue", solved.EquityValue),
			zap.Float64("pricePerShare", solved.ActualPricePerShare),
			zap.Float64("dlomPct", discounts.WeightedAverage),
			zap.Bool("converged", solved.Converged),
		)
	}

	return results, nil
}
