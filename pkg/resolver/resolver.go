// Package resolver implements the circular option-exercise resolver. Some
// option pools only become economically exercised once the per-share value
// exceeds their strike, but the per-share value depends on total diluted
// shares, which depends on which pools are exercised. The resolver finds a
// self-consistent price per share by fixed-point iteration.
package resolver

import (
	"math"

	"github.com/equityval/opm-engine/pkg/captable"
	"github.com/equityval/opm-engine/pkg/constants"
	"go.uber.org/zap"
)

// Options carries the iteration controls for a resolve call. Zero values fall
// back to the package defaults so callers only override what they need.
// Exercise is binary: a pool is fully exercised when the price per share
// strictly exceeds its strike, otherwise fully unexercised. No partial
// pro-rata exercise is modeled.
type Options struct {
	MaxIterations        int
	ConvergenceThreshold float64
	InitialPrice         float64
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = constants.DefaultMaxIterations
	}
	if o.ConvergenceThreshold <= 0 {
		o.ConvergenceThreshold = constants.DefaultConvergenceThreshold
	}
	if o.InitialPrice <= 0 {
		o.InitialPrice = constants.InitialPricePerShare
	}
	return o
}

// Result is the converged (or best-effort) resolution state. A false
// Converged flag means the iteration cap was reached; the caller must treat
// the values as degraded-confidence, not as an error.
type Result struct {
	FinalPricePerShare float64
	ExercisedByPool    map[string]float64
	Iterations         int
	Converged          bool
}

// Resolve runs the fixed-point iteration for the given capital table and net
// exit proceeds. The iteration can oscillate when a pool's strike sits near
// the resolved price (the pool flips in and out each pass); the iteration cap
// bounds that case and the Converged flag reports it.
func Resolve(logger *zap.Logger, table captable.CapTable, netProceeds float64, opts Options) Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	price := opts.InitialPrice
	exercised := make(map[string]bool, len(table.OptionPools))
	for _, pool := range table.OptionPools {
		exercised[pool.ID] = price > pool.StrikePrice
	}

	result := Result{
		FinalPricePerShare: price,
		ExercisedByPool:    make(map[string]float64, len(table.OptionPools)),
	}

	for iteration := 1; iteration <= opts.MaxIterations; iteration++ {
		totalShares := table.CommonShares
		for _, pool := range table.OptionPools {
			if exercised[pool.ID] {
				totalShares += pool.ShareCount
			}
		}

		newPrice := price
		if totalShares > 0 {
			newPrice = netProceeds / totalShares
		}

		for _, pool := range table.OptionPools {
			exercised[pool.ID] = newPrice > pool.StrikePrice
		}

		delta := math.Abs(newPrice - price)
		price = newPrice
		result.Iterations = iteration

		logger.Debug("resolver iteration",
			zap.String("op", "resolver.Resolve"),
			zap.Int("iteration", iteration),
			zap.Float64("totalShares", totalShares),
			zap.Float64("pricePerShare", newPrice),
			zap.Float64("delta", delta),
		)

		if delta < opts.ConvergenceThreshold {
			result.Converged = true
			break
		}
	}

	result.FinalPricePerShare = price
	for _, pool := range table.OptionPools {
		if exercised[pool.ID] {
			result.ExercisedByPool[pool.ID] = pool.ShareCount
		} else {
			result.ExercisedByPool[pool.ID] = 0
		}
	}

	if !result.Converged {
		logger.Warn("resolver reached iteration cap without converging",
			zap.String("op", "resolver.Resolve"),
			zap.Int("iterations", result.Iterations),
			zap.Float64("pricePerShare", price),
		)
	}

	return result
}
