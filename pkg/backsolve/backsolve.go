// Package backsolve implements the OPM reverse solver: given the price at
// which a recent transaction occurred for one security class, it searches for
// the total equity value that reproduces that price through the ordered
// breakpoint waterfall under option-pricing theory.
package backsolve

import (
	"fmt"
	"math"

	"github.com/equityval/opm-engine/pkg/blackscholes"
	"github.com/equityval/opm-engine/pkg/captable"
	"github.com/equityval/opm-engine/pkg/constants"
	"github.com/equityval/opm-engine/pkg/mathutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options carries the search controls for a backsolve call. Zero values fall
// back to the package defaults.
type Options struct {
	MaxIterations int
	Tolerance     float64
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = constants.DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = constants.DefaultBacksolveTolerance
	}
	return o
}

// SecurityAllocation is one security's share of a breakpoint band.
type SecurityAllocation struct {
	SecurityID              string
	ParticipatingShares     float64
	ParticipationPercent    float64
	SectionValue            float64
	SectionValuePerShare    float64
	CumulativeValue         float64
	CumulativeValuePerShare float64
}

// BreakpointResult holds the option-pricing detail for one breakpoint band at
// a given equity value.
type BreakpointResult struct {
	Sequence         int
	ExercisePrice    float64
	D1               float64
	D2               float64
	CallValue        float64
	IncrementalValue float64
	Allocations      []SecurityAllocation
}

// Result is the principal output artifact of a backsolve. The caller owns it
// fully after return. A false Converged flag means the search exhausted its
// iteration cap; EquityValue then holds the best candidate found and
// ResidualError the remaining per-share discrepancy.
type Result struct {
	RunID               string
	TargetSecurityID    string
	TargetPricePerShare float64
	ActualPricePerShare float64
	EquityValue         float64
	ResidualError       float64
	Iterations          int
	Converged           bool
	Breakpoints         []BreakpointResult
}

// Solver runs backsolve searches. It holds no per-call state and is safe for
// concurrent use.
type Solver struct {
	logger *zap.Logger
}

// New constructs a Solver with the given logger. A nil logger is replaced
// with a no-op logger.
func New(logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{logger: logger}
}

// Allocate computes the full breakpoint waterfall at a given equity value.
// Each breakpoint is priced as a call on the equity value struck at its
// exercise price; the incremental value between adjacent calls is the dollar
// amount captured by that band and is allocated pro-rata to the band's
// participating share counts. Breakpoints must be in ascending exercise-price
// order; reordering changes which incremental value accrues to which band.
func Allocate(equityValue float64, breakpoints []captable.Breakpoint, params blackscholes.Params) ([]BreakpointResult, error) {
	if len(breakpoints) == 0 {
		return nil, fmt.Errorf("at least one breakpoint is required")
	}
	if err := captable.ValidateBreakpointOrder(breakpoints); err != nil {
		return nil, err
	}

	// Price the call at every breakpoint strike once up front.
	calls := make([]float64, len(breakpoints))
	d1s := make([]float64, len(breakpoints))
	d2s := make([]float64, len(breakpoints))
	for i, bp := range breakpoints {
		p := params
		p.Spot = equityValue
		p.Strike = bp.ExercisePrice
		calls[i] = blackscholes.Call(p)
		d1s[i] = blackscholes.D1(p)
		d2s[i] = blackscholes.D2(p)
	}

	cumulativeValue := make(map[string]float64)
	cumulativePerShare := make(map[string]float64)

	results := make([]BreakpointResult, len(breakpoints))
	for i, bp := range breakpoints {
		// The band spans from this breakpoint's strike to the next one's; the
		// open-ended final band keeps the full remaining call value.
		incremental := calls[i]
		if i+1 < len(breakpoints) {
			incremental = calls[i] - calls[i+1]
		}
		incremental = mathutil.ClampNonNegative(incremental)

		br := BreakpointResult{
			Sequence:         bp.Sequence,
			ExercisePrice:    bp.ExercisePrice,
			D1:               d1s[i],
			D2:               d2s[i],
			CallValue:        calls[i],
			IncrementalValue: incremental,
		}

		totalShares := bp.TotalParticipatingShares()
		for _, participant := range bp.Participants {
			alloc := SecurityAllocation{
				SecurityID:          participant.SecurityID,
				ParticipatingShares: participant.Shares,
			}
			if totalShares > 0 {
				alloc.ParticipationPercent = mathutil.CalculatePercentage(participant.Shares, totalShares)
				alloc.SectionValue = incremental * participant.Shares / totalShares
				if participant.Shares > 0 {
					alloc.SectionValuePerShare = alloc.SectionValue / participant.Shares
				}
			}
			cumulativeValue[participant.SecurityID] += alloc.SectionValue
			cumulativePerShare[participant.SecurityID] += alloc.SectionValuePerShare
			alloc.CumulativeValue = cumulativeValue[participant.SecurityID]
			alloc.CumulativeValuePerShare = cumulativePerShare[participant.SecurityID]
			br.Allocations = append(br.Allocations, alloc)
		}

		results[i] = br
	}

	return results, nil
}

// PricePerShare extracts a security's final cumulative value per share from
// an allocation waterfall. The second return is false when the security never
// participates in any band.
func PricePerShare(results []BreakpointResult, securityID string) (float64, bool) {
	price := 0.0
	found := false
	for _, br := range results {
		for _, alloc := range br.Allocations {
			if alloc.SecurityID == securityID {
				price = alloc.CumulativeValuePerShare
				found = true
			}
		}
	}
	return price, found
}

// Solve searches for the equity value at which the target security's
// cumulative per-share value equals targetPrice. The per-share value is
// monotone non-decreasing in equity value under the waterfall, so the search
// brackets the root by doubling an upper bound and then bisects. On
// non-convergence the best candidate is returned with Converged false and
// ResidualError populated; a degraded answer with diagnostics is more useful
// to an analyst than an exception.
func (s *Solver) Solve(targetSecurityID string, targetPrice float64, breakpoints []captable.Breakpoint, params blackscholes.Params, opts Options) (Result, error) {
	opts = opts.withDefaults()

	result := Result{
		RunID:               uuid.NewString(),
		TargetSecurityID:    targetSecurityID,
		TargetPricePerShare: targetPrice,
	}

	if targetPrice <= 0 {
		return result, fmt.Errorf("target price per share must be positive, got %.6f", targetPrice)
	}
	if err := captable.ValidateBreakpointOrder(breakpoints); err != nil {
		return result, err
	}
	if len(breakpoints) == 0 {
		return result, fmt.Errorf("at least one breakpoint is required")
	}

	participates := false
	for _, bp := range breakpoints {
		if _, ok := bp.FindParticipant(targetSecurityID); ok {
			participates = true
			break
		}
	}
	if !participates {
		return result, fmt.Errorf("target security %s does not participate in any breakpoint", targetSecurityID)
	}

	evaluate := func(equityValue float64) (float64, []BreakpointResult, error) {
		waterfall, err := Allocate(equityValue, breakpoints, params)
		if err != nil {
			return 0, nil, err
		}
		price, _ := PricePerShare(waterfall, targetSecurityID)
		return price, waterfall, nil
	}

	// Bracket the root: double the upper bound until the achieved price
	// reaches the target. The initial guess scales the target price by the
	// largest participating share count so typical cap tables bracket fast.
	low := 0.0
	high := initialUpperBound(targetPrice, breakpoints)
	iterations := 0

	highPrice, highWaterfall, err := evaluate(high)
	if err != nil {
		return result, err
	}
	iterations++

	for highPrice < targetPrice && iterations < opts.MaxIterations {
		low = high
		high *= 2
		highPrice, highWaterfall, err = evaluate(high)
		if err != nil {
			return result, err
		}
		iterations++
	}

	best := Result{
		RunID:               result.RunID,
		TargetSecurityID:    targetSecurityID,
		TargetPricePerShare: targetPrice,
		ActualPricePerShare: highPrice,
		EquityValue:         high,
		ResidualError:       math.Abs(highPrice - targetPrice),
		Breakpoints:         highWaterfall,
	}

	for iterations < opts.MaxIterations {
		mid := (low + high) / 2
		price, waterfall, evalErr := evaluate(mid)
		if evalErr != nil {
			return result, evalErr
		}
		iterations++

		residual := math.Abs(price - targetPrice)
		if residual < best.ResidualError {
			best.EquityValue = mid
			best.ActualPricePerShare = price
			best.ResidualError = residual
			best.Breakpoints = waterfall
		}

		s.logger.Debug("backsolve iteration",
			zap.String("op", "backsolve.Solve"),
			zap.String("runId", result.RunID),
			zap.Int("iteration", iterations),
			zap.Float64("equityValue", mid),
			zap.Float64("pricePerShare", price),
			zap.Float64("residual", residual),
		)

		if residual <= opts.Tolerance {
			best.Converged = true
			break
		}

		if price < targetPrice {
			low = mid
		} else {
			high = mid
		}
	}

	best.Iterations = iterations
	if !best.Converged {
		s.logger.Warn("backsolve reached iteration cap without converging",
			zap.String("op", "backsolve.Solve"),
			zap.String("runId", result.RunID),
			zap.Int("iterations", iterations),
			zap.Float64("equityValue", best.EquityValue),
			zap.Float64("residualError", best.ResidualError),
		)
	}

	return best, nil
}

// initialUpperBound proposes a starting bracket from the target price and the
// widest participation in the waterfall, plus the last breakpoint's strike so
// the bracket clears every band threshold.
func initialUpperBound(targetPrice float64, breakpoints []captable.Breakpoint) float64 {
	maxShares := 0.0
	for _, bp := range breakpoints {
		if total := bp.TotalParticipatingShares(); total > maxShares {
			maxShares = total
		}
	}
	bound := targetPrice * mathutil.Max(maxShares, 1.0)
	bound += breakpoints[len(breakpoints)-1].ExercisePrice
	if bound <= 0 {
		bound = 1.0
	}
	return bound
}
