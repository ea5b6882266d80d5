package config

import (
	"fmt"

	"github.com/equityval/opm-engine/pkg/captable"
	"github.com/equityval/opm-engine/pkg/validation"
)

// Validate checks the hard preconditions: breakpoint ordering, weight signs,
// and target resolvability. Violations here would corrupt every downstream
// result, so they fail loudly instead of degrading.
func (c *Configuration) Validate() error {
	if len(c.Breakpoints) == 0 {
		return fmt.Errorf("at least one breakpoint is required")
	}

	if err := captable.ValidateBreakpointOrder(c.ToBreakpoints()); err != nil {
		return err
	}

	if err := validation.ValidateWeights(
		c.DLOM.Weights.Chaffee,
		c.DLOM.Weights.Finnerty,
		c.DLOM.Weights.Ghaidarov,
		c.DLOM.Weights.Longstaff,
	); err != nil {
		return err
	}

	if len(c.Backsolve.Targets) == 0 {
		return fmt.Errorf("at least one backsolve target is required")
	}

	for _, target := range c.Backsolve.Targets {
		if target.SecurityID == "" {
			return fmt.Errorf("backsolve target is missing a security id")
		}
		if target.TargetPricePerShare <= 0 {
			return fmt.Errorf("backsolve target %s requires a positive target price per share, got %.6f",
				target.SecurityID, target.TargetPricePerShare)
		}
		if !c.targetParticipates(target.SecurityID) {
			return fmt.Errorf("backsolve target %s does not participate in any breakpoint", target.SecurityID)
		}
	}

	return nil
}

func (c *Configuration) targetParticipates(securityID string) bool {
	for _, bp := range c.Breakpoints {
		for _, p := range bp.Participants {
			if p.SecurityID == securityID {
				return true
			}
		}
	}
	return false
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Warnings indicate implausible but legal inputs; they
// never block a run.
func (c *Configuration) ValidateConfiguration() []string {
	warnings := validation.AssumptionWarnings(
		c.Assumptions.VolatilityPct,
		c.Assumptions.RiskFreeRatePct,
		c.Assumptions.TimeToLiquidityYears,
		c.Assumptions.DividendYieldPct,
	)

	knownSecurities := make(map[string]bool)
	for _, sec := range c.CapTable.Securities {
		knownSecurities[sec.ID] = true
	}
	if len(knownSecurities) > 0 {
		for i, bp := range c.Breakpoints {
			for _, p := range bp.Participants {
				if !knownSecurities[p.SecurityID] {
					warnings = append(warnings, fmt.Sprintf(
						"breakpoint %d references security %s which is not on the capital table",
						i, p.SecurityID))
				}
			}
		}
	}

	if c.NetProceeds <= 0 && len(c.CapTable.OptionPools) > 0 {
		warnings = append(warnings, "option pools are configured but netProceeds is not set - the circular exercise resolution will be skipped")
	}

	for _, pool := range c.CapTable.OptionPools {
		if pool.ShareCount <= 0 {
			warnings = append(warnings, fmt.Sprintf("option pool %s has no exercisable shares", pool.ID))
		}
	}

	return warnings
}
