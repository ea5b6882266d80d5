// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/equityval/opm-engine/internal/valuation"
	"github.com/equityval/opm-engine/pkg/backsolve"
)

// FindTarget finds a valuation result by target security id in the results
// slice. Returns a pointer to the valuation if found, nil otherwise.
func FindTarget(results []valuation.Valuation, securityID string) *valuation.Valuation {
	for i := range results {
		if results[i].TargetSecurityID == securityID {
			return &results[i]
		}
	}
	return nil
}

// FindAllocation finds a security's allocation within a breakpoint result.
// Returns a pointer to the allocation if found, nil otherwise.
func FindAllocation(bp backsolve.BreakpointResult, securityID string) *backsolve.SecurityAllocation {
	for i := range bp.Allocations {
		if bp.Allocations[i].SecurityID == securityID {
			return &bp.Allocations[i]
		}
	}
	return nil
}
