package testutil

import (
	"testing"

	"github.com/equityval/opm-engine/internal/valuation"
	"github.com/equityval/opm-engine/pkg/backsolve"
)

func TestFindTarget(t *testing.T) {
	results := []valuation.Valuation{
		{TargetSecurityID: "common"},
		{TargetSecurityID: "series-a"},
	}

	if found := FindTarget(results, "series-a"); found == nil || found.TargetSecurityID != "series-a" {
		t.Errorf("FindTarget() = %+v, expected series-a", found)
	}
	if found := FindTarget(results, "series-z"); found != nil {
		t.Errorf("FindTarget() = %+v, expected nil for unknown security", found)
	}
}

func TestFindAllocation(t *testing.T) {
	bp := backsolve.BreakpointResult{
		Allocations: []backsolve.SecurityAllocation{
			{SecurityID: "common", SectionValue: 100},
			{SecurityID: "series-a", SectionValue: 200},
		},
	}

	if alloc := FindAllocation(bp, "common"); alloc == nil || alloc.SectionValue != 100 {
		t.Errorf("FindAllocation() = %+v, expected common with 100", alloc)
	}
	if alloc := FindAllocation(bp, "missing"); alloc != nil {
		t.Errorf("FindAllocation() = %+v, expected nil", alloc)
	}
}
