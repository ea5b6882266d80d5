package valuation

import (
	"testing"

	"github.com/equityval/opm-engine/internal/config"
	"go.uber.org/zap"
)

func sampleConfiguration() config.Configuration {
	return config.Configuration{
		Name:        "Series B Backsolve",
		NetProceeds: 5000000,
		CapTable: config.CapTableConfig{
			CommonShares: 1000000,
			OptionPools: []config.OptionPoolConfig{
				{ID: "pool-2021", Name: "2021 Option Pool", ShareCount: 200000, StrikePrice: 2.0},
			},
		},
		Breakpoints: []config.BreakpointConfig{
			{
				ExercisePrice: 0,
				Participants: []config.ParticipantConfig{
					{SecurityID: "series-a", Shares: 2000000},
				},
			},
			{
				ExercisePrice: 5000000,
				Participants: []config.ParticipantConfig{
					{SecurityID: "series-a", Shares: 2000000},
					{SecurityID: "common", Shares: 3000000},
				},
			},
		},
		Assumptions: config.Assumptions{
			VolatilityPct:        45,
			RiskFreeRatePct:      3,
			TimeToLiquidityYears: 2.5,
		},
		Backsolve: config.BacksolveConfig{
			Targets: []config.TargetConfig{
				{SecurityID: "common", TargetPricePerShare: 2.75},
			},
		},
	}
}

func TestGetValuation(t *testing.T) {
	results, err := GetValuation(zap.NewNop(), sampleConfiguration())
	if err != nil {
		t.Fatalf("GetValuation() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	result := results[0]
	if result.TargetSecurityID != "common" {
		t.Errorf("TargetSecurityID = %q, expected common", result.TargetSecurityID)
	}
	if !result.Backsolve.Converged {
		t.Errorf("expected backsolve convergence, residual %v", result.Backsolve.ResidualError)
	}
	if diff := result.PricePerShare - 2.75; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("PricePerShare = %v, expected 2.75 within 1e-6", result.PricePerShare)
	}
	if result.Backsolve.EquityValue <= 0 {
		t.Errorf("EquityValue = %v, expected positive", result.Backsolve.EquityValue)
	}
	if result.DLOM.WeightedAverage <= 0 {
		t.Errorf("WeightedAverage = %v, expected positive discount", result.DLOM.WeightedAverage)
	}
	if result.DiscountedPricePerShare >= result.PricePerShare {
		t.Errorf("DiscountedPricePerShare = %v, expected below %v",
			result.DiscountedPricePerShare, result.PricePerShare)
	}
	if result.Resolution == nil {
		t.Fatal("expected a circular resolution when netProceeds is set")
	}
	if !result.Resolution.Converged {
		t.Error("expected the circular resolution to converge")
	}
	if result.Resolution.ExercisedByPool["pool-2021"] != 200000 {
		t.Errorf("expected pool-2021 fully exercised, got %v", result.Resolution.ExercisedByPool["pool-2021"])
	}
}

func TestGetValuationSkipsResolverWithoutProceeds(t *testing.T) {
	conf := sampleConfiguration()
	conf.NetProceeds = 0

	results, err := GetValuation(nil, conf)
	if err != nil {
		t.Fatalf("GetValuation() error = %v", err)
	}
	if results[0].Resolution != nil {
		t.Error("expected no resolution when netProceeds is unset")
	}
}

func TestGetValuationRejectsInvalidConfig(t *testing.T) {
	conf := sampleConfiguration()
	conf.Breakpoints[0].ExercisePrice = 9000000

	if _, err := GetValuation(nil, conf); err == nil {
		t.Error("GetValuation() expected error for unordered breakpoints")
	}
}

func TestGetValuationMultipleTargets(t *testing.T) {
	conf := sampleConfiguration()
	conf.Backsolve.Targets = append(conf.Backsolve.Targets, config.TargetConfig{
		SecurityID:          "series-a",
		TargetPricePerShare: 4.10,
	})

	results, err := GetValuation(nil, conf)
	if err != nil {
		t.Fatalf("GetValuation() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Backsolve.RunID == results[1].Backsolve.RunID {
		t.Error("expected distinct run ids per target")
	}
}
