package validation

import (
	"strings"
	"testing"
)

func TestValidateWeights(t *testing.T) {
	if err := ValidateWeights(25, 25, 25, 25); err != nil {
		t.Errorf("ValidateWeights() unexpected error: %v", err)
	}
	if err := ValidateWeights(0, 0, 0, 0); err != nil {
		t.Errorf("ValidateWeights() all-zero should be allowed, got %v", err)
	}
	if err := ValidateWeights(25, -1, 25, 25); err == nil {
		t.Error("ValidateWeights() expected error for negative weight")
	}
}

func TestAssumptionWarnings(t *testing.T) {
	if warnings := AssumptionWarnings(45, 3, 2.5, 0); len(warnings) != 0 {
		t.Errorf("expected no warnings for typical assumptions, got %v", warnings)
	}

	warnings := AssumptionWarnings(0, -1, 0, 50)
	if len(warnings) != 4 {
		t.Fatalf("expected 4 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "volatility") {
		t.Errorf("expected volatility warning first, got %q", warnings[0])
	}

	warnings = AssumptionWarnings(200, 20, 15, 0)
	if len(warnings) != 3 {
		t.Errorf("expected 3 warnings for implausibly high assumptions, got %v", warnings)
	}
}
