package mathutil

import (
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		expected float64
	}{
		{name: "Round up", val: 4.16666, expected: 4.17},
		{name: "Round down", val: 2.7434, expected: 2.74},
		{name: "Already rounded", val: 10.00, expected: 10.00},
		{name: "Negative", val: -1.006, expected: -1.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round(tt.val); got != tt.expected {
				t.Errorf("Round(%v) = %v, expected %v", tt.val, got, tt.expected)
			}
		})
	}
}

func TestClampNonNegative(t *testing.T) {
	if got := ClampNonNegative(-3.5); got != 0 {
		t.Errorf("ClampNonNegative(-3.5) = %v, expected 0", got)
	}
	if got := ClampNonNegative(3.5); got != 3.5 {
		t.Errorf("ClampNonNegative(3.5) = %v, expected 3.5", got)
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		expected float64
	}{
		{name: "Below zero", val: -10, expected: 0},
		{name: "In range", val: 42.5, expected: 42.5},
		{name: "Above hundred", val: 135, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPercent(tt.val); got != tt.expected {
				t.Errorf("ClampPercent(%v) = %v, expected %v", tt.val, got, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(1.0000001, 1.0000002, 1e-6) {
		t.Error("expected values within tolerance")
	}
	if WithinTolerance(1.0, 1.1, 1e-6) {
		t.Error("expected values outside tolerance")
	}
}

func TestCalculatePercentage(t *testing.T) {
	if got := CalculatePercentage(3000000, 5000000); got != 60 {
		t.Errorf("CalculatePercentage() = %v, expected 60", got)
	}
	if got := CalculatePercentage(1, 0); got != 0 {
		t.Errorf("CalculatePercentage() with zero total = %v, expected 0", got)
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(2, 3); got != 2 {
		t.Errorf("Min(2, 3) = %v", got)
	}
	if got := Max(2, 3); got != 3 {
		t.Errorf("Max(2, 3) = %v", got)
	}
}
