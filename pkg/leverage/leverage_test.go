package leverage

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"github.com/iwvelando/ltv-leverage/pkg/mathutil"
)

func TestEffectiveLTVFromLeverage(t *testing.T) {
	tests := []struct {
		name     string
		leverage float64
		expected float64
	}{
		{"No leverage", 1, 0},
		{"Two times", 2, 0.5},
		{"Four times", 4, 0.75},
		{"Five times", 5, 0.8},
		{"Ten times", 10, 0.9},
		{"Eleven times", 11, 1 - 1.0/11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EffectiveLTVFromLeverage(tt.leverage)
			if err != nil {
				t.Fatalf("EffectiveLTVFromLeverage(%v) unexpected error: %v", tt.leverage, err)
			}
			if !mathutil.WithinTolerance(got, tt.expected, 1e-12) {
				t.Errorf("EffectiveLTVFromLeverage(%v) = %v, expected %v", tt.leverage, got, tt.expected)
			}
		})
	}
}

func TestEffectiveLTVFromLeverageBoundariesAreExact(t *testing.T) {
	zero, err := EffectiveLTVFromLeverage(1)
	if err != nil || zero != 0 {
		t.Fatalf("expected exactly 0 at leverage 1, got %v (err %v)", zero, err)
	}
	half, err := EffectiveLTVFromLeverage(2)
	if err != nil || half != 0.5 {
		t.Fatalf("expected exactly 0.5 at leverage 2, got %v (err %v)", half, err)
	}
}

func TestEffectiveLTVFromLeverageDomainErrors(t *testing.T) {
	for _, input := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := EffectiveLTVFromLeverage(input)
		if err == nil {
			t.Errorf("EffectiveLTVFromLeverage(%v) expected error", input)
			continue
		}
		if !errors.Is(err, ErrDomain) {
			t.Errorf("EffectiveLTVFromLeverage(%v) error %v does not match ErrDomain", input, err)
		}
		var domainErr *DomainError
		if !errors.As(err, &domainErr) || domainErr.Op != "EffectiveLTVFromLeverage" {
			t.Errorf("EffectiveLTVFromLeverage(%v) expected *DomainError, got %T", input, err)
		}
	}
}

func TestLeverageFromEffectiveLTV(t *testing.T) {
	tests := []struct {
		name         string
		effectiveLTV float64
		expected     float64
	}{
		{"Zero LTV", 0, 1},
		{"Half", 0.5, 2},
		{"Three quarters", 0.75, 4},
		{"Eighty percent", 0.8, 5},
		{"Slider maximum", 0.99, 100},
		{"Negative LTV", -1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LeverageFromEffectiveLTV(tt.effectiveLTV)
			if err != nil {
				t.Fatalf("LeverageFromEffectiveLTV(%v) unexpected error: %v", tt.effectiveLTV, err)
			}
			if !mathutil.WithinTolerance(got, tt.expected, 1e-9) {
				t.Errorf("LeverageFromEffectiveLTV(%v) = %v, expected %v", tt.effectiveLTV, got, tt.expected)
			}
		})
	}
}

func TestLeverageFromEffectiveLTVDomainErrors(t *testing.T) {
	for _, input := range []float64{1, 1.0000001, 2, math.Inf(1), math.NaN()} {
		got, err := LeverageFromEffectiveLTV(input)
		if err == nil {
			t.Errorf("LeverageFromEffectiveLTV(%v) = %v, expected error", input, got)
			continue
		}
		if !errors.Is(err, ErrDomain) {
			t.Errorf("LeverageFromEffectiveLTV(%v) error %v does not match ErrDomain", input, err)
		}
	}
}

func TestEffectiveLTVFromWeights(t *testing.T) {
	tests := []struct {
		name         string
		supplyWeight float64
		borrowWeight float64
		expected     float64
	}{
		{"Default weights", 0.5, 1.0, 0.5},
		{"Zero supply", 0.0, 0.73, 0.0},
		{"Zero supply any borrow", 0.0, 1.0, 0.0},
		{"Full weights", 1.0, 1.0, 1.0},
		{"Half and eight tenths", 0.5, 0.8, 0.4},
		{"Outside unit range", 2, 0.75, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveLTVFromWeights(tt.supplyWeight, tt.borrowWeight); got != tt.expected {
				t.Errorf("EffectiveLTVFromWeights(%v, %v) = %v, expected %v", tt.supplyWeight, tt.borrowWeight, got, tt.expected)
			}
		})
	}
}

func TestRoundTripFromLeverage(t *testing.T) {
	for _, lev := range mathutil.Linspace(1, 10.999, 1000) {
		ltv, err := EffectiveLTVFromLeverage(lev)
		if err != nil {
			t.Fatalf("EffectiveLTVFromLeverage(%v) unexpected error: %v", lev, err)
		}
		back, err := LeverageFromEffectiveLTV(ltv)
		if err != nil {
			t.Fatalf("LeverageFromEffectiveLTV(%v) unexpected error: %v", ltv, err)
		}
		if !mathutil.WithinTolerance(back, lev, constants.RoundTripTolerance) {
			t.Fatalf("round trip from leverage %v returned %v", lev, back)
		}
	}
}

func TestRoundTripFromEffectiveLTV(t *testing.T) {
	for _, ltv := range mathutil.Linspace(0, 0.989, 1000) {
		lev, err := LeverageFromEffectiveLTV(ltv)
		if err != nil {
			t.Fatalf("LeverageFromEffectiveLTV(%v) unexpected error: %v", ltv, err)
		}
		back, err := EffectiveLTVFromLeverage(lev)
		if err != nil {
			t.Fatalf("EffectiveLTVFromLeverage(%v) unexpected error: %v", lev, err)
		}
		if !mathutil.WithinTolerance(back, ltv, constants.RoundTripTolerance) {
			t.Fatalf("round trip from effective LTV %v returned %v", ltv, back)
		}
	}
}

func TestDomainErrorMessage(t *testing.T) {
	err := &DomainError{Op: "LeverageFromEffectiveLTV", Value: 1, Reason: "effective LTV must be below 1"}
	expected := "LeverageFromEffectiveLTV(1): effective LTV must be below 1"
	if err.Error() != expected {
		t.Errorf("Error() = %q, expected %q", err.Error(), expected)
	}
}
