// Package format renders leverage and effective LTV values as display text.
package format

import (
	"fmt"
	"strconv"

	"github.com/iwvelando/ltv-leverage/pkg/mathutil"
)

// Leverage returns a leverage multiplier with two decimals and an "x" suffix (e.g., "1.67x").
func Leverage(value float64) string {
	return fmt.Sprintf("%.2fx", value)
}

// Percent returns a fraction as a percentage with two decimals (e.g., 0.4 -> "40.00%").
func Percent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", mathutil.ToPercentage(fraction))
}

// TickLabel returns the x-axis label for an integer leverage tick (e.g., 3 -> "3x").
func TickLabel(leverage int) string {
	return strconv.Itoa(leverage) + "x"
}

// LeverageLine is the summary line for a leverage value.
func LeverageLine(value float64) string {
	return "Leverage: " + Leverage(value)
}

// EffectiveLTVLine is the summary line for an effective LTV value.
func EffectiveLTVLine(fraction float64) string {
	return "Effective LTV: " + Percent(fraction)
}
