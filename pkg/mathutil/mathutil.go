// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/ltv-leverage/pkg/constants"
)

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// Clamp bounds val to [lo, hi]. NaN clamps to lo.
func Clamp(val, lo, hi float64) float64 {
	if math.IsNaN(val) || val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Snap rounds val to the nearest multiple of step measured from origin.
// The result is rounded again to the step's decimal precision so that
// 0.1*3 comes back as 0.3 rather than 0.30000000000000004.
func Snap(val, origin, step float64) float64 {
	if step <= 0 {
		return val
	}
	n := math.Round((val - origin) / step)
	return RoundTo(origin+n*step, Decimals(step))
}

// RoundTo rounds val to the given number of decimal places.
func RoundTo(val float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(val*p) / p
}

// Decimals returns the number of decimal places needed to represent step,
// capped at 9.
func Decimals(step float64) int {
	for d := 0; d < 9; d++ {
		p := math.Pow(10, float64(d))
		if WithinTolerance(step*p, math.Round(step*p), 1e-9) {
			return d
		}
	}
	return 9
}

// Linspace returns n evenly spaced values over the closed interval [start, stop].
// The last value is exactly stop. n <= 0 yields nil and n == 1 yields [start].
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	values := make([]float64, n)
	values[0] = start
	if n == 1 {
		return values
	}
	step := (stop - start) / float64(n-1)
	for i := 1; i < n-1; i++ {
		values[i] = start + float64(i)*step
	}
	values[n-1] = stop
	return values
}

// ToPercentage converts a fraction to percentage points.
func ToPercentage(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}
