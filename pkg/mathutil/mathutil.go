// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/eightweeks/fujimi-forecast/pkg/constants"
)

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Clamp limits val to the closed range [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// SafeDivide divides numerator by denominator and reports whether the
// quotient is defined. A non-positive denominator yields (0, false).
func SafeDivide(numerator, denominator float64) (float64, bool) {
	if denominator <= 0 || math.IsNaN(denominator) || math.IsInf(denominator, 0) {
		return 0, false
	}
	return numerator / denominator, true
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// Linspace returns steps evenly spaced values over [lo, hi], both ends included.
func Linspace(lo, hi float64, steps int) []float64 {
	if steps <= 0 {
		return nil
	}
	if steps == 1 {
		return []float64{lo}
	}
	values := make([]float64, steps)
	step := (hi - lo) / float64(steps-1)
	for i := range values {
		values[i] = lo + step*float64(i)
	}
	values[steps-1] = hi
	return values
}

// Arange returns values from lo up to hi (inclusive within half a step) in
// increments of step.
func Arange(lo, hi, step float64) []float64 {
	if step <= 0 || hi < lo {
		return nil
	}
	n := int(math.Floor((hi-lo)/step+0.5)) + 1
	values := make([]float64, n)
	for i := range values {
		values[i] = lo + step*float64(i)
	}
	return values
}
