package core

import "math"

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// Feedback paths (filters, noise recurrences) call this once per sample.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// LevelCurve maps a unit level onto a perceptual response level^exponent.
//
// Non-positive and NaN levels map to exactly 0 so that a disabled control
// produces a true zero gain, never a tiny positive residue.
func LevelCurve(level, exponent float64) float64 {
	if !(level > 0) {
		return 0
	}

	if level >= 1 {
		return 1
	}

	return math.Pow(level, exponent)
}
