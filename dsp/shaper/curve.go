package shaper

import (
	"fmt"
	"math"
)

const (
	// CurveLength is the lookup resolution used for overdrive curves.
	CurveLength = 256
	// MaxDrive is the saturation constant reached at level 1.
	MaxDrive = 50.0
)

// Drive maps a unit overdrive level to the saturation constant k.
func Drive(level float64) float64 {
	if !(level > 0) {
		return 0
	}
	if level > 1 {
		level = 1
	}
	return MaxDrive * level
}

// Transfer evaluates the soft-saturation transfer function for input x and
// saturation constant k.
func Transfer(x, k float64) float64 {
	if k <= 0 {
		return x
	}
	return (1 + k) * x / (1 + k*math.Abs(x))
}

// Curve builds an n-point lookup curve for the given overdrive level. Point i
// holds the transfer of x = 2i/(n-1) - 1, so the curve spans [-1, 1] exactly.
func Curve(level float64, n int) ([]float32, error) {
	if n < 2 {
		return nil, fmt.Errorf("shaper curve length must be >= 2: %d", n)
	}

	k := Drive(level)
	curve := make([]float32, n)
	for i := range curve {
		x := 2*float64(i)/float64(n-1) - 1
		curve[i] = float32(Transfer(x, k))
	}
	return curve, nil
}

// Lookup applies curve to x by linear interpolation. An empty curve is the
// identity; inputs beyond [-1, 1] hold the end points.
func Lookup(curve []float32, x float64) float64 {
	n := len(curve)
	if n == 0 {
		return x
	}
	if n == 1 {
		return float64(curve[0])
	}

	v := float64(n-1) * (x + 1) / 2
	if !(v > 0) {
		return float64(curve[0])
	}
	if v >= float64(n-1) {
		return float64(curve[n-1])
	}

	k := int(v)
	f := v - float64(k)
	return (1-f)*float64(curve[k]) + f*float64(curve[k+1])
}
