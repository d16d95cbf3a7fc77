package interp

import (
	"math"
	"testing"
)

func TestHermite4PassesThroughSamples(t *testing.T) {
	if got := Hermite4(0, 1, 2, 3, 4); math.Abs(got-2) > 1e-12 {
		t.Fatalf("Hermite4(0) = %v, want 2", got)
	}
	if got := Hermite4(1, 1, 2, 3, 4); math.Abs(got-3) > 1e-12 {
		t.Fatalf("Hermite4(1) = %v, want 3", got)
	}
}

func TestHermite4ExactOnLinearRamp(t *testing.T) {
	for _, frac := range []float64{0.1, 0.33, 0.5, 0.9} {
		got := Hermite4(frac, -1, 0, 1, 2)
		if math.Abs(got-frac) > 1e-12 {
			t.Fatalf("Hermite4(%v) on ramp = %v, want %v", frac, got, frac)
		}
	}
}
