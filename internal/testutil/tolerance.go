package testutil

import (
	"math"
	"testing"
)

// Sample is a rendered sample type.
type Sample interface {
	~float32 | ~float64
}

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair differs by more than eps.
func RequireSliceNearlyEqual[T Sample](t testing.TB, got, want []T, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if diff := math.Abs(float64(got[i]) - float64(want[i])); diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireSettled fails t if any sample from index from onward is further
// than eps from level.
func RequireSettled[T Sample](t testing.TB, got []T, from int, level, eps float64) {
	t.Helper()
	for i := from; i < len(got); i++ {
		if math.Abs(float64(got[i])-level) > eps {
			t.Fatalf("index %d: got %v, want %v +/- %v", i, got[i], level, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite[T Sample](t testing.TB, data []T) {
	t.Helper()
	for i, v := range data {
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}
