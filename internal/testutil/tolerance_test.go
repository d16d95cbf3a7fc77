package testutil

import (
	"math"
	"testing"
)

// recorder captures Fatalf without stopping the calling test.
type recorder struct {
	testing.TB
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(string, ...any) { r.failed = true }

func TestRequireSliceNearlyEqual(t *testing.T) {
	r := &recorder{TB: t}
	RequireSliceNearlyEqual(r, []float32{0.5, 0.25}, []float32{0.5, 0.2500001}, 1e-6)
	if r.failed {
		t.Fatal("values within eps reported as different")
	}
	RequireSliceNearlyEqual(r, []float64{1, 2.1}, []float64{1, 2}, 1e-3)
	if !r.failed {
		t.Fatal("difference of 0.1 accepted with eps 1e-3")
	}
}

func TestRequireSliceNearlyEqualLengthMismatch(t *testing.T) {
	r := &recorder{TB: t}
	RequireSliceNearlyEqual(r, []float64{1}, []float64{1, 2}, 1)
	if !r.failed {
		t.Fatal("length mismatch accepted")
	}
}

func TestRequireSettled(t *testing.T) {
	r := &recorder{TB: t}
	RequireSettled(r, []float64{0, 0.3, 0.5, 0.5001}, 2, 0.5, 1e-3)
	if r.failed {
		t.Fatal("settled tail rejected")
	}
	RequireSettled(r, []float64{0, 0.3, 0.5, 0.5001}, 1, 0.5, 1e-3)
	if !r.failed {
		t.Fatal("unsettled sample accepted")
	}
}

func TestRequireFinite(t *testing.T) {
	r := &recorder{TB: t}
	RequireFinite(r, []float32{0, 1, -1})
	if r.failed {
		t.Fatal("finite data rejected")
	}
	RequireFinite(r, []float64{0, math.Inf(1)})
	if !r.failed {
		t.Fatal("Inf accepted")
	}
}
