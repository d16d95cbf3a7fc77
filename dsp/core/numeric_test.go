package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
		{name: "glow range", value: 0.95, min: 0, max: 0.8, expected: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFlushDenormals(t *testing.T) {
	if got := FlushDenormals(1e-35); got != 0 {
		t.Fatalf("FlushDenormals(1e-35) = %v, want 0", got)
	}
	if got := FlushDenormals(-0.25); got != -0.25 {
		t.Fatalf("FlushDenormals(-0.25) = %v, want -0.25", got)
	}
}

func TestLevelCurve(t *testing.T) {
	if got := LevelCurve(0, 0.85); got != 0 {
		t.Fatalf("LevelCurve(0) = %v, want 0", got)
	}
	if got := LevelCurve(math.NaN(), 0.85); got != 0 {
		t.Fatalf("LevelCurve(NaN) = %v, want 0", got)
	}
	if got := LevelCurve(1, 1.6); got != 1 {
		t.Fatalf("LevelCurve(1) = %v, want 1", got)
	}

	want := math.Pow(0.8, 0.85)
	if got := LevelCurve(0.8, 0.85); got != want {
		t.Fatalf("LevelCurve(0.8, 0.85) = %v, want %v", got, want)
	}

	prev := -1.0
	for i := 0; i <= 100; i++ {
		v := LevelCurve(float64(i)/100, 1.6)
		if v < prev {
			t.Fatalf("LevelCurve not monotonic at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}
