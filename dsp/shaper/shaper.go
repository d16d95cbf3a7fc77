package shaper

import "fmt"

// Shaper applies a lookup curve to a signal, optionally at twice the sample
// rate to soften aliasing of the saturated harmonics.
type Shaper struct {
	curve      []float32
	oversample int
	prev       float64
}

// New returns a Shaper with no curve (identity) and no oversampling.
func New() *Shaper {
	return &Shaper{oversample: 1}
}

// SetCurve replaces the lookup curve. The slice is read, never written, so
// one curve may be shared by many shapers.
func (s *Shaper) SetCurve(curve []float32) {
	s.curve = curve
}

// Curve returns the active curve.
func (s *Shaper) Curve() []float32 {
	return s.curve
}

// SetOversample selects 1x or 2x processing.
func (s *Shaper) SetOversample(factor int) error {
	if factor != 1 && factor != 2 {
		return fmt.Errorf("shaper oversample must be 1 or 2: %d", factor)
	}
	s.oversample = factor
	return nil
}

// Oversample returns the oversampling factor.
func (s *Shaper) Oversample() int {
	return s.oversample
}

// ProcessSample shapes one sample.
func (s *Shaper) ProcessSample(x float64) float64 {
	if len(s.curve) == 0 {
		s.prev = x
		return x
	}
	if s.oversample == 1 {
		return Lookup(s.curve, x)
	}

	// Linear 2x upsampling, then a two-tap average back down.
	mid := 0.5 * (s.prev + x)
	s.prev = x
	return 0.5 * (Lookup(s.curve, mid) + Lookup(s.curve, x))
}

// ProcessBlock shapes buf in place.
func (s *Shaper) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = s.ProcessSample(x)
	}
}
