package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vhs/dsp/interp"
)

// Line is a circular delay line.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// NewSeconds returns a delay line able to hold maxSeconds at sampleRate,
// plus the guard samples needed by fractional reads.
func NewSeconds(maxSeconds, sampleRate float64) (*Line, error) {
	if maxSeconds <= 0 || math.IsNaN(maxSeconds) || math.IsInf(maxSeconds, 0) {
		return nil, fmt.Errorf("delay max seconds must be > 0: %f", maxSeconds)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}
	return New(int(math.Ceil(maxSeconds*sampleRate)) + 4)
}

// MaxDelay returns the largest delay in samples that ReadFractional honors.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - 3)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples. Read(1) is the last written sample.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}
	readPos := ((d.writePos-delay)%size + size) % size
	return d.buffer[readPos]
}

// ReadFractional reads with cubic Hermite interpolation.
// Delays are clamped to [1, MaxDelay].
func (d *Line) ReadFractional(delay float64) float64 {
	if len(d.buffer) == 0 {
		return 0
	}
	if delay < 1 || math.IsNaN(delay) {
		delay = 1
	}
	if maxDelay := d.MaxDelay(); delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	xm1 := d.Read(max(1, p-1))
	x0 := d.Read(p)
	x1 := d.Read(p + 1)
	x2 := d.Read(p + 2)
	return interp.Hermite4(t, xm1, x0, x1, x2)
}
