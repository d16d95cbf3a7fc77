package noise

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-vhs/dsp/core"
)

const (
	// DefaultTapeSeconds is the length of the shared looping noise buffer.
	DefaultTapeSeconds = 3.0

	whiteScale = 0.5

	pole0, gain0 = 0.99886, 0.0555179
	pole1, gain1 = 0.99332, 0.0750759
	pole2, gain2 = 0.96900, 0.1538520
)

// TapeGenerator produces tape noise one sample at a time.
type TapeGenerator struct {
	rng        *rand.Rand
	b0, b1, b2 float64
}

// NewTapeGenerator returns a generator drawing from rng. A nil rng uses a
// generator seeded from the runtime.
func NewTapeGenerator(rng *rand.Rand) *TapeGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &TapeGenerator{rng: rng}
}

// Next returns the next sample.
func (g *TapeGenerator) Next() float64 {
	white := (g.rng.Float64()*2 - 1) * whiteScale
	g.b0 = core.FlushDenormals(pole0*g.b0 + white*gain0)
	g.b1 = core.FlushDenormals(pole1*g.b1 + white*gain1)
	g.b2 = core.FlushDenormals(pole2*g.b2 + white*gain2)
	return g.b0 + g.b1 + g.b2
}

// Fill writes len(dst) samples.
func (g *TapeGenerator) Fill(dst []float32) {
	for i := range dst {
		dst[i] = float32(g.Next())
	}
}

// Tape synthesizes seconds of tape noise at sampleRate.
func Tape(seconds, sampleRate float64, rng *rand.Rand) ([]float32, error) {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil, fmt.Errorf("tape noise seconds must be > 0: %f", seconds)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tape noise sample rate must be > 0: %f", sampleRate)
	}

	n := int(seconds * sampleRate)
	if n < 1 {
		return nil, fmt.Errorf("tape noise too short: %d samples", n)
	}
	out := make([]float32, n)
	NewTapeGenerator(rng).Fill(out)
	return out, nil
}
