package soundfilter

import (
	"github.com/cwbudde/algo-vhs/dsp/core"
	"github.com/cwbudde/algo-vhs/params"
)

const (
	effectExponent = 0.85
	noiseExponent  = 1.6
	chorusExponent = 0.9

	// EffectGainMax is the effect path gain at full effect level.
	EffectGainMax = 1.0
	// NoiseGainMax is the tape noise gain at full noise level.
	NoiseGainMax = 0.06
	// ChorusGainMax is the chorus tap gain at full chorus level.
	ChorusGainMax = 0.4
)

// Mix is the set of gains and the overdrive level applied to every chain.
type Mix struct {
	Dry       float64
	Effect    float64
	Noise     float64
	Chorus    float64
	Overdrive float64
}

// MixFor derives chain settings from p. Disabled processing is exactly dry.
func MixFor(p params.Snapshot, enabled bool) Mix {
	if !enabled {
		return Mix{Dry: 1}
	}
	t := core.LevelCurve(p.SoundEffect, effectExponent)
	return Mix{
		Dry:       max(0, 1-t),
		Effect:    t * EffectGainMax,
		Noise:     core.LevelCurve(p.SoundNoise, noiseExponent) * NoiseGainMax,
		Chorus:    core.LevelCurve(p.SoundChorus, chorusExponent) * ChorusGainMax,
		Overdrive: p.SoundOverdrive,
	}
}
