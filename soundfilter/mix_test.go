package soundfilter

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-vhs/params"
)

func TestMixGainsMonotonicInLevel(t *testing.T) {
	levels := []float64{0, 0.001, 0.1, 0.25, 0.5, 0.8, 0.999, 1}
	prev := Mix{}
	for i, v := range levels {
		p := params.Snapshot{SoundEffect: v, SoundNoise: v, SoundChorus: v, SoundOverdrive: v}
		mix := MixFor(p, true)
		if i > 0 && (mix.Effect < prev.Effect || mix.Noise < prev.Noise ||
			mix.Chorus < prev.Chorus || mix.Overdrive < prev.Overdrive || mix.Dry > prev.Dry) {
			t.Fatalf("level %v: %+v not monotonic after %+v", v, mix, prev)
		}
		if math.Abs(mix.Dry+mix.Effect-1) > 1e-15 {
			t.Fatalf("level %v: dry + effect = %v, want 1", v, mix.Dry+mix.Effect)
		}
		prev = mix
	}
	if prev.Noise != NoiseGainMax || prev.Chorus != ChorusGainMax || prev.Effect != EffectGainMax {
		t.Fatalf("full-level mix = %+v", prev)
	}
}

func TestMixDisabledIsExactlyDry(t *testing.T) {
	p := params.Snapshot{SoundEffect: 1, SoundNoise: 1, SoundChorus: 1, SoundOverdrive: 1}
	if got := MixFor(p, false); got != (Mix{Dry: 1}) {
		t.Fatalf("MixFor(disabled) = %+v", got)
	}
}

func TestChorusTargetStaysInRange(t *testing.T) {
	for i := range 1000 {
		d := chorusTarget(float64(i) * 0.0137)
		if d < chorusBase-chorusDepth-1e-15 || d > chorusBase+chorusDepth+1e-15 || d > chorusMaxDelay {
			t.Fatalf("chorusTarget = %v out of range", d)
		}
	}
}
