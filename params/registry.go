package params

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-vhs/dsp/core"
)

// Kind distinguishes toggles from continuous levels.
type Kind int

const (
	KindBool Kind = iota
	KindLevel
)

func (k Kind) String() string {
	if k == KindBool {
		return "bool"
	}
	return "level"
}

// Entry describes one option: its storage key, the alias used by message
// payloads, its default and its range.
type Entry struct {
	Key     string
	Alias   string
	Kind    Kind
	Default float64
	Min     float64
	Max     float64

	level func(*Snapshot) *float64
	flag  func(*Snapshot) *bool
}

func lvl(key, alias string, def, maxV float64, f func(*Snapshot) *float64) Entry {
	return Entry{Key: key, Alias: alias, Kind: KindLevel, Default: def, Min: 0, Max: maxV, level: f}
}

func flg(key, alias string, def bool, f func(*Snapshot) *bool) Entry {
	d := 0.0
	if def {
		d = 1
	}
	return Entry{Key: key, Alias: alias, Kind: KindBool, Default: d, Max: 1, flag: f}
}

var registry = []Entry{
	flg("crtEnabled", "", false, func(s *Snapshot) *bool { return &s.Enabled }),
	flg("soundFilterEnabled", "soundFilter", false, func(s *Snapshot) *bool { return &s.SoundEnabled }),
	lvl("soundEffectLevel", "", 0.8, 1, func(s *Snapshot) *float64 { return &s.SoundEffect }),
	lvl("soundNoiseLevel", "", 0.6, 1, func(s *Snapshot) *float64 { return &s.SoundNoise }),
	lvl("soundOverdriveLevel", "", 0, 1, func(s *Snapshot) *float64 { return &s.SoundOverdrive }),
	lvl("soundChorusLevel", "", 0, 1, func(s *Snapshot) *float64 { return &s.SoundChorus }),
	flg("vhsGlitchesEnabled", "vhsGlitches", false, func(s *Snapshot) *bool { return &s.GlitchesEnabled }),
	lvl("glitchPhaseLevel", "", 0.3, 1, func(s *Snapshot) *float64 { return &s.GlitchPhase }),
	lvl("glitchNoiseLevel", "", 0.15, 1, func(s *Snapshot) *float64 { return &s.GlitchNoise }),
	lvl("glitchTrackingLevel", "", 0.5, 1, func(s *Snapshot) *float64 { return &s.GlitchTracking }),
	lvl("glitchWobbleLevel", "", 0.3, 1, func(s *Snapshot) *float64 { return &s.GlitchWobble }),
	lvl("glitchHeadswitchLevel", "", 0.25, 1, func(s *Snapshot) *float64 { return &s.GlitchHeadswitch }),
	lvl("glitchRgbLevel", "", 0.35, 1, func(s *Snapshot) *float64 { return &s.GlitchRGB }),
	lvl("glitchDropoutLevel", "", 0.2, 1, func(s *Snapshot) *float64 { return &s.GlitchDropout }),
	lvl("glitchRewindLevel", "", 0.4, 1, func(s *Snapshot) *float64 { return &s.GlitchRewind }),
	lvl("scanlineIntensity", "scanline", 0.4, 1, func(s *Snapshot) *float64 { return &s.Scanline }),
	lvl("vignetteIntensity", "vignette", 0.5, 1, func(s *Snapshot) *float64 { return &s.Vignette }),
	lvl("glowIntensity", "glow", 0.15, 0.8, func(s *Snapshot) *float64 { return &s.Glow }),
}

// Entries returns the option registry in declaration order.
func Entries() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the entry for a storage key or alias.
func Lookup(key string) (Entry, bool) {
	for _, e := range registry {
		if e.Key == key || (e.Alias != "" && e.Alias == key) {
			return e, true
		}
	}
	return Entry{}, false
}

// Value reads the entry's field from s: bool for toggles, float64 for levels.
func (e Entry) Value(s Snapshot) any {
	return e.value(&s)
}

func (e Entry) value(s *Snapshot) any {
	if e.Kind == KindBool {
		return *e.flag(s)
	}
	return *e.level(s)
}

func (e Entry) reset(s *Snapshot) {
	if e.Kind == KindBool {
		*e.flag(s) = e.Default != 0
		return
	}
	*e.level(s) = e.Default
}

func (e Entry) clamp(v float64) float64 {
	if math.IsNaN(v) {
		return e.Default
	}
	return core.Clamp(v, e.Min, e.Max)
}

func (e Entry) lookup(values map[string]any) (any, bool) {
	if raw, ok := values[e.Key]; ok && raw != nil {
		return raw, true
	}
	if e.Alias != "" {
		if raw, ok := values[e.Alias]; ok && raw != nil {
			return raw, true
		}
	}
	return nil, false
}

func (e Entry) assign(s *Snapshot, raw any) {
	if e.Kind == KindBool {
		if b, ok := toBool(raw); ok {
			*e.flag(s) = b
		}
		return
	}
	if f, ok := toFloat(raw); ok {
		*e.level(s) = e.clamp(f)
	}
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), !math.IsNaN(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case interface{ Float64() (float64, error) }:
		f, err := v.Float64()
		return f, err == nil && !math.IsNaN(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil && !math.IsNaN(f)
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	}
	if f, ok := toFloat(raw); ok {
		return f != 0, true
	}
	return false, false
}
