package params

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsMatchRegistry(t *testing.T) {
	s := Defaults()
	if s.Enabled || s.GlitchesEnabled || s.SoundEnabled {
		t.Fatalf("Defaults() toggles = %v %v %v, want all false", s.Enabled, s.GlitchesEnabled, s.SoundEnabled)
	}
	checks := map[string]float64{
		"scanlineIntensity":   0.4,
		"vignetteIntensity":   0.5,
		"glowIntensity":       0.15,
		"glitchNoiseLevel":    0.15,
		"glitchDropoutLevel":  0.2,
		"soundEffectLevel":    0.8,
		"soundNoiseLevel":     0.6,
		"soundOverdriveLevel": 0,
		"soundChorusLevel":    0,
	}
	m := s.Map()
	for key, want := range checks {
		got, ok := m[key].(float64)
		if !ok || got != want {
			t.Fatalf("Defaults()[%q] = %v, want %v", key, m[key], want)
		}
	}
	if len(m) != len(Entries()) {
		t.Fatalf("Map() has %d keys, want %d", len(m), len(Entries()))
	}
}

func TestFromMapCoercesAndClamps(t *testing.T) {
	s := FromMap(map[string]any{
		"scanline":           "0.7",
		"glowIntensity":      2.0,
		"glitchRgbLevel":     -1,
		"glitchNoiseLevel":   math.NaN(),
		"vhsGlitches":        true,
		"soundFilterEnabled": "true",
		"soundChorusLevel":   float32(0.5),
		"unknown":            42,
	})
	if s.Scanline != 0.7 {
		t.Fatalf("Scanline = %v, want 0.7", s.Scanline)
	}
	if s.Glow != 0.8 {
		t.Fatalf("Glow = %v, want 0.8", s.Glow)
	}
	if s.GlitchRGB != 0 {
		t.Fatalf("GlitchRGB = %v, want 0", s.GlitchRGB)
	}
	if s.GlitchNoise != 0.15 {
		t.Fatalf("GlitchNoise = %v, want default 0.15", s.GlitchNoise)
	}
	if !s.GlitchesEnabled || !s.SoundEnabled {
		t.Fatalf("toggles = %v %v, want true true", s.GlitchesEnabled, s.SoundEnabled)
	}
	if s.SoundChorus != 0.5 {
		t.Fatalf("SoundChorus = %v, want 0.5", s.SoundChorus)
	}
}

func TestMergeLeavesReceiverUntouched(t *testing.T) {
	base := Defaults()
	next := base.Merge(map[string]any{"soundEffectLevel": 0.25, "crtEnabled": true})
	if base.SoundEffect != 0.8 || base.Enabled {
		t.Fatalf("Merge() mutated receiver: %+v", base)
	}
	if next.SoundEffect != 0.25 || !next.Enabled {
		t.Fatalf("Merge() = %+v", next)
	}
	if next.SoundNoise != base.SoundNoise {
		t.Fatalf("Merge() changed untouched key: %v", next.SoundNoise)
	}
}

func TestNormalize(t *testing.T) {
	s := Snapshot{Scanline: 3, Glow: 0.9, SoundNoise: math.NaN(), GlitchWobble: -0.5}
	n := s.Normalize()
	if n.Scanline != 1 || n.Glow != 0.8 || n.SoundNoise != 0.6 || n.GlitchWobble != 0 {
		t.Fatalf("Normalize() = %+v", n)
	}
}

func TestLookupAlias(t *testing.T) {
	e, ok := Lookup("vhsGlitches")
	if !ok || e.Key != "vhsGlitchesEnabled" || e.Kind != KindBool {
		t.Fatalf("Lookup(vhsGlitches) = %+v, %v", e, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatal("Lookup(nope) ok = true")
	}
	if got := e.Value(Snapshot{GlitchesEnabled: true}); got != true {
		t.Fatalf("Value() = %v, want true", got)
	}
}

func TestParseKeepsDefaultsForAbsentKeys(t *testing.T) {
	s, err := Parse([]byte("crtEnabled: true\nglitchDropoutLevel: 1.5\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !s.Enabled || s.GlitchDropout != 1 || s.Vignette != 0.5 {
		t.Fatalf("Parse() = %+v", s)
	}
	if _, err := Parse([]byte("crtEnabled: [")); err == nil {
		t.Fatal("Parse() expected error for malformed yaml")
	}
}

func TestLoadMarshalRoundTrip(t *testing.T) {
	want := Defaults().Merge(map[string]any{"glitchRgbLevel": 0.9, "soundFilterEnabled": true})
	data, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), "glitchRgbLevel: 0.9") {
		t.Fatalf("Marshal() output missing key:\n%s", data)
	}
	path := filepath.Join(t.TempDir(), "vhs.yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}
