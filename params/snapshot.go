package params

// Snapshot is the complete set of overlay and sound parameters for one
// update. Level fields are in [0, 1] except Glow, which is in [0, 0.8].
type Snapshot struct {
	Enabled  bool    `yaml:"crtEnabled" json:"crtEnabled"`
	Scanline float64 `yaml:"scanlineIntensity" json:"scanlineIntensity"`
	Vignette float64 `yaml:"vignetteIntensity" json:"vignetteIntensity"`
	Glow     float64 `yaml:"glowIntensity" json:"glowIntensity"`

	GlitchesEnabled  bool    `yaml:"vhsGlitchesEnabled" json:"vhsGlitchesEnabled"`
	GlitchPhase      float64 `yaml:"glitchPhaseLevel" json:"glitchPhaseLevel"`
	GlitchNoise      float64 `yaml:"glitchNoiseLevel" json:"glitchNoiseLevel"`
	GlitchTracking   float64 `yaml:"glitchTrackingLevel" json:"glitchTrackingLevel"`
	GlitchWobble     float64 `yaml:"glitchWobbleLevel" json:"glitchWobbleLevel"`
	GlitchHeadswitch float64 `yaml:"glitchHeadswitchLevel" json:"glitchHeadswitchLevel"`
	GlitchRGB        float64 `yaml:"glitchRgbLevel" json:"glitchRgbLevel"`
	GlitchDropout    float64 `yaml:"glitchDropoutLevel" json:"glitchDropoutLevel"`
	GlitchRewind     float64 `yaml:"glitchRewindLevel" json:"glitchRewindLevel"`

	SoundEnabled   bool    `yaml:"soundFilterEnabled" json:"soundFilterEnabled"`
	SoundEffect    float64 `yaml:"soundEffectLevel" json:"soundEffectLevel"`
	SoundNoise     float64 `yaml:"soundNoiseLevel" json:"soundNoiseLevel"`
	SoundOverdrive float64 `yaml:"soundOverdriveLevel" json:"soundOverdriveLevel"`
	SoundChorus    float64 `yaml:"soundChorusLevel" json:"soundChorusLevel"`
}

// Defaults returns the snapshot every absent key falls back to.
func Defaults() Snapshot {
	var s Snapshot
	for _, e := range registry {
		e.reset(&s)
	}
	return s
}

// Normalize returns a copy with every level clamped to its declared range and
// NaN levels replaced by their default.
func (s Snapshot) Normalize() Snapshot {
	out := s
	for _, e := range registry {
		if e.Kind == KindLevel {
			p := e.level(&out)
			*p = e.clamp(*p)
		}
	}
	return out
}

// Map returns the snapshot keyed by storage key.
func (s Snapshot) Map() map[string]any {
	m := make(map[string]any, len(registry))
	for _, e := range registry {
		m[e.Key] = e.value(&s)
	}
	return m
}

// Merge returns a new snapshot built from s with the given loose values
// applied on top. Unknown keys are ignored; values are coerced and clamped.
func (s Snapshot) Merge(values map[string]any) Snapshot {
	out := s
	for _, e := range registry {
		if raw, ok := e.lookup(values); ok {
			e.assign(&out, raw)
		}
	}
	return out
}

// FromMap builds a snapshot from loose values; absent keys take defaults.
func FromMap(values map[string]any) Snapshot {
	return Defaults().Merge(values)
}
