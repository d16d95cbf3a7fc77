package overlay

import (
	"math"
	"strconv"
)

// Named numeric properties consumed by the style layer.
const (
	PropScanline   = "--crt-scanline"
	PropVignette   = "--crt-vignette"
	PropGlow       = "--crt-glow"
	PropPhase      = "--crt-glitch-phase"
	PropNoise      = "--crt-glitch-noise"
	PropTracking   = "--crt-tracking-lines"
	PropWobblePx   = "--crt-wobble-px"
	PropHeadswitch = "--crt-headswitch"
	PropDropout    = "--crt-glitch-dropout"
	PropRewind     = "--crt-rewind"
	PropRGBPx      = "--crt-rgb-px"
	PropRGBOpacity = "--crt-rgb-opacity"
)

const (
	visibleLevel    = 0.01
	rgbMaxOffsetPx  = 14
	rgbBaseOpacity  = 0.25
	rgbOpacitySlope = 0.7
	wobbleBasePx    = 0.5
	wobbleSlopePx   = 2.5
)

// FormatLevel renders a scalar so that parsing it yields the same float64.
func FormatLevel(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// RGBOffset returns the channel split in whole pixels.
func RGBOffset(level float64) int {
	return int(math.Round(level * rgbMaxOffsetPx))
}

// RGBOpacity returns the opacity of the channel split layers.
func RGBOpacity(level float64) float64 {
	return math.Min(1, rgbBaseOpacity+rgbOpacitySlope*level)
}

// WobblePx returns the horizontal wobble amplitude; levels at or below the
// visibility threshold disable it.
func WobblePx(level float64) float64 {
	if level <= visibleLevel {
		return 0
	}
	return wobbleBasePx + wobbleSlopePx*level
}

func displayIf(on bool) string {
	if on {
		return "block"
	}
	return "none"
}

func (r *Renderer) applyProperties() {
	s, p := r.surf, r.snap
	s.inner.SetStyle(PropScanline, FormatLevel(p.Scanline))
	s.inner.SetStyle(PropVignette, FormatLevel(p.Vignette))
	s.inner.SetStyle(PropGlow, FormatLevel(p.Glow))

	if !p.GlitchesEnabled {
		s.root.RemoveAttribute(attrGlitches)
		s.rewind.SetStyle("display", "none")
		r.applyRGB(0)
		r.setBodyWobble(0)
		return
	}

	s.root.SetAttribute(attrGlitches, "true")
	s.root.SetStyle(PropPhase, FormatLevel(p.GlitchPhase))
	s.root.SetStyle(PropNoise, FormatLevel(p.GlitchNoise))
	s.root.SetStyle(PropTracking, FormatLevel(p.GlitchTracking))
	s.root.SetStyle(PropWobblePx, FormatLevel(WobblePx(p.GlitchWobble)))
	s.root.SetStyle(PropHeadswitch, FormatLevel(p.GlitchHeadswitch))
	s.root.SetStyle(PropDropout, FormatLevel(p.GlitchDropout))
	s.root.SetStyle(PropRewind, FormatLevel(p.GlitchRewind))
	s.rewind.SetStyle("display", displayIf(p.GlitchRewind > visibleLevel))
	r.applyRGB(p.GlitchRGB)
	if r.visible {
		r.setBodyWobble(WobblePx(p.GlitchWobble))
	} else {
		r.setBodyWobble(0)
	}
}

func (r *Renderer) applyRGB(level float64) {
	s := r.surf
	s.root.SetStyle(PropRGBPx, strconv.Itoa(RGBOffset(level)))
	s.root.SetStyle(PropRGBOpacity, FormatLevel(RGBOpacity(level)))
	s.rgb.SetStyle("display", displayIf(level > visibleLevel))
}

func (r *Renderer) setBodyWobble(px float64) {
	body := r.surf.body
	if px > 0 {
		body.AddClass(bodyWobble)
		body.SetStyle(PropWobblePx, FormatLevel(px))
		return
	}
	body.RemoveClass(bodyWobble)
	body.RemoveStyle(PropWobblePx)
}
