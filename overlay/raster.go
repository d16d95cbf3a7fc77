package overlay

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"time"
)

const (
	noiseAlphaMax     = 120
	noiseDropFraction = 0.1
	noiseChromaChance = 0.12
	noiseBandFreq     = 0.05
	noiseBandSpeed    = 0.02

	dropoutThreshold  = 0.02
	dropoutMinBars    = 8
	dropoutExtraBars  = 24
	dropoutThickFrac  = 0.15
	dropoutMinDelay   = 50 * time.Millisecond
	dropoutDelaySpan  = 80 * time.Millisecond
	dropoutEdgeMargin = 10
)

// fillNoise refills buf with one frame of banded tape noise. Pixel alpha is
// floor(floor(level*120) * band(y, frame) * jitter), with jitter in [0.5, 1).
func fillNoise(buf *image.NRGBA, level float64, frame int, chroma bool, rng *rand.Rand) {
	b := buf.Bounds()
	base := math.Floor(level * noiseAlphaMax)
	t := float64(frame) * noiseBandSpeed
	for y := 0; y < b.Dy(); y++ {
		band := 0.4 + 0.6*(0.5+0.5*math.Sin(float64(y)*noiseBandFreq+t))
		row := buf.Pix[y*buf.Stride : y*buf.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			px := row[i : i+4 : i+4]
			if rng.Float64() < noiseDropFraction {
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
				continue
			}
			if chroma && rng.Float64() < noiseChromaChance {
				px[0], px[1], px[2] = 0, 0, 0
				px[rng.IntN(3)] = 255
			} else {
				lum := uint8(rng.IntN(256))
				px[0], px[1], px[2] = lum, lum, lum
			}
			px[3] = uint8(math.Floor(base * band * (0.5 + 0.5*rng.Float64())))
		}
	}
}

type bar struct {
	y, height int
	alpha     float64
}

// dropoutBars draws the bar layout for one dropout tick on a canvas of the
// given height. Count grows with level; thick bars are rarer and darker.
func dropoutBars(level float64, height int, rng *rand.Rand) []bar {
	n := dropoutMinBars + int(math.Floor(level*dropoutExtraBars))
	span := max(height-dropoutEdgeMargin, 1)
	bars := make([]bar, n)
	for k := range bars {
		b := bar{y: rng.IntN(span)}
		if rng.Float64() < dropoutThickFrac {
			b.height = 4 + rng.IntN(5)
			b.alpha = 0.7 + rng.Float64()*0.3
		} else {
			b.height = 1
			if rng.Float64() > 0.6 {
				b.height = 2
			}
			b.alpha = 0.35 + rng.Float64()*0.5
		}
		bars[k] = b
	}
	return bars
}

// noiseDrawable reports whether level yields any visible pixel.
func noiseDrawable(level float64) bool {
	return math.Floor(level*noiseAlphaMax) > 0
}

func (r *Renderer) noiseWanted() bool {
	s := r.surf
	return r.visible && r.snap.GlitchesEnabled && noiseDrawable(r.snap.GlitchNoise) &&
		s.noiseWrap != nil && s.noiseCtx != nil
}

func (r *Renderer) syncNoise() {
	if !r.noiseWanted() {
		r.stopNoise()
		return
	}
	if r.noise.Running() {
		return
	}
	s := r.surf
	n := r.noiseSize
	if r.noiseBuf == nil {
		r.noiseBuf = image.NewNRGBA(image.Rect(0, 0, n, n))
	}
	s.noiseCanvas.Resize(n, n)
	s.noiseWrap.SetStyle("display", "block")
	r.noiseFrame = 0
	r.noise.Frames(r.noiseTick)
}

// noiseTick draws on every other frame.
func (r *Renderer) noiseTick() bool {
	if !r.noiseWanted() || r.noiseBuf == nil {
		r.clearNoise()
		return false
	}
	r.noiseFrame++
	if r.noiseFrame%2 != 0 {
		return true
	}
	fillNoise(r.noiseBuf, r.snap.GlitchNoise, r.noiseFrame, r.chroma, r.rng)
	r.surf.noiseCtx.PutImageData(r.noiseBuf, 0, 0)
	return true
}

func (r *Renderer) stopNoise() {
	r.noise.Stop()
	r.clearNoise()
}

func (r *Renderer) clearNoise() {
	s := r.surf
	if s.noiseWrap != nil {
		s.noiseWrap.SetStyle("display", "none")
	}
	if s.noiseCtx != nil {
		s.noiseCtx.ClearRect(0, 0, r.noiseSize, r.noiseSize)
	}
}

func (r *Renderer) dropoutWanted() bool {
	s := r.surf
	return r.visible && r.snap.GlitchesEnabled && r.snap.GlitchDropout >= dropoutThreshold &&
		s.dropoutWrap != nil && s.dropoutCtx != nil
}

func (r *Renderer) syncDropout() {
	if !r.dropoutWanted() {
		r.stopDropout()
		return
	}
	s := r.surf
	s.dropoutWrap.SetStyle("opacity", FormatLevel(r.snap.GlitchDropout))
	if r.dropout.Running() {
		return
	}
	s.dropoutCanvas.Resize(DropoutSize, DropoutSize)
	s.dropoutWrap.SetStyle("display", "block")
	r.dropout.Paced(r.dropoutDelay, r.dropoutTick)
}

func (r *Renderer) dropoutDelay() time.Duration {
	return dropoutMinDelay + time.Duration(r.rng.Float64()*float64(dropoutDelaySpan))
}

func (r *Renderer) dropoutTick() bool {
	if !r.dropoutWanted() {
		r.clearDropout()
		return false
	}
	ctx := r.surf.dropoutCtx
	ctx.ClearRect(0, 0, DropoutSize, DropoutSize)
	for _, b := range dropoutBars(r.snap.GlitchDropout, DropoutSize, r.rng) {
		ctx.FillRect(0, b.y, DropoutSize, b.height, color.NRGBA{A: uint8(math.Round(b.alpha * 255))})
	}
	return true
}

func (r *Renderer) stopDropout() {
	r.dropout.Stop()
	r.clearDropout()
}

func (r *Renderer) clearDropout() {
	s := r.surf
	if s.dropoutWrap != nil {
		s.dropoutWrap.SetStyle("display", "none")
		s.dropoutWrap.RemoveStyle("opacity")
	}
	if s.dropoutCtx != nil {
		s.dropoutCtx.ClearRect(0, 0, DropoutSize, DropoutSize)
	}
}
