package host

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/cwbudde/algo-vhs/overlay"
	"golang.org/x/image/draw"
)

// Look is the overlay's static style state as published through its named
// properties.
type Look struct {
	Visible    bool
	Scanline   float64
	Vignette   float64
	Glow       float64
	RGBPx      float64
	RGBOpacity float64
	WobblePx   float64
}

// Look reads the current properties from the page.
func (e *Engine) Look() Look {
	root := e.Doc.ElementByID(overlay.RootID)
	inner := e.Doc.ElementByID(overlay.InnerID)
	if root == nil || inner == nil || !root.Displayed() {
		return Look{}
	}
	l := Look{
		Visible:  true,
		Scanline: styleFloat(inner.Style(overlay.PropScanline)),
		Vignette: styleFloat(inner.Style(overlay.PropVignette)),
		Glow:     styleFloat(inner.Style(overlay.PropGlow)),
		WobblePx: styleFloat(e.Doc.BodyElement().Style(overlay.PropWobblePx)),
	}
	if rgb := e.Doc.ElementByID(overlay.RGBOverlayID); rgb != nil && rgb.Displayed() {
		l.RGBPx = styleFloat(root.Style(overlay.PropRGBPx))
		l.RGBOpacity = styleFloat(root.Style(overlay.PropRGBOpacity))
	}
	return l
}

func styleFloat(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

// Picture draws the test card, the static look and the raster canvases into
// dst, scaled to dst's bounds.
func (e *Engine) Picture(dst *image.NRGBA) {
	if e.card == nil {
		e.card = TestCard(e.width, e.height)
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), e.card, e.card.Bounds(), draw.Src, nil)
	ApplyLook(dst, e.Look())
	e.Doc.CompositeOnto(dst)
}

// ApplyLook renders the static layers of l onto img in place: chroma offset,
// glow lift, alternate-line scanlines and a radial vignette.
func ApplyLook(img *image.NRGBA, l Look) {
	if !l.Visible {
		return
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	if l.RGBPx >= 1 && l.RGBOpacity > 0 {
		shiftChroma(img, int(l.RGBPx), l.RGBOpacity)
	}

	lift := 1 + 0.6*l.Glow
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		line := 1.0
		if y%2 == 1 {
			line = 1 - 0.6*l.Scanline
		}
		dy := (float64(y)+0.5)/float64(h) - 0.5
		for x := range w {
			dx := (float64(x)+0.5)/float64(w) - 0.5
			vig := 1 - l.Vignette*1.6*(dx*dx+dy*dy)
			gain := max(0, line*vig*lift)
			p := row[4*x : 4*x+3]
			for c := range p {
				p[c] = uint8(min(255, float64(p[c])*gain+0.5))
			}
		}
	}
}

// shiftChroma pulls red from the left and blue from the right by px, blended
// with the unshifted picture by opacity.
func shiftChroma(img *image.NRGBA, px int, opacity float64) {
	b := img.Bounds()
	src := image.NewNRGBA(b)
	copy(src.Pix, img.Pix)
	mix := func(from, to uint8) uint8 {
		return uint8((1-opacity)*float64(from) + opacity*float64(to) + 0.5)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.NRGBAAt(x, y)
			r := src.NRGBAAt(max(b.Min.X, x-px), y).R
			bl := src.NRGBAAt(min(b.Max.X-1, x+px), y).B
			img.SetNRGBA(x, y, color.NRGBA{R: mix(c.R, r), G: c.G, B: mix(c.B, bl), A: c.A})
		}
	}
}

var cardBars = []color.NRGBA{
	{191, 191, 191, 255},
	{191, 191, 0, 255},
	{0, 191, 191, 255},
	{0, 191, 0, 255},
	{191, 0, 191, 255},
	{191, 0, 0, 255},
	{0, 0, 191, 255},
}

// TestCard returns 75% colour bars over a grey ramp.
func TestCard(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	split := height * 3 / 4
	for y := range height {
		for x := range width {
			var c color.NRGBA
			if y < split {
				c = cardBars[x*len(cardBars)/width]
			} else {
				v := uint8(x * 255 / max(1, width-1))
				c = color.NRGBA{v, v, v, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
