package main

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/cwbudde/algo-vhs/bus"
	"github.com/cwbudde/algo-vhs/internal/host"
)

// crtShader renders the overlay's static layers from its named properties.
const crtShader = `//kage:unit pixels

package main

var Scanline float
var Vignette float
var Glow float
var RGBPx float
var RGBOpacity float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	uv := (src - imageSrc0Origin()) / imageSrc0Size()
	col := imageSrc0At(src)
	r := imageSrc0At(src - vec2(RGBPx, 0)).r
	b := imageSrc0At(src + vec2(RGBPx, 0)).b
	col.r = mix(col.r, r, RGBOpacity)
	col.b = mix(col.b, b, RGBOpacity)

	line := 1.0
	if mod(floor(dst.y), 2.0) == 1.0 {
		line = 1.0 - 0.6*Scanline
	}
	d := uv - 0.5
	vig := 1.0 - Vignette*1.6*dot(d, d)
	col.rgb = col.rgb * max(line*vig*(1.0+0.6*Glow), 0.0)
	return col * color
}
`

type game struct {
	e      *host.Engine
	shader *ebiten.Shader
	card   *ebiten.Image
	layer  *ebiten.Image
	canvas *image.RGBA
}

func newGame(e *host.Engine) (*game, error) {
	shader, err := ebiten.NewShader([]byte(crtShader))
	if err != nil {
		return nil, fmt.Errorf("compile crt shader: %w", err)
	}
	w, h := e.Size()
	return &game{
		e:      e,
		shader: shader,
		card:   ebiten.NewImageFromImage(host.TestCard(w, h)),
		layer:  ebiten.NewImage(w, h),
		canvas: image.NewRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.e.Dispatcher.Handle(bus.Message{Type: bus.TypeToggle, Enabled: !g.e.Overlay.Visible()})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		s := g.e.Bus.Snapshot()
		s.SoundEnabled = !s.SoundEnabled
		g.e.Bus.Publish(s)
	}
	g.e.Step()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	look := g.e.Look()
	w, h := g.e.Size()
	if look.Visible {
		op := &ebiten.DrawRectShaderOptions{}
		op.Images[0] = g.card
		op.Uniforms = map[string]any{
			"Scanline":   float32(look.Scanline),
			"Vignette":   float32(look.Vignette),
			"Glow":       float32(look.Glow),
			"RGBPx":      float32(look.RGBPx),
			"RGBOpacity": float32(look.RGBOpacity),
		}
		op.GeoM.Translate(look.WobblePx, 0)
		screen.DrawRectShader(w, h, g.shader, op)
	} else {
		screen.DrawImage(g.card, nil)
	}

	clear(g.canvas.Pix)
	g.e.Doc.CompositeOnto(g.canvas)
	g.layer.WritePixels(g.canvas.Pix)
	screen.DrawImage(g.layer, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.e.Size()
}
