package overlay

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/algo-vhs/platform"
)

// Element ids of the render surface.
const (
	RootID          = "crt-overlay-root"
	CurveWrapID     = "crt-curve-wrap"
	InnerID         = "crt-curve-inner"
	RGBOverlayID    = "crt-vhs-rgb-overlay"
	RewindID        = "crt-vhs-rewind"
	NoiseWrapID     = "crt-glitch-noise-wrap"
	NoiseCanvasID   = "crt-glitch-noise"
	DropoutWrapID   = "crt-glitch-dropout-wrap"
	DropoutCanvasID = "crt-glitch-dropout"
)

const (
	attrVisible  = "data-visible"
	attrGlitches = "data-glitches"
	bodyWobble   = "crt-body-wobble"
)

var staticLayers = []string{
	"crt-scanlines",
	"crt-vignette",
	"crt-glow",
	"crt-chromatic",
	"crt-glitch-phase",
	"crt-tracking-lines",
	"crt-headswitch",
}

var rgbChannels = []string{"crt-vhs-rgb-red", "crt-vhs-rgb-green", "crt-vhs-rgb-cyan"}

type surface struct {
	body   platform.Element
	root   platform.Element
	inner  platform.Element
	rgb    platform.Element
	rewind platform.Element

	noiseWrap   platform.Element
	noiseCanvas platform.Canvas
	noiseCtx    platform.Context2D

	dropoutWrap   platform.Element
	dropoutCanvas platform.Canvas
	dropoutCtx    platform.Context2D
}

func (r *Renderer) ensureSurface() bool {
	if r.surf != nil {
		return true
	}
	body, ok := r.doc.Body()
	if !ok {
		r.log.Debug("overlay: document has no body")
		return false
	}
	s, err := r.buildSurface(body)
	if err != nil {
		r.log.Debug("overlay: build surface", "error", err)
		return false
	}
	if err := body.AppendChild(s.root); err != nil {
		r.log.Debug("overlay: attach surface", "error", err)
		return false
	}
	r.surf = s
	r.observeExtent()
	return true
}

func (r *Renderer) buildSurface(body platform.Element) (*surface, error) {
	s := &surface{body: body}
	var err error
	if s.root, err = r.element("div", RootID, nil); err != nil {
		return nil, err
	}
	s.root.SetAttribute("tabindex", "-1")
	s.root.SetAttribute("aria-hidden", "true")
	s.root.SetStyle("display", "none")

	wrap, err := r.element("div", CurveWrapID, s.root)
	if err != nil {
		return nil, err
	}
	if s.inner, err = r.element("div", InnerID, wrap); err != nil {
		return nil, err
	}
	for _, id := range staticLayers {
		if _, err := r.element("div", id, s.inner); err != nil {
			return nil, err
		}
	}
	if s.rgb, err = r.element("div", RGBOverlayID, s.inner); err != nil {
		return nil, err
	}
	s.rgb.SetStyle("display", "none")
	for _, id := range rgbChannels {
		if _, err := r.element("div", id, s.rgb); err != nil {
			return nil, err
		}
	}
	if s.rewind, err = r.element("div", RewindID, s.inner); err != nil {
		return nil, err
	}
	s.rewind.SetStyle("display", "none")

	s.noiseWrap, s.noiseCanvas, s.noiseCtx = r.rasterLayer(s.inner, NoiseWrapID, NoiseCanvasID)
	s.dropoutWrap, s.dropoutCanvas, s.dropoutCtx = r.rasterLayer(s.inner, DropoutWrapID, DropoutCanvasID)
	return s, nil
}

// rasterLayer builds a hidden wrap holding one canvas. Any missing capability
// yields nil parts and leaves that effect absent.
func (r *Renderer) rasterLayer(parent platform.Element, wrapID, canvasID string) (platform.Element, platform.Canvas, platform.Context2D) {
	wrap, err := r.element("div", wrapID, parent)
	if err != nil {
		r.log.Debug("overlay: raster layer", "layer", wrapID, "error", err)
		return nil, nil, nil
	}
	wrap.SetStyle("display", "none")
	canvas, err := r.doc.CreateCanvas()
	if err != nil {
		r.log.Debug("overlay: raster layer", "layer", canvasID, "error", err)
		return wrap, nil, nil
	}
	canvas.SetAttribute("id", canvasID)
	if err := wrap.AppendChild(canvas); err != nil {
		r.log.Debug("overlay: raster layer", "layer", canvasID, "error", err)
		return wrap, nil, nil
	}
	ctx, err := canvas.Context2D()
	if err != nil {
		r.log.Debug("overlay: raster context", "layer", canvasID, "error", err)
		return wrap, canvas, nil
	}
	return wrap, canvas, ctx
}

func (r *Renderer) element(tag, id string, parent platform.Element) (platform.Element, error) {
	el, err := r.doc.CreateElement(tag)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", id, err)
	}
	el.SetAttribute("id", id)
	if parent != nil {
		if err := parent.AppendChild(el); err != nil {
			return nil, fmt.Errorf("append %s: %w", id, err)
		}
	}
	return el, nil
}

func (r *Renderer) observeExtent() {
	if _, err := r.doc.ObserveResize(r.doc.Root(), r.resize.Trigger); err != nil {
		r.log.Debug("overlay: resize observer unavailable", "error", err)
	}
	r.doc.OnScroll(r.resize.Trigger)
}

// recompute sizes the root to the document's scrollable extent.
func (r *Renderer) recompute() {
	if r.surf == nil {
		return
	}
	e := r.doc.ScrollExtent()
	w := max(e.ScrollWidth, e.ClientWidth)
	h := max(e.ScrollHeight, e.ClientHeight)
	r.surf.root.SetStyle("width", strconv.Itoa(w)+"px")
	r.surf.root.SetStyle("height", strconv.Itoa(h)+"px")
	r.resizes++
}
