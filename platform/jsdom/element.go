//go:build js && wasm

package jsdom

import (
	"fmt"
	"image"
	"image/color"
	"syscall/js"

	"github.com/cwbudde/algo-vhs/platform"
)

// Element wraps a DOM element.
type Element struct {
	v js.Value
}

func (e *Element) jsValue() js.Value { return e.v }

func (e *Element) SetAttribute(name, value string) { e.v.Call("setAttribute", name, value) }

func (e *Element) RemoveAttribute(name string) { e.v.Call("removeAttribute", name) }

func (e *Element) HasAttribute(name string) bool { return e.v.Call("hasAttribute", name).Bool() }

func (e *Element) SetStyle(name, value string) {
	e.v.Get("style").Call("setProperty", name, value)
}

func (e *Element) RemoveStyle(name string) {
	e.v.Get("style").Call("removeProperty", name)
}

func (e *Element) Style(name string) string {
	return e.v.Get("style").Call("getPropertyValue", name).String()
}

func (e *Element) AddClass(name string) { e.v.Get("classList").Call("add", name) }

func (e *Element) RemoveClass(name string) { e.v.Get("classList").Call("remove", name) }

func (e *Element) AppendChild(child platform.Element) error {
	c, ok := child.(valuer)
	if !ok {
		return fmt.Errorf("append child: %T is not a DOM element", child)
	}
	_, err := try(func() js.Value { return e.v.Call("appendChild", c.jsValue()) })
	if err != nil {
		return fmt.Errorf("append child: %w", err)
	}
	return nil
}

// Media wraps an audio or video element.
type Media struct {
	Element
	key platform.ElementKey
}

func (m *Media) Key() platform.ElementKey { return m.key }

// Canvas wraps a canvas element.
type Canvas struct {
	Element
}

func (c *Canvas) Resize(width, height int) {
	c.v.Set("width", width)
	c.v.Set("height", height)
}

func (c *Canvas) Context2D() (platform.Context2D, error) {
	ctx := c.v.Call("getContext", "2d")
	if ctx.IsNull() || ctx.IsUndefined() {
		return nil, fmt.Errorf("canvas 2d context: %w", platform.ErrUnsupported)
	}
	return &Context2D{v: ctx}, nil
}

// Context2D wraps a CanvasRenderingContext2D. PutImageData reuses one
// ImageData per size.
type Context2D struct {
	v      js.Value
	data   js.Value
	w, h   int
	packed []byte
}

func (x *Context2D) PutImageData(img *image.NRGBA, px, py int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	if x.w != w || x.h != h || x.data.IsUndefined() {
		x.data = x.v.Call("createImageData", w, h)
		x.w, x.h = w, h
	}
	pix := img.Pix
	if img.Stride != 4*w {
		if len(x.packed) != 4*w*h {
			x.packed = make([]byte, 4*w*h)
		}
		for y := range h {
			copy(x.packed[4*w*y:4*w*(y+1)], img.Pix[img.Stride*y:])
		}
		pix = x.packed
	}
	js.CopyBytesToJS(x.data.Get("data"), pix[:4*w*h])
	x.v.Call("putImageData", x.data, px, py)
}

func (x *Context2D) ClearRect(px, py, w, h int) {
	x.v.Call("clearRect", px, py, w, h)
}

func (x *Context2D) FillRect(px, py, w, h int, c color.NRGBA) {
	x.v.Set("fillStyle", fmt.Sprintf("rgba(%d,%d,%d,%.4f)", c.R, c.G, c.B, float64(c.A)/255))
	x.v.Call("fillRect", px, py, w, h)
}
