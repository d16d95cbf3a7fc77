package offline

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/cwbudde/algo-vhs/platform"
)

// Canvas is an in-memory raster element.
type Canvas struct {
	*Element
	img *image.NRGBA
	ctx *Context2D
}

func (d *Document) newCanvas() *Canvas {
	c := &Canvas{Element: d.newElement("canvas"), img: image.NewNRGBA(image.Rect(0, 0, 300, 150))}
	c.Element.self = c
	return c
}

// Resize replaces the backing store with a cleared one of the given size.
func (c *Canvas) Resize(width, height int) {
	c.img = image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

func (c *Canvas) Context2D() (platform.Context2D, error) {
	if c.doc.no2D {
		return nil, platform.ErrUnsupported
	}
	if c.ctx == nil {
		c.ctx = &Context2D{canvas: c}
	}
	return c.ctx, nil
}

// Image returns the backing store.
func (c *Canvas) Image() *image.NRGBA { return c.img }

// Blank reports whether every pixel is fully transparent.
func (c *Canvas) Blank() bool {
	for i := 3; i < len(c.img.Pix); i += 4 {
		if c.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// Context2D draws into a Canvas and counts the calls it receives.
type Context2D struct {
	canvas *Canvas

	Puts   int
	Clears int
	Fills  int
}

func (x *Context2D) PutImageData(img *image.NRGBA, px, py int) {
	x.Puts++
	r := img.Bounds().Add(image.Pt(px, py).Sub(img.Bounds().Min))
	draw.Draw(x.canvas.img, r, img, img.Bounds().Min, draw.Src)
}

func (x *Context2D) ClearRect(px, py, w, h int) {
	x.Clears++
	draw.Draw(x.canvas.img, image.Rect(px, py, px+w, py+h), image.Transparent, image.Point{}, draw.Src)
}

func (x *Context2D) FillRect(px, py, w, h int, c color.NRGBA) {
	x.Fills++
	draw.Draw(x.canvas.img, image.Rect(px, py, px+w, py+h), image.NewUniform(c), image.Point{}, draw.Over)
}
