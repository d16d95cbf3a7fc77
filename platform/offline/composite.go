package offline

import (
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/draw"
)

// Composite renders every displayed canvas, stretched over a width x height
// frame, in document order. Inline opacity on the canvas and its ancestors
// scales each layer.
func (d *Document) Composite(width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	d.CompositeOnto(dst)
	return dst
}

// CompositeOnto draws the displayed canvases over dst.
func (d *Document) CompositeOnto(dst draw.Image) {
	d.root.walk(func(e *Element) bool {
		if e.style["display"] == "none" {
			return false
		}
		c, ok := e.canvas()
		if !ok || c.img.Bounds().Empty() {
			return true
		}
		alpha := e.opacity()
		if alpha <= 0 {
			return true
		}
		var opts *draw.Options
		if alpha < 1 {
			opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(alpha*255 + 0.5)})}
		}
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), c.img, c.img.Bounds(), draw.Over, opts)
		return true
	})
}

func (e *Element) opacity() float64 {
	alpha := 1.0
	for p := e; p != nil; p = p.parent {
		v, ok := p.style["opacity"]
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		alpha *= min(max(f, 0), 1)
	}
	return alpha
}
