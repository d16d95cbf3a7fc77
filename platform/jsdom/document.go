//go:build js && wasm

package jsdom

import (
	"fmt"
	"syscall/js"

	"github.com/cwbudde/algo-vhs/platform"
)

const keyProp = "__crtMediaKey"

// Document wraps the page's document.
type Document struct {
	win     js.Value
	doc     js.Value
	nextKey platform.ElementKey
}

// NewDocument wraps the global document.
func NewDocument() *Document {
	return &Document{win: js.Global(), doc: js.Global().Get("document")}
}

func (d *Document) CreateElement(tag string) (platform.Element, error) {
	v, err := try(func() js.Value { return d.doc.Call("createElement", tag) })
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", tag, err)
	}
	return &Element{v: v}, nil
}

func (d *Document) CreateCanvas() (platform.Canvas, error) {
	v, err := try(func() js.Value { return d.doc.Call("createElement", "canvas") })
	if err != nil {
		return nil, fmt.Errorf("create canvas: %w", err)
	}
	return &Canvas{Element{v: v}}, nil
}

func (d *Document) Body() (platform.Element, bool) {
	body := d.doc.Get("body")
	if body.IsNull() || body.IsUndefined() {
		return nil, false
	}
	return &Element{v: body}, true
}

func (d *Document) Root() platform.Element {
	return &Element{v: d.doc.Get("documentElement")}
}

func (d *Document) ScrollExtent() platform.Extent {
	root := d.doc.Get("documentElement")
	return platform.Extent{
		ScrollWidth:  root.Get("scrollWidth").Int(),
		ScrollHeight: root.Get("scrollHeight").Int(),
		ClientWidth:  root.Get("clientWidth").Int(),
		ClientHeight: root.Get("clientHeight").Int(),
	}
}

func (d *Document) ObserveResize(target platform.Element, fn func()) (func(), error) {
	ctor := d.win.Get("ResizeObserver")
	t, ok := target.(valuer)
	if ctor.IsUndefined() || !ok {
		return nil, fmt.Errorf("resize observer: %w", platform.ErrUnsupported)
	}
	cb := listener(fn)
	obs := ctor.New(cb)
	obs.Call("observe", t.jsValue())
	return func() {
		obs.Call("disconnect")
		cb.Release()
	}, nil
}

func (d *Document) OnScroll(fn func()) func() {
	cb := listener(fn)
	d.win.Call("addEventListener", "scroll", cb, passive())
	return func() {
		d.win.Call("removeEventListener", "scroll", cb)
		cb.Release()
	}
}

func (d *Document) AddEventListener(event string, fn func()) func() {
	cb := listener(fn)
	d.doc.Call("addEventListener", event, cb, passive())
	released := false
	return func() {
		if released {
			return
		}
		released = true
		d.doc.Call("removeEventListener", event, cb)
		cb.Release()
	}
}

// QueryMedia returns the attached audio and video elements. Keys are stored
// on the element object, so the same element keeps its key across queries.
func (d *Document) QueryMedia() []platform.MediaElement {
	list := d.doc.Call("querySelectorAll", "audio, video")
	n := list.Length()
	out := make([]platform.MediaElement, 0, n)
	for i := range n {
		v := list.Index(i)
		key := v.Get(keyProp)
		if key.IsUndefined() {
			d.nextKey++
			v.Set(keyProp, float64(d.nextKey))
			key = v.Get(keyProp)
		}
		out = append(out, &Media{Element: Element{v: v}, key: platform.ElementKey(key.Int())})
	}
	return out
}

func (d *Document) ObserveMutations(fn func()) (func(), error) {
	ctor := d.win.Get("MutationObserver")
	body := d.doc.Get("body")
	if ctor.IsUndefined() || body.IsNull() || body.IsUndefined() {
		return nil, fmt.Errorf("mutation observer: %w", platform.ErrUnsupported)
	}
	cb := listener(fn)
	obs := ctor.New(cb)
	opts := js.Global().Get("Object").New()
	opts.Set("childList", true)
	opts.Set("subtree", true)
	obs.Call("observe", body, opts)
	return func() {
		obs.Call("disconnect")
		cb.Release()
	}, nil
}
