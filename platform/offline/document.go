package offline

import (
	"maps"
	"slices"

	"github.com/cwbudde/algo-vhs/platform"
)

// Document is an in-memory platform.Document. It is not safe for concurrent
// use; drive it from the scheduler's thread.
type Document struct {
	root *Element
	body *Element

	extent platform.Extent

	noCanvas  bool
	no2D      bool
	noObserve bool

	nextID    int
	nextKey   platform.ElementKey
	resize    map[int]func()
	scroll    map[int]func()
	listeners map[string]map[int]func()
	mutations map[int]func()
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithViewport sets the initial client and scroll extent.
func WithViewport(width, height int) DocumentOption {
	return func(d *Document) {
		d.extent = platform.Extent{
			ScrollWidth: width, ScrollHeight: height,
			ClientWidth: width, ClientHeight: height,
		}
	}
}

// WithoutBody starts the document with no body element.
func WithoutBody() DocumentOption {
	return func(d *Document) { d.body = nil }
}

// WithoutCanvas makes CreateCanvas fail.
func WithoutCanvas() DocumentOption {
	return func(d *Document) { d.noCanvas = true }
}

// Without2D makes Canvas.Context2D fail.
func Without2D() DocumentOption {
	return func(d *Document) { d.no2D = true }
}

// WithoutObservers makes ObserveResize and ObserveMutations fail.
func WithoutObservers() DocumentOption {
	return func(d *Document) { d.noObserve = true }
}

// NewDocument returns a document with a root and a body element and a
// 1280x720 viewport.
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{
		resize:    map[int]func(){},
		scroll:    map[int]func(){},
		listeners: map[string]map[int]func(){},
		mutations: map[int]func(){},
	}
	d.root = d.newElement("html")
	d.body = d.newElement("body")
	WithViewport(1280, 720)(d)
	for _, opt := range opts {
		opt(d)
	}
	if d.body != nil {
		d.body.parent = d.root
		d.root.children = append(d.root.children, d.body)
	}
	return d
}

func (d *Document) CreateElement(tag string) (platform.Element, error) {
	return d.newElement(tag), nil
}

func (d *Document) CreateCanvas() (platform.Canvas, error) {
	if d.noCanvas {
		return nil, platform.ErrUnsupported
	}
	return d.newCanvas(), nil
}

func (d *Document) Body() (platform.Element, bool) {
	if d.body == nil {
		return nil, false
	}
	return d.body, true
}

// BodyElement returns the body, or nil.
func (d *Document) BodyElement() *Element { return d.body }

func (d *Document) Root() platform.Element { return d.root }

// RootElement returns the document element.
func (d *Document) RootElement() *Element { return d.root }

func (d *Document) ScrollExtent() platform.Extent { return d.extent }

// SetExtent changes the document extent and notifies resize observers of
// the root element.
func (d *Document) SetExtent(e platform.Extent) {
	d.extent = e
	for _, id := range sortedIDs(d.resize) {
		if fn, ok := d.resize[id]; ok {
			fn()
		}
	}
}

func (d *Document) ObserveResize(target platform.Element, fn func()) (func(), error) {
	if d.noObserve {
		return nil, platform.ErrUnsupported
	}
	if n, ok := target.(node); !ok || n.base() != d.root {
		return nil, platform.ErrUnsupported
	}
	return d.register(d.resize, fn), nil
}

func (d *Document) OnScroll(fn func()) func() {
	return d.register(d.scroll, fn)
}

// Scroll notifies scroll listeners.
func (d *Document) Scroll() {
	for _, id := range sortedIDs(d.scroll) {
		if fn, ok := d.scroll[id]; ok {
			fn()
		}
	}
}

func (d *Document) AddEventListener(event string, fn func()) func() {
	set, ok := d.listeners[event]
	if !ok {
		set = map[int]func(){}
		d.listeners[event] = set
	}
	return d.register(set, fn)
}

// Dispatch fires a document-level event.
func (d *Document) Dispatch(event string) {
	set := d.listeners[event]
	for _, id := range sortedIDs(set) {
		if fn, ok := set[id]; ok {
			fn()
		}
	}
}

// ListenerCount reports the listeners registered for an event.
func (d *Document) ListenerCount(event string) int {
	return len(d.listeners[event])
}

// ScrollListenerCount reports the registered scroll listeners.
func (d *Document) ScrollListenerCount() int { return len(d.scroll) }

// MutationObserverCount reports the connected mutation observers.
func (d *Document) MutationObserverCount() int { return len(d.mutations) }

func (d *Document) QueryMedia() []platform.MediaElement {
	var out []platform.MediaElement
	d.root.walk(func(e *Element) bool {
		if m, ok := e.self.(*Media); ok {
			out = append(out, m)
		}
		return true
	})
	return out
}

func (d *Document) ObserveMutations(fn func()) (func(), error) {
	if d.noObserve || d.body == nil {
		return nil, platform.ErrUnsupported
	}
	return d.register(d.mutations, fn), nil
}

// ElementByID returns the first attached element with the given id.
func (d *Document) ElementByID(id string) *Element {
	var found *Element
	d.root.walk(func(e *Element) bool {
		if e.attrs["id"] == id {
			found = e
			return false
		}
		return true
	})
	return found
}

func (d *Document) notifyMutation() {
	for _, id := range sortedIDs(d.mutations) {
		if fn, ok := d.mutations[id]; ok {
			fn()
		}
	}
}

func (d *Document) register(set map[int]func(), fn func()) func() {
	d.nextID++
	id := d.nextID
	set[id] = fn
	return func() { delete(set, id) }
}

// CanvasByID returns the attached canvas with the given id, or nil.
func (d *Document) CanvasByID(id string) *Canvas {
	c, _ := d.ElementByID(id).canvas()
	return c
}

func (e *Element) canvas() (*Canvas, bool) {
	if e == nil {
		return nil, false
	}
	c, ok := e.self.(*Canvas)
	return c, ok
}

func sortedIDs(set map[int]func()) []int {
	return slices.Sorted(maps.Keys(set))
}
