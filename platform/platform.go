package platform

import (
	"errors"
	"image"
	"image/color"
)

var (
	// ErrUnsupported reports a capability the host does not offer.
	ErrUnsupported = errors.New("platform: capability unsupported")
	// ErrTapRefused reports a media element that cannot be routed through
	// the audio graph, such as a cross-origin source.
	ErrTapRefused = errors.New("platform: media element refused tap")
	// ErrContextUnavailable reports that no audio context could be created.
	ErrContextUnavailable = errors.New("platform: audio context unavailable")
)

// Element is a node of the host document.
type Element interface {
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	HasAttribute(name string) bool
	// SetStyle writes an inline style or custom property.
	SetStyle(name, value string)
	RemoveStyle(name string)
	Style(name string) string
	AddClass(name string)
	RemoveClass(name string)
	AppendChild(child Element) error
}

// Canvas is a raster element.
type Canvas interface {
	Element
	// Resize sets the backing store size, clearing its content.
	Resize(width, height int)
	Context2D() (Context2D, error)
}

// Context2D is the subset of a 2D raster context the overlay draws with.
type Context2D interface {
	PutImageData(img *image.NRGBA, x, y int)
	ClearRect(x, y, width, height int)
	FillRect(x, y, width, height int, c color.NRGBA)
}

// ElementKey identifies a media element for the lifetime of the document.
type ElementKey uint64

// MediaElement is a playable audio or video element.
type MediaElement interface {
	Element
	Key() ElementKey
}

// Extent is the document's scrollable and visible size in CSS pixels.
type Extent struct {
	ScrollWidth  int
	ScrollHeight int
	ClientWidth  int
	ClientHeight int
}

// Document is the hosting page.
type Document interface {
	CreateElement(tag string) (Element, error)
	CreateCanvas() (Canvas, error)
	// Body returns the body element, or false while the document has none.
	Body() (Element, bool)
	// Root returns the document element.
	Root() Element
	ScrollExtent() Extent
	ObserveResize(target Element, fn func()) (cancel func(), err error)
	OnScroll(fn func()) (cancel func())
	// AddEventListener registers a passive document-level listener.
	AddEventListener(event string, fn func()) (remove func())
	// QueryMedia returns the audio and video elements currently attached,
	// in document order.
	QueryMedia() []MediaElement
	// ObserveMutations reports child-list changes anywhere in the body.
	ObserveMutations(fn func()) (disconnect func(), err error)
}
