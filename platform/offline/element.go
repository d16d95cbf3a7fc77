package offline

import (
	"fmt"
	"maps"
	"slices"

	"github.com/cwbudde/algo-vhs/platform"
)

// Element is an in-memory document node.
type Element struct {
	doc      *Document
	tag      string
	attrs    map[string]string
	style    map[string]string
	classes  map[string]bool
	writes   map[string]int
	parent   *Element
	children []*Element
	self     platform.Element
}

type node interface {
	base() *Element
}

func (d *Document) newElement(tag string) *Element {
	e := &Element{
		doc:     d,
		tag:     tag,
		attrs:   map[string]string{},
		style:   map[string]string{},
		classes: map[string]bool{},
		writes:  map[string]int{},
	}
	e.self = e
	return e
}

func (e *Element) base() *Element { return e }

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// ID returns the id attribute.
func (e *Element) ID() string { return e.attrs["id"] }

func (e *Element) SetAttribute(name, value string) { e.attrs[name] = value }

func (e *Element) RemoveAttribute(name string) { delete(e.attrs, name) }

func (e *Element) HasAttribute(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *Element) SetStyle(name, value string) {
	e.style[name] = value
	e.writes[name]++
}

func (e *Element) RemoveStyle(name string) {
	if _, ok := e.style[name]; ok {
		delete(e.style, name)
		e.writes[name]++
	}
}

func (e *Element) Style(name string) string { return e.style[name] }

// StyleWrites counts writes and removals of one style property.
func (e *Element) StyleWrites(name string) int { return e.writes[name] }

// StyleNames returns the names of the set style properties, sorted.
func (e *Element) StyleNames() []string {
	return slices.Sorted(maps.Keys(e.style))
}

func (e *Element) AddClass(name string) { e.classes[name] = true }

func (e *Element) RemoveClass(name string) { delete(e.classes, name) }

// HasClass reports whether the class is set.
func (e *Element) HasClass(name string) bool { return e.classes[name] }

func (e *Element) AppendChild(child platform.Element) error {
	n, ok := child.(node)
	if !ok {
		return fmt.Errorf("append child: %T is not an offline element", child)
	}
	c := n.base()
	if c.doc != e.doc {
		return fmt.Errorf("append child: element belongs to another document")
	}
	for p := e; p != nil; p = p.parent {
		if p == c {
			return fmt.Errorf("append child: cycle")
		}
	}
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = e
	e.children = append(e.children, c)
	if e.connected() {
		e.doc.notifyMutation()
	}
	return nil
}

// Children returns the direct children.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// Parent returns the parent element or nil.
func (e *Element) Parent() *Element { return e.parent }

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	if e.parent == nil {
		return
	}
	wasConnected := e.connected()
	e.parent.detach(e)
	if wasConnected {
		e.doc.notifyMutation()
	}
}

func (e *Element) detach(c *Element) {
	if i := slices.Index(e.children, c); i >= 0 {
		e.children = slices.Delete(e.children, i, i+1)
	}
	c.parent = nil
}

func (e *Element) connected() bool {
	p := e
	for p.parent != nil {
		p = p.parent
	}
	return p == e.doc.root
}

// Displayed reports whether neither the element nor an ancestor is hidden
// with display:none.
func (e *Element) Displayed() bool {
	for p := e; p != nil; p = p.parent {
		if p.style["display"] == "none" {
			return false
		}
	}
	return true
}

func (e *Element) walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}
