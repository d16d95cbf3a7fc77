package offline

import (
	"slices"

	"github.com/cwbudde/algo-vhs/platform"
)

// Media is an audio or video element with mono sample data.
type Media struct {
	*Element
	key     platform.ElementKey
	samples []float32
	loop    bool
	refuse  bool
}

// MediaOption configures a Media element.
type MediaOption func(*Media)

// WithSamples sets the element's program material.
func WithSamples(samples []float32, loop bool) MediaOption {
	return func(m *Media) {
		m.samples = slices.Clone(samples)
		m.loop = loop
	}
}

// RefuseTap makes the element reject media element sources, the way a
// cross-origin element does.
func RefuseTap() MediaOption {
	return func(m *Media) { m.refuse = true }
}

// NewMedia creates a detached audio or video element.
func (d *Document) NewMedia(tag string, opts ...MediaOption) *Media {
	d.nextKey++
	m := &Media{Element: d.newElement(tag), key: d.nextKey}
	m.Element.self = m
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddMedia creates a media element and appends it to the body.
func (d *Document) AddMedia(tag string, opts ...MediaOption) *Media {
	m := d.NewMedia(tag, opts...)
	if d.body != nil {
		_ = d.body.AppendChild(m)
	}
	return m
}

func (m *Media) Key() platform.ElementKey { return m.key }

// sample returns the element's output at frame i.
func (m *Media) sample(i int64) float64 {
	n := int64(len(m.samples))
	if n == 0 {
		return 0
	}
	if i >= n {
		if !m.loop {
			return 0
		}
		i %= n
	}
	return float64(m.samples[i])
}
