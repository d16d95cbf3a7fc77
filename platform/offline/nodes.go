package offline

import (
	"fmt"
	"slices"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vhs/dsp/core"
	"github.com/cwbudde/algo-vhs/dsp/delay"
	"github.com/cwbudde/algo-vhs/dsp/filter/biquad"
	"github.com/cwbudde/algo-vhs/dsp/filter/design"
	"github.com/cwbudde/algo-vhs/dsp/shaper"
	"github.com/cwbudde/algo-vhs/dsp/smooth"
	"github.com/cwbudde/algo-vhs/platform"
)

type graphNode struct {
	ctx     *Context
	kind    string
	inputs  []*graphNode
	in      []float64
	out     []float64
	stamp   uint64
	process func(in, out []float64)
}

type vertex interface {
	graph() *graphNode
}

func passThrough(in, out []float64) { copy(out, in) }

func (c *Context) newNode(kind string, process func(in, out []float64)) *graphNode {
	c.nodes++
	return &graphNode{
		ctx:     c,
		kind:    kind,
		in:      make([]float64, c.cfg.BlockSize),
		out:     make([]float64, c.cfg.BlockSize),
		process: process,
	}
}

func (n *graphNode) graph() *graphNode { return n }

// Connect routes n's output into dst. Repeated connections are ignored.
func (n *graphNode) Connect(dst platform.AudioNode) error {
	v, ok := dst.(vertex)
	if !ok {
		return fmt.Errorf("connect %s: %T is not an offline node", n.kind, dst)
	}
	d := v.graph()
	if d.ctx != n.ctx {
		return fmt.Errorf("connect %s: node belongs to another context", n.kind)
	}
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	if !slices.Contains(d.inputs, n) {
		d.inputs = append(d.inputs, n)
	}
	return nil
}

// pull renders one quantum, at most once per stamp.
func (n *graphNode) pull(stamp uint64) []float64 {
	if n.stamp == stamp {
		return n.out
	}
	n.stamp = stamp
	clear(n.in)
	for _, src := range n.inputs {
		vecmath.AddBlockInPlace(n.in, src.pull(stamp))
	}
	n.process(n.in, n.out)
	return n.out
}

// Gain is an offline gain node.
type Gain struct {
	*graphNode
	gain float64
}

func (c *Context) CreateGain() (platform.GainNode, error) {
	if err := c.fail(KindGain); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	g := &Gain{gain: 1}
	g.graphNode = c.newNode(KindGain, func(in, out []float64) {
		vecmath.ScaleBlock(out, in, g.gain)
	})
	return g, nil
}

func (g *Gain) SetGain(v float64) {
	g.ctx.mu.Lock()
	g.gain = v
	g.ctx.mu.Unlock()
}

func (g *Gain) Gain() float64 {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()
	return g.gain
}

// Biquad is an offline filter node.
type Biquad struct {
	*graphNode
	section *biquad.Section
	freq, q float64
}

func (c *Context) CreateBiquadFilter() (platform.BiquadNode, error) {
	if err := c.fail(KindBiquad); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	b := &Biquad{freq: 350, q: 1}
	b.section = biquad.NewSection(design.Lowpass(b.freq, b.q, c.cfg.SampleRate))
	b.graphNode = c.newNode(KindBiquad, func(in, out []float64) {
		b.section.ProcessBlockTo(out, in)
	})
	return b, nil
}

func (b *Biquad) SetLowpass(freq, q float64) {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()
	b.freq, b.q = freq, q
	b.section.Coefficients = design.Lowpass(freq, q, b.ctx.cfg.SampleRate)
}

// Lowpass returns the configured cutoff and Q.
func (b *Biquad) Lowpass() (freq, q float64) {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()
	return b.freq, b.q
}

// WaveShaper is an offline curve node.
type WaveShaper struct {
	*graphNode
	shaper   *shaper.Shaper
	rejected []error
}

func (c *Context) CreateWaveShaper() (platform.WaveShaperNode, error) {
	if err := c.fail(KindWaveShaper); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	w := &WaveShaper{shaper: shaper.New()}
	w.graphNode = c.newNode(KindWaveShaper, func(in, out []float64) {
		copy(out, in)
		w.shaper.ProcessBlock(out)
	})
	return w, nil
}

func (w *WaveShaper) SetCurve(curve []float32) {
	w.ctx.mu.Lock()
	w.shaper.SetCurve(curve)
	w.ctx.mu.Unlock()
}

// Curve returns the active curve.
func (w *WaveShaper) Curve() []float32 {
	w.ctx.mu.Lock()
	defer w.ctx.mu.Unlock()
	return w.shaper.Curve()
}

// SetOversample keeps the current factor when factor is neither 1 nor 2, the
// way a browser ignores an unknown oversample value.
func (w *WaveShaper) SetOversample(factor int) {
	w.ctx.mu.Lock()
	defer w.ctx.mu.Unlock()
	if err := w.shaper.SetOversample(factor); err != nil {
		w.rejected = append(w.rejected, err)
	}
}

// Rejected returns the errors of ignored SetOversample calls.
func (w *WaveShaper) Rejected() []error {
	w.ctx.mu.Lock()
	defer w.ctx.mu.Unlock()
	return slices.Clone(w.rejected)
}

// Oversample returns the oversampling factor.
func (w *WaveShaper) Oversample() int {
	w.ctx.mu.Lock()
	defer w.ctx.mu.Unlock()
	return w.shaper.Oversample()
}

// Delay is an offline delay node with exponential delay-time automation.
type Delay struct {
	*graphNode
	line     *delay.Line
	time     *smooth.Follower
	maxDelay float64
}

func (c *Context) CreateDelay(maxSeconds float64) (platform.DelayNode, error) {
	if err := c.fail(KindDelay); err != nil {
		return nil, err
	}
	line, err := delay.NewSeconds(maxSeconds, c.cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("create delay: %w", err)
	}
	follower, err := smooth.NewFollower(0, c.cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("create delay: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	d := &Delay{line: line, time: follower, maxDelay: maxSeconds}
	sr := c.cfg.SampleRate
	d.graphNode = c.newNode(KindDelay, func(in, out []float64) {
		for i, x := range in {
			d.line.Write(x)
			out[i] = d.line.ReadFractional(d.time.Next()*sr + 1)
		}
	})
	return d, nil
}

func (d *Delay) SetDelayTime(seconds float64) {
	d.ctx.mu.Lock()
	d.time.Set(core.Clamp(seconds, 0, d.maxDelay))
	d.ctx.mu.Unlock()
}

func (d *Delay) DelayTime() float64 {
	d.ctx.mu.Lock()
	defer d.ctx.mu.Unlock()
	return d.time.Value()
}

// Target returns the delay time the node is moving toward.
func (d *Delay) Target() float64 {
	d.ctx.mu.Lock()
	defer d.ctx.mu.Unlock()
	return d.time.Target()
}

// SetTargetAtTime starts the approach at the current render position; start
// times in the past or future are not scheduled separately.
func (d *Delay) SetTargetAtTime(target, _, tau float64) {
	d.ctx.mu.Lock()
	d.time.SetTarget(core.Clamp(target, 0, d.maxDelay), tau)
	d.ctx.mu.Unlock()
}

// Buffer is offline sample storage.
type Buffer struct {
	data       []float32
	sampleRate float64
}

func (c *Context) CreateBuffer(samples []float32, sampleRate float64) (platform.AudioBuffer, error) {
	if err := c.fail(KindBuffer); err != nil {
		return nil, err
	}
	if len(samples) == 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("create buffer: %d samples at %f Hz", len(samples), sampleRate)
	}
	return &Buffer{data: slices.Clone(samples), sampleRate: sampleRate}, nil
}

func (b *Buffer) Len() int { return len(b.data) }

func (b *Buffer) SampleRate() float64 { return b.sampleRate }

// BufferSource plays a Buffer once or looped.
type BufferSource struct {
	*graphNode
	buf     *Buffer
	loop    bool
	started bool
	pos     int
}

func (c *Context) CreateBufferSource(buf platform.AudioBuffer) (platform.BufferSourceNode, error) {
	if err := c.fail(KindBufferSource); err != nil {
		return nil, err
	}
	b, ok := buf.(*Buffer)
	if !ok {
		return nil, fmt.Errorf("create buffer source: %T is not an offline buffer", buf)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s := &BufferSource{buf: b}
	s.graphNode = c.newNode(KindBufferSource, func(_, out []float64) {
		for i := range out {
			out[i] = s.next()
		}
	})
	return s, nil
}

func (s *BufferSource) next() float64 {
	if !s.started {
		return 0
	}
	if s.pos >= len(s.buf.data) {
		if !s.loop {
			return 0
		}
		s.pos = 0
	}
	v := float64(s.buf.data[s.pos])
	s.pos++
	return v
}

func (s *BufferSource) SetLoop(loop bool) {
	s.ctx.mu.Lock()
	s.loop = loop
	s.ctx.mu.Unlock()
}

func (s *BufferSource) Start() error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	if s.started {
		return fmt.Errorf("buffer source already started")
	}
	s.started = true
	return nil
}

// Buffer returns the played buffer.
func (s *BufferSource) Buffer() platform.AudioBuffer { return s.buf }

// MediaSource taps a Media element.
type MediaSource struct {
	*graphNode
	media *Media
	pos   int64
}

func (c *Context) CreateMediaElementSource(el platform.MediaElement) (platform.AudioNode, error) {
	m, ok := el.(*Media)
	if !ok {
		return nil, fmt.Errorf("media source: %T is not an offline element: %w", el, platform.ErrTapRefused)
	}
	if m.refuse {
		return nil, fmt.Errorf("media source %d: %w", m.key, platform.ErrTapRefused)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sourced[m.key] {
		return nil, fmt.Errorf("media source %d: element already connected", m.key)
	}
	c.sourced[m.key] = true
	c.sources++
	s := &MediaSource{media: m}
	s.graphNode = c.newNode("mediasource", func(_, out []float64) {
		for i := range out {
			out[i] = s.media.sample(s.pos)
			s.pos++
		}
	})
	return s, nil
}
