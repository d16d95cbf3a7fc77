package offline

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vhs/dsp/core"
	"github.com/cwbudde/algo-vhs/platform"
)

// Node kinds accepted by WithFailingNodes.
const (
	KindGain         = "gain"
	KindBiquad       = "biquad"
	KindWaveShaper   = "waveshaper"
	KindDelay        = "delay"
	KindBuffer       = "buffer"
	KindBufferSource = "buffersource"
)

// Context is an offline platform.AudioContext. The graph is guarded by a
// mutex so Render may run on an audio goroutine while the engine edits
// parameters on its own thread.
type Context struct {
	mu sync.Mutex

	cfg     core.ProcessorConfig
	state   platform.AudioState
	blocked bool
	resumes int

	frame int64
	stamp uint64
	carry []float64
	dest  *graphNode
	nodes int

	failing map[string]bool
	sourced map[platform.ElementKey]bool
	sources int
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithProcessorOptions sets sample rate and render quantum.
func WithProcessorOptions(opts ...core.ProcessorOption) ContextOption {
	return func(c *Context) {
		for _, opt := range opts {
			opt(&c.cfg)
		}
	}
}

// StartSuspended starts the context suspended. While blocked, Resume leaves
// it suspended, the way a browser waits for a user gesture.
func StartSuspended(blocked bool) ContextOption {
	return func(c *Context) {
		c.state = platform.StateSuspended
		c.blocked = blocked
	}
}

// WithFailingNodes makes the Create call for each named kind fail.
func WithFailingNodes(kinds ...string) ContextOption {
	return func(c *Context) {
		for _, k := range kinds {
			c.failing[k] = true
		}
	}
}

// NewContext returns a running context at 48 kHz.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		cfg:     core.DefaultProcessorConfig(),
		state:   platform.StateRunning,
		failing: map[string]bool{},
		sourced: map[platform.ElementKey]bool{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.dest = c.newNode("destination", passThrough)
	return c
}

// Factory returns a platform.ContextFactory that yields c once and fails on
// every later call.
func (c *Context) Factory() platform.ContextFactory {
	used := false
	return func() (platform.AudioContext, error) {
		if used {
			return nil, fmt.Errorf("offline context already created: %w", platform.ErrContextUnavailable)
		}
		used = true
		return c, nil
	}
}

func (c *Context) SampleRate() float64 { return c.cfg.SampleRate }

func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.frame) / c.cfg.SampleRate
}

func (c *Context) State() platform.AudioState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Context) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumes++
	if c.state == platform.StateClosed {
		return fmt.Errorf("resume: %w", platform.ErrContextUnavailable)
	}
	if !c.blocked {
		c.state = platform.StateRunning
	}
	return nil
}

// Unblock lets the next Resume succeed.
func (c *Context) Unblock() {
	c.mu.Lock()
	c.blocked = false
	c.mu.Unlock()
}

// Resumes counts Resume calls.
func (c *Context) Resumes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resumes
}

// Close stops the context for good.
func (c *Context) Close() {
	c.mu.Lock()
	c.state = platform.StateClosed
	c.mu.Unlock()
}

// NodeCount reports how many nodes were created, destination excluded.
func (c *Context) NodeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nodes - 1
}

// MediaSources reports how many media element sources exist.
func (c *Context) MediaSources() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sources
}

func (c *Context) Destination() platform.AudioNode { return c.dest }

// Render fills dst with the destination's output. A context that is not
// running produces silence and does not advance its clock.
func (c *Context) Render(dst []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != platform.StateRunning {
		clear(dst)
		return
	}
	for len(dst) > 0 {
		if len(c.carry) == 0 {
			c.stamp++
			c.carry = c.dest.pull(c.stamp)
			c.frame += int64(len(c.carry))
		}
		n := copy(dst, c.carry)
		c.carry = c.carry[n:]
		dst = dst[n:]
	}
}

// RenderFloat32 is Render for float32 output.
func (c *Context) RenderFloat32(dst []float32) {
	buf := make([]float64, len(dst))
	c.Render(buf)
	for i, v := range buf {
		dst[i] = float32(v)
	}
}

func (c *Context) fail(kind string) error {
	if c.failing[kind] {
		return fmt.Errorf("create %s: %w", kind, platform.ErrUnsupported)
	}
	return nil
}
