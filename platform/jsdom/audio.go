//go:build js && wasm

package jsdom

import (
	"fmt"
	"syscall/js"

	"github.com/cwbudde/algo-vhs/platform"
)

// NewContextFactory returns a factory that constructs a Web Audio context,
// falling back to the prefixed constructor.
func NewContextFactory() platform.ContextFactory {
	return func() (platform.AudioContext, error) {
		ctor := js.Global().Get("AudioContext")
		if ctor.IsUndefined() {
			ctor = js.Global().Get("webkitAudioContext")
		}
		if ctor.IsUndefined() {
			return nil, fmt.Errorf("web audio: %w", platform.ErrContextUnavailable)
		}
		v, err := try(func() js.Value { return ctor.New() })
		if err != nil {
			return nil, fmt.Errorf("%w: %w", platform.ErrContextUnavailable, err)
		}
		return &AudioContext{v: v}, nil
	}
}

// AudioContext wraps a BaseAudioContext.
type AudioContext struct {
	v js.Value
}

func (c *AudioContext) SampleRate() float64 { return c.v.Get("sampleRate").Float() }

func (c *AudioContext) CurrentTime() float64 { return c.v.Get("currentTime").Float() }

func (c *AudioContext) State() platform.AudioState {
	return platform.AudioState(c.v.Get("state").String())
}

// Resume requests a state change; the returned promise is not awaited.
func (c *AudioContext) Resume() error {
	_, err := try(func() js.Value { return c.v.Call("resume") })
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	return nil
}

func (c *AudioContext) Destination() platform.AudioNode {
	return &node{v: c.v.Get("destination")}
}

func (c *AudioContext) CreateMediaElementSource(el platform.MediaElement) (platform.AudioNode, error) {
	m, ok := el.(valuer)
	if !ok {
		return nil, fmt.Errorf("media source: %T: %w", el, platform.ErrUnsupported)
	}
	v, err := try(func() js.Value { return c.v.Call("createMediaElementSource", m.jsValue()) })
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrTapRefused, err)
	}
	return &node{v: v}, nil
}

func (c *AudioContext) create(method string, args ...any) (js.Value, error) {
	v, err := try(func() js.Value { return c.v.Call(method, args...) })
	if err != nil {
		return js.Undefined(), fmt.Errorf("%s: %w", method, err)
	}
	return v, nil
}

func (c *AudioContext) CreateGain() (platform.GainNode, error) {
	v, err := c.create("createGain")
	if err != nil {
		return nil, err
	}
	return &gainNode{node{v}}, nil
}

func (c *AudioContext) CreateBiquadFilter() (platform.BiquadNode, error) {
	v, err := c.create("createBiquadFilter")
	if err != nil {
		return nil, err
	}
	return &biquadNode{node{v}}, nil
}

func (c *AudioContext) CreateWaveShaper() (platform.WaveShaperNode, error) {
	v, err := c.create("createWaveShaper")
	if err != nil {
		return nil, err
	}
	return &waveShaperNode{node{v}}, nil
}

func (c *AudioContext) CreateDelay(maxSeconds float64) (platform.DelayNode, error) {
	v, err := c.create("createDelay", maxSeconds)
	if err != nil {
		return nil, err
	}
	return &delayNode{node{v}}, nil
}

func (c *AudioContext) CreateBuffer(samples []float32, sampleRate float64) (platform.AudioBuffer, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("createBuffer: empty sample data")
	}
	v, err := c.create("createBuffer", 1, len(samples), sampleRate)
	if err != nil {
		return nil, err
	}
	if _, err := try(func() js.Value { return v.Call("copyToChannel", float32Array(samples), 0) }); err != nil {
		return nil, fmt.Errorf("copyToChannel: %w", err)
	}
	return &audioBuffer{v: v}, nil
}

func (c *AudioContext) CreateBufferSource(buf platform.AudioBuffer) (platform.BufferSourceNode, error) {
	b, ok := buf.(*audioBuffer)
	if !ok {
		return nil, fmt.Errorf("createBufferSource: %T: %w", buf, platform.ErrUnsupported)
	}
	v, err := c.create("createBufferSource")
	if err != nil {
		return nil, err
	}
	v.Set("buffer", b.v)
	return &bufferSourceNode{node{v}}, nil
}

type node struct {
	v js.Value
}

func (n *node) jsValue() js.Value { return n.v }

func (n *node) Connect(dst platform.AudioNode) error {
	d, ok := dst.(valuer)
	if !ok {
		return fmt.Errorf("connect: %T: %w", dst, platform.ErrUnsupported)
	}
	if _, err := try(func() js.Value { return n.v.Call("connect", d.jsValue()) }); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	return nil
}

type gainNode struct{ node }

func (g *gainNode) SetGain(v float64) { g.v.Get("gain").Set("value", v) }

func (g *gainNode) Gain() float64 { return g.v.Get("gain").Get("value").Float() }

type biquadNode struct{ node }

func (b *biquadNode) SetLowpass(freq, q float64) {
	b.v.Set("type", "lowpass")
	b.v.Get("frequency").Set("value", freq)
	b.v.Get("Q").Set("value", q)
}

type waveShaperNode struct{ node }

func (w *waveShaperNode) SetCurve(curve []float32) {
	if curve == nil {
		w.v.Set("curve", js.Null())
		return
	}
	w.v.Set("curve", float32Array(curve))
}

func (w *waveShaperNode) SetOversample(factor int) {
	switch factor {
	case platform.Oversample2x:
		w.v.Set("oversample", "2x")
	default:
		w.v.Set("oversample", "none")
	}
}

type delayNode struct{ node }

func (d *delayNode) SetDelayTime(seconds float64) { d.v.Get("delayTime").Set("value", seconds) }

func (d *delayNode) DelayTime() float64 { return d.v.Get("delayTime").Get("value").Float() }

func (d *delayNode) SetTargetAtTime(target, start, tau float64) {
	d.v.Get("delayTime").Call("setTargetAtTime", target, start, tau)
}

type audioBuffer struct {
	v js.Value
}

func (b *audioBuffer) Len() int { return b.v.Get("length").Int() }

func (b *audioBuffer) SampleRate() float64 { return b.v.Get("sampleRate").Float() }

type bufferSourceNode struct{ node }

func (s *bufferSourceNode) SetLoop(loop bool) { s.v.Set("loop", loop) }

func (s *bufferSourceNode) Start() error {
	if _, err := try(func() js.Value { return s.v.Call("start") }); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return nil
}
