package soundfilter

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vhs/platform"
)

const (
	// LowpassFreq and LowpassQ shape the effect path.
	LowpassFreq = 2000.0
	LowpassQ    = 0.5

	chorusMaxDelay = 0.06
)

type chain struct {
	key    platform.ElementKey
	source platform.AudioNode
	dry    platform.GainNode

	effect  platform.GainNode
	shaper  platform.WaveShaperNode
	delay   platform.DelayNode
	chorus  platform.GainNode
	noise   platform.GainNode
	dryOnly bool

	curveLevel float64
	curveSet   bool
}

// hook routes el through a new chain unless it already has one. A refused
// tap leaves the element untouched; a failure after the tap leaves it dry.
func (m *Manager) hook(el platform.MediaElement) {
	key := el.Key()
	if _, ok := m.chains[key]; ok || el.HasAttribute(MarkerAttr) {
		return
	}
	src, err := m.ctx.CreateMediaElementSource(el)
	if err != nil {
		m.log.Warn("sound filter: hook element failed", "element", uint64(key), "error", err)
		return
	}
	el.SetAttribute(MarkerAttr, "1")

	c, err := m.buildChain(key, src)
	if err != nil {
		m.log.Warn("sound filter: effect chain unavailable, element stays dry", "element", uint64(key), "error", err)
	}
	m.chains[key] = c
	mix := MixFor(m.snap, m.enabled)
	c.apply(mix, m.overdriveCurve(mix.Overdrive), m.curveLevel)
}

func (m *Manager) buildChain(key platform.ElementKey, src platform.AudioNode) (*chain, error) {
	ctx := m.ctx
	c := &chain{key: key, source: src, dryOnly: true}

	dry, err := ctx.CreateGain()
	if err != nil {
		return c, errors.Join(err, src.Connect(ctx.Destination()))
	}
	if err := connect(src, dry, ctx.Destination()); err != nil {
		return c, err
	}
	c.dry = dry

	if err := m.buildEffect(c); err != nil {
		c.silenceEffect()
		return c, err
	}
	c.dryOnly = false
	return c, nil
}

// buildEffect creates every effect node before connecting any of them, so a
// construction failure never leaves a partial path audible.
func (m *Manager) buildEffect(c *chain) error {
	ctx := m.ctx
	var err error
	var lowpass platform.BiquadNode
	if lowpass, err = ctx.CreateBiquadFilter(); err != nil {
		return fmt.Errorf("lowpass: %w", err)
	}
	if c.shaper, err = ctx.CreateWaveShaper(); err != nil {
		return fmt.Errorf("waveshaper: %w", err)
	}
	if c.effect, err = ctx.CreateGain(); err != nil {
		return fmt.Errorf("effect gain: %w", err)
	}
	if c.delay, err = ctx.CreateDelay(chorusMaxDelay); err != nil {
		return fmt.Errorf("chorus delay: %w", err)
	}
	if c.chorus, err = ctx.CreateGain(); err != nil {
		return fmt.Errorf("chorus gain: %w", err)
	}
	if c.noise, err = ctx.CreateGain(); err != nil {
		return fmt.Errorf("noise gain: %w", err)
	}
	buf, err := m.sharedNoise()
	if err != nil {
		return fmt.Errorf("tape noise: %w", err)
	}
	noiseSrc, err := ctx.CreateBufferSource(buf)
	if err != nil {
		return fmt.Errorf("noise source: %w", err)
	}

	lowpass.SetLowpass(LowpassFreq, LowpassQ)
	c.shaper.SetOversample(platform.Oversample2x)
	c.delay.SetDelayTime(chorusBase)
	c.effect.SetGain(0)
	c.chorus.SetGain(0)
	c.noise.SetGain(0)
	noiseSrc.SetLoop(true)

	dest := ctx.Destination()
	if err := errors.Join(
		connect(c.source, lowpass, c.shaper, c.effect, dest),
		connect(c.source, c.delay, c.chorus, c.effect),
		connect(noiseSrc, c.noise, dest),
	); err != nil {
		return err
	}
	if err := noiseSrc.Start(); err != nil {
		m.log.Warn("sound filter: noise source start failed", "element", uint64(c.key), "error", err)
	}
	return nil
}

func connect(nodes ...platform.AudioNode) error {
	for i := 1; i < len(nodes); i++ {
		if err := nodes[i-1].Connect(nodes[i]); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
	}
	return nil
}

// apply pushes mix into the chain. The curve is replaced only when its level
// differs from the one already installed.
func (c *chain) apply(mix Mix, curve []float32, curveLevel float64) {
	if c.dryOnly {
		if c.dry != nil {
			c.dry.SetGain(1)
		}
		return
	}
	c.dry.SetGain(mix.Dry)
	c.effect.SetGain(mix.Effect)
	c.noise.SetGain(mix.Noise)
	c.chorus.SetGain(mix.Chorus)
	if !c.curveSet || c.curveLevel != curveLevel {
		c.shaper.SetCurve(curve)
		c.curveLevel, c.curveSet = curveLevel, true
	}
}

// release returns the chain to dry bypass.
func (c *chain) release() {
	if c.dry != nil {
		c.dry.SetGain(1)
	}
	c.silenceEffect()
}

func (c *chain) silenceEffect() {
	for _, g := range []platform.GainNode{c.effect, c.chorus, c.noise} {
		if g != nil {
			g.SetGain(0)
		}
	}
}
