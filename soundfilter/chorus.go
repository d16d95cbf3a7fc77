package soundfilter

import "math"

const (
	chorusBase  = 0.020
	chorusDepth = 0.008
	chorusRate  = 1.2
	chorusTau   = 0.01
)

// chorusTarget is the modulated delay time at context time t.
func chorusTarget(t float64) float64 {
	return chorusBase + chorusDepth*math.Sin(2*math.Pi*chorusRate*t)
}

func (m *Manager) lfoWanted() bool {
	if !m.enabled || m.ctx == nil || m.snap.SoundChorus <= 0 {
		return false
	}
	for key := range m.live {
		if !m.chains[key].dryOnly {
			return true
		}
	}
	return false
}

func (m *Manager) syncLFO() {
	if !m.lfoWanted() {
		m.lfo.Stop()
		return
	}
	if !m.lfo.Running() {
		m.lfo.Frames(m.lfoTick)
	}
}

// lfoTick retunes every chorus delay toward the current target and ends the
// loop once chorus is off or no attached element has a chain.
func (m *Manager) lfoTick() bool {
	if !m.lfoWanted() {
		return false
	}
	t := m.ctx.CurrentTime()
	target := chorusTarget(t)
	for key := range m.live {
		if c := m.chains[key]; !c.dryOnly {
			c.delay.SetTargetAtTime(target, t, chorusTau)
		}
	}
	return true
}
