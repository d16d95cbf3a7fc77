// Package smooth provides the exponential parameter follower behind
// time-constant automation: after SetTarget the value approaches the target
// as target + (v0-target)*exp(-t/tau), which keeps delay-time modulation free
// of audible clicks.
package smooth

import (
	"fmt"
	"math"
)

// settleThreshold snaps the value onto the target once the remaining gap is
// inaudible, so an idle follower costs nothing.
const settleThreshold = 1e-9

// Follower tracks a target with a one-pole exponential approach.
type Follower struct {
	sampleRate float64
	value      float64
	target     float64
	coeff      float64
	moving     bool
}

// NewFollower returns a follower resting at initial.
func NewFollower(initial, sampleRate float64) (*Follower, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("follower sample rate must be > 0: %f", sampleRate)
	}
	return &Follower{sampleRate: sampleRate, value: initial, target: initial}, nil
}

// Set jumps to v immediately and cancels any approach in progress.
func (f *Follower) Set(v float64) {
	f.value = v
	f.target = v
	f.moving = false
}

// SetTarget starts an exponential approach to target with time constant tau
// seconds. A non-positive tau jumps immediately.
func (f *Follower) SetTarget(target, tau float64) {
	if !(tau > 0) {
		f.Set(target)
		return
	}
	f.target = target
	f.coeff = 1 - math.Exp(-1/(tau*f.sampleRate))
	f.moving = f.value != target
}

// Next advances one sample and returns the new value.
func (f *Follower) Next() float64 {
	if !f.moving {
		return f.value
	}
	f.value += f.coeff * (f.target - f.value)
	if math.Abs(f.target-f.value) < settleThreshold {
		f.value = f.target
		f.moving = false
	}
	return f.value
}

// Value returns the current value without advancing.
func (f *Follower) Value() float64 { return f.value }

// Target returns the value being approached.
func (f *Follower) Target() float64 { return f.target }
