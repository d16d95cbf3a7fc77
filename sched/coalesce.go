package sched

import "time"

// Debouncer runs fn once, wait after the last Trigger of a burst.
type Debouncer struct {
	s       Scheduler
	wait    time.Duration
	fn      func()
	gen     uint64
	pending bool
}

// NewDebouncer returns a trailing-edge debouncer.
func NewDebouncer(s Scheduler, wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{s: s, wait: wait, fn: fn}
}

// Trigger restarts the coalescing window.
func (d *Debouncer) Trigger() {
	d.gen++
	gen := d.gen
	d.pending = true
	d.s.AfterFunc(d.wait, func() {
		if d.gen != gen {
			return
		}
		d.pending = false
		d.fn()
	})
}

// Cancel voids the pending call, if any.
func (d *Debouncer) Cancel() {
	d.gen++
	d.pending = false
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool { return d.pending }

// Throttle runs fn at most once per window. The first Trigger arms a timer;
// triggers while it is armed are absorbed, and fn runs when it fires.
type Throttle struct {
	s       Scheduler
	wait    time.Duration
	fn      func()
	gen     uint64
	pending bool
}

// NewThrottle returns a throttle with the given window.
func NewThrottle(s Scheduler, wait time.Duration, fn func()) *Throttle {
	return &Throttle{s: s, wait: wait, fn: fn}
}

// Trigger arms the window unless it is already armed.
func (t *Throttle) Trigger() {
	if t.pending {
		return
	}
	t.pending = true
	gen := t.gen
	t.s.AfterFunc(t.wait, func() {
		if t.gen != gen {
			return
		}
		t.pending = false
		t.fn()
	})
}

// Cancel voids the armed window, if any.
func (t *Throttle) Cancel() {
	t.gen++
	t.pending = false
}

// Pending reports whether the window is armed.
func (t *Throttle) Pending() bool { return t.pending }
