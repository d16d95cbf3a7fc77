package sched

import "time"

// Scheduler is the host's callback surface.
type Scheduler interface {
	// RequestFrame runs fn once on the next display refresh.
	RequestFrame(fn func())
	// AfterFunc runs fn once after at least d has elapsed.
	AfterFunc(d time.Duration, fn func())
	// Now reports monotonic host time.
	Now() time.Duration
}

// Task is a restartable loop with a cancellation handle.
type Task struct {
	s       Scheduler
	gen     uint64
	running bool
}

// NewTask returns a stopped task bound to s.
func NewTask(s Scheduler) *Task {
	return &Task{s: s}
}

// Running reports whether the loop still has a live handle.
func (t *Task) Running() bool {
	return t.running
}

// Stop clears the handle. The next queued invocation becomes a no-op.
func (t *Task) Stop() {
	t.gen++
	t.running = false
}

// Frames stops any previous loop and runs step on every display frame,
// starting with the next one, for as long as step returns true.
func (t *Task) Frames(step func() bool) {
	t.Stop()
	gen := t.gen
	t.running = true

	var tick func()
	tick = func() {
		if t.gen != gen {
			return
		}
		if !step() {
			t.finish(gen)
			return
		}
		if t.gen == gen {
			t.s.RequestFrame(tick)
		}
	}
	t.s.RequestFrame(tick)
}

// Paced stops any previous loop, runs step immediately, and re-runs it on the
// first display frame after delay() has elapsed, for as long as step returns
// true.
func (t *Task) Paced(delay func() time.Duration, step func() bool) {
	t.Stop()
	gen := t.gen
	t.running = true

	var tick func()
	arm := func() {
		t.s.AfterFunc(delay(), func() {
			if t.gen != gen {
				return
			}
			t.s.RequestFrame(tick)
		})
	}
	tick = func() {
		if t.gen != gen {
			return
		}
		if !step() {
			t.finish(gen)
			return
		}
		if t.gen == gen {
			arm()
		}
	}
	tick()
}

func (t *Task) finish(gen uint64) {
	if t.gen == gen {
		t.running = false
	}
}
