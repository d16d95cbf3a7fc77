//go:build js && wasm

package jsdom

import (
	"syscall/js"
	"time"
)

// Scheduler drives callbacks from the browser event loop.
type Scheduler struct {
	win  js.Value
	perf js.Value
}

// NewScheduler binds to the global window.
func NewScheduler() *Scheduler {
	return &Scheduler{win: js.Global(), perf: js.Global().Get("performance")}
}

func (s *Scheduler) RequestFrame(fn func()) {
	s.win.Call("requestAnimationFrame", oneShot(fn))
}

func (s *Scheduler) AfterFunc(d time.Duration, fn func()) {
	s.win.Call("setTimeout", oneShot(fn), float64(d)/float64(time.Millisecond))
}

func (s *Scheduler) Now() time.Duration {
	return time.Duration(s.perf.Call("now").Float() * float64(time.Millisecond))
}
