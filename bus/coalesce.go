package bus

import (
	"maps"
	"time"

	"github.com/cwbudde/algo-vhs/sched"
)

// DefaultCoalesceWindow spaces publishes from rapid edits such as a dragged
// slider.
const DefaultCoalesceWindow = 50 * time.Millisecond

// Coalescer merges loose edits and publishes them at most once per window.
type Coalescer struct {
	bus      *Bus
	throttle *sched.Throttle
	pending  map[string]any
}

// NewCoalescer returns a Coalescer publishing to b. A non-positive window
// selects DefaultCoalesceWindow.
func NewCoalescer(b *Bus, s sched.Scheduler, window time.Duration) *Coalescer {
	if window <= 0 {
		window = DefaultCoalesceWindow
	}
	c := &Coalescer{bus: b, pending: map[string]any{}}
	c.throttle = sched.NewThrottle(s, window, c.Flush)
	return c
}

// Set records values; later values for the same key win.
func (c *Coalescer) Set(values map[string]any) {
	maps.Copy(c.pending, values)
	c.throttle.Trigger()
}

// Flush publishes pending edits now.
func (c *Coalescer) Flush() {
	c.throttle.Cancel()
	if len(c.pending) == 0 {
		return
	}
	s := c.bus.Snapshot().Merge(c.pending)
	clear(c.pending)
	c.bus.Publish(s)
}

// Pending reports whether edits are waiting.
func (c *Coalescer) Pending() bool { return len(c.pending) > 0 }
