package bus

import (
	"sync"

	"github.com/cwbudde/algo-vhs/params"
)

// Bus holds the current snapshot. Every Publish replaces it wholesale.
type Bus struct {
	mu     sync.Mutex
	snap   params.Snapshot
	subs   map[int]func(params.Snapshot)
	nextID int
}

// New returns a Bus holding initial.
func New(initial params.Snapshot) *Bus {
	return &Bus{snap: initial, subs: map[int]func(params.Snapshot){}}
}

// Snapshot returns the current snapshot.
func (b *Bus) Snapshot() params.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// Publish replaces the snapshot and notifies every subscriber once, in
// subscription order, on the caller's goroutine.
func (b *Bus) Publish(s params.Snapshot) {
	b.mu.Lock()
	b.snap = s
	fns := make([]func(params.Snapshot), 0, len(b.subs))
	for id := 0; id <= b.nextID; id++ {
		if fn, ok := b.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Subscribe registers fn for future publishes and returns its cancel func.
func (b *Bus) Subscribe(fn func(params.Snapshot)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}
