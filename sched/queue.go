package sched

import (
	"container/heap"
	"sync"
	"time"
)

// DefaultFrameInterval is one display refresh at 60 Hz.
const DefaultFrameInterval = time.Second / 60

// Queue is a Scheduler driven by its caller. Time is virtual and only moves
// in Step and Advance. Callbacks run on the goroutine that calls Step.
type Queue struct {
	mu       sync.Mutex
	now      time.Duration
	interval time.Duration
	frames   []func()
	timers   timerHeap
	posted   []func()
	seq      uint64
}

// NewQueue returns a queue advancing by interval per frame. Non-positive
// intervals select DefaultFrameInterval.
func NewQueue(interval time.Duration) *Queue {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Queue{interval: interval}
}

// FrameInterval returns the virtual duration of one frame.
func (q *Queue) FrameInterval() time.Duration { return q.interval }

// RequestFrame implements Scheduler.
func (q *Queue) RequestFrame(fn func()) {
	q.mu.Lock()
	q.frames = append(q.frames, fn)
	q.mu.Unlock()
}

// AfterFunc implements Scheduler. Timers always fire on a later Step than the
// one that armed them, even for non-positive d.
func (q *Queue) AfterFunc(d time.Duration, fn func()) {
	if d <= 0 {
		d = time.Nanosecond
	}
	q.mu.Lock()
	q.seq++
	heap.Push(&q.timers, timer{at: q.now + d, seq: q.seq, fn: fn})
	q.mu.Unlock()
}

// Now implements Scheduler.
func (q *Queue) Now() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.now
}

// Post queues fn to run at the start of the next Step. Safe for concurrent use.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.posted = append(q.posted, fn)
	q.mu.Unlock()
}

// PendingFrames reports how many frame callbacks are queued.
func (q *Queue) PendingFrames() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}

// PendingTimers reports how many timers are armed.
func (q *Queue) PendingTimers() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

// Step advances one frame: posted functions run first, then due timers in
// deadline order, then the frame callbacks queued before this frame began.
// It returns the number of callbacks run.
func (q *Queue) Step() int {
	q.mu.Lock()
	q.now += q.interval
	posted := q.posted
	q.posted = nil
	q.mu.Unlock()

	ran := 0
	for _, fn := range posted {
		fn()
		ran++
	}
	for {
		fn, ok := q.popDue()
		if !ok {
			break
		}
		fn()
		ran++
	}

	q.mu.Lock()
	frames := q.frames
	q.frames = nil
	q.mu.Unlock()
	for _, fn := range frames {
		fn()
		ran++
	}
	return ran
}

// Advance steps frames until at least d of virtual time has passed and
// returns the number of callbacks run.
func (q *Queue) Advance(d time.Duration) int {
	ran := 0
	for elapsed := time.Duration(0); elapsed < d; elapsed += q.interval {
		ran += q.Step()
	}
	return ran
}

// Idle reports whether nothing is queued or armed.
func (q *Queue) Idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames) == 0 && len(q.timers) == 0 && len(q.posted) == 0
}

func (q *Queue) popDue() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.timers) == 0 || q.timers[0].at > q.now {
		return nil, false
	}
	t := heap.Pop(&q.timers).(timer)
	return t.fn, true
}

type timer struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type timerHeap []timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(timer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}
