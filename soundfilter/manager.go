package soundfilter

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/cwbudde/algo-vhs/dsp/noise"
	"github.com/cwbudde/algo-vhs/dsp/shaper"
	"github.com/cwbudde/algo-vhs/params"
	"github.com/cwbudde/algo-vhs/platform"
	"github.com/cwbudde/algo-vhs/sched"
)

const (
	// MarkerAttr flags a media element that has been routed through a chain.
	MarkerAttr = "data-crt-sound-hooked"
	// DefaultRescanThrottle bounds mutation-driven rescans.
	DefaultRescanThrottle = 250 * time.Millisecond
	// DefaultDormantLimit bounds the chains kept for elements that left the
	// document. Beyond it the longest-absent chain falls back to dry bypass.
	DefaultDormantLimit = 64
)

var resumeEvents = []string{"click", "touchstart", "keydown"}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithRescanThrottle sets the mutation rescan window.
func WithRescanThrottle(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.throttle = d
		}
	}
}

// WithNoiseSeconds sets the length of the shared tape noise loop.
func WithNoiseSeconds(seconds float64) Option {
	return func(m *Manager) {
		if seconds > 0 {
			m.noiseSeconds = seconds
		}
	}
}

// WithDormantLimit sets how many chains of detached elements are kept for
// re-attachment.
func WithDormantLimit(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.dormantLimit = n
		}
	}
}

// WithRand sets the random source for noise synthesis.
func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// Manager owns the audio context and one effect chain per media element. It
// is driven from the scheduler's thread and is not safe for concurrent use.
type Manager struct {
	doc          platform.Document
	newContext   platform.ContextFactory
	sched        sched.Scheduler
	log          *slog.Logger
	rng          *rand.Rand
	throttle     time.Duration
	noiseSeconds float64
	dormantLimit int

	snap    params.Snapshot
	enabled bool

	ctx       platform.AudioContext
	ctxFailed bool
	noiseBuf  platform.AudioBuffer

	// chains holds every chain by element key. live is the subset whose
	// element was found by the last scan; dormant lists the rest, oldest
	// first.
	chains  map[platform.ElementKey]*chain
	live    map[platform.ElementKey]struct{}
	dormant []platform.ElementKey

	curve      []float32
	curveLevel float64
	curveSet   bool

	lfo        *sched.Task
	rescan     *sched.Throttle
	disconnect func()
	resumeOff  []func()
}

// New returns a disabled Manager. newContext is called on the first enable
// only.
func New(doc platform.Document, newContext platform.ContextFactory, s sched.Scheduler, opts ...Option) *Manager {
	m := &Manager{
		doc:          doc,
		newContext:   newContext,
		sched:        s,
		log:          slog.Default(),
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		throttle:     DefaultRescanThrottle,
		noiseSeconds: noise.DefaultTapeSeconds,
		dormantLimit: DefaultDormantLimit,
		snap:         params.Defaults(),
		chains:       map[platform.ElementKey]*chain{},
		live:         map[platform.ElementKey]struct{}{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lfo = sched.NewTask(s)
	m.rescan = sched.NewThrottle(s, m.throttle, m.onRescan)
	return m
}

// SetEnabled turns processing on or off for every current and future
// element and applies p.
func (m *Manager) SetEnabled(enabled bool, p params.Snapshot) {
	m.snap = p
	m.enabled = enabled
	if enabled {
		if !m.ensureContext() {
			return
		}
		m.ensureRunning()
		m.scan()
		m.observe()
	} else {
		m.unobserve()
	}
	m.sync()
}

// SetLevels applies p to every chain without rebuilding any graph.
func (m *Manager) SetLevels(p params.Snapshot) {
	m.snap = p
	m.sync()
}

// Enabled reports whether processing is on.
func (m *Manager) Enabled() bool { return m.enabled }

// Chains reports how many attached elements have a chain.
func (m *Manager) Chains() int { return len(m.live) }

// Dormant reports how many chains are kept for detached elements.
func (m *Manager) Dormant() int { return len(m.dormant) }

// Context returns the audio context, or nil before the first successful
// enable.
func (m *Manager) Context() platform.AudioContext { return m.ctx }

func (m *Manager) ensureContext() bool {
	if m.ctx != nil {
		return true
	}
	if m.ctxFailed {
		return false
	}
	ctx, err := m.newContext()
	if err != nil || ctx == nil {
		m.ctxFailed = true
		m.log.Warn("sound filter: audio context unavailable", "error", err)
		return false
	}
	m.ctx = ctx
	return true
}

// ensureRunning resumes a suspended context now and again on the next user
// gesture, since hosts may refuse until one happens.
func (m *Manager) ensureRunning() {
	if m.ctx.State() == platform.StateRunning {
		return
	}
	m.resume()
	if len(m.resumeOff) > 0 {
		return
	}
	once := func() {
		m.resume()
		for _, off := range m.resumeOff {
			off()
		}
		m.resumeOff = nil
	}
	for _, ev := range resumeEvents {
		m.resumeOff = append(m.resumeOff, m.doc.AddEventListener(ev, once))
	}
}

func (m *Manager) resume() {
	if m.ctx.State() == platform.StateRunning {
		return
	}
	if err := m.ctx.Resume(); err != nil {
		m.log.Warn("sound filter: resume audio context", "error", err)
	}
}

func (m *Manager) observe() {
	if m.disconnect != nil {
		return
	}
	disconnect, err := m.doc.ObserveMutations(func() {
		if m.enabled {
			m.rescan.Trigger()
		}
	})
	if err != nil {
		m.log.Debug("sound filter: mutation observer unavailable", "error", err)
		return
	}
	m.disconnect = disconnect
}

func (m *Manager) unobserve() {
	m.rescan.Cancel()
	if m.disconnect != nil {
		m.disconnect()
		m.disconnect = nil
	}
}

func (m *Manager) onRescan() {
	if !m.enabled || m.ctx == nil {
		return
	}
	m.scan()
	m.syncLFO()
}

// scan hooks every live element. Chains of elements that went missing stay
// registered under their key and return to service when the element is
// attached again.
func (m *Manager) scan() {
	next := make(map[platform.ElementKey]struct{}, len(m.live))
	for _, el := range m.doc.QueryMedia() {
		m.hook(el)
		if _, ok := m.chains[el.Key()]; ok {
			next[el.Key()] = struct{}{}
		}
	}
	m.dormant = slices.DeleteFunc(m.dormant, func(key platform.ElementKey) bool {
		_, back := next[key]
		return back
	})
	var gone []platform.ElementKey
	for key := range m.live {
		if _, ok := next[key]; !ok {
			gone = append(gone, key)
		}
	}
	slices.Sort(gone)
	m.dormant = append(m.dormant, gone...)
	m.live = next
	m.evictDormant()
}

// evictDormant drops the oldest dormant chains beyond the limit. An evicted
// element keeps its marker and plays dry if it comes back.
func (m *Manager) evictDormant() {
	for len(m.dormant) > m.dormantLimit {
		key := m.dormant[0]
		m.dormant = m.dormant[1:]
		if c, ok := m.chains[key]; ok {
			c.release()
			delete(m.chains, key)
		}
		m.log.Debug("sound filter: dormant chain released", "element", uint64(key))
	}
}

// sync applies the current mix to every chain, dormant ones included, so a
// re-attached element resumes with current levels. It then starts or stops
// the chorus modulation.
func (m *Manager) sync() {
	mix := MixFor(m.snap, m.enabled)
	curve := m.overdriveCurve(mix.Overdrive)
	for _, c := range m.chains {
		c.apply(mix, curve, m.curveLevel)
	}
	m.syncLFO()
}

// overdriveCurve returns the curve for level, rebuilding it only when the
// level changes.
func (m *Manager) overdriveCurve(level float64) []float32 {
	if m.curveSet && m.curveLevel == level {
		return m.curve
	}
	curve, err := shaper.Curve(level, shaper.CurveLength)
	if err != nil {
		m.log.Warn("sound filter: overdrive curve", "level", level, "error", err)
		curve = nil
	}
	m.curve, m.curveLevel, m.curveSet = curve, level, true
	return curve
}

func (m *Manager) sharedNoise() (platform.AudioBuffer, error) {
	if m.noiseBuf != nil {
		return m.noiseBuf, nil
	}
	sr := m.ctx.SampleRate()
	data, err := noise.Tape(m.noiseSeconds, sr, m.rng)
	if err != nil {
		return nil, err
	}
	buf, err := m.ctx.CreateBuffer(data, sr)
	if err != nil {
		return nil, err
	}
	m.noiseBuf = buf
	return buf, nil
}
