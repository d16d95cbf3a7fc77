package overlay

import (
	"image"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/cwbudde/algo-vhs/params"
	"github.com/cwbudde/algo-vhs/platform"
	"github.com/cwbudde/algo-vhs/sched"
)

const (
	// DefaultNoiseSize is the edge length of the square noise buffer.
	DefaultNoiseSize = 320
	// DropoutSize is the edge length of the dropout canvas.
	DropoutSize = 256
	// DefaultResizeDebounce coalesces resize and scroll bursts.
	DefaultResizeDebounce = 100 * time.Millisecond
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithRand sets the random source for noise and dropout patterns.
func WithRand(rng *rand.Rand) Option {
	return func(r *Renderer) {
		if rng != nil {
			r.rng = rng
		}
	}
}

// WithChromaNoise tints a minority of noise pixels pure red, green or blue.
func WithChromaNoise(on bool) Option {
	return func(r *Renderer) { r.chroma = on }
}

// WithNoiseSize sets the noise buffer edge length.
func WithNoiseSize(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.noiseSize = n
		}
	}
}

// WithResizeDebounce sets the resize coalescing window.
func WithResizeDebounce(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.resizeWait = d
		}
	}
}

// Renderer is the visual glitch engine. It is driven from the scheduler's
// thread and is not safe for concurrent use.
type Renderer struct {
	doc        platform.Document
	sched      sched.Scheduler
	log        *slog.Logger
	rng        *rand.Rand
	chroma     bool
	noiseSize  int
	resizeWait time.Duration

	snap    params.Snapshot
	visible bool
	surf    *surface

	noise      *sched.Task
	noiseFrame int
	noiseBuf   *image.NRGBA
	dropout    *sched.Task
	resize     *sched.Debouncer
	resizes    int
}

// New returns a Renderer. The render surface is built on first activation.
func New(doc platform.Document, s sched.Scheduler, opts ...Option) *Renderer {
	r := &Renderer{
		doc:        doc,
		sched:      s,
		log:        slog.Default(),
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		noiseSize:  DefaultNoiseSize,
		resizeWait: DefaultResizeDebounce,
		snap:       params.Defaults(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.noise = sched.NewTask(s)
	r.dropout = sched.NewTask(s)
	r.resize = sched.NewDebouncer(s, r.resizeWait, r.recompute)
	return r
}

// Activate builds the surface if needed, applies p and shows the overlay.
// Repeated calls do not restart running loops.
func (r *Renderer) Activate(p params.Snapshot) {
	r.snap = p
	if !r.ensureSurface() {
		return
	}
	r.visible = true
	r.surf.root.SetAttribute(attrVisible, "true")
	r.surf.root.SetStyle("display", "block")
	r.recompute()
	r.apply()
}

// UpdateParameters applies p without rebuilding anything.
func (r *Renderer) UpdateParameters(p params.Snapshot) {
	r.snap = p
	if r.surf == nil {
		return
	}
	r.apply()
}

// Deactivate hides the overlay, stops both raster loops and releases the
// noise buffer. The surface is kept for the next activation.
func (r *Renderer) Deactivate() {
	r.visible = false
	if r.surf == nil {
		return
	}
	r.surf.root.RemoveAttribute(attrVisible)
	r.surf.root.SetStyle("display", "none")
	r.resize.Cancel()
	r.stopNoise()
	r.stopDropout()
	r.noiseBuf = nil
	r.setBodyWobble(0)
}

// Visible reports whether the overlay is shown.
func (r *Renderer) Visible() bool { return r.visible }

// Snapshot returns the parameters last given to the renderer.
func (r *Renderer) Snapshot() params.Snapshot { return r.snap }

func (r *Renderer) apply() {
	r.applyProperties()
	r.syncNoise()
	r.syncDropout()
}
