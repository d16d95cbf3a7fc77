package host

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-vhs/bus"
	"github.com/cwbudde/algo-vhs/dsp/core"
	"github.com/cwbudde/algo-vhs/overlay"
	"github.com/cwbudde/algo-vhs/params"
	"github.com/cwbudde/algo-vhs/platform/offline"
	"github.com/cwbudde/algo-vhs/sched"
	"github.com/cwbudde/algo-vhs/soundfilter"
)

// Config describes an offline page.
type Config struct {
	Width, Height int
	SampleRate    float64
	Seed          uint64
	// Program is looped by the page's single media element. Nil leaves the
	// page without media.
	Program []float32
	Chroma  bool
	Logger  *slog.Logger
}

// DefaultConfig returns a 640x360 page at 48 kHz with no media.
func DefaultConfig() Config {
	return Config{Width: 640, Height: 360, SampleRate: 48000, Seed: 1}
}

// Engine is one offline page with the full effect stack attached.
type Engine struct {
	Doc        *offline.Document
	Queue      *sched.Queue
	Audio      *offline.Context
	Overlay    *overlay.Renderer
	Sound      *soundfilter.Manager
	Bus        *bus.Bus
	Dispatcher *bus.Dispatcher

	width, height int
	perFrame      int
	card          *image.NRGBA
}

// New builds an engine whose bus starts at initial. Nothing is applied until
// Start.
func New(cfg Config, initial params.Snapshot) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("host page size must be > 0: %dx%d", cfg.Width, cfg.Height)
	}
	if !(cfg.SampleRate > 0) {
		return nil, fmt.Errorf("host sample rate must be > 0: %f", cfg.SampleRate)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	e := &Engine{
		Doc:    offline.NewDocument(offline.WithViewport(cfg.Width, cfg.Height)),
		Queue:  sched.NewQueue(sched.DefaultFrameInterval),
		Audio:  offline.NewContext(offline.WithProcessorOptions(core.WithSampleRate(cfg.SampleRate))),
		width:  cfg.Width,
		height: cfg.Height,
	}
	e.perFrame = int(cfg.SampleRate * e.Queue.FrameInterval().Seconds())
	if cfg.Program != nil {
		e.Doc.AddMedia("video", offline.WithSamples(cfg.Program, true))
	}

	e.Overlay = overlay.New(e.Doc, e.Queue,
		overlay.WithLogger(log.With("component", "overlay")),
		overlay.WithRand(seeded(cfg.Seed)),
		overlay.WithChromaNoise(cfg.Chroma),
	)
	e.Sound = soundfilter.New(e.Doc, e.Audio.Factory(), e.Queue,
		soundfilter.WithLogger(log.With("component", "soundfilter")),
		soundfilter.WithRand(seeded(cfg.Seed+1)),
	)
	e.Bus = bus.New(initial)
	e.Dispatcher = bus.NewDispatcher(e.Bus, e.Overlay, e.Sound, bus.WithLogger(log.With("component", "bus")))
	return e, nil
}

// Start applies the bus snapshot and follows later publishes.
func (e *Engine) Start() { e.Dispatcher.Start() }

// Step runs one display frame.
func (e *Engine) Step() int { return e.Queue.Step() }

// SamplesPerFrame is the audio advanced per display frame by Process.
func (e *Engine) SamplesPerFrame() int { return e.perFrame }

// Render pulls mono audio from the page. It is safe to call from an audio
// goroutine.
func (e *Engine) Render(dst []float32) { e.Audio.RenderFloat32(dst) }

// Process renders frames display frames of audio in lockstep with the queue.
func (e *Engine) Process(frames int) []float32 {
	out := make([]float32, frames*e.perFrame)
	for i := range frames {
		e.Render(out[i*e.perFrame : (i+1)*e.perFrame])
		e.Step()
	}
	return out
}

// Do runs fn on the queue's goroutine and waits for it, or for ctx.
func (e *Engine) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	e.Queue.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Size returns the page size.
func (e *Engine) Size() (width, height int) { return e.width, e.height }

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ToneLoop returns one second of sine at roughly freq Hz whose period divides
// the buffer, so looping it has no seam.
func ToneLoop(freq, amplitude, sampleRate float64) []float32 {
	n := int(sampleRate)
	cycles := math.Max(1, math.Round(freq))
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amplitude * math.Sin(2*math.Pi*cycles*float64(i)/float64(n)))
	}
	return out
}
