package host

import (
	"context"
	"image"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-vhs/internal/testutil"
	"github.com/cwbudde/algo-vhs/params"
)

func newTestEngine(t *testing.T, initial params.Snapshot) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 160, 90
	cfg.Program = testutil.Sine32(440, cfg.SampleRate, 0.5, 4800)
	cfg.Logger = testutil.DiscardLogger()
	e, err := New(cfg, initial)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestNewValidatesConfig(t *testing.T) {
	for _, cfg := range []Config{
		{Width: 0, Height: 10, SampleRate: 48000},
		{Width: 10, Height: 10, SampleRate: 0},
		{Width: 10, Height: 10, SampleRate: math.NaN()},
	} {
		if _, err := New(cfg, params.Defaults()); err == nil {
			t.Fatalf("New(%+v) accepted invalid config", cfg)
		}
	}
}

func TestProcessRunsSoundChain(t *testing.T) {
	e := newTestEngine(t, params.FromMap(map[string]any{"soundFilterEnabled": true}))
	e.Start()
	if e.Sound.Chains() != 1 {
		t.Fatalf("Chains() = %d, want 1", e.Sound.Chains())
	}
	if e.SamplesPerFrame() != 800 {
		t.Fatalf("SamplesPerFrame() = %d, want 800", e.SamplesPerFrame())
	}
	out := e.Process(30)
	if len(out) != 30*800 {
		t.Fatalf("len = %d, want %d", len(out), 30*800)
	}
	testutil.RequireFinite(t, out)
	buf := make([]float64, len(out))
	for i, v := range out {
		buf[i] = float64(v)
	}
	if rms := testutil.RMS(buf); rms < 0.05 {
		t.Fatalf("RMS = %v, program not audible", rms)
	}
}

func TestLookFollowsProperties(t *testing.T) {
	e := newTestEngine(t, params.Defaults())
	e.Start()
	if e.Look().Visible {
		t.Fatal("hidden overlay reported visible")
	}
	e.Bus.Publish(params.FromMap(map[string]any{
		"crtEnabled":         true,
		"scanlineIntensity":  0.7,
		"vignetteIntensity":  0.2,
		"vhsGlitchesEnabled": true,
		"glitchRgbLevel":     0.5,
	}))
	l := e.Look()
	if !l.Visible || l.Scanline != 0.7 || l.Vignette != 0.2 {
		t.Fatalf("Look() = %+v", l)
	}
	if l.RGBPx != 7 || l.RGBOpacity <= 0 {
		t.Fatalf("chroma offset = %v opacity = %v", l.RGBPx, l.RGBOpacity)
	}
}

func TestApplyLookDarkensScanlines(t *testing.T) {
	img := TestCard(64, 32)
	ApplyLook(img, Look{Visible: true, Scanline: 1})
	even := img.NRGBAAt(4, 10)
	odd := img.NRGBAAt(4, 11)
	if odd.R >= even.R || odd.G >= even.G {
		t.Fatalf("odd line %v not darker than even line %v", odd, even)
	}

	plain := TestCard(64, 32)
	ApplyLook(plain, Look{})
	if plain.NRGBAAt(4, 11) != TestCard(64, 32).NRGBAAt(4, 11) {
		t.Fatal("invisible look changed the picture")
	}
}

func TestApplyLookVignetteDarkensCorners(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	ApplyLook(img, Look{Visible: true, Vignette: 1})
	if corner, centre := img.NRGBAAt(0, 0).R, img.NRGBAAt(20, 20).R; corner >= centre {
		t.Fatalf("corner %d not darker than centre %d", corner, centre)
	}
}

func TestPictureShowsNoise(t *testing.T) {
	e := newTestEngine(t, params.FromMap(map[string]any{
		"crtEnabled":         true,
		"vhsGlitchesEnabled": true,
		"glitchNoiseLevel":   1,
		"scanlineIntensity":  0,
		"vignetteIntensity":  0,
		"glowIntensity":      0,
	}))
	e.Start()
	for range 4 {
		e.Step()
	}

	got := image.NewNRGBA(image.Rect(0, 0, 160, 90))
	e.Picture(got)
	card := TestCard(160, 90)
	diff := 0
	for i := range got.Pix {
		if got.Pix[i] != card.Pix[i] {
			diff++
		}
	}
	if diff == 0 {
		t.Fatal("noise canvas not composited")
	}
}

func TestDoRunsOnQueue(t *testing.T) {
	e := newTestEngine(t, params.Defaults())
	stop := pump(e)
	defer stop()

	ran := false
	if err := e.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !ran {
		t.Fatal("Do() returned before fn ran")
	}
}

func TestDoHonorsContext(t *testing.T) {
	e := newTestEngine(t, params.Defaults())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := e.Do(ctx, func() {}); err == nil {
		t.Fatal("Do() without a pumping queue returned nil")
	}
}

// pump steps e's queue on its own goroutine until stopped.
func pump(e *Engine) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		tick := time.NewTicker(time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-done:
				return
			case <-tick.C:
				e.Step()
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

func TestToneLoopIsSeamless(t *testing.T) {
	loop := ToneLoop(440, 0.5, 48000)
	if len(loop) != 48000 {
		t.Fatalf("len = %d", len(loop))
	}
	// The sample after the last one wraps to index 0.
	step := float64(loop[1] - loop[0])
	wrap := float64(loop[0] - loop[len(loop)-1])
	if math.Abs(step-wrap) > 1e-4 {
		t.Fatalf("loop seam step %v, interior step %v", wrap, step)
	}
}
