package soundfilter

import (
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-vhs/internal/testutil"
	"github.com/cwbudde/algo-vhs/params"
	"github.com/cwbudde/algo-vhs/platform"
	"github.com/cwbudde/algo-vhs/platform/offline"
	"github.com/cwbudde/algo-vhs/sched"
)

type harness struct {
	m   *Manager
	doc *offline.Document
	ctx *offline.Context
	q   *sched.Queue
	log *testutil.LogRecorder
}

func newHarness(t *testing.T, ctxOpts ...offline.ContextOption) *harness {
	t.Helper()
	return newHarnessWith(t, nil, ctxOpts...)
}

func newHarnessWith(t *testing.T, opts []Option, ctxOpts ...offline.ContextOption) *harness {
	t.Helper()
	h := &harness{
		doc: offline.NewDocument(),
		ctx: offline.NewContext(ctxOpts...),
		q:   sched.NewQueue(0),
	}
	rec, logger := testutil.NewLogRecorder()
	h.log = rec
	opts = append([]Option{
		WithLogger(logger),
		WithRand(testutil.Rand(4)),
		WithNoiseSeconds(0.25),
	}, opts...)
	h.m = New(h.doc, h.ctx.Factory(), h.q, opts...)
	return h
}

// mixLevels is effect 0.8 and noise 0.6 with overdrive and chorus off.
func mixLevels() params.Snapshot {
	return params.FromMap(map[string]any{
		"soundFilterEnabled":  true,
		"soundEffectLevel":    0.8,
		"soundNoiseLevel":     0.6,
		"soundOverdriveLevel": 0,
		"soundChorusLevel":    0,
	})
}

type gains struct{ dry, effect, noise, chorus float64 }

func (h *harness) gains(t *testing.T, el platform.MediaElement) gains {
	t.Helper()
	c, ok := h.m.chains[el.Key()]
	if !ok {
		t.Fatalf("element %d has no chain", el.Key())
	}
	return gains{c.dry.Gain(), c.effect.Gain(), c.noise.Gain(), c.chorus.Gain()}
}

func TestTwoElementsGetIndependentChains(t *testing.T) {
	h := newHarness(t)
	a := h.doc.AddMedia("audio")
	v := h.doc.AddMedia("video")
	h.m.SetEnabled(true, mixLevels())

	if h.m.Chains() != 2 {
		t.Fatalf("Chains() = %d, want 2", h.m.Chains())
	}
	if h.m.chains[a.Key()].dry == h.m.chains[v.Key()].dry {
		t.Fatal("chains share a dry gain node")
	}
	want := gains{
		dry:    1 - math.Pow(0.8, 0.85),
		effect: math.Pow(0.8, 0.85),
		noise:  math.Pow(0.6, 1.6) * NoiseGainMax,
		chorus: 0,
	}
	for _, el := range []platform.MediaElement{a, v} {
		got := h.gains(t, el)
		if math.Abs(got.dry-want.dry) > 1e-12 || math.Abs(got.effect-want.effect) > 1e-12 ||
			math.Abs(got.noise-want.noise) > 1e-12 || got.chorus != 0 {
			t.Fatalf("element %d gains = %+v, want %+v", el.Key(), got, want)
		}
		if !el.HasAttribute(MarkerAttr) {
			t.Fatalf("element %d not marked", el.Key())
		}
	}
	if h.q.PendingFrames() != 0 {
		t.Fatal("chorus LFO running at chorus level 0")
	}
}

func TestDisableRestoresExactDryIdempotently(t *testing.T) {
	h := newHarness(t)
	a := h.doc.AddMedia("audio")
	b := h.doc.AddMedia("audio")
	p := mixLevels().Merge(map[string]any{"soundChorusLevel": 0.7, "soundOverdriveLevel": 0.4})
	h.m.SetEnabled(true, p)

	for range 3 {
		h.m.SetEnabled(false, p)
		for _, el := range []platform.MediaElement{a, b} {
			if got := h.gains(t, el); got != (gains{dry: 1}) {
				t.Fatalf("disabled gains = %+v, want exactly dry", got)
			}
		}
	}
	h.q.Step()
	if !h.q.Idle() {
		t.Fatal("chorus LFO still scheduled after disable")
	}
}

func TestReenableReproducesGains(t *testing.T) {
	h := newHarness(t)
	a := h.doc.AddMedia("audio")
	p := mixLevels().Merge(map[string]any{"soundChorusLevel": 0.33, "soundOverdriveLevel": 0.6})
	h.m.SetEnabled(true, p)
	before := h.gains(t, a)
	curveBefore := h.m.chains[a.Key()].shaper.(*offline.WaveShaper).Curve()

	for range 5 {
		h.m.SetEnabled(false, p)
		h.m.SetEnabled(true, p)
	}
	if after := h.gains(t, a); after != before {
		t.Fatalf("gains drifted: before %+v after %+v", before, after)
	}
	curveAfter := h.m.chains[a.Key()].shaper.(*offline.WaveShaper).Curve()
	if len(curveAfter) != len(curveBefore) {
		t.Fatalf("curve length %d, want %d", len(curveAfter), len(curveBefore))
	}
	for i := range curveBefore {
		if curveAfter[i] != curveBefore[i] {
			t.Fatalf("curve[%d] = %v, want %v", i, curveAfter[i], curveBefore[i])
		}
	}
}

func TestHookingTwiceBuildsOneGraph(t *testing.T) {
	h := newHarness(t)
	el := h.doc.AddMedia("video")
	h.m.SetEnabled(true, mixLevels())
	nodes := h.ctx.NodeCount()

	h.m.hook(el)
	h.m.hook(el)
	h.m.SetEnabled(true, mixLevels())
	h.m.scan()

	if h.ctx.MediaSources() != 1 || h.m.Chains() != 1 {
		t.Fatalf("MediaSources() = %d Chains() = %d, want 1 1", h.ctx.MediaSources(), h.m.Chains())
	}
	if h.ctx.NodeCount() != nodes {
		t.Fatalf("NodeCount() = %d, want %d", h.ctx.NodeCount(), nodes)
	}
}

func (h *harness) reattach(t *testing.T, el *offline.Media) {
	t.Helper()
	body, ok := h.doc.Body()
	if !ok {
		t.Fatal("document has no body")
	}
	if err := body.AppendChild(el); err != nil {
		t.Fatalf("AppendChild() error = %v", err)
	}
}

func TestRemovedElementIsNotRehooked(t *testing.T) {
	h := newHarness(t)
	keep := h.doc.AddMedia("audio")
	gone := h.doc.AddMedia("video")
	h.m.SetEnabled(true, mixLevels())
	nodes := h.ctx.NodeCount()

	gone.Remove()
	h.q.Advance(400 * time.Millisecond)

	if h.m.Chains() != 1 || h.m.Dormant() != 1 {
		t.Fatalf("Chains() = %d Dormant() = %d, want 1 1", h.m.Chains(), h.m.Dormant())
	}
	if _, ok := h.m.chains[keep.Key()]; !ok {
		t.Fatal("remaining element lost its chain")
	}
	if h.ctx.MediaSources() != 2 || h.ctx.NodeCount() != nodes {
		t.Fatalf("MediaSources() = %d NodeCount() = %d, want 2 %d", h.ctx.MediaSources(), h.ctx.NodeCount(), nodes)
	}
	if n := h.log.Count("hook element failed"); n != 0 {
		t.Fatalf("rescan logged %d hook failures", n)
	}
}

func TestReattachedElementKeepsItsChain(t *testing.T) {
	h := newHarness(t)
	h.doc.AddMedia("audio")
	el := h.doc.AddMedia("video")
	h.m.SetEnabled(true, mixLevels())
	c := h.m.chains[el.Key()]
	before := h.gains(t, el)

	el.Remove()
	h.q.Advance(400 * time.Millisecond)
	h.reattach(t, el)
	h.q.Advance(400 * time.Millisecond)
	h.m.SetLevels(mixLevels())

	if h.m.chains[el.Key()] != c {
		t.Fatal("re-attached element got a different chain")
	}
	if h.m.Chains() != 2 || h.m.Dormant() != 0 {
		t.Fatalf("Chains() = %d Dormant() = %d, want 2 0", h.m.Chains(), h.m.Dormant())
	}
	if after := h.gains(t, el); after != before {
		t.Fatalf("gains after re-attach = %+v, want %+v", after, before)
	}
	if h.ctx.MediaSources() != 2 {
		t.Fatalf("MediaSources() = %d, want 2", h.ctx.MediaSources())
	}
}

func TestLevelsReachDetachedChains(t *testing.T) {
	h := newHarness(t)
	el := h.doc.AddMedia("audio")
	h.m.SetEnabled(true, mixLevels())
	el.Remove()
	h.q.Advance(400 * time.Millisecond)

	h.m.SetEnabled(false, mixLevels())
	if got := h.gains(t, el); got != (gains{dry: 1}) {
		t.Fatalf("detached chain gains after disable = %+v, want exactly dry", got)
	}
	h.reattach(t, el)
	h.q.Advance(400 * time.Millisecond)
	if got := h.gains(t, el); got != (gains{dry: 1}) {
		t.Fatalf("re-attached while disabled: gains = %+v, want exactly dry", got)
	}

	h.m.SetEnabled(true, mixLevels())
	if got := h.gains(t, el); math.Abs(got.effect-math.Pow(0.8, 0.85)) > 1e-12 {
		t.Fatalf("re-enabled effect gain = %v", got.effect)
	}
}

func TestDormantChainsAreBounded(t *testing.T) {
	h := newHarnessWith(t, []Option{WithDormantLimit(1)})
	first := h.doc.AddMedia("audio")
	second := h.doc.AddMedia("audio")
	h.doc.AddMedia("audio")
	h.m.SetEnabled(true, mixLevels())
	firstChain := h.m.chains[first.Key()]

	first.Remove()
	h.q.Advance(400 * time.Millisecond)
	second.Remove()
	h.q.Advance(400 * time.Millisecond)

	if h.m.Chains() != 1 || h.m.Dormant() != 1 {
		t.Fatalf("Chains() = %d Dormant() = %d, want 1 1", h.m.Chains(), h.m.Dormant())
	}
	if _, ok := h.m.chains[first.Key()]; ok {
		t.Fatal("oldest dormant chain was kept past the limit")
	}
	if _, ok := h.m.chains[second.Key()]; !ok {
		t.Fatal("newest dormant chain was evicted")
	}
	if firstChain.dry.Gain() != 1 || firstChain.effect.Gain() != 0 || firstChain.noise.Gain() != 0 {
		t.Fatal("evicted chain not returned to dry bypass")
	}

	h.reattach(t, first)
	h.q.Advance(400 * time.Millisecond)
	if h.ctx.MediaSources() != 3 {
		t.Fatalf("MediaSources() = %d, want 3: evicted element was tapped twice", h.ctx.MediaSources())
	}
	if h.m.Chains() != 1 {
		t.Fatalf("Chains() = %d, want 1", h.m.Chains())
	}
}

func TestTapRefusalIsIsolated(t *testing.T) {
	h := newHarness(t)
	locked := h.doc.AddMedia("video", offline.RefuseTap())
	ok := h.doc.AddMedia("audio")
	h.m.SetEnabled(true, mixLevels())

	if h.m.Chains() != 1 {
		t.Fatalf("Chains() = %d, want 1", h.m.Chains())
	}
	if locked.HasAttribute(MarkerAttr) {
		t.Fatal("refused element marked as hooked")
	}
	if !ok.HasAttribute(MarkerAttr) {
		t.Fatal("healthy element not hooked")
	}
	if h.log.Count("hook element failed") != 1 {
		t.Fatalf("log entries = %v", h.log.Entries())
	}
}

func TestNodeFailureLeavesElementDry(t *testing.T) {
	h := newHarness(t, offline.WithFailingNodes(offline.KindDelay))
	el := h.doc.AddMedia("audio", offline.WithSamples(testutil.DC32(0.5, 256), true))
	h.m.SetEnabled(true, mixLevels().Merge(map[string]any{"soundChorusLevel": 1}))

	c := h.m.chains[el.Key()]
	if c == nil || !c.dryOnly {
		t.Fatal("chain not dry-only after node failure")
	}
	if !el.HasAttribute(MarkerAttr) {
		t.Fatal("element with a source must be marked")
	}
	if h.q.PendingFrames() != 0 {
		t.Fatal("chorus LFO started for dry-only chains")
	}
	out := make([]float64, 1024)
	h.ctx.Render(out)
	want := make([]float64, len(out))
	for i := range want {
		want[i] = 0.5
	}
	testutil.RequireSliceNearlyEqual(t, out, want, 1e-12)
	if h.log.Count("element stays dry") != 1 {
		t.Fatalf("log entries = %v", h.log.Entries())
	}
}

func TestMixedOutputSettlesToInputLevel(t *testing.T) {
	h := newHarness(t)
	h.doc.AddMedia("audio", offline.WithSamples(testutil.DC32(0.5, 4096), true))
	h.m.SetEnabled(true, mixLevels().Merge(map[string]any{"soundNoiseLevel": 0}))

	out := make([]float64, 9600)
	h.ctx.Render(out)
	testutil.RequireFinite(t, out)
	// Dry and effect weights sum to one; the effect path passes DC unchanged.
	testutil.RequireSettled(t, out, 8000, 0.5, 1e-3)
}

func TestNoiseBedIsShared(t *testing.T) {
	h := newHarness(t)
	for range 4 {
		h.doc.AddMedia("audio")
	}
	h.m.SetEnabled(true, mixLevels())
	for _, c := range h.m.chains {
		if c.noise == nil {
			t.Fatal("chain without noise tap")
		}
	}
	buf := h.m.noiseBuf
	if buf == nil || buf.Len() != int(0.25*h.ctx.SampleRate()) {
		t.Fatalf("shared noise buffer = %v", buf)
	}
	out := make([]float64, 4800)
	h.ctx.Render(out)
	if testutil.RMS(out) == 0 {
		t.Fatal("noise bed silent")
	}
}

func TestOverdriveCurveRebuiltOnlyOnChange(t *testing.T) {
	h := newHarness(t)
	el := h.doc.AddMedia("audio")
	p := mixLevels().Merge(map[string]any{"soundOverdriveLevel": 0.5})
	h.m.SetEnabled(true, p)
	ws := h.m.chains[el.Key()].shaper.(*offline.WaveShaper)
	first := ws.Curve()
	if len(first) != 256 {
		t.Fatalf("curve length = %d, want 256", len(first))
	}
	if ws.Oversample() != platform.Oversample2x {
		t.Fatalf("Oversample() = %d, want 2", ws.Oversample())
	}

	h.m.SetLevels(p.Merge(map[string]any{"soundEffectLevel": 0.3, "soundNoiseLevel": 0.1}))
	if &ws.Curve()[0] != &first[0] {
		t.Fatal("curve replaced although overdrive did not change")
	}
	h.m.SetLevels(p.Merge(map[string]any{"soundOverdriveLevel": 1}))
	hot := ws.Curve()
	if &hot[0] == &first[0] {
		t.Fatal("curve kept although overdrive changed")
	}
	if hot[len(hot)-1] < 0.99 || hot[len(hot)/2+10] <= first[len(first)/2+10] {
		t.Fatal("level 1 curve does not saturate harder")
	}
}

func TestChorusLFORetunesAndStops(t *testing.T) {
	h := newHarness(t)
	el := h.doc.AddMedia("audio")
	p := mixLevels().Merge(map[string]any{"soundChorusLevel": 0.5})
	h.m.SetEnabled(true, p)
	if h.q.PendingFrames() != 1 {
		t.Fatalf("PendingFrames() = %d, want the LFO", h.q.PendingFrames())
	}
	h.ctx.Render(make([]float64, 4800))
	h.q.Step()
	d := h.m.chains[el.Key()].delay.(*offline.Delay)
	if got, want := d.Target(), chorusTarget(h.ctx.CurrentTime()); math.Abs(got-want) > 1e-12 {
		t.Fatalf("delay target = %v, want %v", got, want)
	}
	if got := h.gains(t, el).chorus; math.Abs(got-math.Pow(0.5, 0.9)*ChorusGainMax) > 1e-12 {
		t.Fatalf("chorus gain = %v", got)
	}

	h.m.SetLevels(p.Merge(map[string]any{"soundChorusLevel": 0}))
	h.q.Step()
	if !h.q.Idle() {
		t.Fatal("LFO still scheduled at chorus level 0")
	}

	h.m.SetLevels(p)
	if h.q.PendingFrames() != 1 {
		t.Fatal("LFO not restarted on demand")
	}
	el.Remove()
	h.q.Advance(time.Second)
	if !h.q.Idle() || h.m.Chains() != 0 {
		t.Fatalf("LFO did not stop without chains: idle=%v chains=%d", h.q.Idle(), h.m.Chains())
	}
}

func TestRescanIsThrottled(t *testing.T) {
	h := newHarness(t)
	h.m.SetEnabled(true, mixLevels())
	for range 20 {
		h.doc.AddMedia("audio")
	}
	if h.q.PendingTimers() != 1 {
		t.Fatalf("PendingTimers() = %d, want one throttle window", h.q.PendingTimers())
	}
	h.q.Advance(200 * time.Millisecond)
	if h.m.Chains() != 0 {
		t.Fatalf("Chains() = %d inside the window", h.m.Chains())
	}
	h.q.Advance(100 * time.Millisecond)
	if h.m.Chains() != 20 {
		t.Fatalf("Chains() = %d, want 20", h.m.Chains())
	}
	if !h.q.Idle() {
		t.Fatal("work left after the rescan")
	}
}

func TestDisableTearsDownObserver(t *testing.T) {
	h := newHarness(t)
	h.m.SetEnabled(true, mixLevels())
	if h.doc.MutationObserverCount() != 1 {
		t.Fatalf("observers = %d, want 1", h.doc.MutationObserverCount())
	}
	late := h.doc.AddMedia("audio")
	h.m.SetEnabled(false, mixLevels())
	h.q.Advance(time.Second)
	if h.doc.MutationObserverCount() != 0 {
		t.Fatal("observer survived disable")
	}
	if late.HasAttribute(MarkerAttr) || h.m.Chains() != 0 {
		t.Fatal("pending rescan ran after disable")
	}

	h.m.SetEnabled(true, mixLevels())
	if h.doc.MutationObserverCount() != 1 || h.m.Chains() != 1 {
		t.Fatalf("re-enable: observers=%d chains=%d", h.doc.MutationObserverCount(), h.m.Chains())
	}
}

func TestSuspendedContextResumesOnFirstGesture(t *testing.T) {
	h := newHarness(t, offline.StartSuspended(true))
	h.m.SetEnabled(true, mixLevels())
	if h.ctx.Resumes() != 1 {
		t.Fatalf("Resumes() = %d, want an immediate attempt", h.ctx.Resumes())
	}
	for _, ev := range resumeEvents {
		if h.doc.ListenerCount(ev) != 1 {
			t.Fatalf("%s listeners = %d, want 1", ev, h.doc.ListenerCount(ev))
		}
	}
	h.m.SetEnabled(true, mixLevels())
	if h.doc.ListenerCount("click") != 1 {
		t.Fatal("resume listeners installed twice")
	}

	h.ctx.Unblock()
	h.doc.Dispatch("keydown")
	if h.ctx.State() != platform.StateRunning {
		t.Fatalf("State() = %v after gesture", h.ctx.State())
	}
	for _, ev := range resumeEvents {
		if h.doc.ListenerCount(ev) != 0 {
			t.Fatalf("%s listener not removed after firing", ev)
		}
	}
	resumes := h.ctx.Resumes()
	h.doc.Dispatch("click")
	if h.ctx.Resumes() != resumes {
		t.Fatal("listener fired twice")
	}
}

func TestContextFailureLeavesAudioAbsent(t *testing.T) {
	doc := offline.NewDocument()
	doc.AddMedia("audio")
	calls := 0
	factory := func() (platform.AudioContext, error) {
		calls++
		return nil, platform.ErrContextUnavailable
	}
	rec, logger := testutil.NewLogRecorder()
	q := sched.NewQueue(0)
	m := New(doc, factory, q, WithLogger(logger))
	m.SetEnabled(true, mixLevels())
	m.SetLevels(mixLevels())
	m.SetEnabled(false, mixLevels())
	m.SetEnabled(true, mixLevels())

	if calls != 1 {
		t.Fatalf("factory calls = %d, want 1", calls)
	}
	if m.Chains() != 0 || m.Context() != nil || !q.Idle() {
		t.Fatal("audio feature present without a context")
	}
	if rec.Count("audio context unavailable") != 1 {
		t.Fatalf("log entries = %v", rec.Entries())
	}
}
