package overlay

import (
	"image"
	"strconv"
	"testing"

	"github.com/cwbudde/algo-vhs/internal/testutil"
)

var levels = []float64{0, 0.01, 0.02, 0.15, 0.3, 0.5, 0.75, 0.99, 1}

func TestNoiseAlphaMonotonicInLevel(t *testing.T) {
	const n = 64
	prev := image.NewNRGBA(image.Rect(0, 0, n, n))
	for _, level := range levels {
		buf := image.NewNRGBA(image.Rect(0, 0, n, n))
		fillNoise(buf, level, 10, false, testutil.Rand(3))
		for i := 3; i < len(buf.Pix); i += 4 {
			if buf.Pix[i] < prev.Pix[i] {
				t.Fatalf("level %v: alpha[%d] = %d below %d at a lower level", level, i/4, buf.Pix[i], prev.Pix[i])
			}
			if float64(buf.Pix[i]) > level*noiseAlphaMax {
				t.Fatalf("level %v: alpha %d exceeds cap", level, buf.Pix[i])
			}
		}
		prev = buf
	}
}

func TestNoiseDropsAboutTenPercent(t *testing.T) {
	const n = 200
	buf := image.NewNRGBA(image.Rect(0, 0, n, n))
	fillNoise(buf, 1, 2, false, testutil.Rand(5))
	zero := 0
	for i := 3; i < len(buf.Pix); i += 4 {
		if buf.Pix[i] == 0 {
			zero++
		}
	}
	frac := float64(zero) / (n * n)
	if frac < 0.08 || frac > 0.12 {
		t.Fatalf("transparent fraction = %v, want about 0.1", frac)
	}
}

func TestChromaNoiseTintsMinority(t *testing.T) {
	const n = 200
	buf := image.NewNRGBA(image.Rect(0, 0, n, n))
	fillNoise(buf, 1, 2, true, testutil.Rand(9))
	tinted := 0
	for i := 0; i < len(buf.Pix); i += 4 {
		r, g, b, a := buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3]
		if a == 0 {
			continue
		}
		if int(r)+int(g)+int(b) == 255 && (r == 255 || g == 255 || b == 255) {
			tinted++
		}
	}
	frac := float64(tinted) / (n * n)
	if frac < 0.08 || frac > 0.14 {
		t.Fatalf("tinted fraction = %v, want about 0.108", frac)
	}
}

func TestNoiseBandingVariesByRow(t *testing.T) {
	const n = 128
	buf := image.NewNRGBA(image.Rect(0, 0, n, n))
	fillNoise(buf, 1, 0, false, testutil.Rand(11))
	rowMean := func(y int) float64 {
		var sum float64
		for x := range n {
			sum += float64(buf.NRGBAAt(x, y).A)
		}
		return sum / n
	}
	// sin(0.05y) peaks near y=31 and bottoms out near y=94.
	if hi, lo := rowMean(31), rowMean(94); hi < 1.8*lo {
		t.Fatalf("band rows: peak %v trough %v, want visible banding", hi, lo)
	}
}

func TestDropoutBarsScaleWithLevel(t *testing.T) {
	prev := 0
	for _, level := range levels {
		bars := dropoutBars(level, DropoutSize, testutil.Rand(2))
		if len(bars) < prev {
			t.Fatalf("level %v: %d bars, fewer than %d", level, len(bars), prev)
		}
		prev = len(bars)
		for _, b := range bars {
			if b.y < 0 || b.y >= DropoutSize-dropoutEdgeMargin {
				t.Fatalf("bar y = %d out of range", b.y)
			}
			thick := b.height >= 4
			if thick && (b.height > 8 || b.alpha < 0.7 || b.alpha > 1) {
				t.Fatalf("thick bar %+v out of range", b)
			}
			if !thick && (b.height < 1 || b.height > 2 || b.alpha < 0.35 || b.alpha > 0.85) {
				t.Fatalf("thin bar %+v out of range", b)
			}
		}
	}
	if got := len(dropoutBars(1, DropoutSize, testutil.Rand(2))); got != 32 {
		t.Fatalf("bars at level 1 = %d, want 32", got)
	}
}

func TestDerivedScalarsMonotonic(t *testing.T) {
	prevPx, prevOp, prevWob := -1, -1.0, -1.0
	for _, level := range levels {
		px, op, wob := RGBOffset(level), RGBOpacity(level), WobblePx(level)
		if px < prevPx || op < prevOp || wob < prevWob {
			t.Fatalf("level %v: px %d op %v wobble %v not monotonic", level, px, op, wob)
		}
		prevPx, prevOp, prevWob = px, op, wob
	}
	if RGBOffset(1) != 14 || RGBOpacity(1) != 0.95 || WobblePx(0.01) != 0 || WobblePx(1) != 3 {
		t.Fatalf("endpoints: %d %v %v %v", RGBOffset(1), RGBOpacity(1), WobblePx(0.01), WobblePx(1))
	}
}

func TestFormatLevelReadsBackExactly(t *testing.T) {
	for _, v := range []float64{0, 0.1, 0.15, 1.0 / 3, 0.8, 1} {
		got, err := strconv.ParseFloat(FormatLevel(v), 64)
		if err != nil || got != v {
			t.Fatalf("FormatLevel(%v) round trip = %v, %v", v, got, err)
		}
	}
}
