package spectrum

import (
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// Hann returns a periodic Hann window of length n.
func Hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// Welch returns the one-sided power spectrum of x averaged over Hann-windowed
// segments of fftSize samples with 50% overlap. The result has fftSize/2+1
// bins; bin k is centered at k*sampleRate/fftSize.
func Welch(x []float64, fftSize int) ([]float64, error) {
	if fftSize < 8 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("spectrum fft size must be a power of two >= 8: %d", fftSize)
	}
	if len(x) < fftSize {
		return nil, fmt.Errorf("spectrum input shorter than fft size: %d < %d", len(x), fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum init fft plan: %w", err)
	}

	win := Hann(fftSize)
	seg := make([]float64, fftSize)
	in := make([]complex128, fftSize)
	out := make([]complex128, fftSize)
	acc := make([]float64, fftSize/2+1)

	hop := fftSize / 2
	segments := 0
	for start := 0; start+fftSize <= len(x); start += hop {
		copy(seg, x[start:start+fftSize])
		vecmath.MulBlockInPlace(seg, win)
		for i, v := range seg {
			in[i] = complex(v, 0)
		}
		if err := plan.Forward(out, in); err != nil {
			return nil, fmt.Errorf("spectrum forward fft: %w", err)
		}
		p := Power(out[:len(acc)])
		for i, v := range p {
			acc[i] += v
		}
		segments++
	}

	scale := 1 / float64(segments)
	for i := range acc {
		acc[i] *= scale
	}
	return acc, nil
}

// Tilt estimates the spectral slope of x in dB per octave between fLow and
// fHigh (Hz) by a least-squares line through 10*log10(P) over log2(f).
// White noise yields ~0, pink ~-3 and brown ~-6.
func Tilt(x []float64, sampleRate float64, fftSize int, fLow, fHigh float64) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("spectrum sample rate must be > 0: %f", sampleRate)
	}
	if !(fLow > 0) || fHigh <= fLow {
		return 0, fmt.Errorf("spectrum tilt band invalid: [%f, %f]", fLow, fHigh)
	}

	p, err := Welch(x, fftSize)
	if err != nil {
		return 0, err
	}

	binHz := sampleRate / float64(fftSize)
	var n, sx, sy, sxx, sxy float64
	for k := 1; k < len(p); k++ {
		f := float64(k) * binHz
		if f < fLow || f > fHigh || p[k] <= 0 {
			continue
		}
		lx := math.Log2(f)
		ly := 10 * math.Log10(p[k])
		n++
		sx += lx
		sy += ly
		sxx += lx * lx
		sxy += lx * ly
	}

	den := n*sxx - sx*sx
	if n < 2 || den == 0 {
		return 0, fmt.Errorf("spectrum tilt band holds too few bins: %v", n)
	}
	return (n*sxy - sx*sy) / den, nil
}
