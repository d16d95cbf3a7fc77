package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-vhs/dsp/noise"
	"github.com/cwbudde/algo-vhs/dsp/spectrum"
	"github.com/cwbudde/algo-vhs/internal/wavfile"
)

var (
	noiseSeconds float64
	noiseRate    float64
	noiseFFT     int
	noiseOut     string
)

var noiseCmd = &cobra.Command{
	Use:   "noise",
	Short: "Synthesize the tape noise bed and report its spectrum",
	Args:  cobra.NoArgs,
	RunE:  runNoise,
}

func init() {
	noiseCmd.Flags().Float64Var(&noiseSeconds, "seconds", noise.DefaultTapeSeconds, "Noise length")
	noiseCmd.Flags().Float64Var(&noiseRate, "rate", 48000, "Sample rate in Hz")
	noiseCmd.Flags().IntVar(&noiseFFT, "fft", 4096, "FFT size for the tilt estimate")
	noiseCmd.Flags().StringVarP(&noiseOut, "out", "o", "", "Also write the noise as WAV")
}

func runNoise(cmd *cobra.Command, _ []string) error {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	buf, err := noise.Tape(noiseSeconds, noiseRate, rng)
	if err != nil {
		return err
	}
	x := make([]float64, len(buf))
	var sum, peak float64
	for i, v := range buf {
		x[i] = float64(v)
		sum += x[i] * x[i]
		peak = math.Max(peak, math.Abs(x[i]))
	}
	tilt, err := spectrum.Tilt(x, noiseRate, noiseFFT, 100, noiseRate/4)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "samples  %d\n", len(x))
	fmt.Fprintf(w, "rms      %.4f\n", math.Sqrt(sum/float64(len(x))))
	fmt.Fprintf(w, "peak     %.4f\n", peak)
	fmt.Fprintf(w, "tilt     %.2f dB/octave\n", tilt)
	if noiseOut != "" {
		if err := wavfile.WriteFile(noiseOut, buf, int(noiseRate), 1); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote    %s\n", noiseOut)
	}
	return nil
}
