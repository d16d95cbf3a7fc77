package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-vhs/dsp/core"
	"github.com/cwbudde/algo-vhs/internal/host"
	"github.com/cwbudde/algo-vhs/internal/wavfile"
)

var (
	audioSeconds float64
	audioTone    float64
	audioLevel   float64
	audioRate    float64
	audioOut     string
	audioForce   bool
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Process a test tone through the sound filter and write WAV",
	Long: `Loop a test tone on an offline media element, route it through the
sound filter and write the page's output as 32-bit float WAV.

Examples:
  vhs audio --seconds 4 --out tape.wav
  vhs audio -s warm.yaml --tone 220 --level 0.8`,
	Args: cobra.NoArgs,
	RunE: runAudio,
}

func init() {
	audioCmd.Flags().Float64Var(&audioSeconds, "seconds", 3, "Length to render")
	audioCmd.Flags().Float64Var(&audioTone, "tone", 440, "Test tone frequency in Hz")
	audioCmd.Flags().Float64Var(&audioLevel, "level", 0.5, "Test tone peak amplitude")
	audioCmd.Flags().Float64Var(&audioRate, "rate", 48000, "Sample rate in Hz")
	audioCmd.Flags().StringVarP(&audioOut, "out", "o", "vhs.wav", "Output WAV file")
	audioCmd.Flags().BoolVar(&audioForce, "force", true, "Enable the sound filter even if the settings have it off")
}

func runAudio(cmd *cobra.Command, _ []string) error {
	if !(audioSeconds > 0) || !(audioRate > 0) {
		return fmt.Errorf("seconds and rate must be > 0")
	}
	snap, err := loadSettings()
	if err != nil {
		return err
	}
	if audioForce {
		snap.SoundEnabled = true
	}

	log := newLogger()
	cfg := host.DefaultConfig()
	cfg.SampleRate = audioRate
	cfg.Seed = seed
	cfg.Program = host.ToneLoop(audioTone, core.Clamp(audioLevel, 0, 1), audioRate)
	cfg.Logger = log
	e, err := host.New(cfg, snap)
	if err != nil {
		return err
	}
	e.Start()

	frames := int(math.Ceil(audioSeconds * audioRate / float64(e.SamplesPerFrame())))
	out := e.Process(frames)
	out = out[:min(len(out), int(audioSeconds*audioRate))]

	var peak float64
	for _, v := range out {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	if err := wavfile.WriteFile(audioOut, out, int(audioRate), 1); err != nil {
		return err
	}
	log.Debug("audio rendered", "chains", e.Sound.Chains(), "samples", len(out))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%.2fs, peak %.3f)\n", audioOut, float64(len(out))/audioRate, peak)
	return nil
}
