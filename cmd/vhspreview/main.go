// Command vhspreview shows the overlay and plays the sound filter live over a
// test card, with a local HTTP control endpoint.
//
// Keys: space toggles the overlay, S toggles the sound filter, Esc quits.
//
//	curl localhost:8077/state
//	curl -d '{"options":{"vhsGlitches":true,"glitchNoiseLevel":0.4}}' localhost:8077/options
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-vhs/internal/host"
	"github.com/cwbudde/algo-vhs/params"
)

var (
	settingsPath string
	addr         string
	width        int
	height       int
	tone         float64
	sampleRate   int
	verbose      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "vhspreview",
	Short:        "Live preview of the VHS/CRT overlay and tape sound",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&settingsPath, "settings", "s", "", "YAML settings file")
	f.StringVar(&addr, "addr", "127.0.0.1:8077", "Control endpoint address (empty disables it)")
	f.IntVar(&width, "width", 960, "Window width")
	f.IntVar(&height, "height", 540, "Window height")
	f.Float64Var(&tone, "tone", 220, "Test tone frequency in Hz (0 for no media)")
	f.IntVar(&sampleRate, "rate", 48000, "Audio sample rate")
	f.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func run(_ *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	snap := params.FromMap(map[string]any{"crtEnabled": true, "soundFilterEnabled": true})
	if settingsPath != "" {
		var err error
		if snap, err = params.Load(settingsPath); err != nil {
			return err
		}
	}

	cfg := host.DefaultConfig()
	cfg.Width, cfg.Height = width, height
	cfg.SampleRate = float64(sampleRate)
	cfg.Seed = uint64(time.Now().UnixNano())
	cfg.Logger = log
	if tone > 0 {
		cfg.Program = host.ToneLoop(tone, 0.4, float64(sampleRate))
	}
	e, err := host.New(cfg, snap)
	if err != nil {
		return err
	}
	e.Start()

	player, err := newPlayer(sampleRate, e)
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	defer player.Close()
	player.Play()

	if addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           host.NewControlRouter(e, log.With("component", "control")),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("control endpoint listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("control endpoint stopped", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	g, err := newGame(e)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("vhspreview")
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}
