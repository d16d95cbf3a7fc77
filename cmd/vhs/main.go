// Command vhs renders the VHS/CRT effect stack offline.
//
// Examples:
//
//	vhs defaults > settings.yaml
//	vhs params
//	vhs frames --settings settings.yaml --count 12 --out frames/
//	vhs audio --settings settings.yaml --seconds 4 --out tape.wav
//	vhs noise --seconds 3
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-vhs/params"
)

var (
	settingsPath string
	verbose      bool
	seed         uint64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vhs",
	Short: "Render the VHS/CRT overlay and tape sound offline",
	Long: `vhs drives the overlay renderer and the sound filter against an
offline page: overlay frames become image files, the effect chain renders
to WAV, and the tape noise can be analysed.

Settings are YAML files with the same keys the engine stores; see
"vhs defaults".`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "", "YAML settings file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 1, "Random seed for noise and glitch timing")

	rootCmd.AddCommand(defaultsCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(audioCmd)
	rootCmd.AddCommand(noiseCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadSettings() (params.Snapshot, error) {
	if settingsPath == "" {
		return params.Defaults(), nil
	}
	return params.Load(settingsPath)
}
