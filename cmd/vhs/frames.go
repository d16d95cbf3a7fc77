package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/cwbudde/algo-vhs/internal/host"
)

var (
	frameCount  int
	frameEvery  int
	frameWarmup int
	frameOut    string
	frameFormat string
	frameWidth  int
	frameHeight int
	frameChroma bool
	frameShow   bool
)

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Render overlay frames over a test card",
	Long: `Render the overlay against an offline page showing colour bars and write
one image per captured display frame.

Examples:
  vhs frames --count 12 --out frames/
  vhs frames -s glitchy.yaml --every 1 --format tiff`,
	Args: cobra.NoArgs,
	RunE: runFrames,
}

func init() {
	framesCmd.Flags().IntVarP(&frameCount, "count", "n", 8, "Number of images to write")
	framesCmd.Flags().IntVar(&frameEvery, "every", 2, "Display frames between captures")
	framesCmd.Flags().IntVar(&frameWarmup, "warmup", 0, "Display frames to run before the first capture")
	framesCmd.Flags().StringVarP(&frameOut, "out", "o", "frames", "Output directory")
	framesCmd.Flags().StringVar(&frameFormat, "format", "png", "Image format (png, bmp, tiff)")
	framesCmd.Flags().IntVar(&frameWidth, "width", 640, "Page width in px")
	framesCmd.Flags().IntVar(&frameHeight, "height", 360, "Page height in px")
	framesCmd.Flags().BoolVar(&frameChroma, "chroma", false, "Tint a share of noise pixels")
	framesCmd.Flags().BoolVar(&frameShow, "show", true, "Show the overlay even if the settings have it off")
}

type encodeFunc func(io.Writer, image.Image) error

func encoder(format string) (encodeFunc, error) {
	switch format {
	case "png":
		return png.Encode, nil
	case "bmp":
		return bmp.Encode, nil
	case "tiff", "tif":
		return func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }, nil
	default:
		return nil, fmt.Errorf("unknown image format %q", format)
	}
}

func runFrames(cmd *cobra.Command, _ []string) error {
	if frameCount <= 0 || frameEvery <= 0 || frameWarmup < 0 {
		return fmt.Errorf("count and every must be > 0, warmup >= 0")
	}
	encode, err := encoder(frameFormat)
	if err != nil {
		return err
	}
	snap, err := loadSettings()
	if err != nil {
		return err
	}
	if frameShow {
		snap.Enabled = true
	}

	log := newLogger()
	cfg := host.DefaultConfig()
	cfg.Width, cfg.Height = frameWidth, frameHeight
	cfg.Seed = seed
	cfg.Chroma = frameChroma
	cfg.Logger = log
	e, err := host.New(cfg, snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(frameOut, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	e.Start()
	for range frameWarmup {
		e.Step()
	}
	img := image.NewNRGBA(image.Rect(0, 0, frameWidth, frameHeight))
	for i := range frameCount {
		for range frameEvery {
			e.Step()
		}
		e.Picture(img)
		path := filepath.Join(frameOut, fmt.Sprintf("frame_%04d.%s", i, frameFormat))
		if err := writeImage(path, img, encode); err != nil {
			return err
		}
		log.Debug("frame written", "path", path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", frameCount, frameOut)
	return nil
}

func writeImage(path string, img image.Image, encode encodeFunc) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
