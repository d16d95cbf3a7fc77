package core

import "math"

// RenderQuantum is the granularity of graph rendering, matching the
// 128-frame quantum of browser audio graphs.
const RenderQuantum = 128

// ProcessorConfig holds the rate and block size an audio graph renders at.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig renders one quantum at 48 kHz.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  RenderQuantum,
	}
}

// WithSampleRate sets the sample rate. Non-positive and non-finite rates are
// ignored.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the block size, rounded up to whole render quanta.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = (blockSize + RenderQuantum - 1) / RenderQuantum * RenderQuantum
		}
	}
}

// ApplyProcessorOptions applies opts over the defaults. Nil options are
// skipped.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
