// Package shaper implements the overdrive waveshaper: a parameterized
// soft-saturation transfer function, the fixed-resolution lookup curve built
// from it, and a curve processor with the lookup semantics of browser
// WaveShaper nodes.
//
// The transfer function is
//
//	y = (1 + k) * x / (1 + k * |x|),   k = MaxDrive * level
//
// It is the identity at level 0 and approaches its asymptote (1+k)/k for
// inputs near ±1 as the level rises.
package shaper
