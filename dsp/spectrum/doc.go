// Package spectrum provides the spectral checks used to characterize the
// synthesized tape noise: a Welch-averaged power spectrum and a least-squares
// estimate of its tilt in dB per octave.
//
// FFTs come from algo-fft; windowing and power extraction use algo-vecmath.
package spectrum
