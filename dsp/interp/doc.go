// Package interp provides the interpolation kernels used for fractional
// delay reads.
package interp
