// Package delay provides a circular delay line with fractional reads, the
// building block of the chorus tap.
package delay
