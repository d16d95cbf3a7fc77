// Package core holds numeric helpers and processing configuration shared by
// the DSP packages and the offline audio host.
package core
