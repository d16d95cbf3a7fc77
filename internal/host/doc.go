// Package host assembles the overlay, the sound filter and the parameter bus
// on the offline platform, for the command-line renderer and the desktop
// preview. Engine methods other than Render and Do must run on the goroutine
// that steps the queue.
package host
