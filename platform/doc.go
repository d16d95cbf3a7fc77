// Package platform declares the host capabilities the engine builds on: the
// document tree, raster canvases, media elements and an audio processing
// graph. Concrete hosts live in subpackages.
//
// Every fallible capability returns an error; callers in the engine degrade
// the affected feature and never surface these errors to their own callers.
package platform
