// Package offline is an in-memory host: a document tree with counted style
// writes, NRGBA canvases, media elements carrying sample data, and an audio
// context that renders its graph block by block with the dsp packages.
//
// Tests and the command-line tools run the engine against it together with
// sched.Queue.
package offline
