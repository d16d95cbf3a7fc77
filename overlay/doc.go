// Package overlay renders the CRT/VHS overlay: one render surface anchored to
// the document, declarative intensity properties for the static style layers,
// and two procedural raster loops (rolling tape noise and dropout bars).
//
// A Renderer only reads the params.Snapshot it was last given. Running loops
// pick up a new snapshot on their next tick; loops that are no longer needed
// stop and clear their canvas.
package overlay
