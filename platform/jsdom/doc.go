//go:build js && wasm

// Package jsdom implements the platform interfaces on a browser page through
// syscall/js: DOM elements and canvases, Web Audio nodes, and a scheduler on
// requestAnimationFrame and setTimeout.
//
// Callbacks handed to JavaScript are js.Func values; every registration
// returns a cancel func that also releases them.
package jsdom
