// Package noise synthesizes the tape hiss shared by every effect chain.
//
// Tape noise is uniform white noise fed through three parallel one-pole
// smoothers whose outputs are summed. The poles sit at roughly 9, 50 and 240
// Hz at 48 kHz, tilting the spectrum towards rumble rather than bright hiss.
package noise
