// Package soundfilter colors the audio of every media element in a document
// with a tape/VHS effect chain: a lowpassed, optionally saturated effect path,
// a modulated chorus tap and a shared looping tape-noise bed, mixed against
// the dry signal.
//
// The Manager discovers elements with a synchronous scan plus a throttled
// mutation-driven rescan. Each rescan rebuilds the set of live elements from a
// fresh query; chains whose element is gone are returned to dry bypass and
// dropped from the registry.
package soundfilter
