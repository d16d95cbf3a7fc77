// Package params defines the parameter snapshot consumed by the overlay and
// the sound filter, together with the producer-side helpers that build one:
// the option registry, coercion and clamping of loose values, and YAML
// settings files.
//
// A Snapshot is a plain value. Consumers receive copies and only read them;
// every update replaces the whole snapshot. Clamping happens here, on the
// producer side, never in the engine.
package params
