// Package bus carries parameter snapshots from producers (settings UI, files,
// control endpoints) to the overlay and the sound filter, and answers the
// toggle/setOptions/getState message protocol.
package bus
