// Package design provides RBJ-style biquad coefficient designers for the
// filter nodes of the audio hosts.
package design
