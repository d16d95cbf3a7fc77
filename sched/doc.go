// Package sched provides the cooperative scheduling primitives the engine runs
// on: a host Scheduler abstraction (display frames and coarse timers), Task
// loops with cancellation handles, trailing Debouncer and leading Throttle
// helpers, and Queue, a deterministic caller-driven Scheduler.
//
// Nothing here cancels a host callback. A Task, Debouncer or Throttle keeps a
// generation handle; stopping bumps the handle, and the already-queued
// callback observes the mismatch and returns without rescheduling.
//
// All types except Queue.Post are meant to be used from the scheduler's own
// thread and are not safe for concurrent use.
package sched
