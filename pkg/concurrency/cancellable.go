// Package concurrency provides the small scaffolding the kd-tree builder
// needs beyond the worker pool: a cooperative cancellation flag and a
// reusable rendezvous barrier.
package concurrency

import "sync/atomic"

// Cancellable is a process-visible boolean polled cooperatively by the
// builder between work units. Setting it never interrupts an in-flight
// sweep or split; it only causes future build-node creation to terminate
// as leaves (spec §4.1).
type Cancellable struct {
	cancelled atomic.Bool
}

// Cancel marks the flag as cancelled.
func (c *Cancellable) Cancel() {
	c.cancelled.Store(true)
}

// Reset clears the flag.
func (c *Cancellable) Reset() {
	c.cancelled.Store(false)
}

// Cancelled reports whether the flag is currently set.
func (c *Cancellable) Cancelled() bool {
	return c.cancelled.Load()
}
