package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock is a Lamport clock stamping the ops a diagram emits.
type Clock struct {
	counter uint64
}

// Tick increments the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	return atomic.AddUint64(&c.counter, 1)
}

// Observe moves the clock forward to a timestamp seen on a remote op.
func (c *Clock) Observe(ts uint64) {
	for {
		cur := atomic.LoadUint64(&c.counter)
		if ts <= cur || atomic.CompareAndSwapUint64(&c.counter, cur, ts) {
			return
		}
	}
}

// Now returns the current value without advancing.
func (c *Clock) Now() uint64 {
	return atomic.LoadUint64(&c.counter)
}

func newSiteID() string {
	return uuid.NewString()
}
