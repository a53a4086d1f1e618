package core

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// IDGenerator hands out order ids with a lock-free increment. When the next
// value would overflow it wraps to min instead of failing, so an id may
// repeat after 2^31 placements; the engine rejects placement if the recycled
// id still belongs to a live order.
type IDGenerator struct {
	next   atomic.Int32
	min    OrderID
	logger zerolog.Logger
}

// NewIDGenerator creates a generator whose first id is start
func NewIDGenerator(start, min OrderID, logger zerolog.Logger) *IDGenerator {
	g := &IDGenerator{min: min, logger: logger}
	g.next.Store(int32(start))
	return g
}

// Next returns a fresh id. Concurrent callers never receive the same value
// between two wraparounds.
func (g *IDGenerator) Next() OrderID {
	for {
		current := g.next.Load()
		following := current + 1
		wrapped := following <= current
		if wrapped {
			following = int32(g.min)
		}
		if g.next.CompareAndSwap(current, following) {
			if wrapped {
				g.logger.Warn().
					Int32("last_id", current).
					Int32("reset_to", following).
					Msg("Order id space exhausted, wrapping around")
			}
			return OrderID(current)
		}
	}
}

// Peek returns the id the next call to Next would return
func (g *IDGenerator) Peek() OrderID {
	return OrderID(g.next.Load())
}
