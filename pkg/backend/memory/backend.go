package memory

import (
	"github.com/erain9/matchbook/pkg/core"
)

// MemoryBackend implements the core.OrderBookBackend interface using in-memory storage
type MemoryBackend struct {
	index *OrderIndex
	bids  *OrderSide
	asks  *OrderSide
}

var _ core.OrderBookBackend = (*MemoryBackend)(nil)

// NewMemoryBackend creates a new in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		index: NewOrderIndex(),
		bids:  NewOrderSide(core.Buy),
		asks:  NewOrderSide(core.Sell),
	}
}

// Index returns the order index
func (b *MemoryBackend) Index() core.OrderIndex {
	return b.index
}

// Side returns the bids for core.Buy and the asks for core.Sell
func (b *MemoryBackend) Side(side core.Side) core.OrderSide {
	if side == core.Buy {
		return b.bids
	}
	return b.asks
}

// Bids returns the buy side
func (b *MemoryBackend) Bids() *OrderSide {
	return b.bids
}

// Asks returns the sell side
func (b *MemoryBackend) Asks() *OrderSide {
	return b.asks
}
