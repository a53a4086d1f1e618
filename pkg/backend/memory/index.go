package memory

import (
	"sync"

	"github.com/erain9/matchbook/pkg/core"
)

// OrderIndex maps live order ids to orders
type OrderIndex struct {
	mu     sync.RWMutex
	orders map[core.OrderID]*core.Order
}

// NewOrderIndex creates an empty index
func NewOrderIndex() *OrderIndex {
	return &OrderIndex{
		orders: make(map[core.OrderID]*core.Order),
	}
}

// Store registers order unless its id is already live
func (i *OrderIndex) Store(order *core.Order) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.orders[order.ID()]; exists {
		return core.ErrOrderExists
	}
	i.orders[order.ID()] = order
	return nil
}

// Get returns the order with id, or nil
func (i *OrderIndex) Get(id core.OrderID) *core.Order {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.orders[id]
}

// Delete removes id and reports whether it was present
func (i *OrderIndex) Delete(id core.OrderID) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.orders[id]; !exists {
		return false
	}
	delete(i.orders, id)
	return true
}

// Len returns the number of live orders
func (i *OrderIndex) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.orders)
}
