package core

// OrderBookBackend defines the storage the engine matches against: one
// order index and two independently locked book sides.
//
// Lock order: a side lock may be held while the index is touched; the
// index must never be held while acquiring a side lock, and the engine
// never holds both side locks at once.
type OrderBookBackend interface {
	Index() OrderIndex
	Side(side Side) OrderSide
}

// OrderIndex maps live order ids to orders. Every method synchronizes
// internally and holds its lock only for the single operation.
type OrderIndex interface {
	// Store registers order, failing with ErrOrderExists when the id is live
	Store(order *Order) error
	Get(id OrderID) *Order
	// Delete removes id and reports whether it was present
	Delete(id OrderID) bool
	Len() int
}

// OrderSide holds the resting orders of one side of the book. Lock and
// Unlock guard the side; every other method except Depth requires the
// caller to hold that lock.
type OrderSide interface {
	Lock()
	Unlock()

	// Append adds order to the back of the level at its price
	Append(order *Order)
	// Remove deletes order from its level and reports whether it was found
	Remove(order *Order) bool
	// Best returns the best priced level, if any
	Best() (PriceLevel, bool)
	// DeleteLevel drops the level at price
	DeleteLevel(price Price)

	// Depth returns a best-first snapshot and takes the lock itself
	Depth() []LevelSnapshot
}

// PriceLevel is the FIFO queue of orders resting at one price
type PriceLevel interface {
	Price() Price
	Len() int
	Front() *Order
	PopFront() *Order
	PushFront(order *Order)
	PushBack(order *Order)
	// Remove deletes the order with id, keeping the others in order
	Remove(id OrderID) bool
	// Volume sums the remaining amounts without overflowing Amount
	Volume() int64
}
