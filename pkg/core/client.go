package core

// Client receives notifications about its own orders. Implementations are
// called synchronously from the goroutine that caused the event, never while
// the engine holds a lock, and must be safe for concurrent use.
//
// The engine identifies the owner of an order by comparing Client values,
// so implementations should be pointer types. A client of a type that is not
// comparable is never recognized as an owner and cannot cancel.
type Client interface {
	OnOrderPlaced(id OrderID, price Price, amount Amount)
	OnOrderCanceled(id OrderID, reason CancelReason)
	// OnOrderTraded is called once per trade leg with the client's own order id
	OnOrderTraded(id OrderID, price Price, amount Amount)
}
