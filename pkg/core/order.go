package core

import (
	"encoding/json"
	"reflect"
	"sync/atomic"
	"time"
)

// Order stores information about a limit order. The remaining amount is
// only decremented by the crossing code while the order is held under a
// book side lock; it is stored atomically so concurrent readers observe a
// consistent value.
type Order struct {
	id        OrderID
	side      Side
	price     Price
	original  Amount
	remaining atomic.Int32
	owner     Client
	createdAt time.Time
}

// NewLimitOrder creates a new Order with the full amount remaining
func NewLimitOrder(orderID OrderID, side Side, price Price, amount Amount, owner Client) (*Order, error) {
	if owner == nil {
		return nil, ErrInvalidClient
	}

	if !side.Valid() {
		return nil, ErrInvalidSide
	}

	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	o := &Order{
		id:        orderID,
		side:      side,
		price:     price,
		original:  amount,
		owner:     owner,
		createdAt: time.Now(),
	}
	o.remaining.Store(int32(amount))
	return o, nil
}

// ID returns OrderID field copy
func (o *Order) ID() OrderID {
	return o.id
}

// Side returns side of the Order
func (o *Order) Side() Side {
	return o.side
}

// Price returns the limit price
func (o *Order) Price() Price {
	return o.price
}

// OriginalAmount returns the amount the order was placed with
func (o *Order) OriginalAmount() Amount {
	return o.original
}

// Remaining returns the amount still open
func (o *Order) Remaining() Amount {
	return Amount(o.remaining.Load())
}

// Filled returns the amount executed so far
func (o *Order) Filled() Amount {
	return o.original - o.Remaining()
}

// IsFilled reports whether nothing remains open
func (o *Order) IsFilled() bool {
	return o.Remaining() == 0
}

// Owner returns the client that placed the order
func (o *Order) Owner() Client {
	return o.owner
}

// CreatedAt returns the placement time
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// OwnedBy reports whether client placed the order. Clients whose dynamic
// type is not comparable (maps, slices, funcs) never own an order.
func (o *Order) OwnedBy(client Client) bool {
	if client == nil || o.owner == nil {
		return false
	}
	t := reflect.TypeOf(client)
	if t != reflect.TypeOf(o.owner) || !t.Comparable() {
		return false
	}
	return o.owner == client
}

// decrease takes amount off the remaining quantity. Callers must hold the
// lock of the side the order is being matched on.
func (o *Order) decrease(amount Amount) {
	o.remaining.Add(-int32(amount))
}

// MarshalJSON implements custom JSON marshaling for Order
func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        OrderID   `json:"id"`
		Side      string    `json:"side"`
		Price     Price     `json:"price"`
		Original  Amount    `json:"originalAmount"`
		Remaining Amount    `json:"remainingAmount"`
		CreatedAt time.Time `json:"createdAt"`
	}{
		ID:        o.id,
		Side:      o.side.String(),
		Price:     o.price,
		Original:  o.original,
		Remaining: o.Remaining(),
		CreatedAt: o.createdAt,
	})
}

// String implements Stringer interface
func (o *Order) String() string {
	j, _ := o.MarshalJSON()
	return string(j)
}
