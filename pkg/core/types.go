package core

import (
	"encoding/json"
	"strconv"
)

// OrderID identifies an order. Values are assigned by the engine only.
type OrderID int32

// Price is a limit price in ticks
type Price int32

// Amount is a quantity of the traded asset
type Amount int32

// InvalidOrderID is carried by responses that did not assign an id
const InvalidOrderID OrderID = -1

// String returns the id in decimal form
func (id OrderID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// String returns the price in decimal form
func (p Price) String() string {
	return strconv.FormatInt(int64(p), 10)
}

// String returns the amount in decimal form
func (a Amount) String() string {
	return strconv.FormatInt(int64(a), 10)
}

// Side represents buy or sell side of the order
type Side int

// Order sides
const (
	Sell Side = iota
	Buy
)

// String returns side as string
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is Buy or Sell
func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

// Opposite returns the other side of the book
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Crosses reports whether an incoming order on side s with limit price
// accepts a resting order at restingPrice.
func (s Side) Crosses(limit, restingPrice Price) bool {
	if s == Buy {
		return limit >= restingPrice
	}
	return limit <= restingPrice
}

// Trade is a single execution between a buy and a sell order
type Trade struct {
	Buy    *Order
	Sell   *Order
	Price  Price
	Amount Amount
}

// MarshalJSON implements Marshaler interface
func (t Trade) MarshalJSON() ([]byte, error) {
	customStruct := struct {
		BuyOrderID  OrderID `json:"buyOrderID"`
		SellOrderID OrderID `json:"sellOrderID"`
		Price       Price   `json:"price"`
		Amount      Amount  `json:"amount"`
	}{
		Price:  t.Price,
		Amount: t.Amount,
	}
	if t.Buy != nil {
		customStruct.BuyOrderID = t.Buy.ID()
	}
	if t.Sell != nil {
		customStruct.SellOrderID = t.Sell.ID()
	}
	return json.Marshal(customStruct)
}

// LevelSnapshot describes one price level of a book side
type LevelSnapshot struct {
	Price  Price
	Orders int
	Volume int64
}
