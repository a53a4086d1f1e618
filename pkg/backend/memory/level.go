package memory

import (
	"container/list"

	"github.com/erain9/matchbook/pkg/core"
)

// priceLevel is the FIFO queue of orders resting at one price. Elements are
// indexed by order id so a cancel does not scan the queue.
type priceLevel struct {
	price  core.Price
	orders *list.List
	byID   map[core.OrderID]*list.Element
}

func newPriceLevel(price core.Price) *priceLevel {
	return &priceLevel{
		price:  price,
		orders: list.New(),
		byID:   make(map[core.OrderID]*list.Element),
	}
}

func (l *priceLevel) Price() core.Price {
	return l.price
}

func (l *priceLevel) Len() int {
	return l.orders.Len()
}

func (l *priceLevel) Front() *core.Order {
	e := l.orders.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*core.Order)
}

func (l *priceLevel) PopFront() *core.Order {
	e := l.orders.Front()
	if e == nil {
		return nil
	}
	order := l.orders.Remove(e).(*core.Order)
	delete(l.byID, order.ID())
	return order
}

func (l *priceLevel) PushFront(order *core.Order) {
	l.byID[order.ID()] = l.orders.PushFront(order)
}

func (l *priceLevel) PushBack(order *core.Order) {
	l.byID[order.ID()] = l.orders.PushBack(order)
}

func (l *priceLevel) Remove(id core.OrderID) bool {
	e, ok := l.byID[id]
	if !ok {
		return false
	}
	l.orders.Remove(e)
	delete(l.byID, id)
	return true
}

// Volume sums the remaining amount of every queued order
func (l *priceLevel) Volume() int64 {
	var total int64
	for e := l.orders.Front(); e != nil; e = e.Next() {
		total += int64(e.Value.(*core.Order).Remaining())
	}
	return total
}

func (l *priceLevel) snapshot() core.LevelSnapshot {
	return core.LevelSnapshot{
		Price:  l.price,
		Orders: l.Len(),
		Volume: l.Volume(),
	}
}
