package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/erain9/matchbook/pkg/core"
	"github.com/tidwall/btree"
)

const btreeDegree = 32

// OrderSide represents one side (bid/ask) of the order book. Price levels
// are kept in a B-tree keyed by price; bids are read from the top
// and asks from the bottom.
type OrderSide struct {
	sync.Mutex
	side   core.Side
	levels *btree.Map[core.Price, *priceLevel]
}

// NewOrderSide creates an empty side
func NewOrderSide(side core.Side) *OrderSide {
	return &OrderSide{
		side:   side,
		levels: btree.NewMap[core.Price, *priceLevel](btreeDegree),
	}
}

// Append adds order to the back of the queue at its price
func (s *OrderSide) Append(order *core.Order) {
	level, ok := s.levels.Get(order.Price())
	if !ok {
		level = newPriceLevel(order.Price())
		s.levels.Set(order.Price(), level)
	}
	level.PushBack(order)
}

// Remove deletes order from its level, dropping the level once empty
func (s *OrderSide) Remove(order *core.Order) bool {
	level, ok := s.levels.Get(order.Price())
	if !ok {
		return false
	}
	if !level.Remove(order.ID()) {
		return false
	}
	if level.Len() == 0 {
		s.levels.Delete(order.Price())
	}
	return true
}

// Best returns the highest bid or the lowest ask
func (s *OrderSide) Best() (core.PriceLevel, bool) {
	var (
		level *priceLevel
		ok    bool
	)
	if s.side == core.Buy {
		_, level, ok = s.levels.Max()
	} else {
		_, level, ok = s.levels.Min()
	}
	if !ok {
		return nil, false
	}
	return level, true
}

// DeleteLevel drops the level at price, with any orders still queued on it
func (s *OrderSide) DeleteLevel(price core.Price) {
	s.levels.Delete(price)
}

// Depth returns every level ordered from the best price outward
func (s *OrderSide) Depth() []core.LevelSnapshot {
	s.Lock()
	defer s.Unlock()

	depth := make([]core.LevelSnapshot, 0, s.levels.Len())
	s.walk(func(level *priceLevel) bool {
		depth = append(depth, level.snapshot())
		return true
	})
	return depth
}

// Len returns the number of price levels
func (s *OrderSide) Len() int {
	s.Lock()
	defer s.Unlock()
	return s.levels.Len()
}

// String implements fmt.Stringer interface
func (s *OrderSide) String() string {
	sb := strings.Builder{}
	for _, level := range s.Depth() {
		sb.WriteString(fmt.Sprintf("\n%s -> orders: %d, volume: %d", level.Price, level.Orders, level.Volume))
	}
	return sb.String()
}

func (s *OrderSide) walk(fn func(level *priceLevel) bool) {
	iter := func(_ core.Price, level *priceLevel) bool {
		return fn(level)
	}
	if s.side == core.Buy {
		s.levels.Reverse(iter)
	} else {
		s.levels.Scan(iter)
	}
}
