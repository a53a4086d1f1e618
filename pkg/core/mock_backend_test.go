package core

import (
	"sort"
	"sync"
)

// mockBackend implements the OrderBookBackend interface for testing. A
// named fault can be armed to panic exactly once at that point.
type mockBackend struct {
	mu     sync.Mutex
	faults map[string]bool

	index *mockIndex
	bids  *mockSide
	asks  *mockSide
}

func newMockBackend() *mockBackend {
	m := &mockBackend{faults: make(map[string]bool)}
	m.index = &mockIndex{backend: m, orders: make(map[OrderID]*Order)}
	m.bids = &mockSide{backend: m, side: Buy, levels: make(map[Price]*mockLevel)}
	m.asks = &mockSide{backend: m, side: Sell, levels: make(map[Price]*mockLevel)}
	return m
}

func (m *mockBackend) Index() OrderIndex {
	return m.index
}

func (m *mockBackend) Side(side Side) OrderSide {
	if side == Buy {
		return m.bids
	}
	return m.asks
}

func (m *mockBackend) arm(fault string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[fault] = true
}

func (m *mockBackend) trip(fault string) {
	m.mu.Lock()
	armed := m.faults[fault]
	delete(m.faults, fault)
	m.mu.Unlock()
	if armed {
		panic("injected fault: " + fault)
	}
}

type mockIndex struct {
	backend *mockBackend
	mu      sync.Mutex
	orders  map[OrderID]*Order
}

func (i *mockIndex) Store(order *Order) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.orders[order.ID()]; ok {
		return ErrOrderExists
	}
	i.orders[order.ID()] = order
	return nil
}

func (i *mockIndex) Get(id OrderID) *Order {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.orders[id]
}

func (i *mockIndex) Delete(id OrderID) bool {
	i.backend.trip("index.delete")
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.orders[id]
	delete(i.orders, id)
	return ok
}

func (i *mockIndex) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.orders)
}

type mockSide struct {
	sync.Mutex
	backend *mockBackend
	side    Side
	levels  map[Price]*mockLevel
}

func (s *mockSide) Append(order *Order) {
	s.backend.trip("side.append")
	level, ok := s.levels[order.Price()]
	if !ok {
		level = &mockLevel{backend: s.backend, price: order.Price()}
		s.levels[order.Price()] = level
	}
	level.PushBack(order)
}

func (s *mockSide) Remove(order *Order) bool {
	level, ok := s.levels[order.Price()]
	if !ok || !level.Remove(order.ID()) {
		return false
	}
	if level.Len() == 0 {
		delete(s.levels, order.Price())
	}
	return true
}

func (s *mockSide) Best() (PriceLevel, bool) {
	s.backend.trip("side.best")
	prices := s.prices()
	if len(prices) == 0 {
		return nil, false
	}
	return s.levels[prices[0]], true
}

func (s *mockSide) DeleteLevel(price Price) {
	delete(s.levels, price)
}

func (s *mockSide) Depth() []LevelSnapshot {
	s.Lock()
	defer s.Unlock()
	var depth []LevelSnapshot
	for _, p := range s.prices() {
		level := s.levels[p]
		depth = append(depth, LevelSnapshot{Price: p, Orders: level.Len(), Volume: level.Volume()})
	}
	return depth
}

// prices returns the level prices best first
func (s *mockSide) prices() []Price {
	prices := make([]Price, 0, len(s.levels))
	for p := range s.levels {
		prices = append(prices, p)
	}
	sort.Slice(prices, func(i, j int) bool {
		if s.side == Buy {
			return prices[i] > prices[j]
		}
		return prices[i] < prices[j]
	})
	return prices
}

type mockLevel struct {
	backend *mockBackend
	price   Price
	orders  []*Order
}

func (l *mockLevel) Price() Price {
	return l.price
}

func (l *mockLevel) Len() int {
	return len(l.orders)
}

func (l *mockLevel) Front() *Order {
	if len(l.orders) == 0 {
		return nil
	}
	return l.orders[0]
}

func (l *mockLevel) PopFront() *Order {
	if len(l.orders) == 0 {
		return nil
	}
	order := l.orders[0]
	l.orders = l.orders[1:]
	return order
}

func (l *mockLevel) PushFront(order *Order) {
	l.backend.trip("level.pushfront")
	l.orders = append([]*Order{order}, l.orders...)
}

func (l *mockLevel) PushBack(order *Order) {
	l.orders = append(l.orders, order)
}

func (l *mockLevel) Remove(id OrderID) bool {
	for i, o := range l.orders {
		if o.ID() == id {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return true
		}
	}
	return false
}

func (l *mockLevel) Volume() int64 {
	var total int64
	for _, o := range l.orders {
		total += int64(o.Remaining())
	}
	return total
}

// testClient records callbacks for assertions
type testClient struct {
	mu       sync.Mutex
	name     string
	placed   []OrderID
	canceled []OrderID
	traded   []Trade
	events   []string
}

func newTestClient(name string) *testClient {
	return &testClient{name: name}
}

func (c *testClient) OnOrderPlaced(id OrderID, price Price, amount Amount) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.placed = append(c.placed, id)
	c.events = append(c.events, "placed:"+id.String())
}

func (c *testClient) OnOrderCanceled(id OrderID, reason CancelReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canceled = append(c.canceled, id)
	c.events = append(c.events, "canceled:"+id.String())
}

func (c *testClient) OnOrderTraded(id OrderID, price Price, amount Amount) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.traded = append(c.traded, Trade{Price: price, Amount: amount})
	c.events = append(c.events, "traded:"+id.String()+":"+amount.String()+"@"+price.String())
}

func (c *testClient) Events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}
