package notify

import "github.com/erain9/matchbook/pkg/core"

// Multi fans every notification out to several clients under a single
// order ownership identity
type Multi struct {
	clients []core.Client
}

var _ core.Client = (*Multi)(nil)

// NewMulti creates a fan-out over clients, skipping nil entries
func NewMulti(clients ...core.Client) *Multi {
	m := &Multi{}
	for _, c := range clients {
		if c != nil {
			m.clients = append(m.clients, c)
		}
	}
	return m
}

func (m *Multi) OnOrderPlaced(id core.OrderID, price core.Price, amount core.Amount) {
	for _, c := range m.clients {
		c.OnOrderPlaced(id, price, amount)
	}
}

func (m *Multi) OnOrderCanceled(id core.OrderID, reason core.CancelReason) {
	for _, c := range m.clients {
		c.OnOrderCanceled(id, reason)
	}
}

func (m *Multi) OnOrderTraded(id core.OrderID, price core.Price, amount core.Amount) {
	for _, c := range m.clients {
		c.OnOrderTraded(id, price, amount)
	}
}
