package notify

import (
	"sync"

	"github.com/erain9/matchbook/pkg/core"
)

// Kind tells which callback produced a Notification
type Kind int

// Notification kinds
const (
	Placed Kind = iota
	Canceled
	Traded
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case Placed:
		return "placed"
	case Canceled:
		return "canceled"
	case Traded:
		return "traded"
	default:
		return "unknown"
	}
}

// Notification is one recorded callback
type Notification struct {
	Kind    Kind
	OrderID core.OrderID
	Price   core.Price
	Amount  core.Amount
	Reason  core.CancelReason
}

// Recorder keeps every notification in arrival order. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	notes []Notification
}

var _ core.Client = (*Recorder)(nil)

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnOrderPlaced(id core.OrderID, price core.Price, amount core.Amount) {
	r.record(Notification{Kind: Placed, OrderID: id, Price: price, Amount: amount})
}

func (r *Recorder) OnOrderCanceled(id core.OrderID, reason core.CancelReason) {
	r.record(Notification{Kind: Canceled, OrderID: id, Reason: reason})
}

func (r *Recorder) OnOrderTraded(id core.OrderID, price core.Price, amount core.Amount) {
	r.record(Notification{Kind: Traded, OrderID: id, Price: price, Amount: amount})
}

// Notifications returns a copy of everything recorded so far
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

// Of returns the notifications of one kind
func (r *Recorder) Of(kind Kind) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Notification
	for _, n := range r.notes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Count returns how many notifications of kind were recorded
func (r *Recorder) Count(kind Kind) int {
	return len(r.Of(kind))
}

// TradedAmount returns the total traded amount reported for order id
func (r *Recorder) TradedAmount(id core.OrderID) core.Amount {
	var total core.Amount
	for _, n := range r.Of(Traded) {
		if n.OrderID == id {
			total += n.Amount
		}
	}
	return total
}

// Reset forgets everything recorded
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = nil
}

func (r *Recorder) record(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}
