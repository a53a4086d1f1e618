package core

import (
	"fmt"
)

// crossResult carries everything a crossing pass produced, including when
// it was cut short by a fault.
type crossResult struct {
	trades []Trade
	err    error
}

// cross matches incoming against the opposite side of the book. Only that
// side's lock is held for the whole pass; the index is touched briefly for
// each fully filled resting order. Notifications are left to the caller.
//
// A panic raised by the backend is turned into ErrCrossingFault. The
// resting order being worked on at that moment is restored so the book and
// the index stay coherent, and the trades applied so far are kept.
func (e *Engine) cross(incoming *Order) (result crossResult) {
	book := e.backend.Side(incoming.Side().Opposite())
	index := e.backend.Index()

	var (
		inFlight      *Order
		inFlightLevel PriceLevel
	)

	book.Lock()
	defer book.Unlock()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if inFlight != nil {
			e.restoreInFlight(book, index, inFlightLevel, inFlight)
		}
		result.err = fmt.Errorf("%w: %v", ErrCrossingFault, r)
	}()

	for incoming.Remaining() > 0 {
		level, ok := book.Best()
		if !ok {
			break
		}
		if !incoming.Side().Crosses(incoming.Price(), level.Price()) {
			break
		}

		for incoming.Remaining() > 0 && level.Len() > 0 {
			resting := level.PopFront()
			inFlight, inFlightLevel = resting, level

			amount := min(incoming.Remaining(), resting.Remaining())
			if amount <= 0 {
				// Stale entry with nothing left; drop it without a trade.
				index.Delete(resting.ID())
				inFlight = nil
				continue
			}

			incoming.decrease(amount)
			resting.decrease(amount)
			result.trades = append(result.trades, newTrade(incoming, resting, resting.Price(), amount))

			if resting.Remaining() > 0 {
				// Keeps time priority at this level.
				level.PushFront(resting)
				inFlight = nil
				break
			}

			index.Delete(resting.ID())
			inFlight = nil
		}

		if level.Len() == 0 {
			book.DeleteLevel(level.Price())
		}
	}

	return result
}

// restoreInFlight puts a dequeued resting order back where it belongs after
// a fault. Failures here are swallowed; the original fault is reported.
func (e *Engine) restoreInFlight(book OrderSide, index OrderIndex, level PriceLevel, resting *Order) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Str("order_id", resting.ID().String()).
				Interface("panic", r).
				Msg("Failed to restore resting order after matching fault")
		}
	}()

	if resting.IsFilled() {
		index.Delete(resting.ID())
		if level != nil && level.Len() == 0 {
			book.DeleteLevel(level.Price())
		}
		return
	}

	if level != nil {
		level.PushFront(resting)
		return
	}
	book.Append(resting)
}

func newTrade(incoming, resting *Order, price Price, amount Amount) Trade {
	if incoming.Side() == Buy {
		return Trade{Buy: incoming, Sell: resting, Price: price, Amount: amount}
	}
	return Trade{Buy: resting, Sell: incoming, Price: price, Amount: amount}
}
