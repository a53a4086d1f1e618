package core

import "errors"

// Errors
var (
	ErrInvalidClient    = errors.New("invalid client")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidSide      = errors.New("invalid side")
	ErrOrderExists      = errors.New("order exists")
	ErrNonexistentOrder = errors.New("order not found")
	ErrNotOwner         = errors.New("order does not belong to client")
	ErrNotInBook        = errors.New("order not found in order book")
	ErrCrossingFault    = errors.New("internal matching fault")
)

// Status is the outcome code carried by a Response
type Status int

// Response statuses
const (
	StatusSuccess Status = iota
	StatusInvalidOrder
	StatusOrderNotFound
	// StatusInsufficientFunds is reserved for balance checks and never
	// produced by the engine.
	StatusInsufficientFunds
	StatusSystemError
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusInvalidOrder:
		return "INVALID_ORDER"
	case StatusOrderNotFound:
		return "ORDER_NOT_FOUND"
	case StatusInsufficientFunds:
		return "INSUFFICIENT_FUNDS"
	case StatusSystemError:
		return "SYSTEM_ERROR"
	default:
		return "UNKNOWN"
	}
}

// StatusFromError maps engine errors onto response statuses
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrInvalidClient),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidSide),
		errors.Is(err, ErrNotOwner):
		return StatusInvalidOrder
	case errors.Is(err, ErrNonexistentOrder),
		errors.Is(err, ErrNotInBook):
		return StatusOrderNotFound
	default:
		return StatusSystemError
	}
}

// CancelReason is passed to Client.OnOrderCanceled
type CancelReason int

// Cancel reasons
const (
	CancelReasonClientRequest CancelReason = iota + 1
)

// String returns the reason name
func (r CancelReason) String() string {
	switch r {
	case CancelReasonClientRequest:
		return "CLIENT_REQUEST"
	default:
		return "UNKNOWN"
	}
}
