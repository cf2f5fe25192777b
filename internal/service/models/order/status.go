package order

import (
	"database/sql/driver"
	"errors"
)

// Status is the lifecycle state of an order. Transitions are legal only
// along the type-specific flow; see Advance and ValidateTransition.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusPacked         Status = "packed"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
	StatusExpired        Status = "expired"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusPacked,
		StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusExpired:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusExpired
}

// nextStatus is the forward step of each type-specific flow. Acceptance
// moves pending directly to preparing, writing confirmed_at on the way;
// confirmed appears only as a tolerated legacy state that sits alongside
// preparing.
var nextStatus = map[Type]map[Status]Status{
	TypeDelivery: {
		StatusPending:        StatusPreparing,
		StatusConfirmed:      StatusPacked,
		StatusPreparing:      StatusPacked,
		StatusPacked:         StatusOutForDelivery,
		StatusOutForDelivery: StatusDelivered,
	},
	TypePickup: {
		StatusPending:   StatusPreparing,
		StatusConfirmed: StatusPacked,
		StatusPreparing: StatusPacked,
		StatusPacked:    StatusDelivered,
	},
}

// flowRank orders statuses along the forward flow so observers can tell a
// stale snapshot from a progression. Terminal side-exits rank highest.
var flowRank = map[Status]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusPreparing:      1,
	StatusPacked:         2,
	StatusOutForDelivery: 3,
	StatusDelivered:      4,
	StatusCancelled:      5,
	StatusExpired:        5,
}

// Rank returns the position of a status along the forward flow.
func (s Status) Rank() int {
	return flowRank[s]
}

// Advance returns the next status in the flow for the given order type.
// Advancing from pending is illegal: a pending order is accepted (with an
// estimate) or cancelled, never stepped forward blindly.
func Advance(t Type, from Status) (Status, error) {
	if from == StatusPending {
		return "", &InvalidTransitionError{Type: t, From: from, To: StatusPreparing}
	}
	next, ok := nextStatus[t][from]
	if !ok {
		return "", &InvalidTransitionError{Type: t, From: from}
	}

	return next, nil
}

// ValidateTransition checks a requested move against the legal graph.
// Cancelling is allowed from any non-terminal state. No transition may
// skip a step or move backward.
func ValidateTransition(t Type, from, to Status) error {
	if to == StatusCancelled {
		if from.Terminal() {
			return &InvalidTransitionError{Type: t, From: from, To: to}
		}

		return nil
	}
	if from == StatusPending && to == StatusPreparing {
		return nil
	}
	if next, ok := nextStatus[t][from]; ok && next == to && from != StatusPending {
		return nil
	}

	return &InvalidTransitionError{Type: t, From: from, To: to}
}

// EstimateOptions are the prep durations a kitchen operator may choose
// from when accepting an order.
var EstimateOptions = []int{5, 10, 15, 20, 25, 30, 45, 60}

// ValidEstimate reports whether the estimate is one of the offered
// durations.
func ValidEstimate(minutes int) bool {
	for _, m := range EstimateOptions {
		if m == minutes {
			return true
		}
	}

	return false
}
