package order

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no order matches the given code or id.
	ErrNotFound = errors.New("order not found")

	// ErrOrderExpired is returned when acceptance is attempted after the
	// order's deadline has passed.
	ErrOrderExpired = errors.New("order expired")

	// ErrInvalidEstimate is returned for a prep estimate outside the
	// offered durations. This is caller misuse, not a benign race.
	ErrInvalidEstimate = errors.New("invalid prep time estimate")
)

// InvalidTransitionError reports an illegal state move. From carries the
// order's actual current status, so a caller that lost a race can re-sync
// its view instead of treating this as a hard failure.
type InvalidTransitionError struct {
	Type Type
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("no transition from %s for %s order", e.From, e.Type)
	}

	return fmt.Sprintf("illegal transition %s -> %s for %s order", e.From, e.To, e.Type)
}
