package order

import (
	"errors"
	"testing"
)

func TestAdvanceDeliveryFlow(t *testing.T) {
	steps := []struct {
		from Status
		want Status
	}{
		{StatusPreparing, StatusPacked},
		{StatusPacked, StatusOutForDelivery},
		{StatusOutForDelivery, StatusDelivered},
	}

	for _, step := range steps {
		got, err := Advance(TypeDelivery, step.from)
		if err != nil {
			t.Fatalf("Advance(delivery, %s): unexpected error %v", step.from, err)
		}
		if got != step.want {
			t.Errorf("Advance(delivery, %s) = %s, want %s", step.from, got, step.want)
		}
	}
}

func TestAdvancePickupSkipsOutForDelivery(t *testing.T) {
	got, err := Advance(TypePickup, StatusPacked)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != StatusDelivered {
		t.Errorf("Advance(pickup, packed) = %s, want %s", got, StatusDelivered)
	}
}

func TestAdvanceFromPendingRejected(t *testing.T) {
	for _, typ := range []Type{TypeDelivery, TypePickup} {
		if _, err := Advance(typ, StatusPending); err == nil {
			t.Errorf("Advance(%s, pending) should fail: pending is accepted, not advanced", typ)
		}
	}
}

func TestAdvanceFromTerminalRejected(t *testing.T) {
	for _, from := range []Status{StatusDelivered, StatusCancelled, StatusExpired} {
		if _, err := Advance(TypeDelivery, from); err == nil {
			t.Errorf("Advance(delivery, %s) should fail", from)
		}
	}
}

func TestValidateTransitionCancelFromAnyNonTerminal(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusPacked, StatusOutForDelivery} {
		if err := ValidateTransition(TypeDelivery, from, StatusCancelled); err != nil {
			t.Errorf("cancel from %s should be legal: %v", from, err)
		}
	}
	for _, from := range []Status{StatusDelivered, StatusCancelled, StatusExpired} {
		if err := ValidateTransition(TypeDelivery, from, StatusCancelled); err == nil {
			t.Errorf("cancel from terminal %s should be illegal", from)
		}
	}
}

func TestValidateTransitionNoSkipsOrBackwardMoves(t *testing.T) {
	cases := []struct {
		typ  Type
		from Status
		to   Status
	}{
		{TypeDelivery, StatusPreparing, StatusOutForDelivery},
		{TypeDelivery, StatusPacked, StatusDelivered},
		{TypeDelivery, StatusPacked, StatusPreparing},
		{TypeDelivery, StatusDelivered, StatusPending},
		{TypePickup, StatusPacked, StatusOutForDelivery},
		{TypePickup, StatusPreparing, StatusDelivered},
	}

	for _, c := range cases {
		err := ValidateTransition(c.typ, c.from, c.to)
		if err == nil {
			t.Errorf("transition %s: %s -> %s should be illegal", c.typ, c.from, c.to)

			continue
		}
		var transitionErr *InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Errorf("want *InvalidTransitionError, got %T", err)
		}
	}
}

func TestValidateTransitionAcceptance(t *testing.T) {
	if err := ValidateTransition(TypePickup, StatusPending, StatusPreparing); err != nil {
		t.Errorf("pending -> preparing should be legal: %v", err)
	}
	if err := ValidateTransition(TypeDelivery, StatusPending, StatusPacked); err == nil {
		t.Error("pending -> packed skips acceptance and should be illegal")
	}
}

func TestTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusDelivered: true,
		StatusCancelled: true,
		StatusExpired:   true,
	}
	for _, s := range []Status{
		StatusPending, StatusConfirmed, StatusPreparing, StatusPacked,
		StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusExpired,
	} {
		if s.Terminal() != terminal[s] {
			t.Errorf("%s.Terminal() = %v, want %v", s, s.Terminal(), terminal[s])
		}
	}
}

func TestRankOrdersForwardFlow(t *testing.T) {
	if StatusPending.Rank() >= StatusPreparing.Rank() {
		t.Error("pending must rank below preparing")
	}
	if StatusPreparing.Rank() >= StatusPacked.Rank() {
		t.Error("preparing must rank below packed")
	}
	if StatusConfirmed.Rank() != StatusPreparing.Rank() {
		t.Error("confirmed sits alongside preparing in the flow")
	}
	if StatusCancelled.Rank() < StatusDelivered.Rank() {
		t.Error("terminal side-exits must rank at the top")
	}
}

func TestValidEstimate(t *testing.T) {
	for _, m := range EstimateOptions {
		if !ValidEstimate(m) {
			t.Errorf("ValidEstimate(%d) = false, want true", m)
		}
	}
	for _, m := range []int{0, 1, 7, 12, 61, -5} {
		if ValidEstimate(m) {
			t.Errorf("ValidEstimate(%d) = true, want false", m)
		}
	}
}
