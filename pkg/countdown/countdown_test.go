package countdown

import (
	"testing"
	"time"
)

var anchor = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestReadyAt(t *testing.T) {
	got := ReadyAt(anchor, 20)
	want := anchor.Add(20 * time.Minute)
	if !got.Equal(want) {
		t.Errorf("ReadyAt = %v, want %v", got, want)
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	if got := Remaining(anchor, 10, anchor.Add(25*time.Minute)); got != 0 {
		t.Errorf("Remaining past the estimate = %v, want 0", got)
	}
	if got := Remaining(anchor, 10, anchor.Add(4*time.Minute)); got != 6*time.Minute {
		t.Errorf("Remaining = %v, want 6m", got)
	}
}

func TestSameInputsSameOutputs(t *testing.T) {
	// Two observers evaluating the same instant must agree exactly.
	now := anchor.Add(7 * time.Minute)
	for i := 0; i < 3; i++ {
		if got := Remaining(anchor, 15, now); got != 8*time.Minute {
			t.Fatalf("Remaining = %v, want 8m", got)
		}
	}
}

func TestProgressClamped(t *testing.T) {
	if got := Progress(anchor, 10, anchor.Add(-time.Minute)); got != 0 {
		t.Errorf("Progress before anchor = %v, want 0", got)
	}
	if got := Progress(anchor, 10, anchor.Add(time.Hour)); got != 1 {
		t.Errorf("Progress past estimate = %v, want 1", got)
	}
	if got := Progress(anchor, 10, anchor.Add(5*time.Minute)); got != 0.5 {
		t.Errorf("Progress at midpoint = %v, want 0.5", got)
	}
}

func TestProgressZeroEstimate(t *testing.T) {
	if got := Progress(anchor, 0, anchor); got != 1 {
		t.Errorf("Progress with zero estimate = %v, want 1", got)
	}
}

func TestDisplay(t *testing.T) {
	if got := Display(anchor, 15, anchor.Add(2*time.Minute+30*time.Second)); got != "12:30" {
		t.Errorf("Display = %q, want 12:30", got)
	}
	if got := Display(anchor, 15, anchor.Add(15*time.Minute)); got != AlmostReady {
		t.Errorf("Display at zero = %q, want %q", got, AlmostReady)
	}
	if got := Display(anchor, 15, anchor.Add(time.Hour)); got != AlmostReady {
		t.Errorf("Display past zero = %q, want %q", got, AlmostReady)
	}
}
