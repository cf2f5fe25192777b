// Package countdown derives prep countdowns from persisted timestamps.
//
// Every observer (customer tracking view, kitchen prep view) computes the
// same remaining time independently from the anchor timestamp and the
// kitchen's estimate; no server-side tick is involved. The functions are
// pure: the observation instant is always passed in.
package countdown

import (
	"fmt"
	"time"
)

// ReadyAt is the instant the order is expected to be ready.
func ReadyAt(anchor time.Time, estimatedMinutes int) time.Time {
	return anchor.Add(time.Duration(estimatedMinutes) * time.Minute)
}

// Remaining is the time left until ready at the observation instant,
// never negative.
func Remaining(anchor time.Time, estimatedMinutes int, now time.Time) time.Duration {
	left := ReadyAt(anchor, estimatedMinutes).Sub(now)
	if left < 0 {
		return 0
	}

	return left
}

// Progress is the elapsed fraction of the estimate, clamped to [0, 1].
func Progress(anchor time.Time, estimatedMinutes int, now time.Time) float64 {
	total := time.Duration(estimatedMinutes) * time.Minute
	if total <= 0 {
		return 1
	}
	p := 1 - float64(Remaining(anchor, estimatedMinutes, now))/float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}

	return p
}

// AlmostReady is the terminal display once the countdown reaches zero;
// the clock never shows negative time.
const AlmostReady = "Almost ready"

// Display renders the countdown as mm:ss, or the terminal message once
// the estimate has elapsed.
func Display(anchor time.Time, estimatedMinutes int, now time.Time) string {
	left := Remaining(anchor, estimatedMinutes, now)
	if left == 0 {
		return AlmostReady
	}
	secs := int(left.Round(time.Second).Seconds())

	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
