// Package notifier turns order change events into role-appropriate
// reactions. The change feed is at-least-once and possibly reordered, so
// every decision compares the incoming snapshot against remembered state
// instead of trusting delivery order; duplicates never re-fire a
// reaction.
package notifier

import (
	"sync"

	"github.com/google/uuid"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
)

// Sink receives the reactions a connected client would render: sounds,
// toasts and banners.
type Sink interface {
	NewOrderAlert(o order.Order)
	OrderAccepted(o order.Order)
	OrderReady(o order.Order)
	PickupReady(o order.Order)
}

// Bridge tracks the last-known status per order and fires reactions
// exactly once per meaningful transition.
type Bridge struct {
	mu           sync.Mutex
	sink         Sink
	last         map[uuid.UUID]order.Status
	pickupFired  map[uuid.UUID]bool
	pendingCount int
	synced       bool
}

// NewBridge creates a Bridge delivering reactions to the sink.
func NewBridge(sink Sink) *Bridge {
	return &Bridge{
		sink:        sink,
		last:        make(map[uuid.UUID]order.Status),
		pickupFired: make(map[uuid.UUID]bool),
	}
}

// Resync replaces the remembered state from a full re-fetch without
// firing anything. Called on (re)connect before incremental handling
// resumes, so acting on stale deltas or replayed history is impossible.
func (b *Bridge) Resync(orders []order.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = make(map[uuid.UUID]order.Status, len(orders))
	b.pickupFired = make(map[uuid.UUID]bool)
	b.pendingCount = 0
	for _, o := range orders {
		b.last[o.ID] = o.Status
		if o.Status == order.StatusPending {
			b.pendingCount++
		}
		if o.Type == order.TypePickup && o.Status.Rank() >= order.StatusPacked.Rank() {
			b.pickupFired[o.ID] = true
		}
	}
	b.synced = true
}

// Apply handles one row-update event. Duplicate delivery of the same
// state is a no-op; a snapshot older than the remembered state is
// dropped rather than regressing.
func (b *Bridge) Apply(o order.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, known := b.last[o.ID]
	if known && prev == o.Status {
		return
	}
	if known && !prev.Terminal() && o.Status.Rank() < prev.Rank() {
		// Reordered delivery: an older snapshot arrived late.
		return
	}

	b.last[o.ID] = o.Status

	pendingBefore := b.pendingCount
	b.pendingCount = 0
	for _, s := range b.last {
		if s == order.StatusPending {
			b.pendingCount++
		}
	}

	// The new-order alert keys off the pending count increasing, not off
	// row updates in general, so edits to unrelated orders stay silent.
	if b.synced && b.pendingCount > pendingBefore {
		b.sink.NewOrderAlert(o)
	}

	if o.Status == order.StatusPreparing && (!known || prev != order.StatusPreparing) {
		b.sink.OrderAccepted(o)
	}

	if o.Status == order.StatusPacked && (!known || prev != order.StatusPacked) {
		b.sink.OrderReady(o)
	}

	if o.Type == order.TypePickup && o.Status == order.StatusPacked && !b.pickupFired[o.ID] {
		b.pickupFired[o.ID] = true
		b.sink.PickupReady(o)
	}

	// Terminal orders leave the working set; nothing fires for them again
	// and the maps must not grow with order history.
	if o.Status.Terminal() {
		delete(b.last, o.ID)
		delete(b.pickupFired, o.ID)
	}
}
