package notifier

import (
	"testing"

	"github.com/google/uuid"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
)

type recordingSink struct {
	newOrders   int
	accepted    int
	ready       int
	pickupReady int
}

func (r *recordingSink) NewOrderAlert(order.Order) { r.newOrders++ }
func (r *recordingSink) OrderAccepted(order.Order) { r.accepted++ }
func (r *recordingSink) OrderReady(order.Order)    { r.ready++ }
func (r *recordingSink) PickupReady(order.Order)   { r.pickupReady++ }

func pendingOrder(typ order.Type) order.Order {
	return order.Order{ID: uuid.New(), Type: typ, Status: order.StatusPending}
}

func withStatus(o order.Order, s order.Status) order.Order {
	o.Status = s

	return o
}

func TestResyncIsSilent(t *testing.T) {
	sink := &recordingSink{}
	b := NewBridge(sink)

	b.Resync([]order.Order{
		pendingOrder(order.TypeDelivery),
		withStatus(pendingOrder(order.TypePickup), order.StatusPreparing),
		withStatus(pendingOrder(order.TypePickup), order.StatusPacked),
	})

	if sink.newOrders+sink.accepted+sink.ready+sink.pickupReady != 0 {
		t.Fatalf("resync fired reactions: %+v", sink)
	}
}

func TestNewOrderAlertOnPendingCountIncrease(t *testing.T) {
	sink := &recordingSink{}
	b := NewBridge(sink)
	b.Resync(nil)

	o := pendingOrder(order.TypeDelivery)
	b.Apply(o)
	if sink.newOrders != 1 {
		t.Fatalf("new pending order should alert once, got %d", sink.newOrders)
	}

	// Same snapshot redelivered: the count did not increase.
	b.Apply(o)
	if sink.newOrders != 1 {
		t.Errorf("duplicate delivery re-fired the alert: %d", sink.newOrders)
	}

	// An unrelated order moving forward does not alert.
	b.Apply(withStatus(o, order.StatusPreparing))
	if sink.newOrders != 1 {
		t.Errorf("non-pending update fired the alert: %d", sink.newOrders)
	}
}

func TestNoAlertBeforeFirstResync(t *testing.T) {
	sink := &recordingSink{}
	b := NewBridge(sink)

	b.Apply(pendingOrder(order.TypeDelivery))
	if sink.newOrders != 0 {
		t.Errorf("alert fired before initial resync")
	}
}

func TestOrderReadyFiresOncePerTransition(t *testing.T) {
	sink := &recordingSink{}
	b := NewBridge(sink)
	b.Resync(nil)

	o := pendingOrder(order.TypeDelivery)
	b.Apply(o)
	b.Apply(withStatus(o, order.StatusPreparing))
	if sink.accepted != 1 {
		t.Fatalf("accepted reactions = %d, want 1", sink.accepted)
	}

	packed := withStatus(o, order.StatusPacked)
	b.Apply(packed)
	b.Apply(packed)
	b.Apply(packed)
	if sink.ready != 1 {
		t.Errorf("ready reactions = %d, want 1", sink.ready)
	}
}

func TestPickupReadyFiredFlag(t *testing.T) {
	sink := &recordingSink{}
	b := NewBridge(sink)
	b.Resync(nil)

	o := pendingOrder(order.TypePickup)
	b.Apply(o)
	b.Apply(withStatus(o, order.StatusPreparing))

	packed := withStatus(o, order.StatusPacked)
	b.Apply(packed)
	b.Apply(packed)
	if sink.pickupReady != 1 {
		t.Errorf("pickup banner fired %d times, want 1", sink.pickupReady)
	}

	// Delivery orders never trigger the pickup banner.
	d := pendingOrder(order.TypeDelivery)
	b.Apply(d)
	b.Apply(withStatus(d, order.StatusPreparing))
	b.Apply(withStatus(d, order.StatusPacked))
	if sink.pickupReady != 1 {
		t.Errorf("delivery order triggered the pickup banner")
	}
}

func TestResyncSeedsPickupFiredForAlreadyPacked(t *testing.T) {
	sink := &recordingSink{}
	b := NewBridge(sink)

	o := withStatus(pendingOrder(order.TypePickup), order.StatusPacked)
	b.Resync([]order.Order{o})

	// A replay of the packed snapshot after resync must not re-fire.
	b.Apply(o)
	if sink.pickupReady != 0 {
		t.Errorf("pickup banner re-fired after resync: %d", sink.pickupReady)
	}
}

func TestTerminalOrdersLeaveWorkingSet(t *testing.T) {
	sink := &recordingSink{}
	b := NewBridge(sink)
	b.Resync(nil)

	o := pendingOrder(order.TypePickup)
	b.Apply(o)
	b.Apply(withStatus(o, order.StatusPreparing))
	b.Apply(withStatus(o, order.StatusPacked))
	b.Apply(withStatus(o, order.StatusDelivered))

	c := pendingOrder(order.TypeDelivery)
	b.Apply(c)
	b.Apply(withStatus(c, order.StatusCancelled))

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.last) != 0 || len(b.pickupFired) != 0 {
		t.Errorf("terminal orders still tracked: last=%d pickupFired=%d", len(b.last), len(b.pickupFired))
	}
}

func TestReorderedDeliveryDropped(t *testing.T) {
	sink := &recordingSink{}
	b := NewBridge(sink)
	b.Resync(nil)

	o := pendingOrder(order.TypeDelivery)
	b.Apply(o)
	b.Apply(withStatus(o, order.StatusPacked))

	// The preparing snapshot arrives late; it must not regress state or
	// fire the accepted reaction.
	b.Apply(withStatus(o, order.StatusPreparing))
	if sink.accepted != 0 {
		t.Errorf("late snapshot fired accepted reaction")
	}

	b.Apply(withStatus(o, order.StatusPacked))
	if sink.ready != 1 {
		t.Errorf("ready reactions = %d, want 1", sink.ready)
	}
}
