package notifier

import (
	"log/slog"

	"github.com/supremewaffle/order-svc/internal/service/models/order"
)

// SlogSink logs reactions instead of rendering them; the UI client is a
// separate consumer of the same feed.
type SlogSink struct{}

func (SlogSink) NewOrderAlert(o order.Order) {
	slog.Info("New order in queue", "code", o.Code, "type", o.Type.String())
}

func (SlogSink) OrderAccepted(o order.Order) {
	slog.Info("Order accepted", "code", o.Code, "estimated_minutes", o.EstimatedMinutes)
}

func (SlogSink) OrderReady(o order.Order) {
	slog.Info("Order ready", "code", o.Code)
}

func (SlogSink) PickupReady(o order.Order) {
	slog.Info("Pickup order awaiting collection", "code", o.Code)
}
