package izonerepo

import (
	"context"

	"github.com/supremewaffle/order-svc/internal/service/models/zone"
)

// IZoneRepository is an interface for the delivery zone postgres repository.
type IZoneRepository interface {
	GetActiveByPincode(ctx context.Context, pincode string) (*zone.DeliveryZone, error)
}
