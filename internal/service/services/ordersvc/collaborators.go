package ordersvc

import (
	"context"

	"github.com/supremewaffle/order-svc/internal/service/models/offer"
	"github.com/supremewaffle/order-svc/internal/service/models/zone"
)

// ZoneByPincode resolves the active delivery zone for a pincode, for the
// checkout UI to preview fees and minimum order.
func (s *OrderService) ZoneByPincode(ctx context.Context, pincode string) (*zone.DeliveryZone, error) {
	return s.zoneRepo.GetActiveByPincode(ctx, pincode)
}

// ValidateOffer checks a coupon against a subtotal and returns the offer
// with the discount it would grant.
func (s *OrderService) ValidateOffer(ctx context.Context, code string, subtotalCents int64) (*offer.Offer, int64, error) {
	off, err := s.offerRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, 0, err
	}
	if err := off.Applicable(subtotalCents, s.now()); err != nil {
		return nil, 0, err
	}

	return off, off.DiscountCents(subtotalCents), nil
}
