package iofferrepo

import (
	"context"

	"github.com/supremewaffle/order-svc/internal/service/models/offer"
)

// IOfferRepository is an interface for the offer postgres repository.
type IOfferRepository interface {
	GetByCode(ctx context.Context, code string) (*offer.Offer, error)
}
