package validateoffer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/supremewaffle/order-svc/internal/service/models/offer"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

type service interface {
	ValidateOffer(ctx context.Context, code string, subtotalCents int64) (*offer.Offer, int64, error)
}

// validateOfferRequest represents a validate offer request.
type validateOfferRequest struct {
	Code          string `json:"code"          validate:"required"`
	SubtotalCents int64  `json:"subtotalCents" validate:"gt=0"`
}

// Validate validates the validate offer request.
func (r *validateOfferRequest) Validate() error {
	return validator.New().Struct(r)
}

type validateOfferResponse struct {
	Offer         *offer.Offer `json:"offer"`
	DiscountCents int64        `json:"discountCents"`
}

// ValidateOffer checks an offer code against a cart subtotal and returns
// the discount it would apply.
func ValidateOffer(w http.ResponseWriter, r *http.Request, service service) {
	req := validateOfferRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for validate offer", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for validate offer", "error", err)

		return
	}

	found, discount, err := service.ValidateOffer(r.Context(), req.Code, req.SubtotalCents)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, validateOfferResponse{
		Offer:         found,
		DiscountCents: discount,
	})
}
