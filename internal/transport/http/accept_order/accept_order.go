package acceptorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

type service interface {
	Accept(ctx context.Context, code string, estimatedMinutes int) (*order.Order, error)
}

// acceptOrderRequest represents an accept order request.
type acceptOrderRequest struct {
	EstimatedMinutes int `json:"estimatedMinutes" validate:"gt=0"`
}

// Validate validates the accept order request.
func (r *acceptOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// AcceptOrder handles the kitchen acceptance request. The estimate must
// be one of the preset prep-time options; anything else is rejected
// before the status write.
func AcceptOrder(w http.ResponseWriter, r *http.Request, service service) {
	code := chi.URLParam(r, "code")

	req := acceptOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for accept order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for accept order", "error", err)

		return
	}

	accepted, err := service.Accept(r.Context(), code, req.EstimatedMinutes)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, accepted)
}
