package httperr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/supremewaffle/order-svc/internal/service/models/offer"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/service/models/zone"
	"github.com/supremewaffle/order-svc/internal/service/services/ordersvc"
)

// errorResponse is the JSON body sent for every failed request.
type errorResponse struct {
	Error         string `json:"error"`
	CurrentStatus string `json:"currentStatus,omitempty"`
}

// WriteError maps service errors onto HTTP status codes. Conflicts carry
// the order's current status so clients can refresh instead of retrying.
func WriteError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var transitionErr *order.InvalidTransitionError
	var validationErr *ordersvc.ValidationError

	switch {
	case errors.Is(err, order.ErrNotFound), errors.Is(err, offer.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, order.ErrOrderExpired):
		status = http.StatusConflict
		resp.CurrentStatus = order.StatusExpired.String()
	case errors.As(err, &transitionErr):
		status = http.StatusConflict
		resp.CurrentStatus = transitionErr.From.String()
	case errors.Is(err, ordersvc.ErrNotAccepted):
		status = http.StatusConflict
	case errors.As(err, &validationErr),
		errors.Is(err, order.ErrInvalidEstimate),
		errors.Is(err, zone.ErrNotServiceable),
		errors.Is(err, offer.ErrNotApplicable):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		slog.Error("Error sending error response", "error", encodeErr)
	}
}

// WriteJSON writes v as the JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
