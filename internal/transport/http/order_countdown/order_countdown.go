package ordercountdown

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/supremewaffle/order-svc/internal/service/services/ordersvc"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

type service interface {
	Countdown(ctx context.Context, code string) (*ordersvc.CountdownSnapshot, error)
}

// OrderCountdown handles the prep countdown request for an accepted order.
func OrderCountdown(w http.ResponseWriter, r *http.Request, service service) {
	code := chi.URLParam(r, "code")

	snapshot, err := service.Countdown(r.Context(), code)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, snapshot)
}
