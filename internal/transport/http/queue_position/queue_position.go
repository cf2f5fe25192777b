package queueposition

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

type service interface {
	QueueAhead(ctx context.Context, code string) (int, error)
}

type queuePositionResponse struct {
	OrdersAhead int `json:"ordersAhead"`
}

// QueuePosition reports how many pending orders were placed before this
// one. Accepted and terminal orders always report zero.
func QueuePosition(w http.ResponseWriter, r *http.Request, service service) {
	code := chi.URLParam(r, "code")

	ahead, err := service.QueueAhead(r.Context(), code)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, queuePositionResponse{OrdersAhead: ahead})
}
