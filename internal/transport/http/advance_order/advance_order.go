package advanceorder

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

type service interface {
	Advance(ctx context.Context, code string) (*order.Order, error)
}

// AdvanceOrder moves an order one step along its fulfilment flow. The
// next status is derived server-side from the order's type.
func AdvanceOrder(w http.ResponseWriter, r *http.Request, service service) {
	code := chi.URLParam(r, "code")

	advanced, err := service.Advance(r.Context(), code)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, advanced)
}
