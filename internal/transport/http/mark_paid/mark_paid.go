package markpaid

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

type service interface {
	MarkPaid(ctx context.Context, code string) (*order.Order, error)
}

// MarkPaid records payment collection for an order. Repeated calls are
// no-ops.
func MarkPaid(w http.ResponseWriter, r *http.Request, service service) {
	code := chi.URLParam(r, "code")

	paid, err := service.MarkPaid(r.Context(), code)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, paid)
}
