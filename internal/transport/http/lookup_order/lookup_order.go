package lookuporder

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

type service interface {
	LookupByCode(ctx context.Context, code string) (*order.Order, error)
}

// LookupOrder handles the order lookup by human-facing code.
func LookupOrder(w http.ResponseWriter, r *http.Request, service service) {
	code := chi.URLParam(r, "code")

	found, err := service.LookupByCode(r.Context(), code)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, found)
}
