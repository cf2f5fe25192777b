package cancelorder

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

type service interface {
	Cancel(ctx context.Context, code string) (*order.Order, error)
}

// CancelOrder handles the cancel request. Cancelling an order that is
// already cancelled succeeds without a second write.
func CancelOrder(w http.ResponseWriter, r *http.Request, service service) {
	code := chi.URLParam(r, "code")

	cancelled, err := service.Cancel(r.Context(), code)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, cancelled)
}
