package kitchenboard

import (
	"context"
	"net/http"

	"github.com/supremewaffle/order-svc/internal/service/services/ordersvc"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

type service interface {
	KitchenBoard(ctx context.Context) (*ordersvc.Board, error)
}

// KitchenBoard handles the kitchen dashboard request.
func KitchenBoard(w http.ResponseWriter, r *http.Request, service service) {
	board, err := service.KitchenBoard(r.Context())
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, board)
}
