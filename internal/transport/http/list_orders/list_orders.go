package listorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

type service interface {
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

type queryOrdersRequest struct {
	Ids      []string `schema:"ids,omitempty"`
	UserIds  []string `schema:"userIds,omitempty"`
	Statuses []string `schema:"statuses,omitempty"`
	Limit    int      `schema:"limit,omitempty"`
	Offset   int      `schema:"offset,omitempty"`
	Newest   bool     `schema:"newest,omitempty"`
}

func (q *queryOrdersRequest) ToModel() (*order.QueryOrdersModel, error) {
	ids := make([]uuid.UUID, 0, len(q.Ids))
	for _, raw := range q.Ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	userIds := make([]uuid.UUID, 0, len(q.UserIds))
	for _, raw := range q.UserIds {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		userIds = append(userIds, id)
	}

	statuses := make([]order.Status, 0, len(q.Statuses))
	for _, raw := range q.Statuses {
		status, err := order.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}

	return &order.QueryOrdersModel{
		Ids:          ids,
		UserIds:      userIds,
		Statuses:     statuses,
		Limit:        q.Limit,
		Offset:       q.Offset,
		PlacedAtDesc: q.Newest,
	}, nil
}

func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	model, err := query.ToModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error parsing query filters", "error", err)

		return
	}

	orders, err := service.GetOrders(r.Context(), model)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, orders)
}
