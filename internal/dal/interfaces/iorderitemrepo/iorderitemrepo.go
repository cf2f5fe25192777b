package iorderitemrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/supremewaffle/order-svc/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for the order item postgres repository.
type IOrderItemRepository interface {
	BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)
	ListByOrderIds(ctx context.Context, orderIds []uuid.UUID) ([]orderitem.OrderItem, error)
}
