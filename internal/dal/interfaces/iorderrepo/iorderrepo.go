package iorderrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
//
// UpdateStatus is the single write path for status transitions: it is a
// conditional update guarded by the expected current status, so of two
// concurrent writers exactly one succeeds and the other observes false.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (*order.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	GetByCode(ctx context.Context, code string) (*order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from order.Status, patch order.StatusPatch) (bool, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (bool, error)
	CountPendingBefore(ctx context.Context, placedAt time.Time) (int, error)
	ExpireOverdue(ctx context.Context, now time.Time) ([]order.Order, error)
}
