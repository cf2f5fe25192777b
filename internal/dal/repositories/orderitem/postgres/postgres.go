package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/supremewaffle/order-svc/internal/dal/postgres"
	"github.com/supremewaffle/order-svc/internal/service/models/orderitem"
)

// OrderItemDal represents the order item data access layer model. The
// customization snapshot is stored as jsonb.
type OrderItemDal struct {
	Id             uuid.UUID `db:"id"`
	OrderId        uuid.UUID `db:"order_id"`
	MenuItemId     uuid.UUID `db:"menu_item_id"`
	ItemName       string    `db:"item_name"`
	Quantity       int       `db:"quantity"`
	UnitPriceCents int64     `db:"unit_price_cents"`
	Customizations []byte    `db:"customizations"`
}

// ToModel converts OrderItemDal to the service layer OrderItem model.
func (d *OrderItemDal) ToModel() (*orderitem.OrderItem, error) {
	customizations := []orderitem.Customization{}
	if len(d.Customizations) > 0 {
		if err := json.Unmarshal(d.Customizations, &customizations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal customizations: %w", err)
		}
	}

	return &orderitem.OrderItem{
		ID:             d.Id,
		OrderID:        d.OrderId,
		MenuItemID:     d.MenuItemId,
		ItemName:       d.ItemName,
		Quantity:       d.Quantity,
		UnitPriceCents: d.UnitPriceCents,
		Customizations: customizations,
	}, nil
}

type OrderItemRepository struct {
	conn postgres.Querier
}

func NewOrderItemRepository(conn postgres.Querier) *OrderItemRepository {
	return &OrderItemRepository{
		conn: conn,
	}
}

// BulkInsert inserts the items of an order. Runs inside the checkout
// transaction so an order never exists without its items.
func (r *OrderItemRepository) BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	if len(items) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	builder := sq.Insert("order_items").
		Columns(
			"order_id",
			"menu_item_id",
			"item_name",
			"quantity",
			"unit_price_cents",
			"customizations",
		)

	for _, item := range items {
		customizations, err := json.Marshal(item.Customizations)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal customizations: %w", err)
		}
		builder = builder.Values(
			item.OrderID,
			item.MenuItemID,
			item.ItemName,
			item.Quantity,
			item.UnitPriceCents,
			customizations,
		)
	}

	query, args, err := builder.
		Suffix("RETURNING id, order_id, menu_item_id, item_name, quantity, unit_price_cents, customizations").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListByOrderIds retrieves the items of the given orders.
func (r *OrderItemRepository) ListByOrderIds(ctx context.Context, orderIds []uuid.UUID) ([]orderitem.OrderItem, error) {
	if len(orderIds) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	query, args, err := sq.Select(
		"id",
		"order_id",
		"menu_item_id",
		"item_name",
		"quantity",
		"unit_price_cents",
		"customizations",
	).
		From("order_items").
		Where(sq.Eq{"order_id": orderIds}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]orderitem.OrderItem, error) {
	var result []orderitem.OrderItem
	for rows.Next() {
		dal := OrderItemDal{}
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.MenuItemId,
			&dal.ItemName,
			&dal.Quantity,
			&dal.UnitPriceCents,
			&dal.Customizations,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order item dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
