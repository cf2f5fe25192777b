package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/supremewaffle/order-svc/internal/dal/postgres"
	"github.com/supremewaffle/order-svc/internal/service/models/currency"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/service/models/orderitem"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id               uuid.UUID  `db:"id"`
	Code             string     `db:"code"`
	UserId           uuid.UUID  `db:"user_id"`
	OrderType        string     `db:"order_type"`
	Status           string     `db:"status"`
	CustomerName     string     `db:"customer_name"`
	CustomerPhone    string     `db:"customer_phone"`
	CustomerEmail    string     `db:"customer_email"`
	Address          string     `db:"address"`
	Pincode          string     `db:"pincode"`
	SubtotalCents    int64      `db:"subtotal_cents"`
	DiscountCents    int64      `db:"discount_cents"`
	DeliveryFeeCents int64      `db:"delivery_fee_cents"`
	TotalCents       int64      `db:"total_cents"`
	Currency         string     `db:"currency"`
	PaymentMethod    string     `db:"payment_method"`
	PaymentStatus    string     `db:"payment_status"`
	PlacedAt         time.Time  `db:"placed_at"`
	ExpiresAt        time.Time  `db:"expires_at"`
	ConfirmedAt      *time.Time `db:"confirmed_at"`
	AcceptedAt       *time.Time `db:"accepted_at"`
	CompletedAt      *time.Time `db:"completed_at"`
	EstimatedMinutes *int       `db:"estimated_minutes"`
	QueuePosition    *int       `db:"queue_position"`
}

var orderColumns = []string{
	"id",
	"code",
	"user_id",
	"order_type",
	"status",
	"customer_name",
	"customer_phone",
	"customer_email",
	"address",
	"pincode",
	"subtotal_cents",
	"discount_cents",
	"delivery_fee_cents",
	"total_cents",
	"currency",
	"payment_method",
	"payment_status",
	"placed_at",
	"expires_at",
	"confirmed_at",
	"accepted_at",
	"completed_at",
	"estimated_minutes",
	"queue_position",
}

func (d *OrderDal) scanFields() []any {
	return []any{
		&d.Id,
		&d.Code,
		&d.UserId,
		&d.OrderType,
		&d.Status,
		&d.CustomerName,
		&d.CustomerPhone,
		&d.CustomerEmail,
		&d.Address,
		&d.Pincode,
		&d.SubtotalCents,
		&d.DiscountCents,
		&d.DeliveryFeeCents,
		&d.TotalCents,
		&d.Currency,
		&d.PaymentMethod,
		&d.PaymentStatus,
		&d.PlacedAt,
		&d.ExpiresAt,
		&d.ConfirmedAt,
		&d.AcceptedAt,
		&d.CompletedAt,
		&d.EstimatedMinutes,
		&d.QueuePosition,
	}
}

// ToModel converts OrderDal to the service layer Order model.
func (d *OrderDal) ToModel() (*order.Order, error) {
	typ, err := order.ParseType(d.OrderType)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(d.Status)
	if err != nil {
		return nil, err
	}
	cur, err := currency.ParseCurrency(d.Currency)
	if err != nil {
		return nil, err
	}
	method, err := order.ParsePaymentMethod(d.PaymentMethod)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:               d.Id,
		Code:             d.Code,
		UserID:           d.UserId,
		Type:             typ,
		Status:           status,
		CustomerName:     d.CustomerName,
		CustomerPhone:    d.CustomerPhone,
		CustomerEmail:    d.CustomerEmail,
		Address:          d.Address,
		Pincode:          d.Pincode,
		SubtotalCents:    d.SubtotalCents,
		DiscountCents:    d.DiscountCents,
		DeliveryFeeCents: d.DeliveryFeeCents,
		TotalCents:       d.TotalCents,
		Currency:         cur,
		PaymentMethod:    method,
		PaymentStatus:    order.PaymentStatus(d.PaymentStatus),
		PlacedAt:         d.PlacedAt,
		ExpiresAt:        d.ExpiresAt,
		ConfirmedAt:      d.ConfirmedAt,
		AcceptedAt:       d.AcceptedAt,
		CompletedAt:      d.CompletedAt,
		EstimatedMinutes: d.EstimatedMinutes,
		QueuePosition:    d.QueuePosition,
		OrderItems:       []orderitem.OrderItem{},
	}, nil
}

type OrderRepository struct {
	conn postgres.Querier
}

func NewOrderRepository(conn postgres.Querier) *OrderRepository {
	return &OrderRepository{
		conn: conn,
	}
}

// Insert creates an order row. The caller supplies the human-facing code;
// a collision surfaces as a unique violation the service retries with a
// fresh code.
func (r *OrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns(
			"code",
			"user_id",
			"order_type",
			"status",
			"customer_name",
			"customer_phone",
			"customer_email",
			"address",
			"pincode",
			"subtotal_cents",
			"discount_cents",
			"delivery_fee_cents",
			"total_cents",
			"currency",
			"payment_method",
			"payment_status",
			"placed_at",
			"expires_at",
		).
		Values(
			o.Code,
			o.UserID,
			o.Type.String(),
			o.Status.String(),
			o.CustomerName,
			o.CustomerPhone,
			o.CustomerEmail,
			o.Address,
			o.Pincode,
			o.SubtotalCents,
			o.DiscountCents,
			o.DeliveryFeeCents,
			o.TotalCents,
			o.Currency.String(),
			o.PaymentMethod.String(),
			o.PaymentStatus.String(),
			o.PlacedAt,
			o.ExpiresAt,
		).
		Suffix("RETURNING " + columnList()).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	return r.scanOne(ctx, query, args)
}

// GetByID retrieves an order by its internal id.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.scanOne(ctx, query, args)
}

// GetByCode retrieves an order by its human-facing code.
func (r *OrderRepository) GetByCode(ctx context.Context, code string) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"code": code}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.scanOne(ctx, query, args)
}

// Query retrieves orders matching the filter, FIFO by placed_at unless
// the filter asks for newest first.
func (r *OrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).From("orders")

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.UserIds) > 0 {
		builder = builder.Where(sq.Eq{"user_id": filter.UserIds})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = s.String()
		}
		builder = builder.Where(sq.Eq{"status": statuses})
	}
	if filter.PlacedAtFrom != nil {
		builder = builder.Where(sq.GtOrEq{"placed_at": *filter.PlacedAtFrom})
	}

	if filter.PlacedAtDesc {
		builder = builder.OrderBy("placed_at DESC")
	} else {
		builder = builder.OrderBy("placed_at ASC")
	}

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// UpdateStatus applies a transition patch guarded by the expected current
// status. Returns false when zero rows were affected, meaning another
// writer got there first.
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from order.Status,
	patch order.StatusPatch,
) (bool, error) {
	builder := sq.Update("orders").
		Set("status", patch.Status.String()).
		Where(sq.Eq{"id": id, "status": from.String()})

	if patch.ConfirmedAt != nil {
		builder = builder.Set("confirmed_at", *patch.ConfirmedAt)
	}
	if patch.AcceptedAt != nil {
		builder = builder.Set("accepted_at", *patch.AcceptedAt)
	}
	if patch.CompletedAt != nil {
		builder = builder.Set("completed_at", *patch.CompletedAt)
	}
	if patch.EstimatedMinutes != nil {
		builder = builder.Set("estimated_minutes", *patch.EstimatedMinutes)
	}
	if patch.ClearQueuePosition {
		builder = builder.Set("queue_position", nil)
	}

	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkPaid flips payment_status to paid. Independent of order status.
func (r *OrderRepository) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	query, args, err := sq.Update("orders").
		Set("payment_status", order.PaymentStatusPaid.String()).
		Where(sq.Eq{"id": id, "payment_status": order.PaymentStatusUnpaid.String()}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// CountPendingBefore counts pending orders placed strictly earlier.
// Queue position is always recomputed from this, never read back from
// the stored hint.
func (r *OrderRepository) CountPendingBefore(ctx context.Context, placedAt time.Time) (int, error) {
	query, args, err := sq.Select("count(*)").
		From("orders").
		Where(sq.Eq{"status": order.StatusPending.String()}).
		Where(sq.Lt{"placed_at": placedAt}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending orders: %w", err)
	}

	return count, nil
}

// ExpireOverdue transitions all pending orders past their deadline to
// expired and returns them.
func (r *OrderRepository) ExpireOverdue(ctx context.Context, now time.Time) ([]order.Order, error) {
	query, args, err := sq.Update("orders").
		Set("status", order.StatusExpired.String()).
		Where(sq.Eq{"status": order.StatusPending.String()}).
		Where(sq.LtOrEq{"expires_at": now}).
		Suffix("RETURNING " + columnList()).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build expire query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to expire overdue orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *OrderRepository) scanOne(ctx context.Context, query string, args []any) (*order.Order, error) {
	dal := OrderDal{}
	err := r.conn.QueryRow(ctx, query, args...).Scan(dal.scanFields()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, order.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	return dal.ToModel()
}

func scanOrders(rows pgx.Rows) ([]order.Order, error) {
	var result []order.Order
	for rows.Next() {
		dal := OrderDal{}
		if err := rows.Scan(dal.scanFields()...); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func columnList() string {
	list := ""
	for i, c := range orderColumns {
		if i > 0 {
			list += ", "
		}
		list += c
	}

	return list
}
