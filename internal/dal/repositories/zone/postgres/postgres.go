package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/supremewaffle/order-svc/internal/dal/postgres"
	"github.com/supremewaffle/order-svc/internal/service/models/zone"
)

type ZoneRepository struct {
	conn postgres.Querier
}

func NewZoneRepository(conn postgres.Querier) *ZoneRepository {
	return &ZoneRepository{
		conn: conn,
	}
}

// GetActiveByPincode retrieves the active delivery zone for a pincode.
func (r *ZoneRepository) GetActiveByPincode(ctx context.Context, pincode string) (*zone.DeliveryZone, error) {
	query, args, err := sq.Select(
		"id",
		"pincode",
		"area_name",
		"delivery_fee_cents",
		"min_order_cents",
		"estimated_minutes",
		"is_active",
	).
		From("delivery_zones").
		Where(sq.Eq{"pincode": pincode, "is_active": true}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var z zone.DeliveryZone
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&z.ID,
		&z.Pincode,
		&z.AreaName,
		&z.DeliveryFeeCents,
		&z.MinOrderCents,
		&z.EstimatedMinutes,
		&z.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, zone.ErrNotServiceable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery zone: %w", err)
	}

	return &z, nil
}
