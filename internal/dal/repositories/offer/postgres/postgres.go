package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/supremewaffle/order-svc/internal/dal/postgres"
	"github.com/supremewaffle/order-svc/internal/service/models/offer"
)

type OfferRepository struct {
	conn postgres.Querier
}

func NewOfferRepository(conn postgres.Querier) *OfferRepository {
	return &OfferRepository{
		conn: conn,
	}
}

// GetByCode retrieves an offer by its coupon code. Applicability is the
// caller's concern; unknown codes map to offer.ErrNotFound.
func (r *OfferRepository) GetByCode(ctx context.Context, code string) (*offer.Offer, error) {
	query, args, err := sq.Select(
		"id",
		"title",
		"code",
		"discount_type",
		"discount_value",
		"min_order_cents",
		"valid_from",
		"valid_until",
		"is_active",
	).
		From("offers").
		Where(sq.Eq{"code": code}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var (
		o            offer.Offer
		discountType string
	)
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&o.ID,
		&o.Title,
		&o.Code,
		&discountType,
		&o.DiscountValue,
		&o.MinOrderCents,
		&o.ValidFrom,
		&o.ValidUntil,
		&o.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, offer.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query offer: %w", err)
	}

	o.DiscountType, err = offer.ParseDiscountType(discountType)
	if err != nil {
		return nil, err
	}

	return &o, nil
}
