package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/supremewaffle/order-svc/internal/dal/postgres"
	"github.com/supremewaffle/order-svc/internal/service/models/catalog"
)

type CatalogRepository struct {
	conn postgres.Querier
}

func NewCatalogRepository(conn postgres.Querier) *CatalogRepository {
	return &CatalogRepository{
		conn: conn,
	}
}

// ListGroups retrieves all customization groups with their available
// options. The kitchen's catalog is small, so checkout loads it whole.
func (r *CatalogRepository) ListGroups(ctx context.Context) ([]catalog.CustomizationGroup, error) {
	query, args, err := sq.Select(
		"id",
		"name",
		"selection_type",
		"is_required",
	).
		From("customization_groups").
		OrderBy("display_order ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customization groups: %w", err)
	}
	defer rows.Close()

	var groups []catalog.CustomizationGroup
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			g             catalog.CustomizationGroup
			selectionType string
		)
		if err := rows.Scan(&g.ID, &g.Name, &selectionType, &g.IsRequired); err != nil {
			return nil, fmt.Errorf("failed to scan customization group: %w", err)
		}
		g.SelectionType, err = catalog.ParseSelectionType(selectionType)
		if err != nil {
			return nil, err
		}
		index[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	query, args, err = sq.Select(
		"id",
		"group_id",
		"name",
		"price_cents",
		"is_available",
	).
		From("customization_options").
		Where(sq.Eq{"is_available": true}).
		OrderBy("display_order ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	optRows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customization options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var o catalog.Option
		if err := optRows.Scan(&o.ID, &o.GroupID, &o.Name, &o.PriceCents, &o.IsAvailable); err != nil {
			return nil, fmt.Errorf("failed to scan customization option: %w", err)
		}
		if i, ok := index[o.GroupID]; ok {
			groups[i].Options = append(groups[i].Options, o)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return groups, nil
}
