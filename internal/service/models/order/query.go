package order

import (
	"time"

	"github.com/google/uuid"
)

// QueryOrdersModel represents filter parameters for querying orders.
type QueryOrdersModel struct {
	Ids      []uuid.UUID `json:"ids,omitempty"`
	UserIds  []uuid.UUID `json:"userIds,omitempty"`
	Statuses []Status    `json:"statuses,omitempty"`
	Limit    int         `json:"limit,omitempty"`
	Offset   int         `json:"offset,omitempty"`

	// PlacedAtFrom bounds the result to orders placed at or after the
	// given instant, so history-heavy views stay off old rows.
	PlacedAtFrom *time.Time `json:"placedAtFrom,omitempty"`

	// PlacedAtDesc flips the default FIFO ordering (placed_at asc) to
	// newest-first for history views.
	PlacedAtDesc bool `json:"placedAtDesc,omitempty"`
}
