package orderitem

import (
	"github.com/google/uuid"
)

// Customization is an immutable snapshot of one selected option. Orders
// keep their own copy so history stays accurate even if the menu's
// customization config later changes.
type Customization struct {
	GroupName  string `json:"group_name"`
	OptionName string `json:"option_name"`
	PriceCents int64  `json:"price_cents"`
}

// OrderItem represents a purchased line within an order. It is created
// atomically with its order and never mutated afterwards.
type OrderItem struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        uuid.UUID       `json:"orderId"`
	MenuItemID     uuid.UUID       `json:"menuItemId"`
	ItemName       string          `json:"itemName"`
	Quantity       int             `json:"quantity"`
	UnitPriceCents int64           `json:"unitPriceCents"`
	Customizations []Customization `json:"customizations"`
}

// LineTotalCents is the unit price plus selected customizations,
// multiplied by quantity.
func (i OrderItem) LineTotalCents() int64 {
	unit := i.UnitPriceCents
	for _, c := range i.Customizations {
		unit += c.PriceCents
	}

	return unit * int64(i.Quantity)
}
