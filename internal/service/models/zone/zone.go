package zone

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotServiceable is returned when no active zone covers a pincode.
var ErrNotServiceable = errors.New("pincode outside delivery zones")

// DeliveryZone is one serviceable pincode with its fee and minimum order.
type DeliveryZone struct {
	ID               uuid.UUID `json:"id"`
	Pincode          string    `json:"pincode"`
	AreaName         string    `json:"areaName"`
	DeliveryFeeCents int64     `json:"deliveryFeeCents"`
	MinOrderCents    int64     `json:"minOrderCents"`
	EstimatedMinutes int       `json:"estimatedMinutes"`
	IsActive         bool      `json:"isActive"`
}
