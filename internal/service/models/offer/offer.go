package offer

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

var (
	ErrInvalidDiscountType = errors.New("invalid discount type")

	// ErrNotApplicable is returned when an offer exists but cannot be
	// applied: outside its validity window, inactive or below the
	// minimum order.
	ErrNotApplicable = errors.New("offer not applicable")

	// ErrNotFound is returned for an unknown offer code.
	ErrNotFound = errors.New("offer not found")
)

func (t DiscountType) String() string {
	return string(t)
}

func (t DiscountType) Value() (driver.Value, error) {
	return t.String(), nil
}

func ParseDiscountType(s string) (DiscountType, error) {
	switch s {
	case DiscountPercentage.String():
		return DiscountPercentage, nil
	case DiscountFlat.String():
		return DiscountFlat, nil
	default:
		return "", ErrInvalidDiscountType
	}
}

// Offer is a coupon applicable at checkout.
type Offer struct {
	ID            uuid.UUID    `json:"id"`
	Title         string       `json:"title"`
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue int64        `json:"discountValue"`
	MinOrderCents int64        `json:"minOrderCents"`
	ValidFrom     time.Time    `json:"validFrom"`
	ValidUntil    time.Time    `json:"validUntil"`
	IsActive      bool         `json:"isActive"`
}

// Applicable checks activity, validity window and minimum order.
func (o *Offer) Applicable(subtotalCents int64, now time.Time) error {
	if !o.IsActive || now.Before(o.ValidFrom) || now.After(o.ValidUntil) {
		return ErrNotApplicable
	}
	if subtotalCents < o.MinOrderCents {
		return ErrNotApplicable
	}

	return nil
}

// DiscountCents computes the discount for the given subtotal. Percentage
// values are whole percents; the result never exceeds the subtotal.
func (o *Offer) DiscountCents(subtotalCents int64) int64 {
	var d int64
	switch o.DiscountType {
	case DiscountPercentage:
		d = subtotalCents * o.DiscountValue / 100
	case DiscountFlat:
		d = o.DiscountValue
	}
	if d > subtotalCents {
		d = subtotalCents
	}

	return d
}
