package order

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/supremewaffle/order-svc/internal/service/models/currency"
	"github.com/supremewaffle/order-svc/internal/service/models/orderitem"
)

// Type is the fulfilment type of an order.
type Type string

const (
	TypeDelivery Type = "delivery"
	TypePickup   Type = "pickup"
)

var ErrInvalidType = errors.New("invalid order type")

func (t Type) String() string {
	return string(t)
}

func (t Type) Value() (driver.Value, error) {
	return t.String(), nil
}

func ParseType(s string) (Type, error) {
	switch s {
	case TypeDelivery.String():
		return TypeDelivery, nil
	case TypePickup.String():
		return TypePickup, nil
	default:
		return "", ErrInvalidType
	}
}

// PaymentMethod is the payment method declared at checkout. The service
// only records it; there is no gateway integration.
type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCard PaymentMethod = "card"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return m.String(), nil
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case PaymentMethodCOD.String():
		return PaymentMethodCOD, nil
	case PaymentMethodUPI.String():
		return PaymentMethodUPI, nil
	case PaymentMethodCard.String():
		return PaymentMethodCard, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// PaymentStatus tracks payment collection independently of the order
// status; a delivered COD order may remain unpaid in records.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

// Order represents a customer order in the system.
type Order struct {
	ID               uuid.UUID             `json:"id"`
	Code             string                `json:"orderId"`
	UserID           uuid.UUID             `json:"userId"`
	Type             Type                  `json:"orderType"`
	Status           Status                `json:"status"`
	CustomerName     string                `json:"customerName"`
	CustomerPhone    string                `json:"customerPhone"`
	CustomerEmail    string                `json:"customerEmail"`
	Address          string                `json:"address"`
	Pincode          string                `json:"pincode"`
	SubtotalCents    int64                 `json:"subtotalCents"`
	DiscountCents    int64                 `json:"discountCents"`
	DeliveryFeeCents int64                 `json:"deliveryFeeCents"`
	TotalCents       int64                 `json:"totalCents"`
	Currency         currency.Currency     `json:"currency"`
	PaymentMethod    PaymentMethod         `json:"paymentMethod"`
	PaymentStatus    PaymentStatus         `json:"paymentStatus"`
	PlacedAt         time.Time             `json:"placedAt"`
	ExpiresAt        time.Time             `json:"expiresAt"`
	ConfirmedAt      *time.Time            `json:"confirmedAt,omitempty"`
	AcceptedAt       *time.Time            `json:"acceptedAt,omitempty"`
	CompletedAt      *time.Time            `json:"completedAt,omitempty"`
	EstimatedMinutes *int                  `json:"estimatedMinutes,omitempty"`
	QueuePosition    *int                  `json:"queuePosition,omitempty"`
	OrderItems       []orderitem.OrderItem `json:"orderItems"`
}

// Expired reports whether the acceptance deadline has passed at the given
// instant. Only meaningful while the order is still pending.
func (o *Order) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// StatusPatch carries the side-fields written together with a status
// transition. Nil fields are left untouched so accepted_at and
// estimated_minutes are never overwritten by later transitions.
type StatusPatch struct {
	Status             Status
	ConfirmedAt        *time.Time
	AcceptedAt         *time.Time
	CompletedAt        *time.Time
	EstimatedMinutes   *int
	ClearQueuePosition bool
}

// AcceptPatch builds the patch for the pending -> preparing transition:
// confirmed_at and accepted_at are set to the same instant, the estimate is
// recorded and the advisory queue position hint is cleared.
func AcceptPatch(now time.Time, estimatedMinutes int) StatusPatch {
	return StatusPatch{
		Status:             StatusPreparing,
		ConfirmedAt:        &now,
		AcceptedAt:         &now,
		EstimatedMinutes:   &estimatedMinutes,
		ClearQueuePosition: true,
	}
}

// AdvancePatch builds the patch for moving an accepted order one step
// forward in its type-specific flow. Reaching packed records completed_at.
func AdvancePatch(next Status, now time.Time) StatusPatch {
	p := StatusPatch{Status: next}
	if next == StatusPacked {
		p.CompletedAt = &now
	}

	return p
}
