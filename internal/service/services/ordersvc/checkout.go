package ordersvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/supremewaffle/order-svc/internal/dal/postgres"
	"github.com/supremewaffle/order-svc/internal/service/models/catalog"
	"github.com/supremewaffle/order-svc/internal/service/models/currency"
	"github.com/supremewaffle/order-svc/internal/service/models/offer"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/service/models/orderitem"
	"github.com/supremewaffle/order-svc/internal/service/models/zone"
	"go.opentelemetry.io/otel"
)

// ValidationError rejects a checkout before any row is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// CheckoutModel carries the validated-cart inputs for order creation.
type CheckoutModel struct {
	UserID        uuid.UUID
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Type          order.Type
	Address       string
	Pincode       string
	PaymentMethod order.PaymentMethod
	OfferCode     string
	Items         []orderitem.OrderItem
}

// Checkout validates the cart and creates the order with its items in a
// single transaction. The human-facing code is regenerated on collision.
// A pending order expires if the kitchen does not accept it within the
// grace window; the deadline is fixed here and never recomputed.
func (s *OrderService) Checkout(ctx context.Context, model CheckoutModel) (*order.Order, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.Checkout")
	defer span.End()

	if err := s.validateCart(ctx, model); err != nil {
		return nil, err
	}

	var subtotal int64
	for _, item := range model.Items {
		subtotal += item.LineTotalCents()
	}

	var deliveryFee int64
	if model.Type == order.TypeDelivery {
		z, err := s.zoneRepo.GetActiveByPincode(ctx, model.Pincode)
		if errors.Is(err, zone.ErrNotServiceable) {
			return nil, &ValidationError{Field: "pincode", Reason: "outside active delivery zones"}
		}
		if err != nil {
			return nil, err
		}
		if subtotal < z.MinOrderCents {
			return nil, &ValidationError{Field: "subtotal", Reason: "below minimum order for this area"}
		}
		deliveryFee = z.DeliveryFeeCents
	}

	var discount int64
	if model.OfferCode != "" {
		off, err := s.offerRepo.GetByCode(ctx, model.OfferCode)
		if errors.Is(err, offer.ErrNotFound) {
			return nil, &ValidationError{Field: "offerCode", Reason: "unknown coupon code"}
		}
		if err != nil {
			return nil, err
		}
		if err := off.Applicable(subtotal, s.now()); err != nil {
			return nil, &ValidationError{Field: "offerCode", Reason: "coupon not applicable"}
		}
		discount = off.DiscountCents(subtotal)
	}

	now := s.now()
	o := order.Order{
		UserID:           model.UserID,
		Type:             model.Type,
		Status:           order.StatusPending,
		CustomerName:     model.CustomerName,
		CustomerPhone:    model.CustomerPhone,
		CustomerEmail:    model.CustomerEmail,
		Address:          model.Address,
		Pincode:          model.Pincode,
		SubtotalCents:    subtotal,
		DiscountCents:    discount,
		DeliveryFeeCents: deliveryFee,
		TotalCents:       subtotal - discount + deliveryFee,
		Currency:         currency.CurrencyINR,
		PaymentMethod:    model.PaymentMethod,
		PaymentStatus:    order.PaymentStatusUnpaid,
		PlacedAt:         now,
		ExpiresAt:        now.Add(s.grace),
	}
	if model.Type == order.TypePickup {
		o.Address = ""
		o.Pincode = ""
	}

	return s.insertWithRetry(ctx, o, model.Items)
}

// insertWithRetry creates the order and its items atomically, retrying
// the whole transaction with a fresh code on a unique violation. The
// first attempts stay in the 4-digit code space; once that proves
// crowded the code widens to five digits instead of failing the
// checkout.
func (s *OrderService) insertWithRetry(
	ctx context.Context,
	o order.Order,
	items []orderitem.OrderItem,
) (*order.Order, error) {
	var lastErr error

	for attempt := 0; attempt < 2*codeAttempts; attempt++ {
		o.Code = s.newCode(attempt / codeAttempts)

		work := s.newUOW()
		if err := work.Begin(ctx); err != nil {
			return nil, err
		}

		inserted, err := work.OrderRepository().Insert(ctx, o)
		if err != nil {
			_ = work.Rollback(ctx)
			if postgres.IsUniqueViolation(err) {
				lastErr = err

				continue
			}

			return nil, err
		}

		for i := range items {
			items[i].OrderID = inserted.ID
		}
		insertedItems, err := work.OrderItemRepository().BulkInsert(ctx, items)
		if err != nil {
			_ = work.Rollback(ctx)

			return nil, err
		}
		inserted.OrderItems = insertedItems

		if err := s.enqueueSnapshot(ctx, work.OutboxRepository(), inserted, "order.created"); err != nil {
			_ = work.Rollback(ctx)

			return nil, err
		}

		if err := work.Commit(ctx); err != nil {
			return nil, err
		}

		return inserted, nil
	}

	return nil, fmt.Errorf("failed to allocate order code: %w", lastErr)
}

func (s *OrderService) validateCart(ctx context.Context, model CheckoutModel) error {
	if len(model.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "cart is empty"}
	}
	if model.CustomerName == "" || model.CustomerPhone == "" {
		return &ValidationError{Field: "customer", Reason: "name and phone are required"}
	}
	if model.Type == order.TypeDelivery && (model.Address == "" || model.Pincode == "") {
		return &ValidationError{Field: "address", Reason: "delivery orders require address and pincode"}
	}
	for _, item := range model.Items {
		if item.Quantity < 1 {
			return &ValidationError{Field: "items", Reason: "quantity must be at least 1"}
		}
	}

	groups, err := s.catalogRepo.ListGroups(ctx)
	if err != nil {
		return err
	}

	return validateCustomizations(groups, model.Items)
}

// validateCustomizations enforces the catalog's selection rules on the
// snapshot each cart line carries: required groups must be selected,
// single groups at most once, and every selection must match an
// available option of its group.
func validateCustomizations(groups []catalog.CustomizationGroup, items []orderitem.OrderItem) error {
	byName := map[string]*catalog.CustomizationGroup{}
	for i := range groups {
		byName[groups[i].Name] = &groups[i]
	}

	for _, item := range items {
		selected := map[string]int{}
		for _, c := range item.Customizations {
			g, ok := byName[c.GroupName]
			if !ok {
				return &ValidationError{Field: "customizations", Reason: "unknown group " + c.GroupName}
			}
			opt, ok := g.Option(c.OptionName)
			if !ok {
				return &ValidationError{Field: "customizations", Reason: "unknown option " + c.OptionName}
			}
			if opt.PriceCents != c.PriceCents {
				return &ValidationError{Field: "customizations", Reason: "stale option price for " + c.OptionName}
			}
			selected[c.GroupName]++
		}

		for i := range groups {
			g := &groups[i]
			if g.IsRequired && selected[g.Name] == 0 {
				return &ValidationError{Field: "customizations", Reason: "required group " + g.Name + " not selected"}
			}
			if g.SelectionType == catalog.SelectionSingle && selected[g.Name] > 1 {
				return &ValidationError{Field: "customizations", Reason: "group " + g.Name + " allows a single option"}
			}
		}
	}

	return nil
}
