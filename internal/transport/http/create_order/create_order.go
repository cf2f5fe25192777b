package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/service/models/orderitem"
	"github.com/supremewaffle/order-svc/internal/service/services/ordersvc"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	Checkout(ctx context.Context, model ordersvc.CheckoutModel) (*order.Order, error)
}

// customizationInRequest represents one selected option on a cart item.
type customizationInRequest struct {
	GroupName  string `json:"groupName"  validate:"required"`
	OptionName string `json:"optionName" validate:"required"`
	PriceCents int64  `json:"priceCents" validate:"gte=0"`
}

// itemInCreateOrderRequest represents an item in a create order request.
type itemInCreateOrderRequest struct {
	MenuItemID     string                   `json:"menuItemId"     validate:"required,uuid"`
	ItemName       string                   `json:"itemName"       validate:"required"`
	Quantity       int                      `json:"quantity"       validate:"gt=0"`
	UnitPriceCents int64                    `json:"unitPriceCents" validate:"gt=0"`
	Customizations []customizationInRequest `json:"customizations" validate:"dive"`
}

// toModel converts itemInCreateOrderRequest to orderitem.OrderItem.
func (r *itemInCreateOrderRequest) toModel() (*orderitem.OrderItem, error) {
	menuItemID, err := uuid.Parse(r.MenuItemID)
	if err != nil {
		return nil, err
	}

	customizations := make([]orderitem.Customization, len(r.Customizations))
	for i, c := range r.Customizations {
		customizations[i] = orderitem.Customization{
			GroupName:  c.GroupName,
			OptionName: c.OptionName,
			PriceCents: c.PriceCents,
		}
	}

	return &orderitem.OrderItem{
		MenuItemID:     menuItemID,
		ItemName:       r.ItemName,
		Quantity:       r.Quantity,
		UnitPriceCents: r.UnitPriceCents,
		Customizations: customizations,
	}, nil
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	UserID        string                     `json:"userId"        validate:"required,uuid"`
	CustomerName  string                     `json:"customerName"  validate:"required"`
	CustomerPhone string                     `json:"customerPhone" validate:"required"`
	CustomerEmail string                     `json:"customerEmail" validate:"omitempty,email"`
	OrderType     string                     `json:"orderType"     validate:"required,oneof=delivery pickup"`
	Address       string                     `json:"address"`
	Pincode       string                     `json:"pincode"`
	PaymentMethod string                     `json:"paymentMethod" validate:"required"`
	OfferCode     string                     `json:"offerCode"`
	Items         []itemInCreateOrderRequest `json:"items"         validate:"required,min=1,dive"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts createOrderRequest to ordersvc.CheckoutModel.
func (r *createOrderRequest) toModel() (*ordersvc.CheckoutModel, error) {
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, err
	}

	orderType, err := order.ParseType(r.OrderType)
	if err != nil {
		return nil, err
	}

	paymentMethod, err := order.ParsePaymentMethod(r.PaymentMethod)
	if err != nil {
		return nil, err
	}

	items := make([]orderitem.OrderItem, len(r.Items))
	for i := range r.Items {
		item, err := r.Items[i].toModel()
		if err != nil {
			return nil, err
		}
		items[i] = *item
	}

	return &ordersvc.CheckoutModel{
		UserID:        userID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Type:          orderType,
		Address:       r.Address,
		Pincode:       r.Pincode,
		PaymentMethod: paymentMethod,
		OfferCode:     r.OfferCode,
		Items:         items,
	}, nil
}

// CreateOrder handles the checkout request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	model, err := req.toModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error converting create order request to model", "error", err)

		return
	}

	created, err := service.Checkout(r.Context(), *model)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusCreated, created)
}
