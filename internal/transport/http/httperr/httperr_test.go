package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/supremewaffle/order-svc/internal/service/models/offer"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/service/models/zone"
	"github.com/supremewaffle/order-svc/internal/service/services/ordersvc"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"order not found", order.ErrNotFound, http.StatusNotFound},
		{"offer not found", offer.ErrNotFound, http.StatusNotFound},
		{"expired", order.ErrOrderExpired, http.StatusConflict},
		{"lost race", &order.InvalidTransitionError{
			Type: order.TypePickup,
			From: order.StatusPreparing,
			To:   order.StatusPreparing,
		}, http.StatusConflict},
		{"not accepted", ordersvc.ErrNotAccepted, http.StatusConflict},
		{"validation", &ordersvc.ValidationError{Field: "items", Reason: "cart is empty"}, http.StatusBadRequest},
		{"bad estimate", order.ErrInvalidEstimate, http.StatusBadRequest},
		{"not serviceable", zone.ErrNotServiceable, http.StatusBadRequest},
		{"offer not applicable", offer.ErrNotApplicable, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, c.err)
			if rec.Code != c.want {
				t.Errorf("status = %d, want %d", rec.Code, c.want)
			}
		})
	}
}

func TestWriteErrorConflictCarriesCurrentStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, &order.InvalidTransitionError{
		Type: order.TypeDelivery,
		From: order.StatusPacked,
		To:   order.StatusPreparing,
	})

	var body struct {
		Error         string `json:"error"`
		CurrentStatus string `json:"currentStatus"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.CurrentStatus != order.StatusPacked.String() {
		t.Errorf("currentStatus = %q, want packed", body.CurrentStatus)
	}
	if body.Error == "" {
		t.Error("error message must not be empty")
	}
}

func TestWriteErrorExpiredCarriesExpiredStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, order.ErrOrderExpired)

	var body struct {
		CurrentStatus string `json:"currentStatus"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.CurrentStatus != order.StatusExpired.String() {
		t.Errorf("currentStatus = %q, want expired", body.CurrentStatus)
	}
}
