package lookupzone

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/supremewaffle/order-svc/internal/service/models/zone"
	"github.com/supremewaffle/order-svc/internal/transport/http/httperr"
)

type service interface {
	ZoneByPincode(ctx context.Context, pincode string) (*zone.DeliveryZone, error)
}

// LookupZone handles the delivery serviceability check for a pincode.
func LookupZone(w http.ResponseWriter, r *http.Request, service service) {
	pincode := chi.URLParam(r, "pincode")

	found, err := service.ZoneByPincode(r.Context(), pincode)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, found)
}
