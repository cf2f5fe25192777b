package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	"github.com/supremewaffle/order-svc/internal/service/models/offer"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/service/models/zone"
	"github.com/supremewaffle/order-svc/internal/service/services/ordersvc"
	acceptorder "github.com/supremewaffle/order-svc/internal/transport/http/accept_order"
	advanceorder "github.com/supremewaffle/order-svc/internal/transport/http/advance_order"
	cancelorder "github.com/supremewaffle/order-svc/internal/transport/http/cancel_order"
	createorder "github.com/supremewaffle/order-svc/internal/transport/http/create_order"
	kitchenboard "github.com/supremewaffle/order-svc/internal/transport/http/kitchen_board"
	listorders "github.com/supremewaffle/order-svc/internal/transport/http/list_orders"
	lookuporder "github.com/supremewaffle/order-svc/internal/transport/http/lookup_order"
	lookupzone "github.com/supremewaffle/order-svc/internal/transport/http/lookup_zone"
	markpaid "github.com/supremewaffle/order-svc/internal/transport/http/mark_paid"
	ordercountdown "github.com/supremewaffle/order-svc/internal/transport/http/order_countdown"
	queueposition "github.com/supremewaffle/order-svc/internal/transport/http/queue_position"
	validateoffer "github.com/supremewaffle/order-svc/internal/transport/http/validate_offer"
	"github.com/supremewaffle/order-svc/pkg/http/middleware/trace"
	"github.com/supremewaffle/order-svc/pkg/logger"
)

type service interface {
	Checkout(ctx context.Context, model ordersvc.CheckoutModel) (*order.Order, error)
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	LookupByCode(ctx context.Context, code string) (*order.Order, error)
	QueueAhead(ctx context.Context, code string) (int, error)
	Countdown(ctx context.Context, code string) (*ordersvc.CountdownSnapshot, error)
	KitchenBoard(ctx context.Context) (*ordersvc.Board, error)
	Accept(ctx context.Context, code string, estimatedMinutes int) (*order.Order, error)
	Advance(ctx context.Context, code string) (*order.Order, error)
	Cancel(ctx context.Context, code string) (*order.Order, error)
	MarkPaid(ctx context.Context, code string) (*order.Order, error)
	ZoneByPincode(ctx context.Context, pincode string) (*zone.DeliveryZone, error)
	ValidateOffer(ctx context.Context, code string, subtotalCents int64) (*offer.Offer, int64, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.createOrder)
			r.Get("/", h.listOrders)
			r.Route("/{code}", func(r chi.Router) {
				r.Get("/", h.lookupOrder)
				r.Get("/queue", h.queuePosition)
				r.Get("/countdown", h.orderCountdown)
			})
		})
		r.Route("/kitchen", func(r chi.Router) {
			r.Get("/board", h.kitchenBoard)
			r.Route("/orders/{code}", func(r chi.Router) {
				r.Post("/accept", h.acceptOrder)
				r.Post("/advance", h.advanceOrder)
				r.Post("/cancel", h.cancelOrder)
				r.Post("/paid", h.markPaid)
			})
		})
		r.Get("/zones/{pincode}", h.lookupZone)
		r.Post("/offers/validate", h.validateOffer)
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) lookupOrder(w http.ResponseWriter, r *http.Request) {
	lookuporder.LookupOrder(w, r, h.service)
}

func (h *HTTPTransport) queuePosition(w http.ResponseWriter, r *http.Request) {
	queueposition.QueuePosition(w, r, h.service)
}

func (h *HTTPTransport) orderCountdown(w http.ResponseWriter, r *http.Request) {
	ordercountdown.OrderCountdown(w, r, h.service)
}

func (h *HTTPTransport) kitchenBoard(w http.ResponseWriter, r *http.Request) {
	kitchenboard.KitchenBoard(w, r, h.service)
}

func (h *HTTPTransport) acceptOrder(w http.ResponseWriter, r *http.Request) {
	acceptorder.AcceptOrder(w, r, h.service)
}

func (h *HTTPTransport) advanceOrder(w http.ResponseWriter, r *http.Request) {
	advanceorder.AdvanceOrder(w, r, h.service)
}

func (h *HTTPTransport) cancelOrder(w http.ResponseWriter, r *http.Request) {
	cancelorder.CancelOrder(w, r, h.service)
}

func (h *HTTPTransport) markPaid(w http.ResponseWriter, r *http.Request) {
	markpaid.MarkPaid(w, r, h.service)
}

func (h *HTTPTransport) lookupZone(w http.ResponseWriter, r *http.Request) {
	lookupzone.LookupZone(w, r, h.service)
}

func (h *HTTPTransport) validateOffer(w http.ResponseWriter, r *http.Request) {
	validateoffer.ValidateOffer(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
