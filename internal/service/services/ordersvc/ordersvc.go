package ordersvc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/supremewaffle/order-svc/internal/dal/interfaces/icatalogrepo"
	"github.com/supremewaffle/order-svc/internal/dal/interfaces/iofferrepo"
	"github.com/supremewaffle/order-svc/internal/dal/interfaces/iorderitemrepo"
	"github.com/supremewaffle/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/supremewaffle/order-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/supremewaffle/order-svc/internal/dal/interfaces/izonerepo"
	"github.com/supremewaffle/order-svc/internal/dal/postgres"
	"github.com/supremewaffle/order-svc/internal/dal/uow"
	catalogrepo "github.com/supremewaffle/order-svc/internal/dal/repositories/catalog/postgres"
	offerrepo "github.com/supremewaffle/order-svc/internal/dal/repositories/offer/postgres"
	zonerepo "github.com/supremewaffle/order-svc/internal/dal/repositories/zone/postgres"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/internal/service/models/outbox"
)

const (
	defaultGraceMinutes = 10
	defaultCodePrefix   = "SW"
	defaultExchange     = "orders.events"

	codeAttempts = 5
)

// unitOfWork groups the repositories touched by a single transaction.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// OrderService is the single entry point for all order mutation. Every
// status change goes through its conditional-update discipline so the
// lifecycle invariants hold regardless of how many kitchen tablets race.
type OrderService struct {
	pgClient    *postgres.Client
	zoneRepo    izonerepo.IZoneRepository
	offerRepo   iofferrepo.IOfferRepository
	catalogRepo icatalogrepo.ICatalogRepository

	newUOW     func() unitOfWork
	now        func() time.Time
	grace      time.Duration
	codePrefix string
	exchange   string
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		now:        time.Now,
		grace:      defaultGraceMinutes * time.Minute,
		codePrefix: defaultCodePrefix,
		exchange:   defaultExchange,
	}
	if m := viper.GetInt("orders.grace_minutes"); m > 0 {
		s.grace = time.Duration(m) * time.Minute
	}
	if p := viper.GetString("orders.code_prefix"); p != "" {
		s.codePrefix = p
	}
	if e := viper.GetString("rabbitmq.exchange"); e != "" {
		s.exchange = e
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client and wires the default
// repositories and unit-of-work factory to it.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
		s.zoneRepo = zonerepo.NewZoneRepository(pgClient.Pool())
		s.offerRepo = offerrepo.NewOfferRepository(pgClient.Pool())
		s.catalogRepo = catalogrepo.NewCatalogRepository(pgClient.Pool())
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithUnitOfWorkFactory overrides the unit-of-work factory.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

// WithZoneRepository overrides the delivery zone repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithZoneRepository(repo izonerepo.IZoneRepository) option {
	return func(s *OrderService) {
		s.zoneRepo = repo
	}
}

// WithOfferRepository overrides the offer repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOfferRepository(repo iofferrepo.IOfferRepository) option {
	return func(s *OrderService) {
		s.offerRepo = repo
	}
}

// WithCatalogRepository overrides the customization catalog repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalogRepository(repo icatalogrepo.ICatalogRepository) option {
	return func(s *OrderService) {
		s.catalogRepo = repo
	}
}

// WithClock overrides the wall clock. All time-based decisions (expiry,
// acceptance timestamps) read from it, which keeps tests off real time.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}

// WithGraceWindow overrides the acceptance grace window.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithGraceWindow(d time.Duration) option {
	return func(s *OrderService) {
		s.grace = d
	}
}

// newCode generates a human-facing order code such as SW-4821. The
// 4-digit space holds only 9,000 codes and codes are never reclaimed, so
// extraDigits widens the numeric range once the short space gets crowded.
func (s *OrderService) newCode(extraDigits int) string {
	low, span := 1000, 9000
	for i := 0; i < extraDigits; i++ {
		low *= 10
		span *= 10
	}

	return fmt.Sprintf("%s-%d", s.codePrefix, rand.Intn(span)+low)
}

// enqueueSnapshot writes the full order snapshot to the outbox inside the
// current transaction. The outbox worker publishes it to the change feed.
func (s *OrderService) enqueueSnapshot(
	ctx context.Context,
	outboxRepo ioutboxrepo.IOutboxRepository,
	o *order.Order,
	routingKey string,
) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal order snapshot: %w", err)
	}

	now := s.now()

	return outboxRepo.Insert(ctx, outbox.Message{
		ExchangeName: s.exchange,
		RoutingKey:   routingKey,
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   10,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	})
}

// GetOrders retrieves orders with their items based on filter.
func (s *OrderService) GetOrders(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	return s.attachItems(ctx, work, orders)
}

// LookupByCode retrieves a single order with its items by the
// human-facing code. Unknown codes map to order.ErrNotFound.
func (s *OrderService) LookupByCode(ctx context.Context, code string) (*order.Order, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	items, err := work.OrderItemRepository().ListByOrderIds(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.OrderItems = items

	return o, nil
}

func (s *OrderService) attachItems(
	ctx context.Context,
	work unitOfWork,
	orders []order.Order,
) ([]order.Order, error) {
	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	items, err := work.OrderItemRepository().ListByOrderIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}
