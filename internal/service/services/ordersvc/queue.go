package ordersvc

import (
	"context"
	"errors"
	"time"

	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"github.com/supremewaffle/order-svc/pkg/countdown"
)

// ErrNotAccepted is returned when a countdown is requested for an order
// the kitchen has not accepted yet.
var ErrNotAccepted = errors.New("order not accepted yet")

// Board is the kitchen's working set, split the way the dashboard tabs
// are: FIFO queue of pending orders, in-flight orders and today's
// finished ones.
type Board struct {
	Queue     []order.Order `json:"queue"`
	Preparing []order.Order `json:"preparing"`
	DoneToday []order.Order `json:"doneToday"`
}

// KitchenBoard loads the working set ordered by arrival and splits it
// into the dashboard tabs. Confirmed sits with preparing. The done tab is
// bounded to orders placed since local midnight in the query itself, so
// board refreshes never scan the full order history.
func (s *OrderService) KitchenBoard(ctx context.Context) (*Board, error) {
	work := s.newUOW()

	active, err := work.OrderRepository().Query(ctx, &order.QueryOrdersModel{
		Statuses: []order.Status{
			order.StatusPending,
			order.StatusConfirmed,
			order.StatusPreparing,
		},
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	done, err := work.OrderRepository().Query(ctx, &order.QueryOrdersModel{
		Statuses: []order.Status{
			order.StatusPacked,
			order.StatusDelivered,
		},
		PlacedAtFrom: &midnight,
	})
	if err != nil {
		return nil, err
	}

	orders, err := s.attachItems(ctx, work, append(active, done...))
	if err != nil {
		return nil, err
	}

	board := &Board{
		Queue:     []order.Order{},
		Preparing: []order.Order{},
		DoneToday: []order.Order{},
	}
	for _, o := range orders {
		switch o.Status {
		case order.StatusPending:
			board.Queue = append(board.Queue, o)
		case order.StatusPreparing, order.StatusConfirmed:
			board.Preparing = append(board.Preparing, o)
		case order.StatusPacked, order.StatusDelivered:
			board.DoneToday = append(board.DoneToday, o)
		}
	}

	return board, nil
}

// QueueAhead computes how many pending orders were placed strictly
// earlier. Recomputed on every call so cancellations ahead in the queue
// are reflected immediately; the stored queue_position hint is never
// consulted.
func (s *OrderService) QueueAhead(ctx context.Context, code string) (int, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if o.Status != order.StatusPending {
		return 0, nil
	}

	return work.OrderRepository().CountPendingBefore(ctx, o.PlacedAt)
}

// CountdownSnapshot is a server-side evaluation of the same pure
// derivation every client runs locally from accepted_at and the
// estimate.
type CountdownSnapshot struct {
	ReadyAt          time.Time `json:"readyAt"`
	RemainingSeconds int       `json:"remainingSeconds"`
	Progress         float64   `json:"progress"`
	Display          string    `json:"display"`
}

// Countdown derives the prep countdown for an accepted order.
func (s *OrderService) Countdown(ctx context.Context, code string) (*CountdownSnapshot, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if o.AcceptedAt == nil || o.EstimatedMinutes == nil {
		return nil, ErrNotAccepted
	}

	now := s.now()
	anchor := *o.AcceptedAt
	minutes := *o.EstimatedMinutes

	return &CountdownSnapshot{
		ReadyAt:          countdown.ReadyAt(anchor, minutes),
		RemainingSeconds: int(countdown.Remaining(anchor, minutes, now).Seconds()),
		Progress:         countdown.Progress(anchor, minutes, now),
		Display:          countdown.Display(anchor, minutes, now),
	}, nil
}
