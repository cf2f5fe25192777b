package ordersvc

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"go.opentelemetry.io/otel"
)

// Accept moves a pending order to preparing with the kitchen's estimate.
// Expiry is re-validated here, at the point of write: a stale kitchen UI
// accepting past the deadline, or after the watchdog sweep, gets
// ErrOrderExpired, never a silent success. Losing the race to another
// tablet returns an InvalidTransitionError carrying the order's actual
// current status.
func (s *OrderService) Accept(ctx context.Context, code string, estimatedMinutes int) (*order.Order, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.Accept")
	defer span.End()

	if !order.ValidEstimate(estimatedMinutes) {
		return nil, order.ErrInvalidEstimate
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}

	o, err := work.OrderRepository().GetByCode(ctx, code)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}

	if o.Status == order.StatusExpired {
		// The watchdog already swept this order; the caller must hear
		// expiry, not a generic transition failure.
		_ = work.Rollback(ctx)

		return nil, order.ErrOrderExpired
	}
	if o.Status != order.StatusPending {
		_ = work.Rollback(ctx)

		return nil, &order.InvalidTransitionError{Type: o.Type, From: o.Status, To: order.StatusPreparing}
	}

	now := s.now()
	if o.Expired(now) {
		// The deadline is authoritative: flip the row to expired and
		// reject the acceptance.
		ok, updErr := work.OrderRepository().UpdateStatus(ctx, o.ID, order.StatusPending,
			order.StatusPatch{Status: order.StatusExpired})
		if updErr != nil {
			_ = work.Rollback(ctx)

			return nil, updErr
		}
		if ok {
			o.Status = order.StatusExpired
			if err := s.enqueueSnapshot(ctx, work.OutboxRepository(), o, "order.updated"); err != nil {
				_ = work.Rollback(ctx)

				return nil, err
			}
			if err := work.Commit(ctx); err != nil {
				return nil, err
			}
		} else {
			_ = work.Rollback(ctx)
		}

		return nil, order.ErrOrderExpired
	}

	ok, err := work.OrderRepository().UpdateStatus(ctx, o.ID, order.StatusPending,
		order.AcceptPatch(now, estimatedMinutes))
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}
	if !ok {
		// Another tablet got there first. Surface the fresh status so
		// the caller re-syncs instead of erroring destructively.
		_ = work.Rollback(ctx)

		return nil, s.lostRace(ctx, code, order.StatusPreparing)
	}

	return s.finishTransition(ctx, work, o.ID)
}

// Advance moves an order one step forward in its type-specific flow.
// Pending orders cannot be advanced; they are accepted or cancelled.
func (s *OrderService) Advance(ctx context.Context, code string) (*order.Order, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.Advance")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}

	o, err := work.OrderRepository().GetByCode(ctx, code)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}

	next, err := order.Advance(o.Type, o.Status)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}

	ok, err := work.OrderRepository().UpdateStatus(ctx, o.ID, o.Status,
		order.AdvancePatch(next, s.now()))
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}
	if !ok {
		_ = work.Rollback(ctx)

		return nil, s.lostRace(ctx, code, next)
	}

	return s.finishTransition(ctx, work, o.ID)
}

// Cancel moves an order to cancelled from any non-terminal state.
// Cancelling an already-cancelled order is a no-op, not an error, so
// concurrent double-cancels stay benign.
func (s *OrderService) Cancel(ctx context.Context, code string) (*order.Order, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.Cancel")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}

	o, err := work.OrderRepository().GetByCode(ctx, code)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}

	if o.Status == order.StatusCancelled {
		_ = work.Rollback(ctx)

		return o, nil
	}
	if err := order.ValidateTransition(o.Type, o.Status, order.StatusCancelled); err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}

	ok, err := work.OrderRepository().UpdateStatus(ctx, o.ID, o.Status,
		order.StatusPatch{Status: order.StatusCancelled})
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}
	if !ok {
		_ = work.Rollback(ctx)

		fresh, ferr := s.refetch(ctx, code)
		if ferr != nil {
			return nil, ferr
		}
		if fresh.Status == order.StatusCancelled {
			return fresh, nil
		}

		return nil, &order.InvalidTransitionError{Type: fresh.Type, From: fresh.Status, To: order.StatusCancelled}
	}

	return s.finishTransition(ctx, work, o.ID)
}

// MarkPaid records payment collection. Already-paid orders are a no-op.
func (s *OrderService) MarkPaid(ctx context.Context, code string) (*order.Order, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.MarkPaid")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}

	o, err := work.OrderRepository().GetByCode(ctx, code)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}

	ok, err := work.OrderRepository().MarkPaid(ctx, o.ID)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}
	if !ok {
		_ = work.Rollback(ctx)

		return o, nil
	}

	return s.finishTransition(ctx, work, o.ID)
}

// ExpireOverdue transitions every pending order past its deadline to
// expired. The expiry worker calls this periodically; accepts re-check
// the deadline themselves, so the sweep only has to catch up eventually.
func (s *OrderService) ExpireOverdue(ctx context.Context) (int, error) {
	ctx, span := otel.Tracer("order-svc").Start(ctx, "OrderService.ExpireOverdue")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return 0, err
	}

	expired, err := work.OrderRepository().ExpireOverdue(ctx, s.now())
	if err != nil {
		_ = work.Rollback(ctx)

		return 0, err
	}

	for i := range expired {
		if err := s.enqueueSnapshot(ctx, work.OutboxRepository(), &expired[i], "order.updated"); err != nil {
			_ = work.Rollback(ctx)

			return 0, err
		}
	}

	if err := work.Commit(ctx); err != nil {
		return 0, err
	}

	for _, o := range expired {
		slog.Info("Order expired without acceptance", "code", o.Code)
	}

	return len(expired), nil
}

// finishTransition re-reads the updated row, records the snapshot in the
// outbox and commits.
func (s *OrderService) finishTransition(ctx context.Context, work unitOfWork, id uuid.UUID) (*order.Order, error) {
	updated, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}

	if err := s.enqueueSnapshot(ctx, work.OutboxRepository(), updated, "order.updated"); err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	return updated, nil
}

// lostRace builds the benign-race error with the order's fresh status.
// Losing to the expiry sweep surfaces as expiry, same as a late accept.
func (s *OrderService) lostRace(ctx context.Context, code string, to order.Status) error {
	fresh, err := s.refetch(ctx, code)
	if err != nil {
		return err
	}
	if fresh.Status == order.StatusExpired {
		return order.ErrOrderExpired
	}

	return &order.InvalidTransitionError{Type: fresh.Type, From: fresh.Status, To: to}
}

func (s *OrderService) refetch(ctx context.Context, code string) (*order.Order, error) {
	work := s.newUOW()

	return work.OrderRepository().GetByCode(ctx, code)
}
