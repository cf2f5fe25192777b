package expiry

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// service is the service layer interface.
type service interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// Worker sweeps pending orders past their acceptance deadline into
// expired. The sweep is advisory: acceptance re-validates the deadline
// at the point of write, so sweep latency cannot let a stale accept
// through.
type Worker struct {
	service      service
	pollInterval time.Duration
	stopCh       chan struct{}
}

// NewWorker creates a new expiry worker.
func NewWorker(service service) *Worker {
	pollIntervalSeconds := viper.GetInt("orders.expiry_poll_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 15
	}

	return &Worker{
		service:      service,
		pollInterval: time.Duration(pollIntervalSeconds) * time.Second,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the periodic expiry sweep.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Expiry worker started", "poll_interval", w.pollInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Expiry worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Expiry worker stopped")

			return
		case <-ticker.C:
			count, err := w.service.ExpireOverdue(ctx)
			if err != nil {
				slog.Error("Expiry sweep failed", "error", err)

				continue
			}
			if count > 0 {
				slog.Info("Expired unconfirmed orders", "count", count)
			}
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}
