package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/supremewaffle/order-svc/internal/dal/postgres"
	"github.com/supremewaffle/order-svc/internal/dal/rabbitmq"
	outboxrepo "github.com/supremewaffle/order-svc/internal/dal/repositories/outbox/postgres"
	"github.com/supremewaffle/order-svc/internal/notifier"
	"github.com/supremewaffle/order-svc/internal/otel"
	"github.com/supremewaffle/order-svc/internal/service/services/ordersvc"
	"github.com/supremewaffle/order-svc/internal/transport/feed"
	httptransport "github.com/supremewaffle/order-svc/internal/transport/http"
	expiryworker "github.com/supremewaffle/order-svc/internal/worker/expiry"
	outboxworker "github.com/supremewaffle/order-svc/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	feedConsumer   *feed.Consumer
	outboxWorker   *outboxworker.Worker
	expiryWorker   *expiryworker.Worker
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
	)

	transport := httptransport.NewHTTPTransport(orderSvc)
	transport.RegisterRoutes()

	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient.Pool())
	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	expiryWorker := expiryworker.NewWorker(orderSvc)

	bridge := notifier.NewBridge(notifier.SlogSink{})
	feedConsumer := feed.NewConsumer(rabbitMqClient, bridge, orderSvc)

	return &App{
		orderSvc:       orderSvc,
		transport:      transport,
		feedConsumer:   feedConsumer,
		outboxWorker:   outboxWorker,
		expiryWorker:   expiryWorker,
		rabbitMqClient: rabbitMqClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	go func() {
		slog.Info("Starting expiry worker")
		a.expiryWorker.Start(ctx)
	}()

	go func() {
		slog.Info("Starting notification feed consumer")
		if err := a.feedConsumer.Run(ctx); err != nil {
			slog.Error("Feed consumer error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown performs graceful shutdown of all application components.
// It shuts down components sequentially: HTTP server, workers, feed
// consumer, RabbitMQ, PostgreSQL, and OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	a.expiryWorker.Stop()
	slog.Info("Expiry worker stopped gracefully")

	if err := a.feedConsumer.Shutdown(); err != nil {
		slog.Error("Feed consumer shutdown error", "error", err)
	} else {
		slog.Info("Feed consumer stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	select {
	case <-ctx.Done():
		slog.Warn("Shutdown timeout exceeded")
	default:
		slog.Info("Application shutdown complete")
	}
}
