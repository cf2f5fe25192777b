package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"github.com/supremewaffle/order-svc/internal/dal/rabbitmq"
	"github.com/supremewaffle/order-svc/internal/notifier"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

const (
	defaultReconnectAttempts = 5
	reconnectBackoff         = time.Second
)

// errFeedClosed signals that the broker dropped the delivery channel.
var errFeedClosed = errors.New("feed delivery channel closed")

// resyncer supplies the current working set for a full re-fetch before
// incremental change handling starts or resumes.
type resyncer interface {
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

// deliverySource opens a delivery stream from the feed queue.
type deliverySource interface {
	Consume(cfg rabbitmq.ConsumeConfig) (<-chan amqp.Delivery, error)
}

// Consumer subscribes the notification bridge to the order change feed.
type Consumer struct {
	source     deliverySource
	bridge     *notifier.Bridge
	resyncer   resyncer
	queueName  string
	reconnects int
	backoff    time.Duration
	stop       chan struct{}
	done       chan struct{}
}

// NewConsumer declares the feed queue, binds it to the order events
// exchange and returns a consumer feeding the bridge.
func NewConsumer(client *rabbitmq.Client, bridge *notifier.Bridge, resyncer resyncer) *Consumer {
	exchange := viper.GetString("rabbitmq.exchange")
	if exchange == "" {
		exchange = "orders.events"
	}
	queueName := viper.GetString("rabbitmq.feed_queue")
	if queueName == "" {
		queueName = "orders.feed"
	}
	reconnects := viper.GetInt("rabbitmq.feed_reconnect_attempts")
	if reconnects <= 0 {
		reconnects = defaultReconnectAttempts
	}

	if err := client.DeclareExchange(exchange); err != nil {
		panic(err)
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueName,
		Durable: true,
	})
	if err != nil {
		panic(err)
	}

	if err := client.BindQueue(queue.Name, exchange); err != nil {
		panic(err)
	}

	return &Consumer{
		source:     client,
		bridge:     bridge,
		resyncer:   resyncer,
		queueName:  queue.Name,
		reconnects: reconnects,
		backoff:    reconnectBackoff,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run resyncs the bridge from the store and consumes change events. A
// dropped delivery channel (broker restart, connection loss) triggers a
// bounded-backoff reconnect; every reconnect re-fetches the working set
// before incremental handling resumes, so the bridge never acts on
// transitions it missed while disconnected.
func (c *Consumer) Run(ctx context.Context) error {
	defer close(c.done)

	backoff := c.backoff
	for attempt := 1; ; attempt++ {
		err := c.cycle(ctx)
		if err == nil {
			return nil
		}
		if attempt >= c.reconnects {
			slog.Error("Feed consumer giving up", "attempts", attempt, "error", err)

			return err
		}

		slog.Warn("Feed consumer reconnecting", "attempt", attempt, "error", err)
		select {
		case <-c.stop:
			return nil
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

// cycle performs one resync-then-consume pass. A nil return means the
// consumer was stopped; any error means the pass should be retried.
func (c *Consumer) cycle(ctx context.Context) error {
	working, err := c.resyncer.GetOrders(ctx, &order.QueryOrdersModel{
		Statuses: []order.Status{
			order.StatusPending,
			order.StatusConfirmed,
			order.StatusPreparing,
			order.StatusPacked,
			order.StatusOutForDelivery,
		},
	})
	if err != nil {
		return err
	}
	c.bridge.Resync(working)

	msgs, err := c.source.Consume(rabbitmq.ConsumeConfig{
		Queue:    c.queueName,
		Consumer: "order-feed",
	})
	if err != nil {
		return err
	}

	slog.Info("Feed consumer started", "queue", c.queueName)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(50)

	var cause error
loop:
	for {
		select {
		case <-c.stop:
			slog.Info("Stopping feed consumer")

			break loop
		case <-ctx.Done():
			break loop
		case msg, ok := <-msgs:
			if !ok {
				slog.Warn("Feed channel closed")
				cause = errFeedClosed

				break loop
			}

			g.Go(func() error {
				return c.processMessage(gctx, msg)
			})
		}
	}

	if err := g.Wait(); err != nil {
		slog.Error("Error processing feed messages", "error", err)
	}

	return cause
}

// processMessage applies a single order snapshot to the bridge.
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) error {
	_, span := otel.Tracer("order-svc").Start(ctx, "feed.processMessage")
	defer span.End()

	var o order.Order
	if err := json.Unmarshal(msg.Body, &o); err != nil {
		slog.Error("Failed to unmarshal order snapshot", "error", err)
		if err := msg.Nack(false, false); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return err
	}

	c.bridge.Apply(o)

	if err := msg.Ack(false); err != nil {
		slog.Error("Failed to ack message", "error", err)

		return err
	}

	return nil
}

// Shutdown gracefully stops the consumer.
func (c *Consumer) Shutdown() error {
	slog.Info("Shutting down feed consumer")
	close(c.stop)

	select {
	case <-c.done:
		slog.Info("Feed consumer stopped successfully")
	case <-time.After(10 * time.Second):
		slog.Warn("Feed consumer shutdown timeout")
	}

	return nil
}
