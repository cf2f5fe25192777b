package feed

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/supremewaffle/order-svc/internal/dal/rabbitmq"
	"github.com/supremewaffle/order-svc/internal/notifier"
	"github.com/supremewaffle/order-svc/internal/service/models/order"
)

type fakeAcker struct{}

func (fakeAcker) Ack(uint64, bool) error        { return nil }
func (fakeAcker) Nack(uint64, bool, bool) error { return nil }
func (fakeAcker) Reject(uint64, bool) error     { return nil }

// scriptedSource hands out one delivery channel per Consume call.
type scriptedSource struct {
	mu       sync.Mutex
	channels []chan amqp.Delivery
	calls    int
}

func (s *scriptedSource) Consume(rabbitmq.ConsumeConfig) (<-chan amqp.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.calls >= len(s.channels) {
		return nil, errors.New("no more scripted channels")
	}
	ch := s.channels[s.calls]
	s.calls++

	return ch, nil
}

type countingResyncer struct {
	mu    sync.Mutex
	calls int
}

func (r *countingResyncer) GetOrders(context.Context, *order.QueryOrdersModel) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	return nil, nil
}

func (r *countingResyncer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls
}

// channelSink surfaces the ready reaction so tests can wait on it.
type channelSink struct{ ready chan order.Order }

func (s *channelSink) NewOrderAlert(order.Order) {}
func (s *channelSink) OrderAccepted(order.Order) {}
func (s *channelSink) OrderReady(o order.Order)  { s.ready <- o }
func (s *channelSink) PickupReady(order.Order)   {}

func newTestConsumer(source deliverySource, bridge *notifier.Bridge, res resyncer) *Consumer {
	return &Consumer{
		source:     source,
		bridge:     bridge,
		resyncer:   res,
		queueName:  "orders.feed",
		reconnects: 3,
		backoff:    time.Millisecond,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func TestRunResyncsAndResumesAfterChannelClose(t *testing.T) {
	first := make(chan amqp.Delivery)
	close(first)
	second := make(chan amqp.Delivery, 1)

	o := order.Order{ID: uuid.New(), Type: order.TypeDelivery, Status: order.StatusPacked}
	body, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second <- amqp.Delivery{Acknowledger: fakeAcker{}, Body: body}

	sink := &channelSink{ready: make(chan order.Order, 1)}
	res := &countingResyncer{}
	c := newTestConsumer(
		&scriptedSource{channels: []chan amqp.Delivery{first, second}},
		notifier.NewBridge(sink),
		res,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(context.Background()) }()

	select {
	case got := <-sink.ready:
		if got.ID != o.ID {
			t.Errorf("reaction for order %s, want %s", got.ID, o.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reaction delivered after the channel close")
	}

	if err := c.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("run returned %v after a clean stop", err)
	}
	if got := res.count(); got != 2 {
		t.Errorf("resyncs = %d, want one per consume cycle", got)
	}
}

func TestRunGivesUpAfterBoundedReconnects(t *testing.T) {
	channels := make([]chan amqp.Delivery, 3)
	for i := range channels {
		channels[i] = make(chan amqp.Delivery)
		close(channels[i])
	}

	res := &countingResyncer{}
	c := newTestConsumer(
		&scriptedSource{channels: channels},
		notifier.NewBridge(&channelSink{ready: make(chan order.Order, 1)}),
		res,
	)

	err := c.Run(context.Background())
	if !errors.Is(err, errFeedClosed) {
		t.Fatalf("run = %v, want errFeedClosed after exhausting reconnects", err)
	}
	if got := res.count(); got != 3 {
		t.Errorf("resyncs = %d, want one per bounded attempt", got)
	}
}
