package outbox

import (
	"time"
)

// Message is an order change event awaiting publication to RabbitMQ.
// Events are written in the same transaction as the state change and
// published by the outbox worker, giving at-least-once delivery.
type Message struct {
	ID           int64
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}
