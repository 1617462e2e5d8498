package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderPlaced      = "order.placed"
	EventMassOrderPlaced  = "order.mass_placed"
	EventRefillRequested  = "refill.requested"
	EventDepositApproved  = "deposit.approved"
	EventDepositCancelled = "deposit.cancelled"
)

type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher sends storefront events. A nil *Publisher is valid and drops
// everything, so services need no kafka-enabled branch.
type Publisher struct {
	producer *Producer
	logger   *slog.Logger
}

func NewPublisher(producer *Producer, logger *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: logger}
}

// Publish keys the message so events of one subject land on one partition.
func (p *Publisher) Publish(_ context.Context, eventType, key string, payload any) {
	if p == nil || p.producer == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Failed to encode event payload", "type", eventType, "error", err)
		return
	}
	env, err := json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	})
	if err != nil {
		p.logger.Error("Failed to encode event", "type", eventType, "error", err)
		return
	}

	p.producer.Publish([]byte(key), env, kafka.Header{Key: "type", Value: []byte(eventType)})
}
