package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"address-inspector/internal/config"
	"address-inspector/internal/domain/entity"
	domainService "address-inspector/internal/domain/service"
	"address-inspector/internal/pkg/apperrors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.EventPublisher = (*Publisher)(nil)

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// envelope is the JSON value of every exported message.
type envelope struct {
	LookupID   string       `json:"lookupId"`
	OccurredAt time.Time    `json:"occurredAt"`
	Event      entity.Event `json:"event"`
}

// Publisher writes run events to a Kafka topic keyed by lookup id.
type Publisher struct {
	writer messageWriter
	logger *zap.Logger
	now    func() time.Time
}

// NewPublisher creates a publisher for the configured brokers and topic.
func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) *Publisher {
	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}, logger)
}

func newPublisher(w messageWriter, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: w,
		logger: logger.Named("KafkaPublisher"),
		now:    time.Now,
	}
}

// Publish writes one event. Messages of a lookup share a key, so they keep their order.
func (p *Publisher) Publish(ctx context.Context, lookupID string, event entity.Event) error {
	msg, err := p.message(lookupID, event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Debug("Failed to write event", zap.String("lookupId", lookupID), zap.Error(err))
		return fmt.Errorf("%w: kafka write failed: %v", apperrors.ErrExternalServiceFailure, err)
	}
	return nil
}

func (p *Publisher) message(lookupID string, event entity.Event) (kafka.Message, error) {
	payload, err := json.Marshal(envelope{
		LookupID:   lookupID,
		OccurredAt: p.now().UTC(),
		Event:      event,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(lookupID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(event.Kind)},
		},
	}, nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Compile-time check
var _ domainService.EventPublisher = NopPublisher{}

// NopPublisher discards events; used when export is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, entity.Event) error { return nil }

func (NopPublisher) Close() error { return nil }
