package service

import (
	"context"

	"address-inspector/internal/domain/entity"
)

// EventPublisher exports run events outside the process.
type EventPublisher interface {
	Publish(ctx context.Context, lookupID string, event entity.Event) error
	Close() error
}
