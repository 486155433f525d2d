package port

import (
	"context"

	"address-inspector/internal/domain/entity"
)

// LookupService defines the interface for starting address lookups and reading their progress.
type LookupService interface {
	// StartLookup creates a lookup for input, starts its run and returns the lookup id.
	StartLookup(ctx context.Context, input string) (string, error)

	// RestartLookup cancels the lookup's active run and starts a new one for input.
	RestartLookup(ctx context.Context, id string, input string) error

	// GetLookup returns the current view of a lookup.
	GetLookup(ctx context.Context, id string) (entity.LookupSnapshot, error)

	// WatchLookup returns the current view of a lookup and a channel closed on its next change.
	WatchLookup(ctx context.Context, id string) (entity.LookupSnapshot, <-chan struct{}, error)

	// DeleteLookup cancels the lookup's active run and removes it.
	DeleteLookup(ctx context.Context, id string) error

	// ListNetworks returns the registered networks in registry order.
	ListNetworks(ctx context.Context) []entity.NetworkInfo
}
