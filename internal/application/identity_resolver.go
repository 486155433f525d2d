package application

import (
	"context"
	"fmt"
	"strings"

	"address-inspector/internal/domain"
	"address-inspector/internal/domain/entity"
	domainService "address-inspector/internal/domain/service"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// IdentityResolver turns raw user input into a canonical address using the
// home network's name service.
type IdentityResolver struct {
	names  domainService.NameService
	logger *zap.Logger
}

// NewIdentityResolver creates a resolver backed by names.
func NewIdentityResolver(names domainService.NameService, logger *zap.Logger) *IdentityResolver {
	return &IdentityResolver{
		names:  names,
		logger: logger.Named("IdentityResolver"),
	}
}

// Resolve returns the identity behind input. A valid address is returned verbatim
// with no display name; anything else goes through forward resolution, and a
// resolved name becomes the display name. On failure the identity is empty and
// the error wraps domain.ErrInvalidIdentity.
func (r *IdentityResolver) Resolve(ctx context.Context, input string) (entity.ResolvedIdentity, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return entity.ResolvedIdentity{}, domain.ErrInvalidIdentity
	}

	if entity.IsAddress(input) {
		return entity.ResolvedIdentity{Address: input}, nil
	}

	addr, err := r.names.ResolveName(ctx, input)
	if err != nil {
		r.logger.Debug("Forward resolution failed", zap.String("input", input), zap.Error(err))
		return entity.ResolvedIdentity{}, fmt.Errorf("%w: %v", domain.ErrInvalidIdentity, err)
	}
	if addr == (common.Address{}) {
		return entity.ResolvedIdentity{}, domain.ErrInvalidIdentity
	}

	r.logger.Debug("Resolved name", zap.String("name", input), zap.Stringer("address", addr))
	return entity.ResolvedIdentity{Address: addr.Hex(), DisplayName: input}, nil
}

// ReverseLookup looks up the primary name of address in the background and hands
// it to apply on success. Failures are logged and dropped. The returned channel
// is closed once the lookup has ended; cancelling ctx abandons it.
func (r *IdentityResolver) ReverseLookup(ctx context.Context, address common.Address, apply func(name string)) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		name, err := r.names.LookupAddress(ctx, address)
		if err != nil {
			r.logger.Debug("Reverse lookup failed", zap.Stringer("address", address), zap.Error(err))
			return
		}
		if name == "" || ctx.Err() != nil {
			return
		}
		apply(name)
	}()

	return done
}
