package ens

import (
	"context"
	"fmt"

	"address-inspector/internal/domain"
	domainService "address-inspector/internal/domain/service"
	"address-inspector/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.NameService = (*Resolver)(nil)

// Resolver implements domainService.NameService against the ENS registry,
// using the home network's gateway for every call.
type Resolver struct {
	gateway  domainService.Gateway
	registry common.Address
	logger   *zap.Logger
}

// NewResolver creates an ENS resolver over the home network gateway.
func NewResolver(gateway domainService.Gateway, logger *zap.Logger) *Resolver {
	return &Resolver{
		gateway:  gateway,
		registry: RegistryAddress,
		logger:   logger.Named("ENSResolver"),
	}
}

// ResolveName returns the address record of name.
func (r *Resolver) ResolveName(ctx context.Context, name string) (common.Address, error) {
	normalized, err := Normalize(name)
	if err != nil {
		return common.Address{}, err
	}
	node := Namehash(normalized)

	resolver, err := r.resolverOf(ctx, node)
	if err != nil {
		return common.Address{}, err
	}

	addr, err := r.callAddress(ctx, resolver, &resolverABI, "addr", node)
	if err != nil {
		return common.Address{}, err
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s has no address record", domain.ErrNameNotFound, normalized)
	}

	r.logger.Debug("Resolved name", zap.String("name", normalized), zap.Stringer("address", addr))
	return addr, nil
}

// LookupAddress returns the primary name of address. The reverse record is only
// accepted if the name resolves back to the same address.
func (r *Resolver) LookupAddress(ctx context.Context, address common.Address) (string, error) {
	node := ReverseNode(address)

	resolver, err := r.resolverOf(ctx, node)
	if err != nil {
		return "", err
	}

	values, err := r.gateway.Call(ctx, resolver, &resolverABI, "name", [32]byte(node))
	if err != nil {
		return "", err
	}
	name, ok := firstAs[string](values)
	if !ok {
		return "", fmt.Errorf("%w: unexpected name() output", apperrors.ErrExternalServiceFailure)
	}
	if name == "" {
		return "", fmt.Errorf("%w: %s has no reverse record", domain.ErrNameNotFound, address.Hex())
	}

	forward, err := r.ResolveName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("reverse record %q of %s does not resolve: %w", name, address.Hex(), err)
	}
	if forward != address {
		r.logger.Debug("Reverse record does not match forward resolution",
			zap.String("name", name), zap.Stringer("address", address), zap.Stringer("forward", forward),
		)
		return "", fmt.Errorf("%w: reverse record %q of %s points to %s",
			domain.ErrNameNotFound, name, address.Hex(), forward.Hex(),
		)
	}

	return name, nil
}

func (r *Resolver) resolverOf(ctx context.Context, node common.Hash) (common.Address, error) {
	resolver, err := r.callAddress(ctx, r.registry, &registryABI, "resolver", node)
	if err != nil {
		return common.Address{}, err
	}
	if resolver == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: no resolver for node %s", domain.ErrNameNotFound, node.Hex())
	}
	return resolver, nil
}

func (r *Resolver) callAddress(
	ctx context.Context,
	contract common.Address,
	contractABI *abi.ABI,
	method string,
	node common.Hash,
) (common.Address, error) {
	values, err := r.gateway.Call(ctx, contract, contractABI, method, [32]byte(node))
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := firstAs[common.Address](values)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: unexpected %s() output", apperrors.ErrExternalServiceFailure, method)
	}
	return addr, nil
}

func firstAs[T any](values []any) (T, bool) {
	var zero T
	if len(values) == 0 {
		return zero, false
	}
	v, ok := values[0].(T)
	return v, ok
}
