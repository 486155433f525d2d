// Package servicetest provides in-memory implementations of the domain service
// ports for tests.
package servicetest

import (
	"context"
	"sync/atomic"

	domainService "address-inspector/internal/domain/service"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Compile-time check
var _ domainService.Gateway = (*Gateway)(nil)

// Gateway is a programmable domainService.Gateway. Unset funcs return zero values.
type Gateway struct {
	GetCodeFunc             func(ctx context.Context, address common.Address) ([]byte, error)
	GetTransactionCountFunc func(ctx context.Context, address common.Address) (uint64, error)
	CallFunc                func(ctx context.Context, contract common.Address, method string, args ...any) ([]any, error)

	calls atomic.Int64
}

// Calls returns how many gateway operations were invoked.
func (g *Gateway) Calls() int64 {
	return g.calls.Load()
}

func (g *Gateway) GetCode(ctx context.Context, address common.Address) ([]byte, error) {
	g.calls.Add(1)
	if g.GetCodeFunc == nil {
		return nil, nil
	}
	return g.GetCodeFunc(ctx, address)
}

func (g *Gateway) GetTransactionCount(ctx context.Context, address common.Address) (uint64, error) {
	g.calls.Add(1)
	if g.GetTransactionCountFunc == nil {
		return 0, nil
	}
	return g.GetTransactionCountFunc(ctx, address)
}

func (g *Gateway) Call(ctx context.Context, contract common.Address, _ *abi.ABI, method string, args ...any) ([]any, error) {
	g.calls.Add(1)
	if g.CallFunc == nil {
		return nil, nil
	}
	return g.CallFunc(ctx, contract, method, args...)
}
