package service

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Gateway is the read-only capability set a check may use on one network.
type Gateway interface {
	// GetCode returns the bytecode deployed at address; empty for externally owned accounts.
	GetCode(ctx context.Context, address common.Address) ([]byte, error)

	// GetTransactionCount returns the number of transactions sent from address.
	GetTransactionCount(ctx context.Context, address common.Address) (uint64, error)

	// Call invokes a read-only contract method and returns its decoded outputs.
	Call(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, args ...any) ([]any, error)
}

// NameService resolves names on the home network.
type NameService interface {
	// ResolveName returns the address a name points to.
	ResolveName(ctx context.Context, name string) (common.Address, error)

	// LookupAddress returns the primary name of an address.
	LookupAddress(ctx context.Context, address common.Address) (string, error)
}
