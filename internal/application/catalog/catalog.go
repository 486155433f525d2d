// Package catalog holds the ordered list of diagnostic checks run against an address.
package catalog

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"address-inspector/internal/domain/entity"
	domainService "address-inspector/internal/domain/service"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// Check descriptions, in catalog order.
const (
	DescriptionEOA          = "This is an EOA"
	DescriptionContract     = "This is a smart contract address"
	DescriptionGnosisSafe   = "This is a gnosis safe address"
	DescriptionTransactions = "This address has transactions"
)

const gnosisSafeABIJSON = `[
	{"inputs":[],"name":"getOwners","outputs":[{"internalType":"address[]","name":"","type":"address[]"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"getThreshold","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// GnosisSafeABI is the read-only subset of the Safe ABI used by the safe check.
var GnosisSafeABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(gnosisSafeABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// Default returns the catalog in display and aggregation order.
func Default() []domainService.Check {
	return []domainService.Check{
		{
			Description: DescriptionEOA,
			Strategy:    entity.StrategyAll,
			Evaluate:    checkEOA,
		},
		{
			Description: DescriptionContract,
			Strategy:    entity.StrategyAny,
			Evaluate:    checkContract,
		},
		{
			Description: DescriptionGnosisSafe,
			Strategy:    entity.StrategyAny,
			Evaluate:    checkGnosisSafe,
		},
		{
			Description: DescriptionTransactions,
			Strategy:    entity.StrategyAny,
			Evaluate:    checkTransactions,
		},
	}
}

func checkEOA(ctx context.Context, address common.Address, gw domainService.Gateway) (entity.CheckResult, error) {
	code, err := gw.GetCode(ctx, address)
	if err != nil {
		return entity.CheckResult{}, err
	}
	if len(code) != 0 {
		return entity.Failure(), nil
	}
	return entity.Success(nil), nil
}

func checkContract(ctx context.Context, address common.Address, gw domainService.Gateway) (entity.CheckResult, error) {
	code, err := gw.GetCode(ctx, address)
	if err != nil {
		return entity.CheckResult{}, err
	}
	if len(code) == 0 {
		return entity.Failure(), nil
	}
	return entity.Success(nil), nil
}

// checkGnosisSafe reads owners and threshold concurrently; any failure means the
// address is not a Safe on that network.
func checkGnosisSafe(ctx context.Context, address common.Address, gw domainService.Gateway) (entity.CheckResult, error) {
	var (
		owners    []common.Address
		threshold *big.Int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := gw.Call(gctx, address, &GnosisSafeABI, "getOwners")
		if err != nil {
			return err
		}
		v, ok := first[[]common.Address](out)
		if !ok {
			return fmt.Errorf("unexpected getOwners output %v", out)
		}
		owners = v
		return nil
	})
	g.Go(func() error {
		out, err := gw.Call(gctx, address, &GnosisSafeABI, "getThreshold")
		if err != nil {
			return err
		}
		v, ok := first[*big.Int](out)
		if !ok || v == nil {
			return fmt.Errorf("unexpected getThreshold output %v", out)
		}
		threshold = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return entity.Failure(), nil
	}

	ownerList := make([]string, 0, len(owners))
	for _, o := range owners {
		ownerList = append(ownerList, o.Hex())
	}
	return entity.Success(entity.Metadata{
		"owners":    ownerList,
		"threshold": threshold.String(),
	}), nil
}

func checkTransactions(ctx context.Context, address common.Address, gw domainService.Gateway) (entity.CheckResult, error) {
	count, err := gw.GetTransactionCount(ctx, address)
	if err != nil {
		return entity.CheckResult{}, err
	}
	if count == 0 {
		return entity.Failure(), nil
	}
	return entity.Success(entity.Metadata{"count": count}), nil
}

func first[T any](values []any) (T, bool) {
	var zero T
	if len(values) == 0 {
		return zero, false
	}
	v, ok := values[0].(T)
	return v, ok
}
