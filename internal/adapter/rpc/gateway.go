package rpc

import (
	"context"
	"fmt"

	domainService "address-inspector/internal/domain/service"
	"address-inspector/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.Gateway = (*Gateway)(nil)

// blockTag pins every read to the latest block.
const blockTag = "latest"

// caller is the part of Client the gateway depends on.
type caller interface {
	Call(ctx context.Context, result any, method string, params ...any) error
}

// Gateway implements domainService.Gateway over Ethereum JSON-RPC.
type Gateway struct {
	client caller
	logger *zap.Logger
}

// NewGateway wraps a JSON-RPC client.
func NewGateway(client *Client, logger *zap.Logger) *Gateway {
	return &Gateway{
		client: client,
		logger: logger.Named("Gateway"),
	}
}

// GetCode issues eth_getCode.
func (g *Gateway) GetCode(ctx context.Context, address common.Address) ([]byte, error) {
	var code hexutil.Bytes
	if err := g.client.Call(ctx, &code, "eth_getCode", address, blockTag); err != nil {
		return nil, err
	}
	return code, nil
}

// GetTransactionCount issues eth_getTransactionCount.
func (g *Gateway) GetTransactionCount(ctx context.Context, address common.Address) (uint64, error) {
	var count hexutil.Uint64
	if err := g.client.Call(ctx, &count, "eth_getTransactionCount", address, blockTag); err != nil {
		return 0, err
	}
	return uint64(count), nil
}

// callMsg is the transaction object of eth_call.
type callMsg struct {
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

// Call packs method and args with contractABI, issues eth_call and unpacks the outputs.
func (g *Gateway) Call(
	ctx context.Context,
	contract common.Address,
	contractABI *abi.ABI,
	method string,
	args ...any,
) ([]any, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot pack %s: %v", apperrors.ErrInvalidInput, method, err)
	}

	var out hexutil.Bytes
	if err := g.client.Call(ctx, &out, "eth_call", callMsg{To: contract, Data: data}, blockTag); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		g.logger.Debug("eth_call returned no data", zap.String("method", method), zap.Stringer("contract", contract))
		return nil, fmt.Errorf("%w: %s returned no data from %s",
			apperrors.ErrExternalServiceFailure, method, contract.Hex(),
		)
	}

	values, err := contractABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot unpack %s from %s: %v",
			apperrors.ErrExternalServiceFailure, method, contract.Hex(), err,
		)
	}
	return values, nil
}
