package catalog

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"address-inspector/internal/domain/entity"
	"address-inspector/internal/domain/service/servicetest"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAddress = common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	ownerA      = common.HexToAddress("0x1111111111111111111111111111111111111111")
	ownerB      = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func codeGateway(code []byte, err error) *servicetest.Gateway {
	return &servicetest.Gateway{
		GetCodeFunc: func(context.Context, common.Address) ([]byte, error) {
			return code, err
		},
	}
}

func TestDefaultOrder(t *testing.T) {
	checks := Default()
	require.Len(t, checks, 4)

	assert.Equal(t, DescriptionEOA, checks[0].Description)
	assert.Equal(t, entity.StrategyAll, checks[0].StatusStrategy())
	assert.Equal(t, DescriptionContract, checks[1].Description)
	assert.Equal(t, entity.StrategyAny, checks[1].StatusStrategy())
	assert.Equal(t, DescriptionGnosisSafe, checks[2].Description)
	assert.Equal(t, entity.StrategyAny, checks[2].StatusStrategy())
	assert.Equal(t, DescriptionTransactions, checks[3].Description)
	assert.Equal(t, entity.StrategyAny, checks[3].StatusStrategy())
}

func TestCheckEOA(t *testing.T) {
	ctx := context.Background()

	res, err := checkEOA(ctx, testAddress, codeGateway(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSuccess, res.Status)

	res, err = checkEOA(ctx, testAddress, codeGateway([]byte{0x60, 0x80}, nil))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusError, res.Status)

	_, err = checkEOA(ctx, testAddress, codeGateway(nil, errors.New("boom")))
	assert.Error(t, err)
}

func TestCheckContract(t *testing.T) {
	ctx := context.Background()

	res, err := checkContract(ctx, testAddress, codeGateway([]byte{0x60, 0x80}, nil))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSuccess, res.Status)
	assert.False(t, res.HasMetadata())

	res, err = checkContract(ctx, testAddress, codeGateway(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusError, res.Status)

	_, err = checkContract(ctx, testAddress, codeGateway(nil, errors.New("boom")))
	assert.Error(t, err)
}

func TestCheckGnosisSafe(t *testing.T) {
	t.Run("safe", func(t *testing.T) {
		gw := &servicetest.Gateway{
			CallFunc: func(_ context.Context, contract common.Address, method string, _ ...any) ([]any, error) {
				assert.Equal(t, testAddress, contract)
				switch method {
				case "getOwners":
					return []any{[]common.Address{ownerA, ownerB}}, nil
				case "getThreshold":
					return []any{big.NewInt(2)}, nil
				}
				return nil, errors.New("unexpected method")
			},
		}

		res, err := checkGnosisSafe(context.Background(), testAddress, gw)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusSuccess, res.Status)
		assert.Equal(t, []string{ownerA.Hex(), ownerB.Hex()}, res.Metadata["owners"])
		assert.Equal(t, "2", res.Metadata["threshold"])
		assert.Equal(t, int64(2), gw.Calls())
	})

	t.Run("call fails", func(t *testing.T) {
		gw := &servicetest.Gateway{
			CallFunc: func(_ context.Context, _ common.Address, method string, _ ...any) ([]any, error) {
				if method == "getThreshold" {
					return nil, errors.New("execution reverted")
				}
				return []any{[]common.Address{ownerA}}, nil
			},
		}

		res, err := checkGnosisSafe(context.Background(), testAddress, gw)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusError, res.Status)
		assert.False(t, res.HasMetadata())
	})

	t.Run("unexpected output", func(t *testing.T) {
		gw := &servicetest.Gateway{
			CallFunc: func(context.Context, common.Address, string, ...any) ([]any, error) {
				return []any{"nope"}, nil
			},
		}

		res, err := checkGnosisSafe(context.Background(), testAddress, gw)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusError, res.Status)
	})
}

func TestCheckTransactions(t *testing.T) {
	count := func(n uint64, err error) *servicetest.Gateway {
		return &servicetest.Gateway{
			GetTransactionCountFunc: func(context.Context, common.Address) (uint64, error) {
				return n, err
			},
		}
	}
	ctx := context.Background()

	res, err := checkTransactions(ctx, testAddress, count(0, nil))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusError, res.Status)
	assert.False(t, res.HasMetadata())

	res, err = checkTransactions(ctx, testAddress, count(42, nil))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSuccess, res.Status)
	assert.Equal(t, uint64(42), res.Metadata["count"])

	_, err = checkTransactions(ctx, testAddress, count(0, errors.New("timeout")))
	assert.Error(t, err)
}

func TestGnosisSafeABIMethods(t *testing.T) {
	_, ok := GnosisSafeABI.Methods["getOwners"]
	assert.True(t, ok)
	_, ok = GnosisSafeABI.Methods["getThreshold"]
	assert.True(t, ok)
}
