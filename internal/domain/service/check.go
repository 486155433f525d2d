package service

import (
	"context"

	"address-inspector/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// EvaluateFunc runs one check against one network.
// An error is recorded by the engine as an error result.
type EvaluateFunc func(ctx context.Context, address common.Address, gw Gateway) (entity.CheckResult, error)

// Check is one entry of the check catalog.
type Check struct {
	Description string
	Strategy    entity.StatusStrategy
	Evaluate    EvaluateFunc
}

// StatusStrategy returns the declared strategy, defaulting to StrategyAll.
func (c Check) StatusStrategy() entity.StatusStrategy {
	if c.Strategy == "" {
		return entity.StrategyAll
	}
	return c.Strategy
}
