package application

import (
	"context"
	"fmt"
	"time"

	"address-inspector/internal/domain/entity"
	domainService "address-inspector/internal/domain/service"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// EvaluationEngine runs the check catalog against every registered network.
type EvaluationEngine struct {
	registry domainService.NetworkRegistry
	checks   []domainService.Check
	logger   *zap.Logger
}

// NewEvaluationEngine creates an engine over a fixed registry and catalog.
func NewEvaluationEngine(
	registry domainService.NetworkRegistry,
	checks []domainService.Check,
	logger *zap.Logger,
) *EvaluationEngine {
	return &EvaluationEngine{
		registry: registry,
		checks:   checks,
		logger:   logger.Named("EvaluationEngine"),
	}
}

// settlement is one network's result for the check in progress.
type settlement struct {
	network entity.Network
	result  entity.CheckResult
}

// Run evaluates the catalog for address and streams the progress as events.
// Checks run strictly in catalog order; networks of one check run concurrently.
// The channel is closed after EventDone, or without it once ctx is cancelled.
func (e *EvaluationEngine) Run(ctx context.Context, address common.Address) <-chan entity.Event {
	events := make(chan entity.Event)

	go func() {
		defer close(events)

		emit := func(ev entity.Event) bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		networks := e.registry.Networks()
		started := time.Now()
		e.logger.Info("Starting evaluation",
			zap.String("address", address.Hex()),
			zap.Int("checkCount", len(e.checks)),
			zap.Int("networkCount", len(networks)),
		)

		for i, check := range e.checks {
			if !e.runCheck(ctx, i, check, address, networks, emit) {
				e.logger.Info("Evaluation cancelled",
					zap.String("address", address.Hex()), zap.Int("checkIndex", i),
				)
				return
			}
		}

		e.logger.Info("Evaluation finished",
			zap.String("address", address.Hex()), zap.Duration("elapsed", time.Since(started)),
		)
		emit(entity.Event{Kind: entity.EventDone, CheckIndex: len(e.checks)})
	}()

	return events
}

// runCheck evaluates one check on every network and reports whether the run may continue.
func (e *EvaluationEngine) runCheck(
	ctx context.Context,
	index int,
	check domainService.Check,
	address common.Address,
	networks []entity.Network,
	emit func(entity.Event) bool,
) bool {
	strategy := check.StatusStrategy()
	outcome := entity.NewPlaceholderOutcome(check.Description, strategy, networks)

	placeholder := outcome.Clone()
	if !emit(entity.Event{Kind: entity.EventCheckStarted, CheckIndex: index, Outcome: &placeholder}) {
		return false
	}

	settled := make(chan settlement, len(networks))
	var wg conc.WaitGroup
	for _, network := range networks {
		network := network // per-iteration copy; go.mod targets go 1.21 (pre-1.22 loop semantics)
		wg.Go(func() {
			settled <- settlement{
				network: network,
				result:  e.probe(ctx, index, check, network, address),
			}
		})
	}

	for range networks {
		var s settlement
		select {
		case s = <-settled:
		case <-ctx.Done():
			return false
		}

		outcome.NetworkResults[s.network] = s.result
		result := s.result
		if !emit(entity.Event{
			Kind:       entity.EventNetworkSettled,
			CheckIndex: index,
			Network:    s.network,
			Result:     &result,
		}) {
			return false
		}
	}
	wg.Wait()

	ordered := make([]entity.CheckResult, 0, len(networks))
	for _, network := range networks {
		ordered = append(ordered, outcome.NetworkResults[network])
	}
	outcome.Status = entity.Aggregate(strategy, ordered)
	outcome.Loading = false

	e.logger.Debug("Check finished",
		zap.Int("checkIndex", index),
		zap.String("check", check.Description),
		zap.String("status", string(outcome.Status)),
	)

	final := outcome.Clone()
	return emit(entity.Event{
		Kind:       entity.EventCheckFinished,
		CheckIndex: index,
		Outcome:    &final,
		Status:     outcome.Status,
	})
}

// probe runs one check on one network. Errors and panics become error results.
func (e *EvaluationEngine) probe(
	ctx context.Context,
	index int,
	check domainService.Check,
	network entity.Network,
	address common.Address,
) entity.CheckResult {
	gw, err := e.registry.Gateway(network)
	if err != nil {
		e.logger.Error("No gateway for network", zap.String("network", string(network)), zap.Error(err))
		return entity.Failure()
	}
	if check.Evaluate == nil {
		e.logger.Error("Check has no evaluate function", zap.String("check", check.Description))
		return entity.Failure()
	}

	var (
		result  entity.CheckResult
		evalErr error
		catcher panics.Catcher
	)
	catcher.Try(func() {
		result, evalErr = check.Evaluate(ctx, address, gw)
	})

	if recovered := catcher.Recovered(); recovered != nil {
		e.logger.Error("Check panicked",
			zap.Int("checkIndex", index),
			zap.String("check", check.Description),
			zap.String("network", string(network)),
			zap.String("panic", fmt.Sprint(recovered.Value)),
			zap.ByteString("stack", recovered.Stack),
		)
		return entity.Failure()
	}
	if evalErr != nil {
		e.logger.Debug("Check failed",
			zap.Int("checkIndex", index),
			zap.String("check", check.Description),
			zap.String("network", string(network)),
			zap.Error(evalErr),
		)
		return entity.Failure()
	}

	switch result.Status {
	case entity.StatusSuccess, entity.StatusError, entity.StatusWarning:
		return result
	default:
		e.logger.Warn("Check returned unknown status",
			zap.String("check", check.Description),
			zap.String("network", string(network)),
			zap.String("status", string(result.Status)),
		)
		return entity.Failure()
	}
}
