package application

import (
	"context"
	"sync"

	"address-inspector/internal/domain"
	"address-inspector/internal/domain/entity"
	domainService "address-inspector/internal/domain/service"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Lookup owns the view model of one identifier and at most one active run.
// Starting a new run cancels the previous one.
type Lookup struct {
	id        string
	view      *ViewModel
	resolver  *IdentityResolver
	engine    *EvaluationEngine
	exporter  *EventExporter
	logger    *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLookup creates an idle lookup.
func NewLookup(
	id string,
	registry domainService.NetworkRegistry,
	resolver *IdentityResolver,
	engine *EvaluationEngine,
	exporter *EventExporter,
	logger *zap.Logger,
) *Lookup {
	return &Lookup{
		id:        id,
		view:      NewViewModel(registry),
		resolver:  resolver,
		engine:    engine,
		exporter:  exporter,
		logger:    logger.Named("Lookup").With(zap.String("lookupId", id)),
	}
}

// Start cancels the active run, if any, and begins a new one for input.
// The run is bound to parent, not to the caller's request.
func (l *Lookup) Start(parent context.Context, input string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.logger.Info("Cancelling in-flight run")
		l.cancel()
	}

	gen := l.view.Begin(input)
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	go func() {
		defer close(done)
		defer cancel()
		l.run(ctx, gen, input)
	}()
}

// Stop cancels the active run. The view model keeps its last state.
func (l *Lookup) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}

// Wait blocks until the active run, including its reverse lookup, has ended.
func (l *Lookup) Wait(ctx context.Context) error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the current view.
func (l *Lookup) Snapshot() entity.LookupSnapshot {
	return l.view.Snapshot()
}

// Watch returns the current view and a channel closed on the next change.
func (l *Lookup) Watch() (entity.LookupSnapshot, <-chan struct{}) {
	return l.view.Watch()
}

func (l *Lookup) run(ctx context.Context, gen uint64, input string) {
	l.logger.Info("Run started", zap.String("input", input), zap.Uint64("generation", gen))

	identity, err := l.resolver.Resolve(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		l.logger.Info("Resolution failed", zap.String("input", input), zap.Error(err))
		l.emit(gen, entity.Event{Kind: entity.EventFailed, Error: domain.ErrInvalidIdentity.Error()})
		return
	}
	if !l.emit(gen, entity.Event{Kind: entity.EventResolved, Identity: &identity}) {
		return
	}

	address := common.HexToAddress(identity.Address)

	var reverse <-chan struct{}
	if identity.DisplayName == "" {
		reverse = l.resolver.ReverseLookup(ctx, address, func(name string) {
			l.emit(gen, entity.Event{Kind: entity.EventDisplayName, DisplayName: name})
		})
	}

	for ev := range l.engine.Run(ctx, address) {
		l.emit(gen, ev)
	}

	if reverse != nil {
		<-reverse
	}
	l.logger.Info("Run ended", zap.Uint64("generation", gen), zap.Bool("cancelled", ctx.Err() != nil))
}

// emit applies ev to the view model and queues it for export. Events of
// superseded runs are dropped.
func (l *Lookup) emit(gen uint64, ev entity.Event) bool {
	if !l.view.Apply(gen, ev) {
		return false
	}
	l.exporter.Export(l.id, ev)
	return true
}
