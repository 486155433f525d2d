package application

import (
	"context"
	"fmt"
	"strings"

	"address-inspector/internal/application/port"
	"address-inspector/internal/config"
	"address-inspector/internal/domain"
	"address-inspector/internal/domain/entity"
	domainRepo "address-inspector/internal/domain/repository"
	domainService "address-inspector/internal/domain/service"
	"address-inspector/internal/pkg/apperrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time check to ensure lookupService implements LookupService
var _ port.LookupService = (*lookupService)(nil)

// definitionSource is implemented by registries that expose static network definitions.
type definitionSource interface {
	Definition(network entity.Network) (entity.NetworkDefinition, bool)
}

// lookupService implements the port.LookupService interface on top of an in-memory session store.
type lookupService struct {
	rootCtx   context.Context
	registry  domainService.NetworkRegistry
	resolver  *IdentityResolver
	engine    *EvaluationEngine
	exporter  *EventExporter
	sessions  domainRepo.LookupRepository[*Lookup]
	cfg       config.SessionConfig
	logger    *zap.Logger
	newID     func() string
}

// NewLookupService creates a new instance of the lookup service. Runs are bound
// to rootCtx so they outlive the request that started them.
func NewLookupService(
	rootCtx context.Context,
	registry domainService.NetworkRegistry,
	resolver *IdentityResolver,
	engine *EvaluationEngine,
	exporter *EventExporter,
	sessions domainRepo.LookupRepository[*Lookup],
	cfg config.SessionConfig,
	logger *zap.Logger,
) port.LookupService {
	return &lookupService{
		rootCtx:   rootCtx,
		registry:  registry,
		resolver:  resolver,
		engine:    engine,
		exporter:  exporter,
		sessions:  sessions,
		cfg:       cfg,
		logger:    logger.Named("LookupService"),
		newID:     func() string { return uuid.NewString() },
	}
}

// StartLookup creates a lookup for input and starts its first run.
func (s *lookupService) StartLookup(_ context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: input is empty", apperrors.ErrInvalidInput)
	}

	id := s.newID()
	lookup := NewLookup(id, s.registry, s.resolver, s.engine, s.exporter, s.logger)
	s.sessions.Set(id, lookup, s.cfg.GetTTL())
	lookup.Start(s.rootCtx, input)

	s.logger.Info("Lookup started", zap.String("lookupId", id), zap.String("input", input))
	return id, nil
}

// RestartLookup cancels the active run of a lookup and starts a new one.
func (s *lookupService) RestartLookup(_ context.Context, id string, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("%w: input is empty", apperrors.ErrInvalidInput)
	}

	lookup, err := s.get(id)
	if err != nil {
		return err
	}
	lookup.Start(s.rootCtx, input)

	s.logger.Info("Lookup restarted", zap.String("lookupId", id), zap.String("input", input))
	return nil
}

// GetLookup returns the current view of a lookup.
func (s *lookupService) GetLookup(_ context.Context, id string) (entity.LookupSnapshot, error) {
	lookup, err := s.get(id)
	if err != nil {
		return entity.LookupSnapshot{}, err
	}
	return lookup.Snapshot(), nil
}

// WatchLookup returns the current view of a lookup and a change notification channel.
func (s *lookupService) WatchLookup(_ context.Context, id string) (entity.LookupSnapshot, <-chan struct{}, error) {
	lookup, err := s.get(id)
	if err != nil {
		return entity.LookupSnapshot{}, nil, err
	}
	snap, changed := lookup.Watch()
	return snap, changed, nil
}

// DeleteLookup stops a lookup's run and forgets it.
func (s *lookupService) DeleteLookup(_ context.Context, id string) error {
	if _, found := s.sessions.Get(id); !found {
		return fmt.Errorf("%w: %s", domain.ErrLookupNotFound, id)
	}
	// The session store's eviction hook stops the run.
	s.sessions.Delete(id)

	s.logger.Info("Lookup deleted", zap.String("lookupId", id))
	return nil
}

// ListNetworks returns the registry in order with explorer bases and the home flag.
func (s *lookupService) ListNetworks(_ context.Context) []entity.NetworkInfo {
	defs, _ := s.registry.(definitionSource)
	home := s.registry.Home()

	networks := s.registry.Networks()
	out := make([]entity.NetworkInfo, 0, len(networks))
	for _, n := range networks {
		info := entity.NetworkInfo{Network: n, Home: n == home}
		if base, err := s.registry.ExplorerURL(n); err == nil {
			info.ExplorerURL = base
		}
		if defs != nil {
			if def, ok := defs.Definition(n); ok {
				info.ChainID = def.ChainID
			}
		}
		out = append(out, info)
	}
	return out
}

// get returns a live lookup and extends its lifetime.
func (s *lookupService) get(id string) (*Lookup, error) {
	lookup, found := s.sessions.Get(id)
	if !found || lookup == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrLookupNotFound, id)
	}
	s.sessions.Touch(id, s.cfg.GetTTL())
	return lookup, nil
}
