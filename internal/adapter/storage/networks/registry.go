package networks

import (
	_ "embed"
	"fmt"

	dto "address-inspector/internal/adapter/storage/networks/dto"
	"address-inspector/internal/config"
	"address-inspector/internal/domain"
	"address-inspector/internal/domain/entity"
	domainService "address-inspector/internal/domain/service"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Compile-time check
var _ domainService.NetworkRegistry = (*Registry)(nil)

//go:embed networks.yaml
var defaultTable []byte

// GatewayFactory builds the gateway of one network.
type GatewayFactory func(def entity.NetworkDefinition) domainService.Gateway

// Registry implements domainService.NetworkRegistry over a fixed table.
type Registry struct {
	order    []entity.Network
	defs     map[entity.Network]entity.NetworkDefinition
	gateways map[entity.Network]domainService.Gateway
	home     entity.Network
	logger   *zap.Logger
}

// NewRegistry builds the registry from the embedded network table.
func NewRegistry(cfg config.NetworksConfig, factory GatewayFactory, logger *zap.Logger) (*Registry, error) {
	return NewRegistryFromTable(defaultTable, cfg, factory, logger)
}

// NewRegistryFromTable builds the registry from a YAML table.
func NewRegistryFromTable(
	table []byte,
	cfg config.NetworksConfig,
	factory GatewayFactory,
	logger *zap.Logger,
) (*Registry, error) {
	var raw dto.TableRaw
	if err := yaml.Unmarshal(table, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedNetworkTable, err)
	}

	defs, err := toDomainNetworks(raw.Networks, cfg.Overrides)
	if err != nil {
		return nil, err
	}

	home := entity.Network(raw.Home)
	if cfg.Home != "" {
		home = entity.Network(cfg.Home)
	}

	r := &Registry{
		order:    make([]entity.Network, 0, len(defs)),
		defs:     make(map[entity.Network]entity.NetworkDefinition, len(defs)),
		gateways: make(map[entity.Network]domainService.Gateway, len(defs)),
		home:     home,
		logger:   logger.Named("NetworkRegistry"),
	}
	for _, def := range defs {
		r.order = append(r.order, def.ID)
		r.defs[def.ID] = def
		r.gateways[def.ID] = factory(def)
	}

	if _, ok := r.defs[home]; !ok {
		return nil, fmt.Errorf("%w: home network %q", domain.ErrUnknownNetwork, home)
	}

	r.logger.Info("Network registry initialized",
		zap.Int("count", len(r.order)),
		zap.Stringer("home", home),
	)
	return r, nil
}

// Networks returns every network in registry order.
func (r *Registry) Networks() []entity.Network {
	out := make([]entity.Network, len(r.order))
	copy(out, r.order)
	return out
}

// Gateway returns the gateway of a registered network.
func (r *Registry) Gateway(network entity.Network) (domainService.Gateway, error) {
	gw, ok := r.gateways[network]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownNetwork, network)
	}
	return gw, nil
}

// ExplorerURL returns the explorer base URL of a registered network.
func (r *Registry) ExplorerURL(network entity.Network) (string, error) {
	def, ok := r.defs[network]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownNetwork, network)
	}
	return def.ExplorerURL, nil
}

// Definition returns the static definition of a registered network.
func (r *Registry) Definition(network entity.Network) (entity.NetworkDefinition, bool) {
	def, ok := r.defs[network]
	return def, ok
}

// Home returns the network used for name resolution.
func (r *Registry) Home() entity.Network {
	return r.home
}
