package servicetest

import (
	"fmt"

	"address-inspector/internal/domain"
	"address-inspector/internal/domain/entity"
	domainService "address-inspector/internal/domain/service"
)

// Compile-time check
var _ domainService.NetworkRegistry = (*Registry)(nil)

// Registry is an ordered in-memory registry of fake gateways.
type Registry struct {
	Order    []entity.Network
	Gateways map[entity.Network]domainService.Gateway
	HomeID   entity.Network
}

// NewRegistry builds a registry with a fresh Gateway per network; the first network is home.
func NewRegistry(networks ...entity.Network) *Registry {
	r := &Registry{
		Order:    networks,
		Gateways: make(map[entity.Network]domainService.Gateway, len(networks)),
	}
	for _, n := range networks {
		r.Gateways[n] = &Gateway{}
	}
	if len(networks) > 0 {
		r.HomeID = networks[0]
	}
	return r
}

// Fake returns the fake gateway of a network.
func (r *Registry) Fake(network entity.Network) *Gateway {
	gw, _ := r.Gateways[network].(*Gateway)
	return gw
}

func (r *Registry) Networks() []entity.Network {
	return append([]entity.Network(nil), r.Order...)
}

func (r *Registry) Gateway(network entity.Network) (domainService.Gateway, error) {
	gw, ok := r.Gateways[network]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownNetwork, network)
	}
	return gw, nil
}

func (r *Registry) ExplorerURL(network entity.Network) (string, error) {
	if _, ok := r.Gateways[network]; !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownNetwork, network)
	}
	return "https://" + string(network) + ".explorer.test/", nil
}

func (r *Registry) Home() entity.Network {
	return r.HomeID
}
