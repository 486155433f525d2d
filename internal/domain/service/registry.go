package service

import "address-inspector/internal/domain/entity"

// NetworkRegistry is the fixed, ordered set of networks and their gateways.
type NetworkRegistry interface {
	// Networks returns every network in registry order.
	Networks() []entity.Network

	// Gateway returns the gateway of a registered network.
	Gateway(network entity.Network) (Gateway, error)

	// ExplorerURL returns the explorer base URL of a registered network.
	ExplorerURL(network entity.Network) (string, error)

	// Home returns the network used for name resolution.
	Home() entity.Network
}
