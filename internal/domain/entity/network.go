package entity

// Network identifies one blockchain the system queries in read-only mode.
type Network string

// Known networks, in registry order.
const (
	NetworkMainnet   Network = "mainnet"
	NetworkPolygon   Network = "polygon"
	NetworkAvalanche Network = "avalanche"
	NetworkFantom    Network = "fantom"
	NetworkOptimism  Network = "optimism"
	NetworkArbitrum  Network = "arbitrum"
)

// String returns the network identifier.
func (n Network) String() string {
	return string(n)
}

// NetworkDefinition holds the static description of a network.
type NetworkDefinition struct {
	ID          Network
	ChainID     uint64
	RPC         RPCURL
	ExplorerURL string
}

// NetworkInfo describes a registered network to clients.
type NetworkInfo struct {
	Network     Network `json:"network"`
	ChainID     uint64  `json:"chainId,omitempty"`
	ExplorerURL string  `json:"explorerUrl"`
	Home        bool    `json:"home"`
}
