package networks_dto

// TableRaw is the network table as written in networks.yaml.
type TableRaw struct {
	Home     string       `yaml:"home"`
	Networks []NetworkRaw `yaml:"networks"`
}

// NetworkRaw is one row of the network table.
type NetworkRaw struct {
	ID       string `yaml:"id"`
	ChainID  uint64 `yaml:"chainId"`
	RPC      string `yaml:"rpc"`
	Explorer string `yaml:"explorer"`
}
