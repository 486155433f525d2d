package networks

import (
	"testing"

	"address-inspector/internal/config"
	"address-inspector/internal/domain"
	"address-inspector/internal/domain/entity"
	domainService "address-inspector/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// nilFactory records the definitions it was asked to build gateways for.
type nilFactory struct {
	built []entity.NetworkDefinition
}

func (f *nilFactory) build(def entity.NetworkDefinition) domainService.Gateway {
	f.built = append(f.built, def)
	return nil
}

func TestDefaultTable(t *testing.T) {
	f := &nilFactory{}
	r, err := NewRegistry(config.NetworksConfig{}, f.build, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []entity.Network{
		entity.NetworkMainnet,
		entity.NetworkPolygon,
		entity.NetworkAvalanche,
		entity.NetworkFantom,
		entity.NetworkOptimism,
		entity.NetworkArbitrum,
	}, r.Networks())
	assert.Equal(t, entity.NetworkMainnet, r.Home())
	assert.Len(t, f.built, 6)

	explorer, err := r.ExplorerURL(entity.NetworkAvalanche)
	require.NoError(t, err)
	assert.Equal(t, "https://snowtrace.io/", explorer)

	def, ok := r.Definition(entity.NetworkArbitrum)
	require.True(t, ok)
	assert.Equal(t, uint64(42161), def.ChainID)
}

func TestOverridesAndHome(t *testing.T) {
	f := &nilFactory{}
	r, err := NewRegistry(config.NetworksConfig{
		Home:      "polygon",
		Overrides: map[string]string{"polygon": "wss://polygon.example/ws"},
	}, f.build, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, entity.NetworkPolygon, r.Home())
	def, _ := r.Definition(entity.NetworkPolygon)
	assert.Equal(t, entity.RPCURL("wss://polygon.example/ws"), def.RPC)
}

func TestUnknownLookups(t *testing.T) {
	r, err := NewRegistry(config.NetworksConfig{}, (&nilFactory{}).build, zap.NewNop())
	require.NoError(t, err)

	_, err = r.Gateway("bsc")
	assert.ErrorIs(t, err, domain.ErrUnknownNetwork)
	_, err = r.ExplorerURL("bsc")
	assert.ErrorIs(t, err, domain.ErrUnknownNetwork)
}

func TestMalformedTables(t *testing.T) {
	tests := []struct {
		name  string
		table string
		cfg   config.NetworksConfig
		want  error
	}{
		{"not yaml", "networks: [", config.NetworksConfig{}, domain.ErrMalformedNetworkTable},
		{"empty", "home: mainnet\nnetworks: []\n", config.NetworksConfig{}, domain.ErrMalformedNetworkTable},
		{
			"duplicate id",
			"home: a\nnetworks:\n  - {id: a, rpc: 'https://a.example'}\n  - {id: a, rpc: 'https://b.example'}\n",
			config.NetworksConfig{},
			domain.ErrMalformedNetworkTable,
		},
		{
			"bad rpc",
			"home: a\nnetworks:\n  - {id: a, rpc: 'ftp://a.example'}\n",
			config.NetworksConfig{},
			domain.ErrMalformedNetworkTable,
		},
		{
			"unknown home",
			"home: b\nnetworks:\n  - {id: a, rpc: 'https://a.example'}\n",
			config.NetworksConfig{},
			domain.ErrUnknownNetwork,
		},
		{
			"override for unknown network",
			"home: a\nnetworks:\n  - {id: a, rpc: 'https://a.example'}\n",
			config.NetworksConfig{Overrides: map[string]string{"b": "https://b.example"}},
			domain.ErrUnknownNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistryFromTable([]byte(tt.table), tt.cfg, (&nilFactory{}).build, zap.NewNop())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
