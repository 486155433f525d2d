package networks

import (
	"fmt"
	"net/url"

	dto "address-inspector/internal/adapter/storage/networks/dto"
	"address-inspector/internal/domain"
	"address-inspector/internal/domain/entity"
)

// toDomainNetworks validates raw rows and converts them to network definitions,
// applying endpoint overrides keyed by network id.
func toDomainNetworks(rows []dto.NetworkRaw, overrides map[string]string) ([]entity.NetworkDefinition, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no networks defined", domain.ErrMalformedNetworkTable)
	}

	seen := make(map[string]struct{}, len(rows))
	defs := make([]entity.NetworkDefinition, 0, len(rows))
	for i, raw := range rows {
		if raw.ID == "" {
			return nil, fmt.Errorf("%w: row %d has no id", domain.ErrMalformedNetworkTable, i)
		}
		if _, dup := seen[raw.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate network %q", domain.ErrMalformedNetworkTable, raw.ID)
		}
		seen[raw.ID] = struct{}{}

		rawRPC := raw.RPC
		if override, ok := overrides[raw.ID]; ok && override != "" {
			rawRPC = override
		}
		rpcURL, err := entity.NewRPCURL(rawRPC)
		if err != nil {
			return nil, fmt.Errorf("%w: network %q: %v", domain.ErrMalformedNetworkTable, raw.ID, err)
		}

		if raw.Explorer != "" {
			if _, err := url.ParseRequestURI(raw.Explorer); err != nil {
				return nil, fmt.Errorf("%w: network %q has invalid explorer url: %v",
					domain.ErrMalformedNetworkTable, raw.ID, err,
				)
			}
		}

		defs = append(defs, entity.NetworkDefinition{
			ID:          entity.Network(raw.ID),
			ChainID:     raw.ChainID,
			RPC:         rpcURL,
			ExplorerURL: raw.Explorer,
		})
	}

	for id := range overrides {
		if _, ok := seen[id]; !ok {
			return nil, fmt.Errorf("%w: override for %q", domain.ErrUnknownNetwork, id)
		}
	}

	return defs, nil
}
