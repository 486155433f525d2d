package servicetest

import (
	"context"
	"strings"
	"sync"

	"address-inspector/internal/domain"
	domainService "address-inspector/internal/domain/service"

	"github.com/ethereum/go-ethereum/common"
)

// Compile-time check
var _ domainService.NameService = (*NameService)(nil)

// NameService resolves from fixed maps. LookupBlock, when set, delays reverse
// lookups until it is closed or ctx ends.
type NameService struct {
	Names       map[string]common.Address
	Reverse     map[common.Address]string
	LookupBlock chan struct{}

	mu       sync.Mutex
	resolved []string
	lookedUp []common.Address
}

func (s *NameService) ResolveName(_ context.Context, name string) (common.Address, error) {
	s.mu.Lock()
	s.resolved = append(s.resolved, name)
	s.mu.Unlock()

	addr, ok := s.Names[strings.ToLower(name)]
	if !ok {
		return common.Address{}, domain.ErrNameNotFound
	}
	return addr, nil
}

func (s *NameService) LookupAddress(ctx context.Context, address common.Address) (string, error) {
	s.mu.Lock()
	s.lookedUp = append(s.lookedUp, address)
	s.mu.Unlock()

	if s.LookupBlock != nil {
		select {
		case <-s.LookupBlock:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	name, ok := s.Reverse[address]
	if !ok {
		return "", domain.ErrNameNotFound
	}
	return name, nil
}

// Resolved returns the names passed to ResolveName.
func (s *NameService) Resolved() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.resolved...)
}

// LookedUp returns the addresses passed to LookupAddress.
func (s *NameService) LookedUp() []common.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]common.Address(nil), s.lookedUp...)
}
