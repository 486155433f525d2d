package application

import (
	"sync"

	"address-inspector/internal/domain/entity"
	domainService "address-inspector/internal/domain/service"
)

// ViewModel is the observable state of one lookup. Only events of the current
// generation are applied, so a cancelled run can never overwrite a newer one.
type ViewModel struct {
	registry domainService.NetworkRegistry

	mu           sync.RWMutex
	generation   uint64
	version      uint64
	changed      chan struct{}
	input        string
	address      string
	displayName  string
	state        entity.RunState
	currentCheck int
	outcomes     []entity.CheckOutcome
	err          string
}

// NewViewModel creates an idle view model.
func NewViewModel(registry domainService.NetworkRegistry) *ViewModel {
	return &ViewModel{
		registry:     registry,
		changed:      make(chan struct{}),
		state:        entity.RunStateIdle,
		currentCheck: -1,
	}
}

// Begin discards the previous run's state and returns the generation of the new run.
func (vm *ViewModel) Begin(input string) uint64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.generation++
	vm.input = input
	vm.address = ""
	vm.displayName = ""
	vm.state = entity.RunStateResolving
	vm.currentCheck = -1
	vm.outcomes = nil
	vm.err = ""
	vm.notifyLocked()

	return vm.generation
}

// Apply folds one event of run generation gen into the state.
// It reports false when the event belongs to a superseded run.
func (vm *ViewModel) Apply(gen uint64, ev entity.Event) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if gen != vm.generation {
		return false
	}

	switch ev.Kind {
	case entity.EventResolved:
		if ev.Identity != nil {
			vm.address = ev.Identity.Address
			if ev.Identity.DisplayName != "" {
				vm.displayName = ev.Identity.DisplayName
			}
		}
		vm.state = entity.RunStateRunning

	case entity.EventDisplayName:
		if vm.displayName != "" || ev.DisplayName == "" {
			return false
		}
		vm.displayName = ev.DisplayName

	case entity.EventCheckStarted:
		if ev.Outcome == nil || ev.CheckIndex < 0 || ev.CheckIndex > len(vm.outcomes) {
			return false
		}
		outcome := ev.Outcome.Clone()
		if ev.CheckIndex == len(vm.outcomes) {
			vm.outcomes = append(vm.outcomes, outcome)
		} else {
			vm.outcomes[ev.CheckIndex] = outcome
		}
		vm.currentCheck = ev.CheckIndex

	case entity.EventNetworkSettled:
		if ev.Result == nil || ev.CheckIndex < 0 || ev.CheckIndex >= len(vm.outcomes) {
			return false
		}
		vm.outcomes[ev.CheckIndex].NetworkResults[ev.Network] = *ev.Result

	case entity.EventCheckFinished:
		if ev.CheckIndex < 0 || ev.CheckIndex >= len(vm.outcomes) {
			return false
		}
		if ev.Outcome != nil {
			vm.outcomes[ev.CheckIndex] = ev.Outcome.Clone()
		}
		vm.outcomes[ev.CheckIndex].Status = ev.Status
		vm.outcomes[ev.CheckIndex].Loading = false

	case entity.EventFailed:
		vm.address = ""
		vm.displayName = ""
		vm.outcomes = nil
		vm.err = ev.Error
		vm.state = entity.RunStateFailed
		vm.currentCheck = -1

	case entity.EventDone:
		vm.state = entity.RunStateDone
		vm.currentCheck = -1

	default:
		return false
	}

	vm.notifyLocked()
	return true
}

// Snapshot returns a copy of the current state.
func (vm *ViewModel) Snapshot() entity.LookupSnapshot {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.snapshotLocked()
}

// Watch returns the current state and a channel closed on the next change.
func (vm *ViewModel) Watch() (entity.LookupSnapshot, <-chan struct{}) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.snapshotLocked(), vm.changed
}

func (vm *ViewModel) notifyLocked() {
	vm.version++
	close(vm.changed)
	vm.changed = make(chan struct{})
}

func (vm *ViewModel) snapshotLocked() entity.LookupSnapshot {
	networks := vm.registry.Networks()

	outcomes := make([]entity.CheckOutcome, 0, len(vm.outcomes))
	for _, o := range vm.outcomes {
		outcomes = append(outcomes, o.Clone())
	}

	links := make([]entity.NetworkLink, 0, len(networks))
	for _, n := range networks {
		link := entity.NetworkLink{Network: n}
		if vm.address != "" {
			if base, err := vm.registry.ExplorerURL(n); err == nil {
				link.ExplorerURL = entity.ExplorerAddressURL(base, vm.address)
			}
		}
		links = append(links, link)
	}

	return entity.LookupSnapshot{
		Input:            vm.input,
		Address:          vm.address,
		ShortAddress:     entity.ShortAddress(vm.address),
		DisplayName:      vm.displayName,
		State:            vm.state,
		CurrentCheck:     vm.currentCheck,
		Networks:         links,
		DetectedNetworks: detectedNetworks(vm.outcomes, networks),
		Outcomes:         outcomes,
		Error:            vm.err,
		Version:          vm.version,
	}
}

// detectedNetworks lists the networks that produced metadata in any check, in
// order of first appearance walking checks in catalog order and networks in
// registry order.
func detectedNetworks(outcomes []entity.CheckOutcome, networks []entity.Network) []entity.Network {
	seen := make(map[entity.Network]struct{}, len(networks))
	detected := make([]entity.Network, 0, len(networks))
	for _, o := range outcomes {
		for _, n := range networks {
			if _, ok := seen[n]; ok {
				continue
			}
			if r, ok := o.NetworkResults[n]; ok && r.HasMetadata() {
				seen[n] = struct{}{}
				detected = append(detected, n)
			}
		}
	}
	return detected
}
