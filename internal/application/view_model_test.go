package application

import (
	"testing"

	"address-inspector/internal/domain/entity"
	"address-inspector/internal/domain/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func started(index int, networks ...entity.Network) entity.Event {
	o := entity.NewPlaceholderOutcome("check", entity.StrategyAny, networks)
	return entity.Event{Kind: entity.EventCheckStarted, CheckIndex: index, Outcome: &o}
}

func settled(index int, network entity.Network, result entity.CheckResult) entity.Event {
	return entity.Event{Kind: entity.EventNetworkSettled, CheckIndex: index, Network: network, Result: &result}
}

func TestViewModelProgressiveState(t *testing.T) {
	reg := servicetest.NewRegistry(threeNets...)
	vm := NewViewModel(reg)

	idle := vm.Snapshot()
	assert.Equal(t, entity.RunStateIdle, idle.State)
	assert.Empty(t, idle.Outcomes)

	gen := vm.Begin("vitalik.eth")
	assert.Equal(t, entity.RunStateResolving, vm.Snapshot().State)

	require.True(t, vm.Apply(gen, entity.Event{
		Kind:     entity.EventResolved,
		Identity: &entity.ResolvedIdentity{Address: vitalik.Hex(), DisplayName: "vitalik.eth"},
	}))
	snap := vm.Snapshot()
	assert.Equal(t, entity.RunStateRunning, snap.State)
	assert.Equal(t, "0xd8dA6B...A96045", snap.ShortAddress)
	require.Len(t, snap.Networks, len(threeNets))
	assert.Equal(t, "https://mainnet.explorer.test/address/"+vitalik.Hex(), snap.Networks[0].ExplorerURL)

	require.True(t, vm.Apply(gen, started(0, threeNets...)))
	snap = vm.Snapshot()
	require.Len(t, snap.Outcomes, 1)
	assert.True(t, snap.Outcomes[0].Loading)
	assert.Equal(t, 0, snap.CurrentCheck)

	require.True(t, vm.Apply(gen, settled(0, entity.NetworkPolygon, entity.Failure())))
	snap = vm.Snapshot()
	assert.Equal(t, entity.StatusError, snap.Outcomes[0].NetworkResults[entity.NetworkPolygon].Status)
	assert.Equal(t, entity.StatusSuccess, snap.Outcomes[0].NetworkResults[entity.NetworkMainnet].Status)
	assert.True(t, snap.Outcomes[0].Loading)

	require.True(t, vm.Apply(gen, entity.Event{Kind: entity.EventCheckFinished, CheckIndex: 0, Status: entity.StatusError}))
	snap = vm.Snapshot()
	assert.False(t, snap.Outcomes[0].Loading)
	assert.Equal(t, entity.StatusError, snap.Outcomes[0].Status)

	require.True(t, vm.Apply(gen, entity.Event{Kind: entity.EventDone}))
	snap = vm.Snapshot()
	assert.True(t, snap.Finished())
	assert.Equal(t, -1, snap.CurrentCheck)
	assert.Equal(t, "vitalik.eth", snap.DisplayName)
}

func TestViewModelDiscardsStaleGenerations(t *testing.T) {
	vm := NewViewModel(servicetest.NewRegistry(threeNets...))

	old := vm.Begin("first")
	current := vm.Begin("second")

	assert.False(t, vm.Apply(old, started(0, threeNets...)))
	assert.False(t, vm.Apply(old, entity.Event{Kind: entity.EventDone}))
	assert.True(t, vm.Apply(current, started(0, threeNets...)))

	snap := vm.Snapshot()
	assert.Equal(t, "second", snap.Input)
	assert.Equal(t, entity.RunStateResolving, snap.State)
	assert.Len(t, snap.Outcomes, 1)
}

func TestViewModelFailure(t *testing.T) {
	vm := NewViewModel(servicetest.NewRegistry(threeNets...))
	gen := vm.Begin("garbage")

	require.True(t, vm.Apply(gen, entity.Event{Kind: entity.EventFailed, Error: "Invalid address or name"}))

	snap := vm.Snapshot()
	assert.Equal(t, entity.RunStateFailed, snap.State)
	assert.Equal(t, "Invalid address or name", snap.Error)
	assert.Empty(t, snap.Outcomes)
	assert.Empty(t, snap.Address)
	assert.Empty(t, snap.ShortAddress)
	for _, link := range snap.Networks {
		assert.Empty(t, link.ExplorerURL)
	}
}

func TestViewModelDisplayNameAssignedOnce(t *testing.T) {
	vm := NewViewModel(servicetest.NewRegistry(threeNets...))
	gen := vm.Begin(vitalik.Hex())

	vm.Apply(gen, entity.Event{Kind: entity.EventResolved, Identity: &entity.ResolvedIdentity{Address: vitalik.Hex()}})
	assert.True(t, vm.Apply(gen, entity.Event{Kind: entity.EventDisplayName, DisplayName: "vitalik.eth"}))
	assert.False(t, vm.Apply(gen, entity.Event{Kind: entity.EventDisplayName, DisplayName: "other.eth"}))
	assert.Equal(t, "vitalik.eth", vm.Snapshot().DisplayName)
}

func TestViewModelDetectedNetworks(t *testing.T) {
	vm := NewViewModel(servicetest.NewRegistry(threeNets...))
	gen := vm.Begin(vitalik.Hex())

	vm.Apply(gen, started(0, threeNets...))
	vm.Apply(gen, settled(0, entity.NetworkArbitrum, entity.Success(entity.Metadata{"owners": []string{}})))
	vm.Apply(gen, settled(0, entity.NetworkMainnet, entity.Success(nil)))
	vm.Apply(gen, started(1, threeNets...))
	vm.Apply(gen, settled(1, entity.NetworkPolygon, entity.Success(entity.Metadata{"count": uint64(1)})))
	vm.Apply(gen, settled(1, entity.NetworkMainnet, entity.Success(entity.Metadata{"count": uint64(7)})))
	vm.Apply(gen, settled(1, entity.NetworkArbitrum, entity.Success(entity.Metadata{"count": uint64(2)})))

	assert.Equal(t,
		[]entity.Network{entity.NetworkArbitrum, entity.NetworkMainnet, entity.NetworkPolygon},
		vm.Snapshot().DetectedNetworks,
	)
}

func TestViewModelSnapshotsDoNotAlias(t *testing.T) {
	vm := NewViewModel(servicetest.NewRegistry(threeNets...))
	gen := vm.Begin(vitalik.Hex())
	vm.Apply(gen, started(0, threeNets...))

	before := vm.Snapshot()
	vm.Apply(gen, settled(0, entity.NetworkMainnet, entity.Failure()))

	assert.Equal(t, entity.StatusSuccess, before.Outcomes[0].NetworkResults[entity.NetworkMainnet].Status)
	assert.Equal(t, entity.StatusError, vm.Snapshot().Outcomes[0].NetworkResults[entity.NetworkMainnet].Status)
}

func TestViewModelWatch(t *testing.T) {
	vm := NewViewModel(servicetest.NewRegistry(threeNets...))

	snap, changed := vm.Watch()
	select {
	case <-changed:
		t.Fatal("changed before any update")
	default:
	}

	vm.Begin("x")
	select {
	case <-changed:
	default:
		t.Fatal("watch channel not closed on update")
	}
	assert.Greater(t, vm.Snapshot().Version, snap.Version)
}

func TestViewModelRejectsOutOfRangeEvents(t *testing.T) {
	vm := NewViewModel(servicetest.NewRegistry(threeNets...))
	gen := vm.Begin("x")

	assert.False(t, vm.Apply(gen, started(2, threeNets...)))
	assert.False(t, vm.Apply(gen, settled(0, entity.NetworkMainnet, entity.Failure())))
	assert.False(t, vm.Apply(gen, entity.Event{Kind: entity.EventCheckFinished, CheckIndex: 0}))
	assert.False(t, vm.Apply(gen, entity.Event{Kind: "bogus"}))
}
