// Package storage defines the durable storage contract: the Update event
// stream emitted by store transactions and the Database interface that
// consumes it.
package storage

import (
	"github.com/geanlabs/beacon/types"
)

// SlotAndBlockRoot locates a state root within the chain.
type SlotAndBlockRoot struct {
	Slot      types.Slot
	BlockRoot types.Root
}

// FinalizedData carries the chain data promoted by a finalization event.
type FinalizedData struct {
	Checkpoint types.Checkpoint
	Block      *types.SignedBeaconBlock
	State      *types.BeaconState
}

// Update is the atomic mutation batch produced by a committed store
// transaction. The durable backend applies updates idempotently and in
// commit order; the update stream is the source of truth for durability.
type Update struct {
	Time        *uint64
	GenesisTime *uint64

	Finalized               *FinalizedData
	JustifiedCheckpoint     *types.Checkpoint
	BestJustifiedCheckpoint *types.Checkpoint

	HotBlocks          map[types.Root]*types.SignedBeaconBlock
	HotStatesToPersist map[types.Root]*types.BeaconState

	PrunedHotBlockRoots []types.Root

	Votes map[types.ValidatorIndex]types.Vote

	StateRoots map[types.Root]SlotAndBlockRoot
}
