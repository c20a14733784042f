package storage

import (
	"errors"

	"github.com/geanlabs/beacon/types"
)

// ErrNotFound reports a missing record.
var ErrNotFound = errors.New("storage: not found")

// Recovered is the restart state reconstructed from a Database.
type Recovered struct {
	Time        uint64
	GenesisTime uint64

	FinalizedCheckpoint     types.Checkpoint
	FinalizedBlock          *types.SignedBeaconBlock
	FinalizedState          *types.BeaconState
	JustifiedCheckpoint     types.Checkpoint
	BestJustifiedCheckpoint types.Checkpoint

	HotBlocks map[types.Root]*types.SignedBeaconBlock
	HotStates map[types.Root]*types.BeaconState

	Votes map[types.ValidatorIndex]types.Vote
}

// Database is the durable backend. Implementations must apply updates
// idempotently and preserve the canonical finalized chain for historical
// block-by-slot lookups.
type Database interface {
	// ApplyUpdate applies one committed transaction's mutations.
	ApplyUpdate(u *Update) error

	// Recover reconstructs the store bootstrap state, or ErrNotFound when
	// the database holds no finalized anchor.
	Recover() (*Recovered, error)

	// BlockByRoot returns any stored block, hot or finalized.
	BlockByRoot(root types.Root) (*types.SignedBeaconBlock, error)

	// BlockInEffectAtSlot returns the canonical finalized block with the
	// greatest slot not exceeding the given slot.
	BlockInEffectAtSlot(slot types.Slot) (*types.SignedBeaconBlock, error)

	Close() error
}
