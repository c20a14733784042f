package memory

import (
	"errors"
	"testing"

	"github.com/geanlabs/beacon/storage"
	"github.com/geanlabs/beacon/types"
)

func block(slot types.Slot, parent types.Root) (*types.SignedBeaconBlock, types.Root) {
	blk := &types.SignedBeaconBlock{
		Message: &types.BeaconBlock{
			Slot:       slot,
			ParentRoot: parent,
			Body:       &types.BeaconBlockBody{},
		},
	}
	root, err := blk.Message.HashTreeRoot()
	if err != nil {
		panic(err)
	}
	return blk, root
}

func emptyState() *types.BeaconState {
	return &types.BeaconState{
		BlockRoots:  make([]types.Root, 64),
		StateRoots:  make([]types.Root, 64),
		RandaoMixes: make([]types.Root, 64),
		Slashings:   make([]uint64, 64),
	}
}

func TestApplyAndRecover(t *testing.T) {
	db := New()

	genesis, genesisRoot := block(0, types.Root{})
	b1, r1 := block(1, genesisRoot)
	b2, r2 := block(2, r1)

	update := &storage.Update{
		GenesisTime: ptr(uint64(1000)),
		Finalized: &storage.FinalizedData{
			Checkpoint: types.Checkpoint{Epoch: 0, Root: genesisRoot},
			Block:      genesis,
			State:      emptyState(),
		},
		HotBlocks: map[types.Root]*types.SignedBeaconBlock{
			genesisRoot: genesis,
			r1:          b1,
			r2:          b2,
		},
		HotStatesToPersist: map[types.Root]*types.BeaconState{genesisRoot: emptyState()},
		Votes: map[types.ValidatorIndex]types.Vote{
			4: {TargetRoot: r1, TargetEpoch: 1},
		},
	}
	if err := db.ApplyUpdate(update); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}

	rec, err := db.Recover()
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if rec.FinalizedCheckpoint.Root != genesisRoot {
		t.Error("recovered wrong finalized checkpoint")
	}
	// The finalized block itself is canonical, not hot.
	if _, ok := rec.HotBlocks[genesisRoot]; ok {
		t.Error("finalized block recovered as hot")
	}
	if _, ok := rec.HotBlocks[r1]; !ok {
		t.Error("hot block missing after recovery")
	}
	if v, ok := rec.Votes[4]; !ok || v.TargetEpoch != 1 {
		t.Error("vote missing after recovery")
	}
	if rec.GenesisTime != 1000 {
		t.Errorf("genesis time = %d", rec.GenesisTime)
	}

	// Replaying the same update is harmless.
	if err := db.ApplyUpdate(update); err != nil {
		t.Fatalf("idempotent reapply: %v", err)
	}
}

func TestFinalizationKeepsCanonicalChain(t *testing.T) {
	db := New()

	genesis, genesisRoot := block(0, types.Root{})
	b1, r1 := block(1, genesisRoot)
	b2, r2 := block(2, r1)
	fork, forkRoot := block(2, genesisRoot) // Competing branch.

	if err := db.ApplyUpdate(&storage.Update{
		Finalized: &storage.FinalizedData{
			Checkpoint: types.Checkpoint{Epoch: 0, Root: genesisRoot},
			Block:      genesis,
			State:      emptyState(),
		},
		HotBlocks: map[types.Root]*types.SignedBeaconBlock{
			genesisRoot: genesis, r1: b1, r2: b2, forkRoot: fork,
		},
	}); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}

	// Finalize b2: its ancestors become canonical; the fork is pruned.
	if err := db.ApplyUpdate(&storage.Update{
		Finalized: &storage.FinalizedData{
			Checkpoint: types.Checkpoint{Epoch: 1, Root: r2},
			Block:      b2,
			State:      emptyState(),
		},
		PrunedHotBlockRoots: []types.Root{genesisRoot, r1, forkRoot},
	}); err != nil {
		t.Fatalf("ApplyUpdate finalization: %v", err)
	}

	// Canonical lookups resolve through pruned-but-canonical ancestors.
	for slot, want := range map[types.Slot]types.Root{0: genesisRoot, 1: r1, 2: r2, 9: r2} {
		blk, err := db.BlockInEffectAtSlot(slot)
		if err != nil {
			t.Fatalf("BlockInEffectAtSlot(%d): %v", slot, err)
		}
		root, _ := blk.Message.HashTreeRoot()
		if root != want {
			t.Errorf("slot %d resolved to %s, want %s", slot, types.Root(root).Short(), want.Short())
		}
	}

	// The non-canonical fork is really gone.
	if _, err := db.BlockByRoot(forkRoot); !errors.Is(err, storage.ErrNotFound) {
		t.Error("pruned fork block still readable")
	}
	// Canonical ancestors survive pruning.
	if _, err := db.BlockByRoot(r1); err != nil {
		t.Error("canonical ancestor was deleted")
	}
}

func TestRecoverEmpty(t *testing.T) {
	db := New()
	if _, err := db.Recover(); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Recover on empty db = %v, want ErrNotFound", err)
	}
}

func ptr[T any](v T) *T { return &v }
