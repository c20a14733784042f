// Package memory is an in-memory storage.Database, used by tests and
// ephemeral nodes.
package memory

import (
	"sort"
	"sync"

	"github.com/geanlabs/beacon/storage"
	"github.com/geanlabs/beacon/types"
)

// Database keeps every record in maps, mirroring the durable backend's
// semantics (idempotent updates, canonical finalized chain index).
type Database struct {
	mu sync.RWMutex

	time        uint64
	genesisTime uint64

	finalized     types.Checkpoint
	finalizedRoot types.Root
	justified     types.Checkpoint
	bestJustified types.Checkpoint
	hasFinalized  bool

	blocks   map[types.Root]*types.SignedBeaconBlock
	states   map[types.Root]*types.BeaconState
	hotRoots map[types.Root]struct{}

	canonical     map[types.Slot]types.Root
	canonicalAsc  []types.Slot
	votes         map[types.ValidatorIndex]types.Vote
	stateRootsIdx map[types.Root]storage.SlotAndBlockRoot
}

// New creates an empty in-memory database.
func New() *Database {
	return &Database{
		blocks:        make(map[types.Root]*types.SignedBeaconBlock),
		states:        make(map[types.Root]*types.BeaconState),
		hotRoots:      make(map[types.Root]struct{}),
		canonical:     make(map[types.Slot]types.Root),
		votes:         make(map[types.ValidatorIndex]types.Vote),
		stateRootsIdx: make(map[types.Root]storage.SlotAndBlockRoot),
	}
}

func (d *Database) ApplyUpdate(u *storage.Update) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if u.Time != nil {
		d.time = *u.Time
	}
	if u.GenesisTime != nil {
		d.genesisTime = *u.GenesisTime
	}
	if u.JustifiedCheckpoint != nil {
		d.justified = *u.JustifiedCheckpoint
	}
	if u.BestJustifiedCheckpoint != nil {
		d.bestJustified = *u.BestJustifiedCheckpoint
	}

	for root, blk := range u.HotBlocks {
		d.blocks[root] = blk
		d.hotRoots[root] = struct{}{}
	}
	for root, st := range u.HotStatesToPersist {
		d.states[root] = st
	}
	for idx, vote := range u.Votes {
		d.votes[idx] = vote
	}
	for sr, loc := range u.StateRoots {
		d.stateRootsIdx[sr] = loc
	}

	if u.Finalized != nil {
		d.finalized = u.Finalized.Checkpoint
		d.finalizedRoot = u.Finalized.Checkpoint.Root
		d.hasFinalized = true
		d.blocks[d.finalizedRoot] = u.Finalized.Block
		d.states[d.finalizedRoot] = u.Finalized.State
		d.indexCanonicalChainLocked(d.finalizedRoot)
	}

	for _, root := range u.PrunedHotBlockRoots {
		delete(d.hotRoots, root)
		if blk, ok := d.blocks[root]; ok {
			if d.canonical[blk.Message.Slot] != root {
				delete(d.blocks, root)
				delete(d.states, root)
			}
		}
	}
	return nil
}

// indexCanonicalChainLocked walks parent links from the finalized block,
// recording slot → root for every newly finalized canonical block.
func (d *Database) indexCanonicalChainLocked(root types.Root) {
	for {
		blk, ok := d.blocks[root]
		if !ok {
			return
		}
		slot := blk.Message.Slot
		if existing, ok := d.canonical[slot]; ok && existing == root {
			return // Already indexed from here down.
		}
		d.canonical[slot] = root
		d.insertCanonicalSlotLocked(slot)
		delete(d.hotRoots, root)
		if blk.Message.ParentRoot.IsZero() {
			return
		}
		root = blk.Message.ParentRoot
	}
}

func (d *Database) insertCanonicalSlotLocked(slot types.Slot) {
	i := sort.Search(len(d.canonicalAsc), func(i int) bool { return d.canonicalAsc[i] >= slot })
	if i < len(d.canonicalAsc) && d.canonicalAsc[i] == slot {
		return
	}
	d.canonicalAsc = append(d.canonicalAsc, 0)
	copy(d.canonicalAsc[i+1:], d.canonicalAsc[i:])
	d.canonicalAsc[i] = slot
}

func (d *Database) Recover() (*storage.Recovered, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.hasFinalized {
		return nil, storage.ErrNotFound
	}

	rec := &storage.Recovered{
		Time:                    d.time,
		GenesisTime:             d.genesisTime,
		FinalizedCheckpoint:     d.finalized,
		FinalizedBlock:          d.blocks[d.finalizedRoot],
		FinalizedState:          d.states[d.finalizedRoot],
		JustifiedCheckpoint:     d.justified,
		BestJustifiedCheckpoint: d.bestJustified,
		HotBlocks:               make(map[types.Root]*types.SignedBeaconBlock, len(d.hotRoots)),
		HotStates:               make(map[types.Root]*types.BeaconState, len(d.hotRoots)),
		Votes:                   make(map[types.ValidatorIndex]types.Vote, len(d.votes)),
	}
	for root := range d.hotRoots {
		if blk, ok := d.blocks[root]; ok {
			rec.HotBlocks[root] = blk
		}
		if st, ok := d.states[root]; ok {
			rec.HotStates[root] = st
		}
	}
	for idx, vote := range d.votes {
		rec.Votes[idx] = vote
	}
	return rec, nil
}

func (d *Database) BlockByRoot(root types.Root) (*types.SignedBeaconBlock, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	blk, ok := d.blocks[root]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return blk, nil
}

func (d *Database) BlockInEffectAtSlot(slot types.Slot) (*types.SignedBeaconBlock, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i := sort.Search(len(d.canonicalAsc), func(i int) bool { return d.canonicalAsc[i] > slot })
	if i == 0 {
		return nil, storage.ErrNotFound
	}
	root := d.canonical[d.canonicalAsc[i-1]]
	blk, ok := d.blocks[root]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return blk, nil
}

func (d *Database) Close() error { return nil }
