// Package store holds the hot (post-finalization) chain: the block tree,
// per-block post-states, the vote table, and the checkpoint pointers.
//
// The store has a single writer: all mutation goes through a Transaction,
// whose commit applies atomically under the write lock and emits a
// storage.Update for the durable backend. Readers take point-in-time
// snapshots under the read lock.
package store

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/geanlabs/beacon/storage"
	"github.com/geanlabs/beacon/types"
)

// updateBuffer bounds the pending durable-update queue. Commits block once
// the backend falls this far behind rather than dropping durability events.
const updateBuffer = 256

// Store is the hot chain store.
type Store struct {
	mu sync.RWMutex

	time        uint64
	genesisTime uint64

	justified     types.Checkpoint
	bestJustified types.Checkpoint
	finalized     types.Checkpoint

	finalizedBlock *types.SignedBeaconBlock
	finalizedState *types.BeaconState

	blocks map[types.Root]*types.SignedBeaconBlock
	states map[types.Root]*types.BeaconState
	tree   *BlockTree
	votes  map[types.ValidatorIndex]types.Vote

	stateRoots map[types.Root]storage.SlotAndBlockRoot

	headRoot types.Root
	headSlot types.Slot

	updates chan *storage.Update
	logger  *slog.Logger
}

// NewStore initializes a store from an anchor block and its state. For a
// genesis anchor the checkpoints collapse to (epoch 0, anchor root).
func NewStore(anchorState *types.BeaconState, anchorBlock *types.SignedBeaconBlock, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	stateRoot, err := anchorState.HashTreeRoot()
	if err != nil {
		return nil, fmt.Errorf("hash anchor state: %w", err)
	}
	if anchorBlock.Message.StateRoot != stateRoot {
		return nil, fmt.Errorf("anchor block state root mismatch")
	}
	anchorRoot, err := anchorBlock.Message.HashTreeRoot()
	if err != nil {
		return nil, fmt.Errorf("hash anchor block: %w", err)
	}

	justified := anchorState.CurrentJustifiedCheckpoint
	if justified.Root.IsZero() {
		justified = types.Checkpoint{Epoch: anchorState.Slot.Epoch(), Root: anchorRoot}
	}
	finalized := anchorState.FinalizedCheckpoint
	if finalized.Root.IsZero() {
		finalized = types.Checkpoint{Epoch: anchorState.Slot.Epoch(), Root: anchorRoot}
	}

	s := &Store{
		time:           types.SlotToTime(anchorState.Slot, anchorState.GenesisTime),
		genesisTime:    anchorState.GenesisTime,
		justified:      justified,
		bestJustified:  justified,
		finalized:      finalized,
		finalizedBlock: anchorBlock,
		finalizedState: anchorState,
		blocks:         map[types.Root]*types.SignedBeaconBlock{anchorRoot: anchorBlock},
		states:         map[types.Root]*types.BeaconState{anchorRoot: anchorState},
		tree:           NewBlockTree(anchorRoot, anchorBlock.Message.Slot),
		votes:          make(map[types.ValidatorIndex]types.Vote),
		stateRoots:     map[types.Root]storage.SlotAndBlockRoot{stateRoot: {Slot: anchorState.Slot, BlockRoot: anchorRoot}},
		headRoot:       anchorRoot,
		headSlot:       anchorBlock.Message.Slot,
		updates:        make(chan *storage.Update, updateBuffer),
		logger:         logger,
	}
	return s, nil
}

// NewStoreFromRecovered rebuilds a store from durable storage state.
func NewStoreFromRecovered(rec *storage.Recovered, logger *slog.Logger) (*Store, error) {
	s, err := NewStore(rec.FinalizedState, rec.FinalizedBlock, logger)
	if err != nil {
		return nil, err
	}
	if rec.Time > s.time {
		s.time = rec.Time
	}
	if rec.JustifiedCheckpoint.Epoch > s.justified.Epoch {
		s.justified = rec.JustifiedCheckpoint
	}
	if rec.BestJustifiedCheckpoint.Epoch > s.bestJustified.Epoch {
		s.bestJustified = rec.BestJustifiedCheckpoint
	}
	for idx, vote := range rec.Votes {
		s.votes[idx] = vote
	}

	// Re-link hot blocks parent-first; anything not attaching to the
	// finalized subtree is discarded.
	pending := make(map[types.Root]*types.SignedBeaconBlock, len(rec.HotBlocks))
	for root, blk := range rec.HotBlocks {
		pending[root] = blk
	}
	for progress := true; progress && len(pending) > 0; {
		progress = false
		for root, blk := range pending {
			if !s.tree.Contains(blk.Message.ParentRoot) {
				continue
			}
			if err := s.tree.Add(root, blk.Message.ParentRoot, blk.Message.Slot); err != nil {
				return nil, err
			}
			s.blocks[root] = blk
			if st, ok := rec.HotStates[root]; ok {
				s.states[root] = st
			}
			delete(pending, root)
			progress = true
		}
	}
	if len(pending) > 0 {
		s.logger.Warn("discarding unlinked hot blocks on recovery", "count", len(pending))
	}
	return s, nil
}

// Updates is the ordered stream of committed mutations for the durable
// backend.
func (s *Store) Updates() <-chan *storage.Update { return s.updates }

// Time returns the store's wall-clock seconds.
func (s *Store) Time() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.time
}

// GenesisTime returns the chain genesis time.
func (s *Store) GenesisTime() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.genesisTime
}

// JustifiedCheckpoint returns the justified checkpoint snapshot.
func (s *Store) JustifiedCheckpoint() types.Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.justified
}

// BestJustifiedCheckpoint returns the best-known justified checkpoint.
func (s *Store) BestJustifiedCheckpoint() types.Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bestJustified
}

// FinalizedCheckpoint returns the finalized checkpoint snapshot.
func (s *Store) FinalizedCheckpoint() types.Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalized
}

// FinalizedBlock returns the latest finalized block.
func (s *Store) FinalizedBlock() *types.SignedBeaconBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalizedBlock
}

// FinalizedState returns the latest finalized state.
func (s *Store) FinalizedState() *types.BeaconState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalizedState
}

// Head returns the current head pointer.
func (s *Store) Head() (types.Root, types.Slot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headRoot, s.headSlot
}

// Block returns a hot block by root.
func (s *Store) Block(root types.Root) (*types.SignedBeaconBlock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blk, ok := s.blocks[root]
	return blk, ok
}

// HasBlock reports hot-block membership.
func (s *Store) HasBlock(root types.Root) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blocks[root]
	return ok
}

// State returns the cached post-state of a hot block.
func (s *Store) State(root types.Root) (*types.BeaconState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[root]
	return st, ok
}

// Votes returns a copy of the latest-message vote table.
func (s *Store) Votes() map[types.ValidatorIndex]types.Vote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(map[types.ValidatorIndex]types.Vote, len(s.votes))
	for idx, v := range s.votes {
		cp[idx] = v
	}
	return cp
}

// Vote returns the latest-message vote of one validator.
func (s *Store) Vote(idx types.ValidatorIndex) (types.Vote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.votes[idx]
	return v, ok
}

// Children returns the tree children of a hot block.
func (s *Store) Children(root types.Root) []types.Root {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kids := s.tree.Children(root)
	return append([]types.Root(nil), kids...)
}

// IsDescendant reports whether descendant lies in ancestor's subtree.
func (s *Store) IsDescendant(ancestor, descendant types.Root) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.IsDescendant(ancestor, descendant)
}

// BlockInEffectAtSlot returns the most recent block with slot ≤ the given
// slot along the canonical (head) ancestry, restricted to the hot range.
// ok is false when the slot precedes the finalized block.
func (s *Store) BlockInEffectAtSlot(slot types.Slot) (*types.SignedBeaconBlock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur := s.headRoot
	for {
		blk, ok := s.blocks[cur]
		if !ok {
			return nil, false
		}
		if blk.Message.Slot <= slot {
			return blk, true
		}
		parent, ok := s.tree.Parent(cur)
		if !ok {
			return nil, false
		}
		cur = parent
	}
}

// Transaction starts a new staging overlay. Dropping an uncommitted
// transaction has no effect on the store.
func (s *Store) Transaction() *Transaction {
	return &Transaction{
		store:      s,
		blocks:     make(map[types.Root]*types.SignedBeaconBlock),
		states:     make(map[types.Root]*types.BeaconState),
		persist:    make(map[types.Root]struct{}),
		votes:      make(map[types.ValidatorIndex]types.Vote),
		stateRoots: make(map[types.Root]storage.SlotAndBlockRoot),
	}
}
