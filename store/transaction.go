package store

import (
	"errors"
	"fmt"

	"github.com/geanlabs/beacon/storage"
	"github.com/geanlabs/beacon/types"
)

// ErrCommitted reports reuse of a finished transaction.
var ErrCommitted = errors.New("store: transaction already committed")

// Transaction accumulates store mutations in a private overlay. Commit
// applies them atomically and emits a storage.Update; an abandoned
// transaction leaves the store untouched.
type Transaction struct {
	store     *Store
	committed bool

	time        *uint64
	genesisTime *uint64

	justified     *types.Checkpoint
	bestJustified *types.Checkpoint
	finalized     *storage.FinalizedData

	blocks  map[types.Root]*types.SignedBeaconBlock
	states  map[types.Root]*types.BeaconState
	persist map[types.Root]struct{}

	votes      map[types.ValidatorIndex]types.Vote
	stateRoots map[types.Root]storage.SlotAndBlockRoot

	head     *types.Root
	headSlot types.Slot
}

// SetTime stages a store-time override.
func (tx *Transaction) SetTime(t uint64) { tx.time = &t }

// SetGenesisTime stages a genesis-time override.
func (tx *Transaction) SetGenesisTime(t uint64) { tx.genesisTime = &t }

// SetJustifiedCheckpoint stages a justified-checkpoint update.
func (tx *Transaction) SetJustifiedCheckpoint(cp types.Checkpoint) { tx.justified = &cp }

// SetBestJustifiedCheckpoint stages a best-justified update. Commit enforces
// epoch monotonicity.
func (tx *Transaction) SetBestJustifiedCheckpoint(cp types.Checkpoint) { tx.bestJustified = &cp }

// SetFinalized stages new finalized chain data.
func (tx *Transaction) SetFinalized(cp types.Checkpoint, block *types.SignedBeaconBlock, state *types.BeaconState) {
	tx.finalized = &storage.FinalizedData{Checkpoint: cp, Block: block, State: state}
}

// PutBlock stages a hot block with its post-state.
func (tx *Transaction) PutBlock(root types.Root, block *types.SignedBeaconBlock, postState *types.BeaconState) {
	tx.blocks[root] = block
	tx.states[root] = postState
}

// MarkStateForPersistence flags a staged state for disk persistence.
func (tx *Transaction) MarkStateForPersistence(root types.Root) {
	tx.persist[root] = struct{}{}
}

// PutVote stages a latest-message vote.
func (tx *Transaction) PutVote(idx types.ValidatorIndex, vote types.Vote) {
	tx.votes[idx] = vote
}

// PutStateRoot stages a state-root index entry.
func (tx *Transaction) PutStateRoot(stateRoot types.Root, slot types.Slot, blockRoot types.Root) {
	tx.stateRoots[stateRoot] = storage.SlotAndBlockRoot{Slot: slot, BlockRoot: blockRoot}
}

// SetHead stages the head pointer.
func (tx *Transaction) SetHead(root types.Root, slot types.Slot) {
	tx.head = &root
	tx.headSlot = slot
}

// Block reads through the overlay, then the store.
func (tx *Transaction) Block(root types.Root) (*types.SignedBeaconBlock, bool) {
	if blk, ok := tx.blocks[root]; ok {
		return blk, true
	}
	return tx.store.Block(root)
}

// State reads through the overlay, then the store.
func (tx *Transaction) State(root types.Root) (*types.BeaconState, bool) {
	if st, ok := tx.states[root]; ok {
		return st, true
	}
	return tx.store.State(root)
}

// Vote reads through the overlay, then the store.
func (tx *Transaction) Vote(idx types.ValidatorIndex) (types.Vote, bool) {
	if v, ok := tx.votes[idx]; ok {
		return v, true
	}
	return tx.store.Vote(idx)
}

// HasBlock reads through the overlay, then the store.
func (tx *Transaction) HasBlock(root types.Root) bool {
	if _, ok := tx.blocks[root]; ok {
		return true
	}
	return tx.store.HasBlock(root)
}

// Commit applies all staged mutations under the store's write section and
// emits the storage update. The update is sent while the lock is held so the
// durable backend observes commits in commit order.
func (tx *Transaction) Commit() error {
	if tx.committed {
		return ErrCommitted
	}
	tx.committed = true

	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// Every staged block must attach to the hot tree, possibly through
	// other staged blocks. Checked up front so a failing commit leaves the
	// tree untouched.
	attachable := make(map[types.Root]struct{}, len(tx.blocks))
	for progress := true; progress; {
		progress = false
		for root, blk := range tx.blocks {
			if _, ok := attachable[root]; ok {
				continue
			}
			if _, ok := tx.states[root]; !ok {
				return fmt.Errorf("store: staged block %s has no post-state", root.Short())
			}
			_, parentStaged := attachable[blk.Message.ParentRoot]
			if s.tree.Contains(root) || s.tree.Contains(blk.Message.ParentRoot) || parentStaged {
				attachable[root] = struct{}{}
				progress = true
			}
		}
	}
	if len(attachable) != len(tx.blocks) {
		return fmt.Errorf("store: %d staged blocks do not attach to the hot tree", len(tx.blocks)-len(attachable))
	}
	isHot := func(root types.Root) bool {
		_, staged := attachable[root]
		return staged || s.tree.Contains(root)
	}
	if tx.justified != nil && !isHot(tx.justified.Root) {
		return fmt.Errorf("store: justified root %s is not a hot block", tx.justified.Root.Short())
	}
	if tx.finalized != nil && tx.finalized.Checkpoint.Epoch > s.finalized.Epoch && !isHot(tx.finalized.Checkpoint.Root) {
		return fmt.Errorf("store: finalized root %s is not a hot block", tx.finalized.Checkpoint.Root.Short())
	}

	// Link parent-first so intra-transaction chains attach.
	remaining := make(map[types.Root]*types.SignedBeaconBlock, len(tx.blocks))
	for root, blk := range tx.blocks {
		remaining[root] = blk
	}
	for len(remaining) > 0 {
		for root, blk := range remaining {
			if s.tree.Contains(root) {
				delete(remaining, root)
				continue
			}
			if !s.tree.Contains(blk.Message.ParentRoot) {
				continue
			}
			if err := s.tree.Add(root, blk.Message.ParentRoot, blk.Message.Slot); err != nil {
				return err
			}
			delete(remaining, root)
		}
	}

	for root, blk := range tx.blocks {
		s.blocks[root] = blk
		s.states[root] = tx.states[root]
	}
	for sr, loc := range tx.stateRoots {
		s.stateRoots[sr] = loc
	}
	for idx, vote := range tx.votes {
		s.votes[idx] = vote
	}

	if tx.time != nil {
		s.time = *tx.time
	}
	if tx.genesisTime != nil {
		s.genesisTime = *tx.genesisTime
	}
	if tx.justified != nil {
		if !s.tree.Contains(tx.justified.Root) {
			return fmt.Errorf("store: justified root %s is not a hot block", tx.justified.Root.Short())
		}
		s.justified = *tx.justified
	}
	bestJustified := tx.bestJustified
	if bestJustified != nil && bestJustified.Epoch <= s.bestJustified.Epoch {
		bestJustified = nil // best_justified_checkpoint is monotone in epoch
	}
	if bestJustified != nil {
		s.bestJustified = *bestJustified
	}
	if tx.head != nil {
		s.headRoot = *tx.head
		s.headSlot = tx.headSlot
	}

	var prunedRoots []types.Root
	if tx.finalized != nil && tx.finalized.Checkpoint.Epoch > s.finalized.Epoch {
		newRoot := tx.finalized.Checkpoint.Root
		if !s.tree.Contains(newRoot) {
			return fmt.Errorf("store: finalized root %s is not a hot block", newRoot.Short())
		}
		prunedRoots = s.tree.Reroot(newRoot)
		for _, root := range prunedRoots {
			delete(s.blocks, root)
			delete(s.states, root)
		}
		for sr, loc := range s.stateRoots {
			if !s.tree.Contains(loc.BlockRoot) {
				delete(s.stateRoots, sr)
			}
		}
		s.finalized = tx.finalized.Checkpoint
		s.finalizedBlock = tx.finalized.Block
		s.finalizedState = tx.finalized.State
	}

	u := &storage.Update{
		Time:                tx.time,
		GenesisTime:         tx.genesisTime,
		JustifiedCheckpoint: tx.justified,
		HotBlocks:           tx.blocks,
		HotStatesToPersist:  make(map[types.Root]*types.BeaconState, len(tx.persist)),
		PrunedHotBlockRoots: prunedRoots,
		Votes:               tx.votes,
		StateRoots:          tx.stateRoots,
	}
	if bestJustified != nil {
		u.BestJustifiedCheckpoint = bestJustified
	}
	if tx.finalized != nil && s.finalized == tx.finalized.Checkpoint {
		u.Finalized = tx.finalized
	}
	for root := range tx.persist {
		if st, ok := tx.states[root]; ok {
			u.HotStatesToPersist[root] = st
		}
	}

	// Sent under the write lock: commit order is durable order. The channel
	// is buffered; a full buffer back-pressures committers.
	s.updates <- u
	return nil
}
