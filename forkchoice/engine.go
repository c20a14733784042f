package forkchoice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/geanlabs/beacon/chain"
	"github.com/geanlabs/beacon/observability/metrics"
	"github.com/geanlabs/beacon/store"
	"github.com/geanlabs/beacon/types"
)

// SlotSource supplies the wall-clock slot. Satisfied by clock.SlotClock.
type SlotSource interface {
	CurrentSlot() types.Slot
}

// Engine drives fork choice: block import, attestation-weighted head
// selection, and reorg detection.
type Engine struct {
	store  *store.Store
	clock  SlotSource
	logger *slog.Logger

	// importMu serializes block imports, which also gives the required
	// per-parent ordering for concurrent imports of sibling blocks.
	importMu sync.Mutex

	halted atomic.Bool

	subMu sync.Mutex
	subs  []chan ReorgEvent
}

// NewEngine creates an engine over the store.
func NewEngine(st *store.Store, clock SlotSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: st, clock: clock, logger: logger}
}

// SubscribeReorgs returns a channel of reorg events. A slow subscriber
// misses events rather than blocking the engine.
func (e *Engine) SubscribeReorgs(buffer int) <-chan ReorgEvent {
	ch := make(chan ReorgEvent, buffer)
	e.subMu.Lock()
	e.subs = append(e.subs, ch)
	e.subMu.Unlock()
	return ch
}

func (e *Engine) publishReorg(ev ReorgEvent) {
	metrics.Reorgs.Inc()
	e.logger.Info("chain reorg",
		"best_block_root", ev.BestBlockRoot.Short(),
		"best_slot", ev.BestSlot,
	)
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
			e.logger.Warn("dropping reorg event for slow subscriber")
		}
	}
}

// halt records a local invariant violation. Further imports and head runs
// fail with ErrHalted until restart; the store is never mutated on the way
// down.
func (e *Engine) halt(err error) {
	if e.halted.CompareAndSwap(false, true) {
		e.logger.Error("fork choice halted", "err", err)
	}
}

// OnBlock imports a block. When preStateHint carries the parent's post-state
// it is used directly; otherwise the state is fetched from the store. The
// block's attestations are applied to the vote table after the block is
// staged and before the transaction commits.
func (e *Engine) OnBlock(ctx context.Context, signed *types.SignedBeaconBlock, preStateHint *types.BeaconState) ImportResult {
	if e.halted.Load() {
		return internalError(ErrHalted)
	}

	block := signed.Message
	root, err := block.HashTreeRoot()
	if err != nil {
		return invalidBlock(fmt.Errorf("hash block: %w", err))
	}

	e.importMu.Lock()
	defer e.importMu.Unlock()

	// Re-importing a known block is a no-op with the current head; it
	// neither moves the head nor emits a reorg.
	if e.store.HasBlock(root) {
		head, _ := e.store.Head()
		metrics.BlockImports.WithLabelValues("duplicate").Inc()
		return successful(head)
	}

	if block.Slot > e.clock.CurrentSlot() {
		metrics.BlockImports.WithLabelValues("from_future").Inc()
		return ImportResult{Status: ImportBlockIsFromFuture}
	}

	if !e.store.HasBlock(block.ParentRoot) {
		metrics.BlockImports.WithLabelValues("parent_unknown").Inc()
		return ImportResult{Status: ImportParentUnknown}
	}

	preState := preStateHint
	if preState == nil {
		st, ok := e.store.State(block.ParentRoot)
		if !ok {
			// Every hot block carries a cached post-state; a miss means the
			// store is corrupt.
			err := fmt.Errorf("post-state of hot block %s missing", block.ParentRoot.Short())
			e.halt(err)
			return internalError(err)
		}
		preState = st
	}

	advanced := preState
	if advanced.Slot < block.Slot {
		advanced, err = chain.ProcessSlots(preState, block.Slot)
		if err != nil {
			metrics.BlockImports.WithLabelValues("failed_transition").Inc()
			return failedTransition(err)
		}
	}

	// Suspension point: the transition above may have yielded. Nothing has
	// been staged yet, so cancellation leaves the store unchanged.
	if err := ctx.Err(); err != nil {
		return internalError(err)
	}

	post, err := chain.ProcessBlock(advanced, block)
	if err != nil {
		metrics.BlockImports.WithLabelValues("invalid").Inc()
		return invalidBlock(err)
	}
	postRoot, err := post.HashTreeRoot()
	if err != nil {
		metrics.BlockImports.WithLabelValues("failed_transition").Inc()
		return failedTransition(fmt.Errorf("hash post-state: %w", err))
	}
	if postRoot != block.StateRoot {
		metrics.BlockImports.WithLabelValues("invalid").Inc()
		return invalidBlock(fmt.Errorf("state root mismatch: block %x, computed %x", block.StateRoot[:4], postRoot[:4]))
	}

	tx := e.store.Transaction()
	tx.PutBlock(root, signed, post)
	tx.PutStateRoot(postRoot, block.Slot, root)
	if uint64(block.Slot)%types.SlotsPerEpoch == 0 {
		tx.MarkStateForPersistence(root)
	}

	if res := e.stageCheckpointUpdates(tx, post); res != nil {
		return *res
	}

	// Votes carried by the block update latest messages before commit.
	for _, att := range block.Body.Attestations {
		applyAttestation(tx, att)
	}

	// Fast path: a child of the current head becomes the head without a
	// tree walk. If fork choice already reached or passed the block's slot
	// the head moves laterally or backwards, which is a reorg (this is the
	// empty-slot-filled case when the slots are equal).
	oldHead, oldHeadSlot := e.store.Head()
	var reorg *ReorgEvent
	newHead := oldHead
	if block.ParentRoot == oldHead {
		tx.SetHead(root, block.Slot)
		newHead = root
		if block.Slot <= oldHeadSlot {
			reorg = &ReorgEvent{BestBlockRoot: root, BestSlot: block.Slot}
		}
	}

	if err := ctx.Err(); err != nil {
		return internalError(err)
	}
	if err := tx.Commit(); err != nil {
		e.halt(err)
		return internalError(err)
	}

	metrics.BlockImports.WithLabelValues("successful").Inc()
	if reorg != nil {
		e.publishReorg(*reorg)
	}
	return successful(newHead)
}

// stageCheckpointUpdates carries justified/finalized checkpoint advances
// from a post-state into the transaction.
func (e *Engine) stageCheckpointUpdates(tx *store.Transaction, post *types.BeaconState) *ImportResult {
	justified := post.CurrentJustifiedCheckpoint
	if justified.Epoch > e.store.JustifiedCheckpoint().Epoch && tx.HasBlock(justified.Root) {
		tx.SetJustifiedCheckpoint(justified)
		tx.SetBestJustifiedCheckpoint(justified)
	}

	finalized := post.FinalizedCheckpoint
	if finalized.Epoch > e.store.FinalizedCheckpoint().Epoch {
		fblock, ok := tx.Block(finalized.Root)
		if !ok {
			err := fmt.Errorf("finalized block %s missing from hot tree", finalized.Root.Short())
			e.halt(err)
			res := internalError(err)
			return &res
		}
		fstate, ok := tx.State(finalized.Root)
		if !ok {
			err := fmt.Errorf("finalized state %s missing from hot tree", finalized.Root.Short())
			e.halt(err)
			res := internalError(err)
			return &res
		}
		tx.SetFinalized(finalized, fblock, fstate)
		// The justified checkpoint must survive the prune.
		if !e.store.IsDescendant(finalized.Root, e.store.JustifiedCheckpoint().Root) && justified.Epoch >= finalized.Epoch && tx.HasBlock(justified.Root) {
			tx.SetJustifiedCheckpoint(justified)
		}
	}
	return nil
}

// ProcessHead runs LMD GHOST with the committed votes as of nodeSlot and
// moves the store head. A ReorgEvent is emitted iff the head root changed
// and either nodeSlot is not past the previous head slot or the old head is
// not an ancestor of the new one. The slot condition covers the
// empty-slot-filled case, where the head moves to a child at the same slot.
func (e *Engine) ProcessHead(nodeSlot types.Slot) (types.Root, error) {
	if e.halted.Load() {
		return types.Root{}, ErrHalted
	}

	justified := e.store.JustifiedCheckpoint()
	justifiedState, ok := e.store.State(justified.Root)
	if !ok {
		e.halt(ErrMissingJustifiedState)
		return types.Root{}, ErrMissingJustifiedState
	}
	balances := ActiveBalances(justifiedState, justified.Epoch)

	newHead := GetHead(e.store, justified.Root, e.store.Votes(), balances)

	oldHead, oldHeadSlot := e.store.Head()
	tx := e.store.Transaction()
	tx.SetHead(newHead, nodeSlot)
	if err := tx.Commit(); err != nil {
		e.halt(err)
		return types.Root{}, err
	}
	metrics.HeadSlot.Set(float64(nodeSlot))

	if newHead != oldHead {
		if nodeSlot <= oldHeadSlot || !e.store.IsDescendant(oldHead, newHead) {
			e.publishReorg(ReorgEvent{BestBlockRoot: newHead, BestSlot: nodeSlot})
		}
	}
	return newHead, nil
}

// OnAttestation updates latest-message votes for the attesting indices.
// For a given validator the higher target epoch wins; equal or older
// messages are ignored.
func (e *Engine) OnAttestation(att *types.Attestation) error {
	if e.halted.Load() {
		return ErrHalted
	}
	if !e.store.HasBlock(att.Data.Target.Root) {
		return ErrUnknownAttestationTarget
	}
	if att.Data.Target.Epoch > e.clock.CurrentSlot().Epoch()+1 {
		return fmt.Errorf("forkchoice: attestation target epoch %d too far in the future", att.Data.Target.Epoch)
	}

	tx := e.store.Transaction()
	applyAttestation(tx, att)
	return tx.Commit()
}

// applyAttestation stages latest-message updates; distinct validators are
// commutative, and per-validator the higher target epoch wins.
func applyAttestation(tx *store.Transaction, att *types.Attestation) {
	for _, idx := range att.AttestingIndices {
		vidx := types.ValidatorIndex(idx)
		existing, ok := tx.Vote(vidx)
		if !ok || att.Data.Target.Epoch > existing.TargetEpoch {
			tx.PutVote(vidx, types.Vote{
				TargetRoot:  att.Data.Target.Root,
				TargetEpoch: att.Data.Target.Epoch,
			})
		}
	}
}
