// Package chain implements the beacon state transition and read-side chain access.
package chain

import (
	"crypto/sha256"
	"fmt"

	"github.com/OffchainLabs/go-bitfield"

	"github.com/geanlabs/beacon/types"
)

// MinAttestationInclusionDelay is the minimum number of slots between an
// attestation's slot and the slot of the block including it.
const MinAttestationInclusionDelay = 1

// ProcessSlots advances the state through empty slots up to targetSlot.
// Epoch processing runs at every epoch boundary crossed on the way.
func ProcessSlots(s *types.BeaconState, targetSlot types.Slot) (*types.BeaconState, error) {
	if targetSlot < s.Slot {
		return nil, fmt.Errorf("target slot %d precedes state slot %d", targetSlot, s.Slot)
	}

	state := s.Copy()
	for state.Slot < targetSlot {
		if err := processSlot(state); err != nil {
			return nil, err
		}
		if uint64(state.Slot+1)%types.SlotsPerEpoch == 0 {
			if err := processEpoch(state); err != nil {
				return nil, err
			}
		}
		state.Slot++
	}
	return state, nil
}

// processSlot caches the state and block roots for the slot being left.
func processSlot(state *types.BeaconState) error {
	stateRoot, err := state.HashTreeRoot()
	if err != nil {
		return fmt.Errorf("hash state: %w", err)
	}
	state.StateRoots[uint64(state.Slot)%types.SlotsPerHistoricalRoot] = stateRoot

	if state.LatestBlockHeader.StateRoot.IsZero() {
		state.LatestBlockHeader.StateRoot = stateRoot
	}

	headerRoot, err := state.LatestBlockHeader.HashTreeRoot()
	if err != nil {
		return fmt.Errorf("hash latest header: %w", err)
	}
	state.BlockRoots[uint64(state.Slot)%types.SlotsPerHistoricalRoot] = headerRoot
	return nil
}

func processEpoch(state *types.BeaconState) error {
	if err := processJustificationAndFinalization(state); err != nil {
		return err
	}

	// Rotate pending attestations and the randao mix window.
	nextEpoch := state.Slot.Epoch() + 1
	state.PreviousEpochAttestations = state.CurrentEpochAttestations
	state.CurrentEpochAttestations = nil
	state.RandaoMixes[uint64(nextEpoch)%types.EpochsPerHistoricalVector] =
		state.RandaoMixes[uint64(state.Slot.Epoch())%types.EpochsPerHistoricalVector]
	return nil
}

// processJustificationAndFinalization applies the FFG rules over the epoch
// attestation tallies.
func processJustificationAndFinalization(state *types.BeaconState) error {
	currentEpoch := state.Slot.Epoch()
	if currentEpoch <= types.GenesisEpoch+1 {
		return nil
	}
	previousEpoch := currentEpoch - 1

	oldPreviousJustified := state.PreviousJustifiedCheckpoint
	oldCurrentJustified := state.CurrentJustifiedCheckpoint

	totalBalance := totalActiveBalance(state, currentEpoch)

	// Shift justification bits: bit 0 becomes the current epoch's verdict.
	bits := state.JustificationBits
	shifted := bitfield.NewBitvector4()
	for i := uint64(0); i < 3; i++ {
		if bits.BitAt(i) {
			shifted.SetBitAt(i+1, true)
		}
	}
	state.PreviousJustifiedCheckpoint = state.CurrentJustifiedCheckpoint

	prevTarget, err := attestingTargetBalance(state, state.PreviousEpochAttestations, previousEpoch)
	if err != nil {
		return err
	}
	if prevTarget*3 >= totalBalance*2 {
		root, err := epochBoundaryRoot(state, previousEpoch)
		if err != nil {
			return err
		}
		state.CurrentJustifiedCheckpoint = types.Checkpoint{Epoch: previousEpoch, Root: root}
		shifted.SetBitAt(1, true)
	}

	currTarget, err := attestingTargetBalance(state, state.CurrentEpochAttestations, currentEpoch)
	if err != nil {
		return err
	}
	if currTarget*3 >= totalBalance*2 {
		root, err := epochBoundaryRoot(state, currentEpoch)
		if err != nil {
			return err
		}
		state.CurrentJustifiedCheckpoint = types.Checkpoint{Epoch: currentEpoch, Root: root}
		shifted.SetBitAt(0, true)
	}
	state.JustificationBits = shifted

	// Finalization: two to four consecutive justified epochs ending at the
	// source checkpoint finalize it.
	bitsSet := func(from, to uint64) bool {
		for i := from; i < to; i++ {
			if !shifted.BitAt(i) {
				return false
			}
		}
		return true
	}
	switch {
	case bitsSet(1, 4) && oldPreviousJustified.Epoch+3 == currentEpoch:
		state.FinalizedCheckpoint = oldPreviousJustified
	case bitsSet(1, 3) && oldPreviousJustified.Epoch+2 == currentEpoch:
		state.FinalizedCheckpoint = oldPreviousJustified
	case bitsSet(0, 3) && oldCurrentJustified.Epoch+2 == currentEpoch:
		state.FinalizedCheckpoint = oldCurrentJustified
	case bitsSet(0, 2) && oldCurrentJustified.Epoch+1 == currentEpoch:
		state.FinalizedCheckpoint = oldCurrentJustified
	}
	return nil
}

// attestingTargetBalance sums the effective balances of the distinct
// validators whose attestations voted the expected target for the epoch.
func attestingTargetBalance(state *types.BeaconState, atts []*types.Attestation, epoch types.Epoch) (types.Gwei, error) {
	expected, err := epochBoundaryRoot(state, epoch)
	if err != nil {
		return 0, err
	}

	seen := make(map[uint64]struct{})
	var total types.Gwei
	for _, att := range atts {
		if att.Data.Target.Epoch != epoch || att.Data.Target.Root != expected {
			continue
		}
		for _, idx := range att.AttestingIndices {
			if _, ok := seen[idx]; ok {
				continue
			}
			if idx >= uint64(len(state.Validators)) {
				continue
			}
			seen[idx] = struct{}{}
			total += state.Validators[idx].EffectiveBalance
		}
	}
	return total, nil
}

// epochBoundaryRoot returns the block root in effect at the epoch's start
// slot, from the state's root history window.
func epochBoundaryRoot(state *types.BeaconState, epoch types.Epoch) (types.Root, error) {
	slot := epoch.StartSlot()
	if slot >= state.Slot && state.Slot > 0 {
		// The boundary block is the latest header itself.
		return state.LatestBlockHeader.HashTreeRoot()
	}
	if uint64(state.Slot-slot) > types.SlotsPerHistoricalRoot {
		return types.Root{}, fmt.Errorf("epoch %d start slot %d outside root history at state slot %d", epoch, slot, state.Slot)
	}
	return state.BlockRoots[uint64(slot)%types.SlotsPerHistoricalRoot], nil
}

func totalActiveBalance(state *types.BeaconState, epoch types.Epoch) types.Gwei {
	var total types.Gwei
	for _, v := range state.Validators {
		if v.ActivationEpoch <= epoch && epoch < v.ExitEpoch {
			total += v.EffectiveBalance
		}
	}
	return total
}

// ProposerIndex returns the block proposer for a slot: round-robin over the
// registry.
func ProposerIndex(state *types.BeaconState, slot types.Slot) types.ValidatorIndex {
	return types.ValidatorIndex(uint64(slot) % uint64(len(state.Validators)))
}

// ProcessBlock applies full block processing on a state already advanced to
// the block's slot.
func ProcessBlock(s *types.BeaconState, block *types.BeaconBlock) (*types.BeaconState, error) {
	state := s.Copy()
	if err := processBlockHeader(state, block); err != nil {
		return nil, err
	}
	processRandao(state, block)
	if err := processAttestations(state, block.Body.Attestations); err != nil {
		return nil, err
	}
	return state, nil
}

func processBlockHeader(state *types.BeaconState, block *types.BeaconBlock) error {
	if block.Slot != state.Slot {
		return fmt.Errorf("block slot %d != state slot %d", block.Slot, state.Slot)
	}
	if block.Slot <= state.LatestBlockHeader.Slot {
		return fmt.Errorf("block slot %d not newer than latest header slot %d", block.Slot, state.LatestBlockHeader.Slot)
	}
	if expected := ProposerIndex(state, block.Slot); block.ProposerIndex != expected {
		return fmt.Errorf("proposer %d is not the proposer for slot %d (expected %d)", block.ProposerIndex, block.Slot, expected)
	}
	if int(block.ProposerIndex) < len(state.Validators) && state.Validators[block.ProposerIndex].Slashed {
		return fmt.Errorf("proposer %d is slashed", block.ProposerIndex)
	}

	expectedParent, err := state.LatestBlockHeader.HashTreeRoot()
	if err != nil {
		return fmt.Errorf("hash latest header: %w", err)
	}
	if block.ParentRoot != expectedParent {
		return fmt.Errorf("parent root mismatch: block %x, state %x", block.ParentRoot[:4], expectedParent[:4])
	}

	bodyRoot, err := block.Body.HashTreeRoot()
	if err != nil {
		return fmt.Errorf("hash body: %w", err)
	}
	state.LatestBlockHeader = types.BeaconBlockHeader{
		Slot:          block.Slot,
		ProposerIndex: block.ProposerIndex,
		ParentRoot:    block.ParentRoot,
		StateRoot:     types.Root{}, // Filled by the next processSlot.
		BodyRoot:      bodyRoot,
	}
	return nil
}

func processRandao(state *types.BeaconState, block *types.BeaconBlock) {
	epoch := block.Slot.Epoch()
	idx := uint64(epoch) % types.EpochsPerHistoricalVector
	digest := sha256.Sum256(block.Body.RandaoReveal[:])
	mix := state.RandaoMixes[idx]
	for i := range mix {
		mix[i] ^= digest[i]
	}
	state.RandaoMixes[idx] = mix
}

func processAttestations(state *types.BeaconState, atts []*types.Attestation) error {
	currentEpoch := state.Slot.Epoch()
	for _, att := range atts {
		data := att.Data
		if data.Target.Epoch != currentEpoch && data.Target.Epoch+1 != currentEpoch {
			return fmt.Errorf("attestation target epoch %d outside current/previous epoch %d", data.Target.Epoch, currentEpoch)
		}
		if data.Slot.Epoch() != data.Target.Epoch {
			return fmt.Errorf("attestation slot %d not in target epoch %d", data.Slot, data.Target.Epoch)
		}
		if data.Slot+MinAttestationInclusionDelay > state.Slot {
			return fmt.Errorf("attestation for slot %d included too early at slot %d", data.Slot, state.Slot)
		}
		if len(att.AttestingIndices) == 0 {
			return fmt.Errorf("attestation carries no indices")
		}
		for i, idx := range att.AttestingIndices {
			if idx >= uint64(len(state.Validators)) {
				return fmt.Errorf("attesting index %d outside registry", idx)
			}
			if i > 0 && att.AttestingIndices[i-1] >= idx {
				return fmt.Errorf("attesting indices not sorted and unique")
			}
		}

		var expectedSource types.Checkpoint
		if data.Target.Epoch == currentEpoch {
			expectedSource = state.CurrentJustifiedCheckpoint
		} else {
			expectedSource = state.PreviousJustifiedCheckpoint
		}
		if data.Source != expectedSource {
			return fmt.Errorf("attestation source (%d, %x) does not match justified checkpoint (%d, %x)",
				data.Source.Epoch, data.Source.Root[:4], expectedSource.Epoch, expectedSource.Root[:4])
		}

		if data.Target.Epoch == currentEpoch {
			state.CurrentEpochAttestations = append(state.CurrentEpochAttestations, att)
		} else {
			state.PreviousEpochAttestations = append(state.PreviousEpochAttestations, att)
		}
	}
	return nil
}

// Transition applies the complete state transition for a signed block,
// optionally verifying the resulting state root against the block.
func Transition(pre *types.BeaconState, signed *types.SignedBeaconBlock, verifyStateRoot bool) (*types.BeaconState, error) {
	block := signed.Message

	state := pre
	var err error
	if state.Slot < block.Slot {
		state, err = ProcessSlots(state, block.Slot)
		if err != nil {
			return nil, err
		}
	}

	post, err := ProcessBlock(state, block)
	if err != nil {
		return nil, err
	}

	if verifyStateRoot {
		computed, err := post.HashTreeRoot()
		if err != nil {
			return nil, fmt.Errorf("hash post-state: %w", err)
		}
		if block.StateRoot != computed {
			return nil, fmt.Errorf("state root mismatch: block %x, computed %x", block.StateRoot[:4], computed[:4])
		}
	}
	return post, nil
}
