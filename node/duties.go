package node

import (
	"github.com/geanlabs/beacon/chain"
	"github.com/geanlabs/beacon/observability/metrics"
	"github.com/geanlabs/beacon/types"
)

// produceAttestations is the BeaconAttester's producer: one attestation for
// the local validator, voting the observed head with the current justified
// source and the epoch boundary target. The attestation is gossiped and
// fed to local fork choice before it is handed back to the pipeline.
func (n *Node) produceAttestations(slot types.Slot, head types.Root, _, _ []types.Root) []*types.Attestation {
	if n.validatorIndex == nil {
		return nil
	}

	targetEpoch := slot.Epoch()
	boundary, err := n.client.BlockInEffectAtSlot(targetEpoch.StartSlot())
	if err != nil {
		n.logger.Error("attestation target lookup failed", "slot", slot, "err", err)
		metrics.DutiesPerformed.WithLabelValues("attestation", "error").Inc()
		return nil
	}
	targetRoot, err := boundary.Message.HashTreeRoot()
	if err != nil {
		metrics.DutiesPerformed.WithLabelValues("attestation", "error").Inc()
		return nil
	}

	att := &types.Attestation{
		AttestingIndices: []uint64{*n.validatorIndex},
		Data: types.AttestationData{
			Slot:            slot,
			BeaconBlockRoot: head,
			Source:          n.client.JustifiedCheckpoint(),
			Target:          types.Checkpoint{Epoch: targetEpoch, Root: targetRoot},
		},
	}

	if err := n.net.PublishAttestation(n.ctx, att); err != nil {
		n.logger.Warn("failed to publish attestation", "slot", slot, "err", err)
	}
	if err := n.engine.OnAttestation(att); err != nil {
		n.logger.Debug("local attestation rejected", "slot", slot, "err", err)
	}

	metrics.DutiesPerformed.WithLabelValues("attestation", "ok").Inc()
	return []*types.Attestation{att}
}

// proposeBlock is the BeaconProposer's producer: when this node holds the
// proposer duty for the slot, it builds a block over the current head with
// the published attestations, imports it, and gossips it.
func (n *Node) proposeBlock(slot types.Slot, atts []*types.Attestation) (*types.SignedBeaconBlock, types.Root, bool) {
	if n.validatorIndex == nil {
		return nil, types.Root{}, false
	}

	headRoot, _ := n.store.Head()
	headState, ok := n.store.State(headRoot)
	if !ok {
		n.logger.Error("head state missing for proposal", "slot", slot)
		metrics.DutiesPerformed.WithLabelValues("proposal", "error").Inc()
		return nil, types.Root{}, false
	}
	if chain.ProposerIndex(headState, slot) != types.ValidatorIndex(*n.validatorIndex) {
		return nil, types.Root{}, false
	}

	advanced := headState
	var err error
	if advanced.Slot < slot {
		advanced, err = chain.ProcessSlots(headState, slot)
		if err != nil {
			n.logger.Error("proposal slot processing failed", "slot", slot, "err", err)
			metrics.DutiesPerformed.WithLabelValues("proposal", "error").Inc()
			return nil, types.Root{}, false
		}
	}

	block := &types.BeaconBlock{
		Slot:          slot,
		ProposerIndex: types.ValidatorIndex(*n.validatorIndex),
		ParentRoot:    headRoot,
		Body:          &types.BeaconBlockBody{Attestations: includableAttestations(advanced, atts)},
	}
	post, err := chain.ProcessBlock(advanced, block)
	if err != nil {
		n.logger.Error("proposal block processing failed", "slot", slot, "err", err)
		metrics.DutiesPerformed.WithLabelValues("proposal", "error").Inc()
		return nil, types.Root{}, false
	}
	block.StateRoot, err = post.HashTreeRoot()
	if err != nil {
		metrics.DutiesPerformed.WithLabelValues("proposal", "error").Inc()
		return nil, types.Root{}, false
	}

	signed := &types.SignedBeaconBlock{Message: block}
	res := n.engine.OnBlock(n.ctx, signed, advanced)
	if !res.Successful() {
		n.logger.Error("own proposal rejected", "slot", slot, "result", res.String())
		metrics.DutiesPerformed.WithLabelValues("proposal", "error").Inc()
		return nil, types.Root{}, false
	}
	if err := n.net.PublishBlock(n.ctx, signed); err != nil {
		n.logger.Warn("failed to publish block", "slot", slot, "err", err)
	}

	metrics.DutiesPerformed.WithLabelValues("proposal", "ok").Inc()
	return signed, res.HeadRoot, true
}

// includableAttestations keeps the attestations the block's state will
// accept: matching source checkpoint and satisfied inclusion delay.
func includableAttestations(state *types.BeaconState, atts []*types.Attestation) []*types.Attestation {
	kept := atts[:0:0]
	currentEpoch := state.Slot.Epoch()
	for _, att := range atts {
		if att.Data.Slot+chain.MinAttestationInclusionDelay > state.Slot {
			continue
		}
		var expected types.Checkpoint
		switch att.Data.Target.Epoch {
		case currentEpoch:
			expected = state.CurrentJustifiedCheckpoint
		case currentEpoch - 1:
			expected = state.PreviousJustifiedCheckpoint
		default:
			continue
		}
		if att.Data.Source != expected {
			continue
		}
		kept = append(kept, att)
		if uint64(len(kept)) == types.MaxAttestations {
			break
		}
	}
	return kept
}
