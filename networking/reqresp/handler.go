package reqresp

import (
	"errors"
	"fmt"

	"github.com/geanlabs/beacon/chain"
	"github.com/geanlabs/beacon/types"
)

// Handler answers request/response protocol messages from local chain data.
type Handler struct {
	chain ChainSource
}

// NewHandler creates a request/response handler.
func NewHandler(source ChainSource) *Handler {
	return &Handler{chain: source}
}

// LocalStatus builds the node's status summary for the handshake protocol.
func (h *Handler) LocalStatus() *Status {
	finalized := h.chain.FinalizedCheckpoint()
	headRoot, headSlot := h.chain.Head()
	return &Status{
		ForkDigest:     h.chain.ForkDigest(),
		FinalizedRoot:  finalized.Root,
		FinalizedEpoch: finalized.Epoch,
		HeadRoot:       headRoot,
		HeadSlot:       headSlot,
	}
}

// HandleBlockBySlot serves the canonical block at exactly the requested
// slot. Empty slots get a nil block; the requester treats that as "no
// block" and never queries slots it believes are empty.
func (h *Handler) HandleBlockBySlot(req *BeaconBlocksBySlotRequest) (*types.SignedBeaconBlock, error) {
	blk, err := h.chain.BlockInEffectAtSlot(req.Slot)
	if err != nil {
		if errors.Is(err, chain.ErrMissingHistoricalBlock) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup block at slot %d: %w", req.Slot, err)
	}
	if blk.Message.Slot != req.Slot {
		// The slot is empty on our chain.
		return nil, nil
	}
	return blk, nil
}
