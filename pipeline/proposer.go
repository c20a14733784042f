package pipeline

import (
	"log/slog"

	"github.com/geanlabs/beacon/types"
)

// BlockProducer proposes a block for the slot over the given attestations,
// returning the block and the head after its import. ok is false when this
// node has no proposer duty for the slot or production failed.
type BlockProducer func(slot types.Slot, attestations []*types.Attestation) (block *types.SignedBeaconBlock, head types.Root, ok bool)

// BeaconProposer proposes at the start of its duty slots, folding in the
// previous slot's published attestations.
type BeaconProposer struct {
	produce BlockProducer
	logger  *slog.Logger

	slot     types.Slot
	proposed bool
}

// NewBeaconProposer creates the proposer actor.
func NewBeaconProposer(produce BlockProducer, logger *slog.Logger) *BeaconProposer {
	if logger == nil {
		logger = slog.Default()
	}
	return &BeaconProposer{produce: produce, logger: logger}
}

func (p *BeaconProposer) Name() string { return "beacon_proposer" }

// Kinds lists the event kinds the proposer consumes.
func (p *BeaconProposer) Kinds() []Kind {
	return []Kind{KindNewSlot, KindPrevSlotAttestationsPublished}
}

func (p *BeaconProposer) Handle(ev Event) []Event {
	switch e := ev.(type) {
	case NewSlot:
		p.slot = e.Slot
		p.proposed = false
		return nil
	case PrevSlotAttestationsPublished:
		if e.Slot != p.slot || p.proposed {
			return nil
		}
		p.proposed = true
		block, head, ok := p.produce(p.slot, e.Attestations)
		if !ok {
			return nil
		}
		p.logger.Info("proposed block",
			"slot", p.slot,
			"block_root", head.Short(),
		)
		return []Event{
			NewBeaconBlock{Slot: p.slot, Block: block},
			HeadAfterNewBeaconBlock{Slot: p.slot, Root: head},
		}
	}
	return nil
}
