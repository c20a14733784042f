package pipeline

import (
	"log/slog"

	"github.com/geanlabs/beacon/types"
)

// AttestationProducer builds the slot's attestations from the observed
// head, shard heads, and not-yet-crosslinked blocks.
type AttestationProducer func(slot types.Slot, head types.Root, shardHeads, notCrosslinked []types.Root) []*types.Attestation

// BeaconAttester attests once per slot, as soon as the head, the shard
// heads, and the blocks awaiting crosslink have all arrived for the slot.
type BeaconAttester struct {
	produce AttestationProducer
	logger  *slog.Logger

	slot           types.Slot
	head           *types.Root
	shardHeads     []types.Root
	notCrosslinked []types.Root
	sawShardHeads  bool
	sawCrosslinks  bool
	attested       bool
}

// NewBeaconAttester creates the attester actor.
func NewBeaconAttester(produce AttestationProducer, logger *slog.Logger) *BeaconAttester {
	if logger == nil {
		logger = slog.Default()
	}
	return &BeaconAttester{produce: produce, logger: logger}
}

func (a *BeaconAttester) Name() string { return "beacon_attester" }

// Kinds lists the event kinds the attester consumes.
func (a *BeaconAttester) Kinds() []Kind {
	return []Kind{
		KindNewSlot,
		KindHeadAfterNewBeaconBlock,
		KindNewShardHeads,
		KindNotCrosslinkedBlocksPublished,
		KindSlotTerminal,
	}
}

func (a *BeaconAttester) Handle(ev Event) []Event {
	switch e := ev.(type) {
	case NewSlot:
		a.reset(e.Slot)
	case HeadAfterNewBeaconBlock:
		if e.Slot == a.slot {
			head := e.Root
			a.head = &head
		}
	case NewShardHeads:
		if e.Slot == a.slot {
			a.shardHeads = e.Heads
			a.sawShardHeads = true
		}
	case NotCrosslinkedBlocksPublished:
		if e.Slot == a.slot {
			a.notCrosslinked = e.Roots
			a.sawCrosslinks = true
		}
	case SlotTerminal:
		if e.Slot == a.slot {
			a.reset(a.slot)
		}
	}
	return a.maybeAttest()
}

// maybeAttest fires once all required inputs for the slot are present.
func (a *BeaconAttester) maybeAttest() []Event {
	if a.attested || a.head == nil || !a.sawShardHeads || !a.sawCrosslinks {
		return nil
	}
	a.attested = true
	atts := a.produce(a.slot, *a.head, a.shardHeads, a.notCrosslinked)
	if len(atts) == 0 {
		return nil
	}
	a.logger.Debug("produced attestations", "slot", a.slot, "count", len(atts))
	return []Event{NewAttestations{Slot: a.slot, Attestations: atts}}
}

func (a *BeaconAttester) reset(slot types.Slot) {
	a.slot = slot
	a.head = nil
	a.shardHeads = nil
	a.notCrosslinked = nil
	a.sawShardHeads = false
	a.sawCrosslinks = false
	a.attested = false
}
