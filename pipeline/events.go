// Package pipeline is the slot-driven event actor mesh. Actors consume
// typed events in arrival order, keep per-slot state, and publish derived
// events once their inputs for the slot are complete.
package pipeline

import "github.com/geanlabs/beacon/types"

// Kind tags the event variant.
type Kind int

const (
	KindNewSlot Kind = iota
	KindNewBeaconBlock
	KindHeadAfterNewBeaconBlock
	KindNewShardHeads
	KindNotCrosslinkedBlocksPublished
	KindNewAttestations
	KindPrevSlotAttestationsPublished
	KindSlotTerminal
)

func (k Kind) String() string {
	switch k {
	case KindNewSlot:
		return "new_slot"
	case KindNewBeaconBlock:
		return "new_beacon_block"
	case KindHeadAfterNewBeaconBlock:
		return "head_after_new_beacon_block"
	case KindNewShardHeads:
		return "new_shard_heads"
	case KindNotCrosslinkedBlocksPublished:
		return "not_crosslinked_blocks_published"
	case KindNewAttestations:
		return "new_attestations"
	case KindPrevSlotAttestationsPublished:
		return "prev_slot_attestations_published"
	case KindSlotTerminal:
		return "slot_terminal"
	default:
		return "unknown"
	}
}

// Event is the tagged variant carried on the bus.
type Event interface {
	Kind() Kind
	EventSlot() types.Slot
}

// NewSlot marks a slot boundary. It is never dropped on overflow.
type NewSlot struct {
	Slot types.Slot
}

// NewBeaconBlock announces a locally proposed block.
type NewBeaconBlock struct {
	Slot  types.Slot
	Block *types.SignedBeaconBlock
}

// HeadAfterNewBeaconBlock reports the head after importing a slot's block.
type HeadAfterNewBeaconBlock struct {
	Slot types.Slot
	Root types.Root
}

// NewShardHeads reports the shard head roots observed for the slot.
type NewShardHeads struct {
	Slot  types.Slot
	Heads []types.Root
}

// NotCrosslinkedBlocksPublished reports shard blocks still awaiting
// crosslink inclusion.
type NotCrosslinkedBlocksPublished struct {
	Slot  types.Slot
	Roots []types.Root
}

// NewAttestations carries attestations produced for the slot.
type NewAttestations struct {
	Slot         types.Slot
	Attestations []*types.Attestation
}

// PrevSlotAttestationsPublished republishes the previous slot's
// attestations once that slot has closed.
type PrevSlotAttestationsPublished struct {
	Slot         types.Slot
	Attestations []*types.Attestation
}

// SlotTerminal closes a slot; actors reset their per-slot state.
type SlotTerminal struct {
	Slot types.Slot
}

func (e NewSlot) Kind() Kind                       { return KindNewSlot }
func (e NewBeaconBlock) Kind() Kind                { return KindNewBeaconBlock }
func (e HeadAfterNewBeaconBlock) Kind() Kind       { return KindHeadAfterNewBeaconBlock }
func (e NewShardHeads) Kind() Kind                 { return KindNewShardHeads }
func (e NotCrosslinkedBlocksPublished) Kind() Kind { return KindNotCrosslinkedBlocksPublished }
func (e NewAttestations) Kind() Kind               { return KindNewAttestations }
func (e PrevSlotAttestationsPublished) Kind() Kind { return KindPrevSlotAttestationsPublished }
func (e SlotTerminal) Kind() Kind                  { return KindSlotTerminal }

func (e NewSlot) EventSlot() types.Slot                       { return e.Slot }
func (e NewBeaconBlock) EventSlot() types.Slot                { return e.Slot }
func (e HeadAfterNewBeaconBlock) EventSlot() types.Slot       { return e.Slot }
func (e NewShardHeads) EventSlot() types.Slot                 { return e.Slot }
func (e NotCrosslinkedBlocksPublished) EventSlot() types.Slot { return e.Slot }
func (e NewAttestations) EventSlot() types.Slot               { return e.Slot }
func (e PrevSlotAttestationsPublished) EventSlot() types.Slot { return e.Slot }
func (e SlotTerminal) EventSlot() types.Slot                  { return e.Slot }
