package pipeline

import (
	"log/slog"

	"github.com/geanlabs/beacon/types"
)

// DelayedAttestationsProcessor buffers each slot's attestations and, when
// the next slot opens, republishes them as the previous slot's batch and
// closes the slot with SlotTerminal.
type DelayedAttestationsProcessor struct {
	logger *slog.Logger

	slot    types.Slot
	started bool
	pending []*types.Attestation
}

// NewDelayedAttestationsProcessor creates the processor actor.
func NewDelayedAttestationsProcessor(logger *slog.Logger) *DelayedAttestationsProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DelayedAttestationsProcessor{logger: logger}
}

func (d *DelayedAttestationsProcessor) Name() string { return "delayed_attestations_processor" }

// Kinds lists the event kinds the processor consumes.
func (d *DelayedAttestationsProcessor) Kinds() []Kind {
	return []Kind{KindNewAttestations, KindNewSlot}
}

func (d *DelayedAttestationsProcessor) Handle(ev Event) []Event {
	switch e := ev.(type) {
	case NewAttestations:
		if !d.started || e.Slot == d.slot {
			d.pending = append(d.pending, e.Attestations...)
		}
		return nil
	case NewSlot:
		if !d.started {
			d.started = true
			d.slot = e.Slot
			d.pending = nil
			return nil
		}
		closed := d.slot
		batch := d.pending
		d.slot = e.Slot
		d.pending = nil
		return []Event{
			PrevSlotAttestationsPublished{Slot: e.Slot, Attestations: batch},
			SlotTerminal{Slot: closed},
		}
	}
	return nil
}
