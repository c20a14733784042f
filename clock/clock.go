// Package clock provides time-to-slot conversion for the beacon chain.
//
// The slot clock bridges wall-clock time to the discrete slot-based time
// model used by consensus. Every node must agree on slot boundaries to
// coordinate block proposals and attestations.
package clock

import (
	"time"

	"github.com/geanlabs/beacon/types"
)

// SlotClock converts wall-clock time to consensus slots and epochs.
// All time values are in seconds (Unix timestamps).
type SlotClock struct {
	GenesisTime uint64           // Unix timestamp when slot 0 began
	timeFunc    func() time.Time // Injectable for testing
}

// New creates a SlotClock with the given genesis time.
func New(genesisTime uint64) *SlotClock {
	return &SlotClock{
		GenesisTime: genesisTime,
		timeFunc:    time.Now,
	}
}

// NewWithTimeFunc creates a SlotClock with a custom time source (for testing).
func NewWithTimeFunc(genesisTime uint64, timeFunc func() time.Time) *SlotClock {
	return &SlotClock{
		GenesisTime: genesisTime,
		timeFunc:    timeFunc,
	}
}

// CurrentSlot returns the slot in progress (0 before genesis).
func (c *SlotClock) CurrentSlot() types.Slot {
	return types.TimeToSlot(uint64(c.timeFunc().Unix()), c.GenesisTime)
}

// CurrentEpoch returns the epoch containing the current slot.
func (c *SlotClock) CurrentEpoch() types.Epoch {
	return c.CurrentSlot().Epoch()
}

// SlotStart returns the wall-clock time at which the given slot begins.
func (c *SlotClock) SlotStart(slot types.Slot) time.Time {
	return time.Unix(int64(types.SlotToTime(slot, c.GenesisTime)), 0)
}

// UntilNextSlot returns the duration until the next slot boundary.
func (c *SlotClock) UntilNextSlot() time.Duration {
	now := c.timeFunc()
	if uint64(now.Unix()) < c.GenesisTime {
		return time.Unix(int64(c.GenesisTime), 0).Sub(now)
	}
	next := c.SlotStart(c.CurrentSlot() + 1)
	return next.Sub(now)
}

// Ticker emits the slot number at every slot boundary until ctx-free Stop.
// The channel is buffered by one slot so a slow consumer never skews ticks.
type Ticker struct {
	C    <-chan types.Slot
	done chan struct{}
}

// NewTicker starts a slot ticker driven by the clock.
func (c *SlotClock) NewTicker() *Ticker {
	ch := make(chan types.Slot, 1)
	done := make(chan struct{})
	go func() {
		for {
			d := c.UntilNextSlot()
			select {
			case <-time.After(d):
				select {
				case ch <- c.CurrentSlot():
				default:
					// Consumer still handling the previous tick.
				}
			case <-done:
				return
			}
		}
	}()
	return &Ticker{C: ch, done: done}
}

// Stop terminates the ticker goroutine.
func (t *Ticker) Stop() {
	close(t.done)
}
