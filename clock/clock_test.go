package clock

import (
	"testing"
	"time"

	"github.com/geanlabs/beacon/types"
)

func fixedTime(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

func TestCurrentSlot(t *testing.T) {
	const genesis = 1_600_000_000

	tests := []struct {
		name string
		now  int64
		want types.Slot
	}{
		{"before genesis", genesis - 100, 0},
		{"at genesis", genesis, 0},
		{"mid slot 0", genesis + 5, 0},
		{"slot 1", genesis + int64(types.SecondsPerSlot), 1},
		{"slot 10 late", genesis + int64(types.SecondsPerSlot)*10 + 11, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewWithTimeFunc(genesis, fixedTime(tt.now))
			if got := c.CurrentSlot(); got != tt.want {
				t.Errorf("CurrentSlot() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentEpoch(t *testing.T) {
	const genesis = 1_600_000_000
	now := genesis + int64(types.SecondsPerSlot*types.SlotsPerEpoch*3)
	c := NewWithTimeFunc(genesis, fixedTime(now))
	if got := c.CurrentEpoch(); got != 3 {
		t.Errorf("CurrentEpoch() = %d, want 3", got)
	}
}

func TestUntilNextSlot(t *testing.T) {
	const genesis = 1_600_000_000
	c := NewWithTimeFunc(genesis, fixedTime(genesis+1))
	want := time.Duration(types.SecondsPerSlot-1) * time.Second
	if got := c.UntilNextSlot(); got != want {
		t.Errorf("UntilNextSlot() = %v, want %v", got, want)
	}

	// Before genesis the next boundary is genesis itself.
	c = NewWithTimeFunc(genesis, fixedTime(genesis-30))
	if got := c.UntilNextSlot(); got != 30*time.Second {
		t.Errorf("UntilNextSlot() before genesis = %v, want 30s", got)
	}
}
