// Package types defines the primitive and composite types for the beacon chain.
package types

import "fmt"

// Primitive types.
type Slot uint64
type Epoch uint64
type CommitteeIndex uint64
type ValidatorIndex uint64
type Gwei uint64
type Root [32]byte

// ForkDigest is a 4-byte tag identifying the fork protocol in force.
// Peers advertising a different digest follow an incompatible chain.
type ForkDigest [4]byte

// Version is a 4-byte fork version identifier.
type Version [4]byte

// Signature is an opaque 96-byte signature container. Verification is
// performed by an external collaborator, never by this module.
type Signature [96]byte

// Protocol constants.
const (
	SlotsPerEpoch             uint64 = 32
	SecondsPerSlot            uint64 = 12
	SlotsPerHistoricalRoot    uint64 = 64
	EpochsPerHistoricalVector uint64 = 64
	ValidatorRegistryLimit    uint64 = 4096
	MaxAttestations           uint64 = 128
	MaxValidatorsPerCommittee uint64 = 2048

	GenesisSlot  Slot  = 0
	GenesisEpoch Epoch = 0

	MaxEffectiveBalance Gwei = 32_000_000_000
)

// FarFutureEpoch marks a validator with no scheduled exit.
const FarFutureEpoch = Epoch(^uint64(0))

func (r Root) IsZero() bool { return r == Root{} }

// Short returns a short hex representation of the root (first 4 bytes).
func (r Root) Short() string {
	return fmt.Sprintf("%x", r[:4])
}

// Compare compares two roots lexicographically.
// Returns 1 if r > other, -1 if r < other, 0 if equal.
func (r Root) Compare(other Root) int {
	for i := 0; i < 32; i++ {
		if r[i] > other[i] {
			return 1
		}
		if r[i] < other[i] {
			return -1
		}
	}
	return 0
}

// Epoch returns the epoch containing this slot.
func (s Slot) Epoch() Epoch {
	return Epoch(uint64(s) / SlotsPerEpoch)
}

// StartSlot returns the first slot of this epoch.
func (e Epoch) StartSlot() Slot {
	return Slot(uint64(e) * SlotsPerEpoch)
}

// SlotToTime converts a slot to its wall-clock start time.
func SlotToTime(slot Slot, genesisTime uint64) uint64 {
	return genesisTime + uint64(slot)*SecondsPerSlot
}

// TimeToSlot converts a wall-clock time to the slot in progress.
func TimeToSlot(time, genesisTime uint64) Slot {
	if time < genesisTime {
		return 0
	}
	return Slot((time - genesisTime) / SecondsPerSlot)
}
