// Package reqresp implements the request/response protocols: Status,
// BeaconBlocksBySlot, and Goodbye.
package reqresp

import (
	"errors"

	"github.com/geanlabs/beacon/types"
)

const (
	StatusProtocolV1       = "/eth2/beacon_chain/req/status/1/ssz_snappy"
	BlocksBySlotProtocolV1 = "/eth2/beacon_chain/req/beacon_blocks_by_slot/1/ssz_snappy"
	GoodbyeProtocolV1      = "/eth2/beacon_chain/req/goodbye/1/ssz_snappy"
)

// ErrEmptyResponse reports a block request answered with no block.
var ErrEmptyResponse = errors.New("reqresp: peer returned no block")

//go:generate go run github.com/ferranbt/fastssz/sszgen --path=. --objs=Status,BeaconBlocksBySlotRequest,Goodbye

// Status is the handshake message exchanged upon connection and on
// periodic refresh. It is supplied by the remote peer and never trusted.
type Status struct {
	ForkDigest     types.ForkDigest `ssz-size:"4"`
	FinalizedRoot  types.Root       `ssz-size:"32"`
	FinalizedEpoch types.Epoch
	HeadRoot       types.Root `ssz-size:"32"`
	HeadSlot       types.Slot
}

// FinalizedCheckpoint assembles the status's finalized checkpoint.
func (s *Status) FinalizedCheckpoint() types.Checkpoint {
	return types.Checkpoint{Epoch: s.FinalizedEpoch, Root: s.FinalizedRoot}
}

// BeaconBlocksBySlotRequest asks for the peer's canonical block at exactly
// the given slot.
type BeaconBlocksBySlotRequest struct {
	Slot types.Slot
}

// Goodbye carries the disconnect reason code sent before closing.
type Goodbye struct {
	Reason uint64
}

// ChainSource supplies local chain data to the server-side handlers.
type ChainSource interface {
	ForkDigest() types.ForkDigest
	FinalizedCheckpoint() types.Checkpoint
	Head() (types.Root, types.Slot)
	BlockInEffectAtSlot(slot types.Slot) (*types.SignedBeaconBlock, error)
}
