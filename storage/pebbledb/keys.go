package pebbledb

import (
	"encoding/binary"

	"github.com/geanlabs/beacon/types"
)

// Key layout. Single-byte prefixes keep related records in contiguous
// iterator ranges.
const (
	prefixBlock     = 'b' // + root → SSZ signed block
	prefixState     = 's' // + root → SSZ state
	prefixHot       = 'h' // + root → empty marker
	prefixCanonical = 'c' // + big-endian slot → root
	prefixVote      = 'v' // + validator index → target root ++ target epoch
	prefixStateRoot = 'r' // + state root → slot ++ block root
	prefixMeta      = 'm' // + name → value
)

var (
	metaTime          = metaKey("time")
	metaGenesisTime   = metaKey("genesis_time")
	metaFinalized     = metaKey("finalized_checkpoint")
	metaJustified     = metaKey("justified_checkpoint")
	metaBestJustified = metaKey("best_justified_checkpoint")
)

func metaKey(name string) []byte {
	return append([]byte{prefixMeta}, name...)
}

func rootKey(prefix byte, root types.Root) []byte {
	k := make([]byte, 1+32)
	k[0] = prefix
	copy(k[1:], root[:])
	return k
}

func slotKey(prefix byte, slot types.Slot) []byte {
	k := make([]byte, 1+8)
	k[0] = prefix
	binary.BigEndian.PutUint64(k[1:], uint64(slot))
	return k
}

func voteKey(idx types.ValidatorIndex) []byte {
	k := make([]byte, 1+8)
	k[0] = prefixVote
	binary.BigEndian.PutUint64(k[1:], uint64(idx))
	return k
}

func encodeUint64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

func decodeUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

func encodeVote(v types.Vote) []byte {
	b := make([]byte, 40)
	copy(b[:32], v.TargetRoot[:])
	binary.LittleEndian.PutUint64(b[32:], uint64(v.TargetEpoch))
	return b
}

func decodeVote(b []byte) types.Vote {
	var v types.Vote
	copy(v.TargetRoot[:], b[:32])
	v.TargetEpoch = types.Epoch(binary.LittleEndian.Uint64(b[32:]))
	return v
}

func encodeSlotAndRoot(slot types.Slot, root types.Root) []byte {
	b := make([]byte, 40)
	binary.LittleEndian.PutUint64(b[:8], uint64(slot))
	copy(b[8:], root[:])
	return b
}

func decodeSlotAndRoot(b []byte) (types.Slot, types.Root) {
	var root types.Root
	copy(root[:], b[8:40])
	return types.Slot(binary.LittleEndian.Uint64(b[:8])), root
}
