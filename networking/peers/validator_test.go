package peers

import (
	"context"
	"errors"
	"testing"

	corepeer "github.com/libp2p/go-libp2p/core/peer"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/geanlabs/beacon/networking/reqresp"
	"github.com/geanlabs/beacon/observability/metrics"
	"github.com/geanlabs/beacon/types"
)

var errTimeout = errors.New("request timed out")

// fakeChain implements ChainProvider over a fixed canonical chain.
type fakeChain struct {
	digest    types.ForkDigest
	finalized types.Checkpoint
	epoch     types.Epoch
	// blocksBySlot holds the canonical chain; BlockInEffectAtSlot walks
	// down to the most recent filled slot.
	blocksBySlot map[types.Slot]*types.SignedBeaconBlock
	corrupt      bool
}

func (c *fakeChain) ForkDigest() types.ForkDigest          { return c.digest }
func (c *fakeChain) FinalizedCheckpoint() types.Checkpoint { return c.finalized }
func (c *fakeChain) CurrentEpoch() types.Epoch             { return c.epoch }

func (c *fakeChain) BlockInEffectAtSlot(slot types.Slot) (*types.SignedBeaconBlock, error) {
	if c.corrupt {
		return nil, errors.New("historical block missing from storage")
	}
	for s := int64(slot); s >= 0; s-- {
		if blk, ok := c.blocksBySlot[types.Slot(s)]; ok {
			return blk, nil
		}
	}
	return nil, errors.New("no block at or before slot")
}

// fakePeer records block requests and disconnects.
type fakePeer struct {
	blocksBySlot map[types.Slot]*types.SignedBeaconBlock
	requestErr   error

	requests     []types.Slot
	disconnected bool
	reason       DisconnectReason
}

func (p *fakePeer) ID() corepeer.ID { return "test-peer" }

func (p *fakePeer) RequestBlockBySlot(_ context.Context, slot types.Slot) (*types.SignedBeaconBlock, error) {
	p.requests = append(p.requests, slot)
	if p.requestErr != nil {
		return nil, p.requestErr
	}
	blk, ok := p.blocksBySlot[slot]
	if !ok {
		return nil, reqresp.ErrEmptyResponse
	}
	return blk, nil
}

func (p *fakePeer) DisconnectCleanly(_ context.Context, reason DisconnectReason) error {
	p.disconnected = true
	p.reason = reason
	return nil
}

func makeBlock(t *testing.T, slot types.Slot) (*types.SignedBeaconBlock, types.Root) {
	t.Helper()
	blk := &types.SignedBeaconBlock{
		Message: &types.BeaconBlock{
			Slot:       slot,
			ParentRoot: types.Root{byte(slot)},
			Body:       &types.BeaconBlockBody{},
		},
	}
	root, err := blk.Message.HashTreeRoot()
	if err != nil {
		t.Fatalf("hash block: %v", err)
	}
	return blk, root
}

type counters struct {
	started, valid, invalid, errored float64
}

func readCounters() counters {
	return counters{
		started: testutil.ToFloat64(metrics.PeerChainValidation.WithLabelValues("started")),
		valid:   testutil.ToFloat64(metrics.PeerChainValidation.WithLabelValues("valid")),
		invalid: testutil.ToFloat64(metrics.PeerChainValidation.WithLabelValues("invalid")),
		errored: testutil.ToFloat64(metrics.PeerChainValidation.WithLabelValues("error")),
	}
}

func validate(t *testing.T, chain *fakeChain, peer *fakePeer, status *reqresp.Status) (bool, counters) {
	t.Helper()
	before := readCounters()
	got := NewChainValidator(chain, nil).Validate(context.Background(), peer, status)
	after := readCounters()
	delta := counters{
		started: after.started - before.started,
		valid:   after.valid - before.valid,
		invalid: after.invalid - before.invalid,
		errored: after.errored - before.errored,
	}
	if delta.started != 1 {
		t.Errorf("started counter delta = %v, want 1", delta.started)
	}
	if delta.valid+delta.invalid+delta.errored != 1 {
		t.Errorf("exactly one outcome counter must increment, got %+v", delta)
	}
	return got, delta
}

var localDigest = types.ForkDigest{0x01, 0x02, 0x03, 0x04}

func baseChain() *fakeChain {
	return &fakeChain{
		digest:       localDigest,
		epoch:        20,
		blocksBySlot: make(map[types.Slot]*types.SignedBeaconBlock),
	}
}

func TestValidate_DigestMismatchRejects(t *testing.T) {
	chain := baseChain()
	peer := &fakePeer{}

	// S1: only the digest differs; any finality, even a would-pass one.
	status := &reqresp.Status{
		ForkDigest:     types.ForkDigest{0x01, 0x02, 0x03, 0x05},
		FinalizedEpoch: 0,
	}
	ok, delta := validate(t, chain, peer, status)
	if ok {
		t.Error("digest mismatch accepted")
	}
	if delta.invalid != 1 {
		t.Errorf("invalid counter delta = %v, want 1", delta.invalid)
	}
	if !peer.disconnected || peer.reason != DisconnectIrrelevantNetwork {
		t.Errorf("expected irrelevant_network disconnect, got %v", peer.reason)
	}
	if len(peer.requests) != 0 {
		t.Error("digest mismatch still issued RPC")
	}
}

func TestValidate_GenesisOnlyFinalityAcceptsOnDigest(t *testing.T) {
	chain := baseChain()
	peer := &fakePeer{}

	// S2: remote finalized epoch 0 accepts regardless of roots, no RPC.
	status := &reqresp.Status{
		ForkDigest:     localDigest,
		FinalizedRoot:  types.Root{0xab}, // Deliberately junk.
		FinalizedEpoch: 0,
	}
	ok, delta := validate(t, chain, peer, status)
	if !ok {
		t.Error("genesis-only peer rejected")
	}
	if delta.valid != 1 {
		t.Errorf("valid counter delta = %v, want 1", delta.valid)
	}
	if peer.disconnected {
		t.Error("accepted peer was disconnected")
	}
	if len(peer.requests) != 0 {
		t.Error("genesis carve-out still issued RPC")
	}
}

func TestValidate_FutureFinalityRejects(t *testing.T) {
	chain := baseChain()

	tests := []struct {
		name  string
		epoch types.Epoch
	}{
		{"beyond current epoch", 21},
		{"at current epoch", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			peer := &fakePeer{}
			status := &reqresp.Status{ForkDigest: localDigest, FinalizedEpoch: tt.epoch}
			ok, delta := validate(t, chain, peer, status)
			if ok {
				t.Error("future finality accepted")
			}
			if delta.invalid != 1 {
				t.Errorf("invalid counter delta = %v", delta.invalid)
			}
		})
	}
}

func TestValidate_GenesisEpochCarveOut(t *testing.T) {
	// currentEpoch == GENESIS_EPOCH accepts remoteFinalizedEpoch == 0 even
	// though the epochs are equal.
	chain := baseChain()
	chain.epoch = types.GenesisEpoch
	peer := &fakePeer{}
	status := &reqresp.Status{ForkDigest: localDigest, FinalizedEpoch: 0}
	ok, _ := validate(t, chain, peer, status)
	if !ok {
		t.Error("genesis-epoch node rejected a genesis-finality peer")
	}
}

func TestValidate_EqualFinalizedEpochs(t *testing.T) {
	// S3/S4: equal epochs compare roots directly; no RPC either way.
	root := types.Root{0x05}
	chain := baseChain()
	chain.finalized = types.Checkpoint{Epoch: 5, Root: root}

	t.Run("matching root accepts", func(t *testing.T) {
		peer := &fakePeer{}
		status := &reqresp.Status{ForkDigest: localDigest, FinalizedEpoch: 5, FinalizedRoot: root}
		ok, delta := validate(t, chain, peer, status)
		if !ok {
			t.Error("matching finalized checkpoint rejected")
		}
		if delta.valid != 1 {
			t.Errorf("valid counter delta = %v", delta.valid)
		}
		if len(peer.requests) != 0 {
			t.Error("equal-epoch path issued RPC")
		}
	})

	t.Run("differing root rejects", func(t *testing.T) {
		peer := &fakePeer{}
		status := &reqresp.Status{ForkDigest: localDigest, FinalizedEpoch: 5, FinalizedRoot: types.Root{0x06}}
		ok, delta := validate(t, chain, peer, status)
		if ok {
			t.Error("conflicting finalized checkpoint accepted")
		}
		if delta.invalid != 1 {
			t.Errorf("invalid counter delta = %v", delta.invalid)
		}
		if peer.reason != DisconnectIrrelevantNetwork {
			t.Errorf("reason = %v, want irrelevant_network", peer.reason)
		}
	})
}

func TestValidate_LocalAhead(t *testing.T) {
	// S5: we are ahead; the peer's finalized block must be canonical here.
	peerFinalizedSlot := types.Slot(5 * types.SlotsPerEpoch)
	blk, root := makeBlock(t, peerFinalizedSlot)

	chain := baseChain()
	chain.finalized = types.Checkpoint{Epoch: 10, Root: types.Root{0x10}}
	chain.blocksBySlot[0] = &types.SignedBeaconBlock{Message: &types.BeaconBlock{Slot: 0, Body: &types.BeaconBlockBody{}}}
	chain.blocksBySlot[peerFinalizedSlot] = blk

	t.Run("canonical root accepts", func(t *testing.T) {
		peer := &fakePeer{}
		status := &reqresp.Status{ForkDigest: localDigest, FinalizedEpoch: 5, FinalizedRoot: root}
		ok, _ := validate(t, chain, peer, status)
		if !ok {
			t.Error("canonical peer checkpoint rejected")
		}
		if len(peer.requests) != 0 {
			t.Error("we-ahead path issued RPC; lookup must be local")
		}
	})

	t.Run("non-canonical root rejects", func(t *testing.T) {
		peer := &fakePeer{}
		status := &reqresp.Status{ForkDigest: localDigest, FinalizedEpoch: 5, FinalizedRoot: types.Root{0x77}}
		ok, delta := validate(t, chain, peer, status)
		if ok {
			t.Error("non-canonical peer checkpoint accepted")
		}
		if delta.invalid != 1 {
			t.Errorf("invalid counter delta = %v", delta.invalid)
		}
	})

	t.Run("missing local history is an error", func(t *testing.T) {
		corrupt := baseChain()
		corrupt.finalized = chain.finalized
		corrupt.corrupt = true
		peer := &fakePeer{}
		status := &reqresp.Status{ForkDigest: localDigest, FinalizedEpoch: 5, FinalizedRoot: root}
		ok, delta := validate(t, corrupt, peer, status)
		if ok {
			t.Error("validation succeeded against corrupt store")
		}
		if delta.errored != 1 {
			t.Errorf("error counter delta = %v, want 1", delta.errored)
		}
		if peer.reason != DisconnectUnableToVerifyNetwork {
			t.Errorf("reason = %v, want unable_to_verify_network", peer.reason)
		}
	})
}

func TestValidate_PeerAhead(t *testing.T) {
	// S6: the peer is ahead; it must serve our finalized block at its slot.
	localFinalizedSlot := types.Slot(5 * types.SlotsPerEpoch)
	blk, root := makeBlock(t, localFinalizedSlot)

	newChain := func() *fakeChain {
		chain := baseChain()
		chain.finalized = types.Checkpoint{Epoch: 5, Root: root}
		chain.blocksBySlot[localFinalizedSlot] = blk
		return chain
	}
	status := &reqresp.Status{ForkDigest: localDigest, FinalizedEpoch: 10, FinalizedRoot: types.Root{0x10}}

	t.Run("matching remote block accepts", func(t *testing.T) {
		peer := &fakePeer{blocksBySlot: map[types.Slot]*types.SignedBeaconBlock{localFinalizedSlot: blk}}
		ok, delta := validate(t, newChain(), peer, status)
		if !ok {
			t.Error("agreeing ahead peer rejected")
		}
		if delta.valid != 1 {
			t.Errorf("valid counter delta = %v", delta.valid)
		}
		if len(peer.requests) != 1 || peer.requests[0] != localFinalizedSlot {
			t.Errorf("requests = %v, want [%d]", peer.requests, localFinalizedSlot)
		}
	})

	t.Run("differing remote block rejects", func(t *testing.T) {
		other, _ := makeBlock(t, localFinalizedSlot)
		other.Message.ParentRoot = types.Root{0x99}
		peer := &fakePeer{blocksBySlot: map[types.Slot]*types.SignedBeaconBlock{localFinalizedSlot: other}}
		ok, delta := validate(t, newChain(), peer, status)
		if ok {
			t.Error("disagreeing ahead peer accepted")
		}
		if delta.invalid != 1 {
			t.Errorf("invalid counter delta = %v", delta.invalid)
		}
	})

	t.Run("timeout is an error disconnect", func(t *testing.T) {
		peer := &fakePeer{requestErr: errTimeout}
		ok, delta := validate(t, newChain(), peer, status)
		if ok {
			t.Error("validation succeeded through a timeout")
		}
		if delta.errored != 1 {
			t.Errorf("error counter delta = %v, want 1", delta.errored)
		}
		if peer.reason != DisconnectUnableToVerifyNetwork {
			t.Errorf("reason = %v, want unable_to_verify_network", peer.reason)
		}
	})

	t.Run("empty response is a violation", func(t *testing.T) {
		peer := &fakePeer{} // No blocks: every request answers empty.
		ok, delta := validate(t, newChain(), peer, status)
		if ok {
			t.Error("peer with no block accepted")
		}
		if delta.invalid != 1 {
			t.Errorf("invalid counter delta = %v, want 1 (violation is definitive)", delta.invalid)
		}
		if peer.reason != DisconnectIrrelevantNetwork {
			t.Errorf("reason = %v, want irrelevant_network", peer.reason)
		}
	})

	t.Run("wrong-slot response is a violation", func(t *testing.T) {
		wrongSlot, _ := makeBlock(t, localFinalizedSlot+1)
		peer := &fakePeer{blocksBySlot: map[types.Slot]*types.SignedBeaconBlock{localFinalizedSlot: wrongSlot}}
		ok, delta := validate(t, newChain(), peer, status)
		if ok {
			t.Error("wrong-slot response accepted")
		}
		if delta.invalid != 1 {
			t.Errorf("invalid counter delta = %v", delta.invalid)
		}
	})

	t.Run("genesis-slot finalized short-circuits", func(t *testing.T) {
		chain := baseChain()
		genesisBlk, genesisRoot := makeBlock(t, 0)
		// Finalized epoch 2 without any blocks: genesis is still in effect.
		chain.finalized = types.Checkpoint{Epoch: 2, Root: genesisRoot}
		chain.blocksBySlot[0] = genesisBlk
		peer := &fakePeer{}
		st := &reqresp.Status{ForkDigest: localDigest, FinalizedEpoch: 10, FinalizedRoot: types.Root{0x10}}
		ok, _ := validate(t, chain, peer, st)
		if !ok {
			t.Error("genesis-in-effect short-circuit rejected peer")
		}
		if len(peer.requests) != 0 {
			t.Error("short-circuit path still issued RPC")
		}
	})
}

func TestValidate_DeterministicForIdenticalStatus(t *testing.T) {
	root := types.Root{0x05}
	chain := baseChain()
	chain.finalized = types.Checkpoint{Epoch: 5, Root: root}
	status := &reqresp.Status{ForkDigest: localDigest, FinalizedEpoch: 5, FinalizedRoot: root}

	first, _ := validate(t, chain, &fakePeer{}, status)
	for i := 0; i < 5; i++ {
		got, _ := validate(t, chain, &fakePeer{}, status)
		if got != first {
			t.Fatal("identical statuses validated differently")
		}
	}
}
