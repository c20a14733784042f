package forkchoice

import (
	"context"
	"testing"

	"github.com/geanlabs/beacon/chain"
	"github.com/geanlabs/beacon/store"
	"github.com/geanlabs/beacon/types"
)

type stubClock struct {
	slot types.Slot
}

func (c *stubClock) CurrentSlot() types.Slot { return c.slot }

type testEnv struct {
	store  *store.Store
	engine *Engine
	clock  *stubClock
	reorgs <-chan ReorgEvent

	genesisState *types.BeaconState
	genesisRoot  types.Root
}

func setupEngine(t *testing.T) *testEnv {
	t.Helper()

	state, block, err := chain.GenerateGenesis(1_600_000_000, 8, types.Version{})
	if err != nil {
		t.Fatalf("GenerateGenesis: %v", err)
	}
	st, err := store.NewStore(state, block, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	clk := &stubClock{slot: 1 << 20} // Far enough that nothing is from the future.
	eng := NewEngine(st, clk, nil)

	root, err := block.Message.HashTreeRoot()
	if err != nil {
		t.Fatalf("hash genesis block: %v", err)
	}

	// Drain storage updates so commits never back-pressure under test.
	go func() {
		for range st.Updates() {
		}
	}()

	return &testEnv{
		store:        st,
		engine:       eng,
		clock:        clk,
		reorgs:       eng.SubscribeReorgs(16),
		genesisState: state,
		genesisRoot:  root,
	}
}

// buildBlock creates a valid block at the slot on top of the given parent
// state, with a correct state root.
func buildBlock(t *testing.T, parentState *types.BeaconState, parentRoot types.Root, slot types.Slot, atts []*types.Attestation) (*types.SignedBeaconBlock, *types.BeaconState) {
	t.Helper()

	advanced := parentState
	var err error
	if advanced.Slot < slot {
		advanced, err = chain.ProcessSlots(parentState, slot)
		if err != nil {
			t.Fatalf("ProcessSlots to %d: %v", slot, err)
		}
	}
	block := &types.BeaconBlock{
		Slot:          slot,
		ProposerIndex: chain.ProposerIndex(advanced, slot),
		ParentRoot:    parentRoot,
		Body:          &types.BeaconBlockBody{Attestations: atts},
	}
	post, err := chain.ProcessBlock(advanced, block)
	if err != nil {
		t.Fatalf("ProcessBlock at %d: %v", slot, err)
	}
	block.StateRoot, err = post.HashTreeRoot()
	if err != nil {
		t.Fatalf("hash post-state: %v", err)
	}
	return &types.SignedBeaconBlock{Message: block}, post
}

func importOK(t *testing.T, env *testEnv, signed *types.SignedBeaconBlock, hint *types.BeaconState) types.Root {
	t.Helper()
	res := env.engine.OnBlock(context.Background(), signed, hint)
	if !res.Successful() {
		t.Fatalf("import failed: %s", res.String())
	}
	return res.HeadRoot
}

func drainReorgs(ch <-chan ReorgEvent) []ReorgEvent {
	var events []ReorgEvent
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestProcessHead_EmptySlotFilledTriggersReorg(t *testing.T) {
	env := setupEngine(t)

	// Run fork choice with an empty slot 1.
	if _, err := env.engine.ProcessHead(1); err != nil {
		t.Fatalf("ProcessHead: %v", err)
	}
	if events := drainReorgs(env.reorgs); len(events) != 0 {
		t.Fatalf("bare slot advance emitted %d reorgs", len(events))
	}

	// Then fill slot 1 and rerun.
	signed, _ := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	blockRoot, _ := signed.Message.HashTreeRoot()
	importOK(t, env, signed, env.genesisState)
	if _, err := env.engine.ProcessHead(1); err != nil {
		t.Fatalf("ProcessHead: %v", err)
	}

	events := drainReorgs(env.reorgs)
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 reorg, got %d", len(events))
	}
	if events[0].BestSlot != 1 {
		t.Errorf("reorg best slot = %d, want 1", events[0].BestSlot)
	}
	if events[0].BestBlockRoot != blockRoot {
		t.Errorf("reorg best root = %s, want %s", events[0].BestBlockRoot.Short(), types.Root(blockRoot).Short())
	}
}

func TestOnBlock_ChildOfHeadImmediatelyBecomesHead(t *testing.T) {
	env := setupEngine(t)

	signed, _ := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	blockRoot, _ := signed.Message.HashTreeRoot()
	head := importOK(t, env, signed, env.genesisState)

	if head != blockRoot {
		t.Errorf("head after import = %s, want the new block %s", head.Short(), types.Root(blockRoot).Short())
	}
	storeHead, headSlot := env.store.Head()
	if storeHead != blockRoot || headSlot != 1 {
		t.Errorf("store head = (%s, %d), want (%s, 1)", storeHead.Short(), headSlot, types.Root(blockRoot).Short())
	}
	if events := drainReorgs(env.reorgs); len(events) != 0 {
		t.Errorf("plain head extension emitted %d reorgs", len(events))
	}
}

func TestOnBlock_ReorgWhenForkChoiceSlotAdvancedPastBlock(t *testing.T) {
	env := setupEngine(t)

	// Advance fork choice to slot 5 first.
	if _, err := env.engine.ProcessHead(5); err != nil {
		t.Fatalf("ProcessHead: %v", err)
	}

	signed, _ := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	blockRoot, _ := signed.Message.HashTreeRoot()
	head := importOK(t, env, signed, env.genesisState)

	if head != blockRoot {
		t.Errorf("head after import = %s, want %s", head.Short(), types.Root(blockRoot).Short())
	}
	events := drainReorgs(env.reorgs)
	if len(events) != 1 {
		t.Fatalf("expected 1 reorg, got %d", len(events))
	}
	if events[0].BestBlockRoot != blockRoot || events[0].BestSlot != 1 {
		t.Errorf("reorg = (%s, %d), want (%s, 1)", events[0].BestBlockRoot.Short(), events[0].BestSlot, types.Root(blockRoot).Short())
	}
}

func TestOnBlock_DuplicateImportIsIdempotent(t *testing.T) {
	env := setupEngine(t)

	signed, _ := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	head1 := importOK(t, env, signed, env.genesisState)
	drainReorgs(env.reorgs)

	head2 := importOK(t, env, signed, env.genesisState)
	if head1 != head2 {
		t.Errorf("duplicate import moved head: %s → %s", head1.Short(), head2.Short())
	}
	if events := drainReorgs(env.reorgs); len(events) != 0 {
		t.Errorf("duplicate import emitted %d reorgs", len(events))
	}
}

func TestOnBlock_FromFuture(t *testing.T) {
	env := setupEngine(t)
	env.clock.slot = 0

	signed, _ := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	res := env.engine.OnBlock(context.Background(), signed, env.genesisState)
	if res.Status != ImportBlockIsFromFuture {
		t.Errorf("status = %s, want block_is_from_future", res.Status)
	}
	if env.store.HasBlock(signed.Message.Root()) {
		t.Error("future block entered the store")
	}

	// The caller may retry once the slot arrives.
	env.clock.slot = 1
	importOK(t, env, signed, env.genesisState)
}

func TestOnBlock_ParentUnknown(t *testing.T) {
	env := setupEngine(t)

	orphan, _ := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	orphan.Message.ParentRoot = types.Root{0xde, 0xad}
	res := env.engine.OnBlock(context.Background(), orphan, nil)
	if res.Status != ImportParentUnknown {
		t.Errorf("status = %s, want parent_unknown", res.Status)
	}
}

func TestOnBlock_InvalidBlockLeavesStoreUnchanged(t *testing.T) {
	env := setupEngine(t)

	signed, _ := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	signed.Message.ProposerIndex++ // Wrong proposer.
	res := env.engine.OnBlock(context.Background(), signed, env.genesisState)
	if res.Status != ImportInvalidBlock {
		t.Fatalf("status = %s, want invalid_block", res.Status)
	}
	head, _ := env.store.Head()
	if head != env.genesisRoot {
		t.Error("invalid block moved the head")
	}
}

func TestOnBlock_StateRootMismatchRejected(t *testing.T) {
	env := setupEngine(t)

	signed, _ := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	signed.Message.StateRoot = types.Root{0x01}
	res := env.engine.OnBlock(context.Background(), signed, env.genesisState)
	if res.Status != ImportInvalidBlock {
		t.Errorf("status = %s, want invalid_block", res.Status)
	}
}

func TestOnBlock_CancelledBeforeCommitLeavesStoreUnchanged(t *testing.T) {
	env := setupEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	signed, _ := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	res := env.engine.OnBlock(ctx, signed, env.genesisState)
	if res.Successful() {
		t.Fatal("cancelled import reported success")
	}
	if env.store.HasBlock(signed.Message.Root()) {
		t.Error("cancelled import mutated the store")
	}
}

func TestProcessHead_VotesFromBlocksSwitchForks(t *testing.T) {
	env := setupEngine(t)

	// Two competing children of genesis.
	blockA, postA := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	rootA, _ := blockA.Message.HashTreeRoot()
	blockB, _ := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	blockB.Message.Body.Graffiti = types.Root{0xff} // Distinct fork.
	// Recompute B's state root for the altered body.
	advanced, err := chain.ProcessSlots(env.genesisState, 1)
	if err != nil {
		t.Fatalf("ProcessSlots: %v", err)
	}
	postB, err := chain.ProcessBlock(advanced, blockB.Message)
	if err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	blockB.Message.StateRoot, _ = postB.HashTreeRoot()
	rootB, _ := blockB.Message.HashTreeRoot()

	importOK(t, env, blockA, env.genesisState)
	importOK(t, env, blockB, env.genesisState)

	// Majority votes target B; head must follow regardless of import order.
	att := &types.Attestation{
		AttestingIndices: []uint64{0, 1, 2, 3, 4},
		Data: types.AttestationData{
			Slot:            1,
			BeaconBlockRoot: rootB,
			Target:          types.Checkpoint{Epoch: 0, Root: rootB},
		},
	}
	if err := env.engine.OnAttestation(att); err != nil {
		t.Fatalf("OnAttestation: %v", err)
	}

	head, err := env.engine.ProcessHead(2)
	if err != nil {
		t.Fatalf("ProcessHead: %v", err)
	}
	if head != rootB {
		t.Errorf("head = %s, want voted fork %s", head.Short(), types.Root(rootB).Short())
	}

	// A single later vote for A outweighs nothing: 1 < 5.
	attA := &types.Attestation{
		AttestingIndices: []uint64{5},
		Data: types.AttestationData{
			Slot:            1,
			BeaconBlockRoot: rootA,
			Target:          types.Checkpoint{Epoch: 0, Root: rootA},
		},
	}
	if err := env.engine.OnAttestation(attA); err != nil {
		t.Fatalf("OnAttestation: %v", err)
	}
	head, err = env.engine.ProcessHead(3)
	if err != nil {
		t.Fatalf("ProcessHead: %v", err)
	}
	if head != rootB {
		t.Errorf("minority vote flipped head to %s", head.Short())
	}
	_ = postA
}

func TestOnAttestation_HigherTargetEpochWins(t *testing.T) {
	env := setupEngine(t)

	signed, _ := buildBlock(t, env.genesisState, env.genesisRoot, 1, nil)
	root1, _ := signed.Message.HashTreeRoot()
	importOK(t, env, signed, env.genesisState)

	newer := &types.Attestation{
		AttestingIndices: []uint64{0},
		Data: types.AttestationData{
			Slot:   1,
			Target: types.Checkpoint{Epoch: 1, Root: root1},
		},
	}
	older := &types.Attestation{
		AttestingIndices: []uint64{0},
		Data: types.AttestationData{
			Slot:   1,
			Target: types.Checkpoint{Epoch: 0, Root: env.genesisRoot},
		},
	}
	if err := env.engine.OnAttestation(newer); err != nil {
		t.Fatalf("OnAttestation: %v", err)
	}
	if err := env.engine.OnAttestation(older); err != nil {
		t.Fatalf("OnAttestation: %v", err)
	}

	vote, ok := env.store.Vote(0)
	if !ok {
		t.Fatal("vote missing")
	}
	if vote.TargetEpoch != 1 || vote.TargetRoot != root1 {
		t.Errorf("older attestation overwrote newer vote: %+v", vote)
	}
}

func TestOnAttestation_UnknownTargetRejected(t *testing.T) {
	env := setupEngine(t)

	att := &types.Attestation{
		AttestingIndices: []uint64{0},
		Data: types.AttestationData{
			Target: types.Checkpoint{Epoch: 0, Root: types.Root{0xaa}},
		},
	}
	if err := env.engine.OnAttestation(att); err == nil {
		t.Error("attestation for unknown target accepted")
	}
}
