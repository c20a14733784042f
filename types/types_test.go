package types

import "testing"

func TestSlotEpochMath(t *testing.T) {
	tests := []struct {
		slot  Slot
		epoch Epoch
	}{
		{0, 0},
		{31, 0},
		{32, 1},
		{63, 1},
		{64, 2},
		{320, 10},
	}
	for _, tt := range tests {
		if got := tt.slot.Epoch(); got != tt.epoch {
			t.Errorf("Slot(%d).Epoch() = %d, want %d", tt.slot, got, tt.epoch)
		}
	}

	if got := Epoch(5).StartSlot(); got != 160 {
		t.Errorf("Epoch(5).StartSlot() = %d, want 160", got)
	}
	if got := Epoch(0).StartSlot(); got != GenesisSlot {
		t.Errorf("Epoch(0).StartSlot() = %d, want genesis slot", got)
	}
}

func TestRootCompare(t *testing.T) {
	a := Root{0x01}
	b := Root{0x02}
	if a.Compare(b) != -1 {
		t.Error("expected a < b")
	}
	if b.Compare(a) != 1 {
		t.Error("expected b > a")
	}
	if a.Compare(a) != 0 {
		t.Error("expected a == a")
	}

	// Differences beyond the first byte still order.
	c := Root{0x01, 0xff}
	if a.Compare(c) != -1 {
		t.Error("expected a < c")
	}
}

func TestTimeToSlot(t *testing.T) {
	const genesis = 1_600_000_000

	if got := TimeToSlot(genesis, genesis); got != 0 {
		t.Errorf("slot at genesis = %d, want 0", got)
	}
	if got := TimeToSlot(genesis-5, genesis); got != 0 {
		t.Errorf("slot before genesis = %d, want 0", got)
	}
	if got := TimeToSlot(genesis+SecondsPerSlot*7+3, genesis); got != 7 {
		t.Errorf("mid-slot time = %d, want 7", got)
	}
	if got := SlotToTime(7, genesis); got != genesis+7*SecondsPerSlot {
		t.Errorf("SlotToTime(7) = %d", got)
	}
}

func TestBlockRootStable(t *testing.T) {
	blk := &BeaconBlock{
		Slot:          3,
		ProposerIndex: 1,
		ParentRoot:    Root{0xaa},
		StateRoot:     Root{0xbb},
		Body:          &BeaconBlockBody{},
	}
	r1, err := blk.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot: %v", err)
	}
	r2, err := blk.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot: %v", err)
	}
	if r1 != r2 {
		t.Error("block root not stable across hashes")
	}

	other := &BeaconBlock{
		Slot:          4,
		ProposerIndex: 1,
		ParentRoot:    Root{0xaa},
		StateRoot:     Root{0xbb},
		Body:          &BeaconBlockBody{},
	}
	r3, err := other.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot: %v", err)
	}
	if r1 == r3 {
		t.Error("blocks differing in slot share a root")
	}
}

func TestStateCopyIsDeep(t *testing.T) {
	st := &BeaconState{
		Slot:       5,
		BlockRoots: make([]Root, 64),
		StateRoots: make([]Root, 64),
		Validators: []*Validator{{EffectiveBalance: 32}},
		Balances:   []uint64{32},
	}
	cp := st.Copy()

	cp.Validators[0].EffectiveBalance = 1
	cp.Balances[0] = 1
	cp.BlockRoots[0] = Root{0x01}

	if st.Validators[0].EffectiveBalance != 32 {
		t.Error("validator mutation leaked into original")
	}
	if st.Balances[0] != 32 {
		t.Error("balance mutation leaked into original")
	}
	if !st.BlockRoots[0].IsZero() {
		t.Error("block root mutation leaked into original")
	}
}
