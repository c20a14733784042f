package forkchoice

import (
	"testing"

	"github.com/geanlabs/beacon/types"
)

// fakeTree is a hand-built block tree for head-walk tests.
type fakeTree struct {
	blocks   map[types.Root]*types.SignedBeaconBlock
	children map[types.Root][]types.Root
}

func newFakeTree() *fakeTree {
	return &fakeTree{
		blocks:   make(map[types.Root]*types.SignedBeaconBlock),
		children: make(map[types.Root][]types.Root),
	}
}

func (f *fakeTree) add(root, parent types.Root, slot types.Slot) {
	f.blocks[root] = &types.SignedBeaconBlock{
		Message: &types.BeaconBlock{Slot: slot, ParentRoot: parent, Body: &types.BeaconBlockBody{}},
	}
	if slot > 0 {
		f.children[parent] = append(f.children[parent], root)
	}
}

func (f *fakeTree) Block(root types.Root) (*types.SignedBeaconBlock, bool) {
	blk, ok := f.blocks[root]
	return blk, ok
}

func (f *fakeTree) Children(root types.Root) []types.Root {
	return f.children[root]
}

var (
	rootG = types.Root{0x10}
	rootA = types.Root{0x0a}
	rootB = types.Root{0x0b}
	rootC = types.Root{0x0c}
)

func vote(root types.Root, epoch types.Epoch) types.Vote {
	return types.Vote{TargetRoot: root, TargetEpoch: epoch}
}

func TestGetHead_NoVotesWalksToLeaf(t *testing.T) {
	tree := newFakeTree()
	tree.add(rootG, types.Root{}, 0)
	tree.add(rootA, rootG, 1)
	tree.add(rootC, rootA, 2)

	head := GetHead(tree, rootG, nil, nil)
	if head != rootC {
		t.Errorf("head = %x, want the only leaf %x", head[:1], rootC[:1])
	}
}

func TestGetHead_HeaviestBranchWins(t *testing.T) {
	tree := newFakeTree()
	tree.add(rootG, types.Root{}, 0)
	tree.add(rootA, rootG, 1)
	tree.add(rootB, rootG, 1)
	tree.add(rootC, rootB, 2) // Vote for C also weights B.

	votes := map[types.ValidatorIndex]types.Vote{
		0: vote(rootA, 0),
		1: vote(rootC, 0),
		2: vote(rootC, 0),
	}
	balances := map[types.ValidatorIndex]types.Gwei{0: 32, 1: 32, 2: 32}

	head := GetHead(tree, rootG, votes, balances)
	if head != rootC {
		t.Errorf("head = %x, want %x", head[:1], rootC[:1])
	}
}

func TestGetHead_BalanceOutweighsCount(t *testing.T) {
	tree := newFakeTree()
	tree.add(rootG, types.Root{}, 0)
	tree.add(rootA, rootG, 1)
	tree.add(rootB, rootG, 1)

	// Two small votes for A, one heavy vote for B.
	votes := map[types.ValidatorIndex]types.Vote{
		0: vote(rootA, 0),
		1: vote(rootA, 0),
		2: vote(rootB, 0),
	}
	balances := map[types.ValidatorIndex]types.Gwei{0: 10, 1: 10, 2: 32}

	head := GetHead(tree, rootG, votes, balances)
	if head != rootB {
		t.Errorf("head = %x, want the heavier branch %x", head[:1], rootB[:1])
	}
}

func TestGetHead_TieBreaksToHigherRoot(t *testing.T) {
	tree := newFakeTree()
	tree.add(rootG, types.Root{}, 0)
	tree.add(rootA, rootG, 1)
	tree.add(rootB, rootG, 1)

	// Equal weight on both branches; 0x0b > 0x0a lexicographically.
	votes := map[types.ValidatorIndex]types.Vote{
		0: vote(rootA, 0),
		1: vote(rootB, 0),
	}
	balances := map[types.ValidatorIndex]types.Gwei{0: 32, 1: 32}

	head := GetHead(tree, rootG, votes, balances)
	if head != rootB {
		t.Errorf("tie broke to %x, want higher root %x", head[:1], rootB[:1])
	}

	// Deterministic across repeated runs (map iteration must not leak in).
	for i := 0; i < 20; i++ {
		if got := GetHead(tree, rootG, votes, balances); got != head {
			t.Fatalf("head selection not deterministic: %x then %x", head[:1], got[:1])
		}
	}
}

func TestGetHead_ZeroBalanceVotesIgnored(t *testing.T) {
	tree := newFakeTree()
	tree.add(rootG, types.Root{}, 0)
	tree.add(rootA, rootG, 1)
	tree.add(rootB, rootG, 1)

	votes := map[types.ValidatorIndex]types.Vote{
		0: vote(rootA, 0), // Exited validator: no balance entry.
		1: vote(rootB, 0),
	}
	balances := map[types.ValidatorIndex]types.Gwei{1: 32}

	if head := GetHead(tree, rootG, votes, balances); head != rootB {
		t.Errorf("head = %x, want %x", head[:1], rootB[:1])
	}
}

func TestGetHead_VoteForUnknownBlockIgnored(t *testing.T) {
	tree := newFakeTree()
	tree.add(rootG, types.Root{}, 0)
	tree.add(rootA, rootG, 1)

	votes := map[types.ValidatorIndex]types.Vote{
		0: vote(types.Root{0xee}, 0),
	}
	balances := map[types.ValidatorIndex]types.Gwei{0: 32}

	if head := GetHead(tree, rootG, votes, balances); head != rootA {
		t.Errorf("head = %x, want %x", head[:1], rootA[:1])
	}
}
