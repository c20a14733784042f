// Package forkchoice implements block import and LMD GHOST head selection
// over the hot-block tree.
package forkchoice

import "github.com/geanlabs/beacon/types"

// TreeReader is the slice of the store the head walk needs.
type TreeReader interface {
	Block(root types.Root) (*types.SignedBeaconBlock, bool)
	Children(root types.Root) []types.Root
}

// GetHead runs LMD GHOST from the justified root: walk down the tree, at
// each fork choosing the child with the greatest attesting balance. Ties
// break to the lexicographically higher root, which keeps the result stable
// across nodes.
func GetHead(r TreeReader, justifiedRoot types.Root, votes map[types.ValidatorIndex]types.Vote, balances map[types.ValidatorIndex]types.Gwei) types.Root {
	justifiedBlock, ok := r.Block(justifiedRoot)
	if !ok {
		return justifiedRoot
	}
	justifiedSlot := justifiedBlock.Message.Slot

	// Weight every ancestor of each vote target: a vote for a block counts
	// for all of its ancestors above the justified slot.
	weights := make(map[types.Root]types.Gwei)
	for idx, vote := range votes {
		balance := balances[idx]
		if balance == 0 {
			continue
		}
		cur := vote.TargetRoot
		for {
			blk, ok := r.Block(cur)
			if !ok || blk.Message.Slot <= justifiedSlot {
				break
			}
			weights[cur] += balance
			cur = blk.Message.ParentRoot
		}
	}

	cur := justifiedRoot
	for {
		children := r.Children(cur)
		if len(children) == 0 {
			return cur
		}
		best := children[0]
		for _, child := range children[1:] {
			if weights[child] > weights[best] ||
				(weights[child] == weights[best] && child.Compare(best) > 0) {
				best = child
			}
		}
		cur = best
	}
}

// ActiveBalances extracts the effective balances of validators active at the
// epoch, which weight the head walk.
func ActiveBalances(state *types.BeaconState, epoch types.Epoch) map[types.ValidatorIndex]types.Gwei {
	balances := make(map[types.ValidatorIndex]types.Gwei, len(state.Validators))
	for i, v := range state.Validators {
		if v.ActivationEpoch <= epoch && epoch < v.ExitEpoch && !v.Slashed {
			balances[types.ValidatorIndex(i)] = v.EffectiveBalance
		}
	}
	return balances
}
