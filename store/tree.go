package store

import (
	"fmt"

	"github.com/geanlabs/beacon/types"
)

type treeNode struct {
	parent types.Root
	slot   types.Slot
}

// BlockTree is the hot-block tree rooted at the finalized block. Nodes hold
// parent references as root keys, never pointers, so pruning can delete
// entries without leaving dangling references.
type BlockTree struct {
	root     types.Root
	nodes    map[types.Root]treeNode
	children map[types.Root][]types.Root
}

// NewBlockTree creates a tree containing only the given root block.
func NewBlockTree(root types.Root, slot types.Slot) *BlockTree {
	return &BlockTree{
		root:     root,
		nodes:    map[types.Root]treeNode{root: {slot: slot}},
		children: make(map[types.Root][]types.Root),
	}
}

// Root returns the tree root (the finalized block).
func (t *BlockTree) Root() types.Root { return t.root }

// Contains reports whether the block is in the tree.
func (t *BlockTree) Contains(root types.Root) bool {
	_, ok := t.nodes[root]
	return ok
}

// Slot returns the slot recorded for a tree member.
func (t *BlockTree) Slot(root types.Root) (types.Slot, bool) {
	n, ok := t.nodes[root]
	return n.slot, ok
}

// Parent returns the parent link of a tree member.
func (t *BlockTree) Parent(root types.Root) (types.Root, bool) {
	n, ok := t.nodes[root]
	if !ok || root == t.root {
		return types.Root{}, false
	}
	return n.parent, true
}

// Children returns the direct children of a block.
func (t *BlockTree) Children(root types.Root) []types.Root {
	return t.children[root]
}

// Add links a new block under an existing parent.
func (t *BlockTree) Add(root, parent types.Root, slot types.Slot) error {
	if t.Contains(root) {
		return nil
	}
	if !t.Contains(parent) {
		return fmt.Errorf("parent %s not in tree", parent.Short())
	}
	t.nodes[root] = treeNode{parent: parent, slot: slot}
	t.children[parent] = append(t.children[parent], root)
	return nil
}

// IsDescendant reports whether descendant is in the subtree of ancestor
// (a block is its own descendant).
func (t *BlockTree) IsDescendant(ancestor, descendant types.Root) bool {
	cur := descendant
	for {
		if cur == ancestor {
			return true
		}
		n, ok := t.nodes[cur]
		if !ok || cur == t.root {
			return false
		}
		cur = n.parent
	}
}

// Reroot keeps only the subtree of newRoot and returns every removed root.
// The caller guarantees newRoot is a tree member.
func (t *BlockTree) Reroot(newRoot types.Root) []types.Root {
	keep := make(map[types.Root]struct{})
	stack := []types.Root{newRoot}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		keep[cur] = struct{}{}
		stack = append(stack, t.children[cur]...)
	}

	var pruned []types.Root
	for root := range t.nodes {
		if _, ok := keep[root]; !ok {
			pruned = append(pruned, root)
		}
	}
	for _, root := range pruned {
		delete(t.nodes, root)
		delete(t.children, root)
	}
	for parent, kids := range t.children {
		filtered := kids[:0]
		for _, k := range kids {
			if _, ok := keep[k]; ok {
				filtered = append(filtered, k)
			}
		}
		if len(filtered) == 0 {
			delete(t.children, parent)
		} else {
			t.children[parent] = filtered
		}
	}
	t.root = newRoot
	return pruned
}
