package chain

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/geanlabs/beacon/clock"
	"github.com/geanlabs/beacon/storage"
	"github.com/geanlabs/beacon/store"
	"github.com/geanlabs/beacon/types"
)

// ErrMissingHistoricalBlock reports a historical block that must exist but
// is absent from storage. This indicates store corruption and is fatal to
// the operation that hit it.
var ErrMissingHistoricalBlock = errors.New("chain: historical block missing from storage")

// stateCacheSize bounds the per-root state cache. Lookups cluster around
// recent checkpoint states, so a small cache absorbs nearly all repeats.
const stateCacheSize = 32

// Client is the read-only view over finalized and hot chain data used by
// peer validation, networking, and duty production.
type Client struct {
	store *store.Store
	db    storage.Database
	clock *clock.SlotClock

	digest types.ForkDigest
	states *lru.Cache[types.Root, *types.BeaconState]
}

// NewClient builds a client over the store and durable backend. The fork
// digest is derived from the finalized state's fork metadata.
func NewClient(st *store.Store, db storage.Database, clk *clock.SlotClock) (*Client, error) {
	cache, err := lru.New[types.Root, *types.BeaconState](stateCacheSize)
	if err != nil {
		return nil, err
	}
	finalizedState := st.FinalizedState()
	return &Client{
		store:  st,
		db:     db,
		clock:  clk,
		digest: ComputeForkDigest(finalizedState.Fork.CurrentVersion, finalizedState.GenesisValidatorsRoot),
		states: cache,
	}, nil
}

// ForkDigest returns the digest of the fork in force locally.
func (c *Client) ForkDigest() types.ForkDigest { return c.digest }

// CurrentSlot returns the wall-clock slot.
func (c *Client) CurrentSlot() types.Slot { return c.clock.CurrentSlot() }

// CurrentEpoch returns the wall-clock epoch.
func (c *Client) CurrentEpoch() types.Epoch { return c.clock.CurrentEpoch() }

// FinalizedCheckpoint returns the local finalized checkpoint.
func (c *Client) FinalizedCheckpoint() types.Checkpoint { return c.store.FinalizedCheckpoint() }

// JustifiedCheckpoint returns the local justified checkpoint.
func (c *Client) JustifiedCheckpoint() types.Checkpoint { return c.store.JustifiedCheckpoint() }

// Head returns the fork-choice head pointer.
func (c *Client) Head() (types.Root, types.Slot) { return c.store.Head() }

// BlockByRoot reads a block from the hot store, then durable storage.
func (c *Client) BlockByRoot(root types.Root) (*types.SignedBeaconBlock, bool) {
	if blk, ok := c.store.Block(root); ok {
		return blk, true
	}
	blk, err := c.db.BlockByRoot(root)
	if err != nil {
		return nil, false
	}
	return blk, true
}

// BlockInEffectAtSlot returns the most recent block with slot ≤ the given
// slot along the canonical ancestry. The hot range is consulted first, then
// the canonical finalized chain. A miss is ErrMissingHistoricalBlock: any
// slot at or above genesis must resolve to some block.
func (c *Client) BlockInEffectAtSlot(slot types.Slot) (*types.SignedBeaconBlock, error) {
	if blk, ok := c.store.BlockInEffectAtSlot(slot); ok {
		return blk, nil
	}
	blk, err := c.db.BlockInEffectAtSlot(slot)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: slot %d", ErrMissingHistoricalBlock, slot)
		}
		return nil, err
	}
	return blk, nil
}

// StateByRoot returns the post-state of a block, caching reads so repeated
// checkpoint lookups stay cheap after pruning.
func (c *Client) StateByRoot(root types.Root) (*types.BeaconState, bool) {
	if st, ok := c.states.Get(root); ok {
		return st, true
	}
	if st, ok := c.store.State(root); ok {
		c.states.Add(root, st)
		return st, true
	}
	if fin := c.store.FinalizedCheckpoint(); fin.Root == root {
		st := c.store.FinalizedState()
		c.states.Add(root, st)
		return st, true
	}
	return nil, false
}
