// Package pebbledb is the durable storage.Database backed by Pebble.
//
// Each Update applies as a single write batch, so a crash between updates
// never leaves a partial mutation; replaying an update is idempotent.
package pebbledb

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/geanlabs/beacon/storage"
	"github.com/geanlabs/beacon/types"
)

// Database is a Pebble-backed storage.Database.
type Database struct {
	db *pebble.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Database, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble: %w", err)
	}
	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) ApplyUpdate(u *storage.Update) error {
	batch := d.db.NewBatch()
	defer batch.Close()

	if u.Time != nil {
		if err := batch.Set(metaTime, encodeUint64(*u.Time), nil); err != nil {
			return err
		}
	}
	if u.GenesisTime != nil {
		if err := batch.Set(metaGenesisTime, encodeUint64(*u.GenesisTime), nil); err != nil {
			return err
		}
	}
	if u.JustifiedCheckpoint != nil {
		if err := d.setCheckpoint(batch, metaJustified, *u.JustifiedCheckpoint); err != nil {
			return err
		}
	}
	if u.BestJustifiedCheckpoint != nil {
		if err := d.setCheckpoint(batch, metaBestJustified, *u.BestJustifiedCheckpoint); err != nil {
			return err
		}
	}

	for root, blk := range u.HotBlocks {
		if err := d.putBlock(batch, root, blk); err != nil {
			return err
		}
		if err := batch.Set(rootKey(prefixHot, root), nil, nil); err != nil {
			return err
		}
	}
	for root, st := range u.HotStatesToPersist {
		data, err := st.MarshalSSZ()
		if err != nil {
			return fmt.Errorf("marshal state %s: %w", root.Short(), err)
		}
		if err := batch.Set(rootKey(prefixState, root), data, nil); err != nil {
			return err
		}
	}
	for idx, vote := range u.Votes {
		if err := batch.Set(voteKey(idx), encodeVote(vote), nil); err != nil {
			return err
		}
	}
	for sr, loc := range u.StateRoots {
		if err := batch.Set(rootKey(prefixStateRoot, sr), encodeSlotAndRoot(loc.Slot, loc.BlockRoot), nil); err != nil {
			return err
		}
	}

	canonical := map[types.Slot]types.Root{}
	if u.Finalized != nil {
		if err := d.setCheckpoint(batch, metaFinalized, u.Finalized.Checkpoint); err != nil {
			return err
		}
		root := u.Finalized.Checkpoint.Root
		if err := d.putBlock(batch, root, u.Finalized.Block); err != nil {
			return err
		}
		stateData, err := u.Finalized.State.MarshalSSZ()
		if err != nil {
			return fmt.Errorf("marshal finalized state: %w", err)
		}
		if err := batch.Set(rootKey(prefixState, root), stateData, nil); err != nil {
			return err
		}
		var walkErr error
		canonical, walkErr = d.indexCanonicalChain(batch, u, root)
		if walkErr != nil {
			return walkErr
		}
	}

	for _, root := range u.PrunedHotBlockRoots {
		if err := batch.Delete(rootKey(prefixHot, root), nil); err != nil {
			return err
		}
		blk, err := d.lookupBlock(u, root)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return err
		}
		if keep, err := d.isCanonical(canonical, blk.Message.Slot, root); err != nil {
			return err
		} else if keep {
			continue
		}
		if err := batch.Delete(rootKey(prefixBlock, root), nil); err != nil {
			return err
		}
		if err := batch.Delete(rootKey(prefixState, root), nil); err != nil {
			return err
		}
	}

	return batch.Commit(pebble.Sync)
}

// indexCanonicalChain walks parent links from the newly finalized block,
// writing slot → root entries and clearing hot markers until it reaches an
// already-indexed block or the chain start.
func (d *Database) indexCanonicalChain(batch *pebble.Batch, u *storage.Update, root types.Root) (map[types.Slot]types.Root, error) {
	indexed := make(map[types.Slot]types.Root)
	for {
		blk, err := d.lookupBlock(u, root)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return indexed, nil
			}
			return nil, err
		}
		slot := blk.Message.Slot
		if existing, err := d.canonicalRoot(slot); err == nil && existing == root {
			return indexed, nil
		}
		if err := batch.Set(slotKey(prefixCanonical, slot), root[:], nil); err != nil {
			return nil, err
		}
		if err := batch.Delete(rootKey(prefixHot, root), nil); err != nil {
			return nil, err
		}
		indexed[slot] = root
		if blk.Message.ParentRoot.IsZero() {
			return indexed, nil
		}
		root = blk.Message.ParentRoot
	}
}

// isCanonical reports whether root is the canonical block for slot, checking
// the entries written by the current update before the persisted index.
func (d *Database) isCanonical(pending map[types.Slot]types.Root, slot types.Slot, root types.Root) (bool, error) {
	if r, ok := pending[slot]; ok {
		return r == root, nil
	}
	r, err := d.canonicalRoot(slot)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return r == root, nil
}

// lookupBlock resolves a block from the in-flight update first, then disk.
func (d *Database) lookupBlock(u *storage.Update, root types.Root) (*types.SignedBeaconBlock, error) {
	if u != nil {
		if blk, ok := u.HotBlocks[root]; ok {
			return blk, nil
		}
		if u.Finalized != nil && u.Finalized.Checkpoint.Root == root {
			return u.Finalized.Block, nil
		}
	}
	return d.BlockByRoot(root)
}

func (d *Database) putBlock(batch *pebble.Batch, root types.Root, blk *types.SignedBeaconBlock) error {
	data, err := blk.MarshalSSZ()
	if err != nil {
		return fmt.Errorf("marshal block %s: %w", root.Short(), err)
	}
	return batch.Set(rootKey(prefixBlock, root), data, nil)
}

func (d *Database) setCheckpoint(batch *pebble.Batch, key []byte, cp types.Checkpoint) error {
	data, err := cp.MarshalSSZ()
	if err != nil {
		return err
	}
	return batch.Set(key, data, nil)
}

func (d *Database) getCheckpoint(key []byte) (types.Checkpoint, error) {
	var cp types.Checkpoint
	data, closer, err := d.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return cp, storage.ErrNotFound
		}
		return cp, err
	}
	defer closer.Close()
	if err := cp.UnmarshalSSZ(data); err != nil {
		return cp, err
	}
	return cp, nil
}

func (d *Database) canonicalRoot(slot types.Slot) (types.Root, error) {
	var root types.Root
	data, closer, err := d.db.Get(slotKey(prefixCanonical, slot))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return root, storage.ErrNotFound
		}
		return root, err
	}
	defer closer.Close()
	copy(root[:], data)
	return root, nil
}

func (d *Database) BlockByRoot(root types.Root) (*types.SignedBeaconBlock, error) {
	data, closer, err := d.db.Get(rootKey(prefixBlock, root))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	blk := new(types.SignedBeaconBlock)
	if err := blk.UnmarshalSSZ(data); err != nil {
		return nil, fmt.Errorf("unmarshal block %s: %w", root.Short(), err)
	}
	return blk, nil
}

func (d *Database) BlockInEffectAtSlot(slot types.Slot) (*types.SignedBeaconBlock, error) {
	iter, err := d.db.NewIter(&pebble.IterOptions{
		LowerBound: slotKey(prefixCanonical, 0),
		UpperBound: slotKey(prefixCanonical, slot+1),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	if !iter.Last() {
		return nil, storage.ErrNotFound
	}
	var root types.Root
	copy(root[:], iter.Value())
	return d.BlockByRoot(root)
}

func (d *Database) Recover() (*storage.Recovered, error) {
	finalized, err := d.getCheckpoint(metaFinalized)
	if err != nil {
		return nil, err
	}

	rec := &storage.Recovered{
		FinalizedCheckpoint: finalized,
		HotBlocks:           make(map[types.Root]*types.SignedBeaconBlock),
		HotStates:           make(map[types.Root]*types.BeaconState),
		Votes:               make(map[types.ValidatorIndex]types.Vote),
	}

	if rec.FinalizedBlock, err = d.BlockByRoot(finalized.Root); err != nil {
		return nil, fmt.Errorf("finalized block: %w", err)
	}
	if rec.FinalizedState, err = d.stateByRoot(finalized.Root); err != nil {
		return nil, fmt.Errorf("finalized state: %w", err)
	}
	if rec.JustifiedCheckpoint, err = d.getCheckpoint(metaJustified); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if rec.BestJustifiedCheckpoint, err = d.getCheckpoint(metaBestJustified); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if rec.Time, err = d.getUint64(metaTime); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if rec.GenesisTime, err = d.getUint64(metaGenesisTime); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	// Hot tree: every marked root plus its persisted state, if any.
	iter, err := d.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{prefixHot},
		UpperBound: []byte{prefixHot + 1},
	})
	if err != nil {
		return nil, err
	}
	for iter.First(); iter.Valid(); iter.Next() {
		var root types.Root
		copy(root[:], iter.Key()[1:])
		blk, err := d.BlockByRoot(root)
		if err != nil {
			continue
		}
		rec.HotBlocks[root] = blk
		if st, err := d.stateByRoot(root); err == nil {
			rec.HotStates[root] = st
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	votesIter, err := d.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{prefixVote},
		UpperBound: []byte{prefixVote + 1},
	})
	if err != nil {
		return nil, err
	}
	for votesIter.First(); votesIter.Valid(); votesIter.Next() {
		idx := types.ValidatorIndex(binary.BigEndian.Uint64(votesIter.Key()[1:9]))
		rec.Votes[idx] = decodeVote(votesIter.Value())
	}
	if err := votesIter.Close(); err != nil {
		return nil, err
	}

	return rec, nil
}

func (d *Database) stateByRoot(root types.Root) (*types.BeaconState, error) {
	data, closer, err := d.db.Get(rootKey(prefixState, root))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	st := new(types.BeaconState)
	if err := st.UnmarshalSSZ(data); err != nil {
		return nil, fmt.Errorf("unmarshal state %s: %w", root.Short(), err)
	}
	return st, nil
}

func (d *Database) getUint64(key []byte) (uint64, error) {
	data, closer, err := d.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return 0, storage.ErrNotFound
		}
		return 0, err
	}
	defer closer.Close()
	return decodeUint64(data), nil
}
