// Package node assembles the beacon node: storage, store, fork choice,
// networking, and the slot-driven event pipeline.
package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/geanlabs/beacon/chain"
	"github.com/geanlabs/beacon/clock"
	"github.com/geanlabs/beacon/config"
	"github.com/geanlabs/beacon/forkchoice"
	"github.com/geanlabs/beacon/networking"
	"github.com/geanlabs/beacon/networking/peers"
	"github.com/geanlabs/beacon/observability/logging"
	"github.com/geanlabs/beacon/observability/metrics"
	"github.com/geanlabs/beacon/pipeline"
	"github.com/geanlabs/beacon/storage"
	"github.com/geanlabs/beacon/storage/memory"
	"github.com/geanlabs/beacon/storage/pebbledb"
	"github.com/geanlabs/beacon/store"
	"github.com/geanlabs/beacon/types"
)

// Node is a running beacon node.
type Node struct {
	cfg    *config.Config
	logger *slog.Logger

	db     storage.Database
	store  *store.Store
	engine *forkchoice.Engine
	client *chain.Client
	clock  *clock.SlotClock
	net    *networking.Service
	bus    *pipeline.Bus

	validatorIndex *uint64

	ticker *clock.Ticker
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a node from configuration. An empty data dir selects the
// in-memory backend.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Node, error) {
	ctx, cancel := context.WithCancel(ctx)
	if logger == nil {
		logger = slog.Default()
	}

	var db storage.Database
	var err error
	if cfg.Node.DataDir != "" {
		db, err = pebbledb.Open(cfg.Node.DataDir)
		if err != nil {
			cancel()
			return nil, err
		}
	} else {
		db = memory.New()
	}

	st, err := bootstrapStore(db, &cfg.Chain, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	clk := clock.New(st.GenesisTime())
	engine := forkchoice.NewEngine(st, clk, logger)
	client, err := chain.NewClient(st, db, clk)
	if err != nil {
		cancel()
		return nil, err
	}

	host, err := networking.NewHost(cfg.Node.ListenAddrs)
	if err != nil {
		cancel()
		return nil, err
	}
	bootnodes, err := networking.ParseBootnodes(cfg.Node.Bootnodes)
	if err != nil {
		cancel()
		return nil, err
	}

	n := &Node{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		store:          st,
		engine:         engine,
		client:         client,
		clock:          clk,
		validatorIndex: cfg.Node.ValidatorIndex,
		ctx:            ctx,
		cancel:         cancel,
	}

	n.net, err = networking.NewService(ctx, networking.Config{
		Host:          host,
		Chain:         client,
		Validator:     peers.NewChainValidator(client, logger),
		Bootnodes:     bootnodes,
		RPCTimeout:    cfg.Node.RPCTimeout,
		OnBlock:       n.onGossipBlock,
		OnAttestation: n.onGossipAttestation,
		Logger:        logger,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	n.bus = pipeline.NewBus(logger)
	attester := pipeline.NewBeaconAttester(n.produceAttestations, logger)
	n.bus.Register(attester, pipeline.DefaultBuffer, attester.Kinds()...)
	delayed := pipeline.NewDelayedAttestationsProcessor(logger)
	n.bus.Register(delayed, pipeline.DefaultBuffer, delayed.Kinds()...)
	proposer := pipeline.NewBeaconProposer(n.proposeBlock, logger)
	n.bus.Register(proposer, pipeline.DefaultBuffer, proposer.Kinds()...)

	return n, nil
}

// bootstrapStore recovers the store from durable storage, or builds genesis
// when the database is empty.
func bootstrapStore(db storage.Database, chainCfg *config.Chain, logger *slog.Logger) (*store.Store, error) {
	rec, err := db.Recover()
	if err == nil {
		logger.Info("recovered chain from storage",
			"finalized_epoch", rec.FinalizedCheckpoint.Epoch,
			"hot_blocks", len(rec.HotBlocks),
		)
		return store.NewStoreFromRecovered(rec, logger)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("recover storage: %w", err)
	}

	forkVersion, err := chainCfg.ForkVersion()
	if err != nil {
		return nil, err
	}
	genesisState, genesisBlock, err := chain.GenerateGenesis(chainCfg.GenesisTime, chainCfg.ValidatorCount, forkVersion)
	if err != nil {
		return nil, fmt.Errorf("generate genesis: %w", err)
	}
	st, err := store.NewStore(genesisState, genesisBlock, logger)
	if err != nil {
		return nil, err
	}

	// Seed the database so a restart recovers instead of regenerating.
	genesisRoot, err := genesisBlock.Message.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	genesisTime := chainCfg.GenesisTime
	seed := &storage.Update{
		GenesisTime: &genesisTime,
		Finalized: &storage.FinalizedData{
			Checkpoint: st.FinalizedCheckpoint(),
			Block:      genesisBlock,
			State:      genesisState,
		},
		HotBlocks:          map[types.Root]*types.SignedBeaconBlock{genesisRoot: genesisBlock},
		HotStatesToPersist: map[types.Root]*types.BeaconState{genesisRoot: genesisState},
	}
	if err := db.ApplyUpdate(seed); err != nil {
		return nil, fmt.Errorf("seed storage: %w", err)
	}
	return st, nil
}

// Start launches networking, the durable-update pump, the pipeline, and the
// slot ticker.
func (n *Node) Start() {
	n.net.Start()
	n.bus.Start(n.ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.pumpStorageUpdates()
	}()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.watchReorgs(n.engine.SubscribeReorgs(16))
	}()

	n.ticker = n.clock.NewTicker()
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.slotLoop()
	}()

	n.logger.Info("beacon node running",
		"slot", n.clock.CurrentSlot(),
		"validator", validatorLabel(n.validatorIndex),
	)
}

// Stop shuts the node down in dependency order.
func (n *Node) Stop() {
	if n.ticker != nil {
		n.ticker.Stop()
	}
	n.cancel()
	n.net.Stop()
	n.bus.Stop()
	n.wg.Wait()
	if err := n.db.Close(); err != nil {
		n.logger.Warn("closing storage", "err", err)
	}
}

// CurrentSlot returns the wall-clock slot.
func (n *Node) CurrentSlot() types.Slot { return n.clock.CurrentSlot() }

// PeerCount returns the number of validated peers.
func (n *Node) PeerCount() int { return n.net.PeerCount() }

// pumpStorageUpdates drains committed transactions into the durable
// backend, preserving commit order.
func (n *Node) pumpStorageUpdates() {
	for {
		select {
		case u := <-n.store.Updates():
			if err := n.db.ApplyUpdate(u); err != nil {
				n.logger.Error("applying storage update", "err", err)
			}
			if u.Finalized != nil {
				metrics.FinalizedEpoch.Set(float64(u.Finalized.Checkpoint.Epoch))
			}
		case <-n.ctx.Done():
			return
		}
	}
}

func (n *Node) watchReorgs(events <-chan forkchoice.ReorgEvent) {
	for {
		select {
		case ev := <-events:
			// Duty production keys off the head; a reorg invalidates any
			// head-derived work for the slot.
			n.logger.Info("head reorged",
				"best_block_root", logging.ShortHash(ev.BestBlockRoot),
				"best_slot", ev.BestSlot,
			)
		case <-n.ctx.Done():
			return
		}
	}
}

// slotLoop drives fork choice and the actor mesh each slot. NewSlot is
// published before any derived event for the slot.
func (n *Node) slotLoop() {
	for {
		select {
		case slot := <-n.ticker.C:
			head, err := n.engine.ProcessHead(slot)
			if err != nil {
				n.logger.Error("fork choice failed", "slot", slot, "err", err)
				continue
			}
			n.bus.Publish(pipeline.NewSlot{Slot: slot})
			n.bus.Publish(pipeline.HeadAfterNewBeaconBlock{Slot: slot, Root: head})
			// No shard chains are wired in; the attester's readiness inputs
			// arrive empty.
			n.bus.Publish(pipeline.NewShardHeads{Slot: slot})
			n.bus.Publish(pipeline.NotCrosslinkedBlocksPublished{Slot: slot})
		case <-n.ctx.Done():
			return
		}
	}
}

func (n *Node) onGossipBlock(ctx context.Context, block *types.SignedBeaconBlock) error {
	res := n.engine.OnBlock(ctx, block, nil)
	if !res.Successful() {
		if res.Err != nil {
			return fmt.Errorf("import %s: %w", res.Status, res.Err)
		}
		return fmt.Errorf("import %s", res.Status)
	}
	n.bus.Publish(pipeline.HeadAfterNewBeaconBlock{Slot: block.Message.Slot, Root: res.HeadRoot})
	return nil
}

func (n *Node) onGossipAttestation(_ context.Context, att *types.Attestation) error {
	return n.engine.OnAttestation(att)
}

func validatorLabel(idx *uint64) string {
	if idx == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *idx)
}
