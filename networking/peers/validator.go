package peers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geanlabs/beacon/networking/reqresp"
	"github.com/geanlabs/beacon/observability/metrics"
	"github.com/geanlabs/beacon/types"
)

// ChainProvider is the local chain view the validator decides against.
// Satisfied by chain.Client.
type ChainProvider interface {
	ForkDigest() types.ForkDigest
	FinalizedCheckpoint() types.Checkpoint
	CurrentEpoch() types.Epoch
	// BlockInEffectAtSlot returns the most recent canonical block with
	// slot ≤ the given slot; a miss is a store-corruption error.
	BlockInEffectAtSlot(slot types.Slot) (*types.SignedBeaconBlock, error)
}

// errIrrelevantNetwork marks a definitive incompatibility, as opposed to a
// transient failure to verify.
var errIrrelevantNetwork = errors.New("peer is on an irrelevant network")

// ChainValidator decides, at handshake time and on status refresh, whether
// a remote peer follows a chain compatible with ours. The decision uses the
// advertised status plus targeted historical block lookups; every outcome
// disconnects incompatible peers itself, so failures never escape Validate.
type ChainValidator struct {
	chain  ChainProvider
	logger *slog.Logger
}

// NewChainValidator creates a validator over the local chain view.
func NewChainValidator(chain ChainProvider, logger *slog.Logger) *ChainValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChainValidator{chain: chain, logger: logger}
}

// Validate returns true iff the peer's chain is compatible with ours and
// the peer may remain connected. Otherwise it returns false after a clean
// disconnect: IrrelevantNetwork for definitive incompatibility,
// UnableToVerifyNetwork when a lookup failed.
func (v *ChainValidator) Validate(ctx context.Context, p Peer, status *reqresp.Status) bool {
	v.logger.Debug("validating peer chain", "peer", p.ID())
	metrics.PeerChainValidation.WithLabelValues("started").Inc()

	valid, err := v.checkRemoteChain(ctx, p, status)
	if errors.Is(err, errIrrelevantNetwork) {
		// Protocol violations are definitive incompatibility, not lookup
		// failures.
		v.logger.Debug("peer violated block request protocol", "peer", p.ID(), "err", err)
		valid, err = false, nil
	}
	if err != nil {
		v.logger.Debug("unable to validate peer chain, disconnecting", "peer", p.ID(), "err", err)
		metrics.PeerChainValidation.WithLabelValues("error").Inc()
		if derr := p.DisconnectCleanly(ctx, DisconnectUnableToVerifyNetwork); derr != nil {
			v.logger.Debug("disconnect failed", "peer", p.ID(), "err", derr)
		}
		return false
	}
	if !valid {
		v.logger.Debug("disconnecting peer on different chain", "peer", p.ID())
		metrics.PeerChainValidation.WithLabelValues("invalid").Inc()
		if derr := p.DisconnectCleanly(ctx, DisconnectIrrelevantNetwork); derr != nil {
			v.logger.Debug("disconnect failed", "peer", p.ID(), "err", derr)
		}
		return false
	}

	v.logger.Debug("validated peer chain", "peer", p.ID())
	metrics.PeerChainValidation.WithLabelValues("valid").Inc()
	return true
}

// checkRemoteChain runs the decision procedure. A false return with nil
// error is a definitive reject; errIrrelevantNetwork marks a peer protocol
// violation; any other error means verification itself failed.
func (v *ChainValidator) checkRemoteChain(ctx context.Context, p Peer, status *reqresp.Status) (bool, error) {
	// Fork compatibility comes first: nothing else matters across forks.
	localDigest := v.chain.ForkDigest()
	if status.ForkDigest != localDigest {
		v.logger.Debug("peer fork digest differs",
			"peer", p.ID(),
			"remote", fmt.Sprintf("%x", status.ForkDigest),
			"local", fmt.Sprintf("%x", localDigest),
		)
		return false, nil
	}

	// Only genesis finalized remotely: the digest match is all we can check.
	remoteFinalized := status.FinalizedCheckpoint()
	if remoteFinalized.Epoch == types.GenesisEpoch {
		return true, nil
	}

	localFinalized := v.chain.FinalizedCheckpoint()
	currentEpoch := v.chain.CurrentEpoch()

	// A remote finality claim at or beyond the current epoch cannot be
	// honest (except at genesis, excluded above).
	if remoteFinalized.Epoch > currentEpoch ||
		(remoteFinalized.Epoch == currentEpoch && currentEpoch != types.GenesisEpoch) {
		v.logger.Debug("peer advertises future finality",
			"peer", p.ID(),
			"remote_finalized_epoch", remoteFinalized.Epoch,
			"current_epoch", currentEpoch,
		)
		return false, nil
	}

	switch {
	case localFinalized.Epoch == remoteFinalized.Epoch:
		return localFinalized.Root == remoteFinalized.Root, nil
	case localFinalized.Epoch > remoteFinalized.Epoch:
		// We are ahead: the peer's finalized block must be canonical on our
		// chain.
		return v.verifyPeerFinalizedIsCanonical(p, remoteFinalized)
	default:
		// The peer is ahead: it must consider our finalized block canonical.
		return v.verifyPeerAgreesWithOurFinalized(ctx, p, localFinalized)
	}
}

func (v *ChainValidator) verifyPeerFinalizedIsCanonical(p Peer, remoteFinalized types.Checkpoint) (bool, error) {
	slot := remoteFinalized.Epoch.StartSlot()
	blk, err := v.chain.BlockInEffectAtSlot(slot)
	if err != nil {
		// Missing local history is store corruption, not a peer fault.
		return false, err
	}
	return v.blockRootMatches(p, blk, remoteFinalized.Root), nil
}

func (v *ChainValidator) verifyPeerAgreesWithOurFinalized(ctx context.Context, p Peer, localFinalized types.Checkpoint) (bool, error) {
	epochStart := localFinalized.Epoch.StartSlot()
	if epochStart == types.GenesisSlot {
		// Genesis blocks match because the fork digest already did.
		return true, nil
	}

	local, err := v.chain.BlockInEffectAtSlot(epochStart)
	if err != nil {
		return false, err
	}
	blockSlot := local.Message.Slot
	if blockSlot == types.GenesisSlot {
		// We finalized a later epoch without blocks; the block in effect is
		// still genesis, which the digest already covers.
		return true, nil
	}

	remote, err := p.RequestBlockBySlot(ctx, blockSlot)
	if err != nil {
		if errors.Is(err, reqresp.ErrEmptyResponse) {
			// We only query slots that are non-empty on our chain; an empty
			// answer means the peer's chain disagrees.
			return false, fmt.Errorf("%w: no block at slot %d", errIrrelevantNetwork, blockSlot)
		}
		return false, fmt.Errorf("request block at slot %d: %w", blockSlot, err)
	}
	if remote.Message.Slot != blockSlot {
		return false, fmt.Errorf("%w: returned block slot %d for requested slot %d",
			errIrrelevantNetwork, remote.Message.Slot, blockSlot)
	}
	return v.blockRootMatches(p, remote, localFinalized.Root), nil
}

func (v *ChainValidator) blockRootMatches(p Peer, blk *types.SignedBeaconBlock, expected types.Root) bool {
	root, err := blk.Message.HashTreeRoot()
	if err != nil {
		return false
	}
	if root != expected {
		v.logger.Warn("peer finalized block mismatch",
			"peer", p.ID(),
			"slot", blk.Message.Slot,
			"block_root", types.Root(root).Short(),
			"expected", expected.Short(),
		)
		return false
	}
	return true
}
