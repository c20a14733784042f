// Package peers decides whether remote peers follow a chain compatible
// with ours.
package peers

import (
	"context"
	"errors"

	"github.com/libp2p/go-libp2p/core/host"
	corepeer "github.com/libp2p/go-libp2p/core/peer"

	"github.com/geanlabs/beacon/networking/reqresp"
	"github.com/geanlabs/beacon/types"
)

// DisconnectReason is the goodbye code sent before a clean disconnect.
type DisconnectReason uint64

const (
	DisconnectClientShutdown        DisconnectReason = 1
	DisconnectIrrelevantNetwork     DisconnectReason = 2
	DisconnectInternalFault         DisconnectReason = 3
	DisconnectUnableToVerifyNetwork DisconnectReason = 128
	DisconnectTooManyPeers          DisconnectReason = 129
)

func (r DisconnectReason) String() string {
	switch r {
	case DisconnectClientShutdown:
		return "client_shutdown"
	case DisconnectIrrelevantNetwork:
		return "irrelevant_network"
	case DisconnectInternalFault:
		return "internal_fault"
	case DisconnectUnableToVerifyNetwork:
		return "unable_to_verify_network"
	case DisconnectTooManyPeers:
		return "too_many_peers"
	default:
		return "unknown"
	}
}

// Peer is the slice of a remote peer the chain validator needs.
type Peer interface {
	ID() corepeer.ID
	// RequestBlockBySlot returns the peer's canonical block at exactly the
	// given slot; empty slots surface reqresp.ErrEmptyResponse.
	RequestBlockBySlot(ctx context.Context, slot types.Slot) (*types.SignedBeaconBlock, error)
	// DisconnectCleanly sends a goodbye with the reason, then drops the
	// connection.
	DisconnectCleanly(ctx context.Context, reason DisconnectReason) error
}

// remotePeer adapts a libp2p connection to the Peer interface.
type remotePeer struct {
	id      corepeer.ID
	host    host.Host
	streams *reqresp.StreamHandler
}

// NewPeer wraps a connected libp2p peer.
func NewPeer(id corepeer.ID, h host.Host, streams *reqresp.StreamHandler) Peer {
	return &remotePeer{id: id, host: h, streams: streams}
}

func (p *remotePeer) ID() corepeer.ID { return p.id }

func (p *remotePeer) RequestBlockBySlot(ctx context.Context, slot types.Slot) (*types.SignedBeaconBlock, error) {
	blk := new(types.SignedBeaconBlock)
	err := p.streams.RequestBlockBySlot(ctx, p.id, &reqresp.BeaconBlocksBySlotRequest{Slot: slot}, blk)
	if err != nil {
		return nil, err
	}
	return blk, nil
}

func (p *remotePeer) DisconnectCleanly(ctx context.Context, reason DisconnectReason) error {
	goodbyeErr := p.streams.SendGoodbye(ctx, p.id, uint64(reason))
	closeErr := p.host.Network().ClosePeer(p.id)
	return errors.Join(goodbyeErr, closeErr)
}
