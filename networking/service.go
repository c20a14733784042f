package networking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	corepeer "github.com/libp2p/go-libp2p/core/peer"

	"github.com/geanlabs/beacon/networking/peers"
	"github.com/geanlabs/beacon/networking/reqresp"
	"github.com/geanlabs/beacon/types"
)

// statusInterval is how often peer statuses are refreshed and re-validated.
const statusInterval = 6 * time.Minute

// BlockHandler processes a block received from gossip.
type BlockHandler func(ctx context.Context, block *types.SignedBeaconBlock) error

// AttestationHandler processes an attestation received from gossip.
type AttestationHandler func(ctx context.Context, att *types.Attestation) error

// Config wires the networking service.
type Config struct {
	Host          host.Host
	Chain         reqresp.ChainSource
	Validator     *peers.ChainValidator
	Bootnodes     []corepeer.AddrInfo
	RPCTimeout    time.Duration
	OnBlock       BlockHandler
	OnAttestation AttestationHandler
	Logger        *slog.Logger
}

// Service runs gossip and req/resp for one node. Each new connection goes
// through the status handshake and peer chain validation before the peer is
// considered usable; validated peers are re-checked on a timer.
type Service struct {
	host      host.Host
	pubsub    *pubsub.PubSub
	streams   *reqresp.StreamHandler
	handler   *reqresp.Handler
	validator *peers.ChainValidator
	logger    *slog.Logger

	onBlock       BlockHandler
	onAttestation AttestationHandler

	blockTopic *pubsub.Topic
	blockSub   *pubsub.Subscription
	attTopic   *pubsub.Topic
	attSub     *pubsub.Subscription

	mu         sync.RWMutex
	peerStatus map[corepeer.ID]*peerRecord

	bootnodes []corepeer.AddrInfo

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type peerRecord struct {
	status  *reqresp.Status
	updated time.Time
}

// NewService creates the networking service and joins the gossip topics for
// the local fork digest.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ps, err := NewGossipSub(ctx, cfg.Host)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create gossipsub: %w", err)
	}

	digest := cfg.Chain.ForkDigest()
	blockTopic, err := ps.Join(BlockTopicName(digest))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("join block topic: %w", err)
	}
	attTopic, err := ps.Join(AttestationTopicName(digest))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("join attestation topic: %w", err)
	}
	blockSub, err := blockTopic.Subscribe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe block topic: %w", err)
	}
	attSub, err := attTopic.Subscribe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe attestation topic: %w", err)
	}

	handler := reqresp.NewHandler(cfg.Chain)
	streams := reqresp.NewStreamHandler(cfg.Host, handler, cfg.RPCTimeout, logger)

	svc := &Service{
		host:          cfg.Host,
		pubsub:        ps,
		streams:       streams,
		handler:       handler,
		validator:     cfg.Validator,
		logger:        logger,
		onBlock:       cfg.OnBlock,
		onAttestation: cfg.OnAttestation,
		blockTopic:    blockTopic,
		blockSub:      blockSub,
		attTopic:      attTopic,
		attSub:        attSub,
		peerStatus:    make(map[corepeer.ID]*peerRecord),
		bootnodes:     cfg.Bootnodes,
		ctx:           ctx,
		cancel:        cancel,
	}
	return svc, nil
}

// Streams exposes the req/resp client side.
func (s *Service) Streams() *reqresp.StreamHandler { return s.streams }

// Start registers protocol handlers, begins gossip processing, dials
// bootnodes, and starts the status maintenance loop.
func (s *Service) Start() {
	s.streams.RegisterProtocols()

	s.host.Network().Notify(&network.NotifyBundle{
		ConnectedF: func(_ network.Network, conn network.Conn) {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.handshake(conn.RemotePeer())
			}()
		},
		DisconnectedF: func(_ network.Network, conn network.Conn) {
			s.mu.Lock()
			delete(s.peerStatus, conn.RemotePeer())
			s.mu.Unlock()
		},
	})

	for _, pi := range s.bootnodes {
		if err := s.host.Connect(s.ctx, pi); err != nil {
			s.logger.Warn("failed to connect to bootnode", "peer", pi.ID, "err", err)
		}
	}

	s.wg.Add(3)
	go func() {
		defer s.wg.Done()
		s.readBlocks()
	}()
	go func() {
		defer s.wg.Done()
		s.readAttestations()
	}()
	go func() {
		defer s.wg.Done()
		s.maintainPeerStatuses()
	}()
}

// Stop tears the service down and waits for its goroutines.
func (s *Service) Stop() {
	s.cancel()
	s.blockSub.Cancel()
	s.attSub.Cancel()
	s.wg.Wait()
}

// PeerCount returns the number of peers that passed chain validation.
func (s *Service) PeerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.peerStatus)
}

// PeerStatus returns the last validated status of a peer.
func (s *Service) PeerStatus(id corepeer.ID) (*reqresp.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.peerStatus[id]
	if !ok {
		return nil, false
	}
	return rec.status, true
}

// handshake exchanges statuses with a fresh connection and validates the
// peer's chain. Incompatible peers are disconnected by the validator.
func (s *Service) handshake(id corepeer.ID) {
	status, err := s.streams.SendStatus(s.ctx, id, s.handler.LocalStatus())
	if err != nil {
		s.logger.Debug("status handshake failed", "peer", id, "err", err)
		p := peers.NewPeer(id, s.host, s.streams)
		_ = p.DisconnectCleanly(s.ctx, peers.DisconnectUnableToVerifyNetwork)
		return
	}
	s.validatePeer(id, status)
}

func (s *Service) validatePeer(id corepeer.ID, status *reqresp.Status) {
	p := peers.NewPeer(id, s.host, s.streams)
	if !s.validator.Validate(s.ctx, p, status) {
		s.mu.Lock()
		delete(s.peerStatus, id)
		s.mu.Unlock()
		return
	}
	s.mu.Lock()
	s.peerStatus[id] = &peerRecord{status: status, updated: time.Now()}
	s.mu.Unlock()
	s.logger.Info("peer chain validated",
		"peer", id,
		"head_slot", status.HeadSlot,
		"finalized_epoch", status.FinalizedEpoch,
	)
}

// maintainPeerStatuses re-requests stale peer statuses and re-runs chain
// validation, so peers drifting onto another chain get dropped.
func (s *Service) maintainPeerStatuses() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			for _, id := range s.stalePeers() {
				status, err := s.streams.SendStatus(s.ctx, id, s.handler.LocalStatus())
				if err != nil {
					s.logger.Debug("status refresh failed", "peer", id, "err", err)
					continue
				}
				s.validatePeer(id, status)
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Service) stalePeers() []corepeer.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stale []corepeer.ID
	for id, rec := range s.peerStatus {
		if time.Since(rec.updated) >= statusInterval {
			stale = append(stale, id)
		}
	}
	return stale
}

// PublishBlock gossips a signed block.
func (s *Service) PublishBlock(ctx context.Context, block *types.SignedBeaconBlock) error {
	data, err := block.MarshalSSZ()
	if err != nil {
		return fmt.Errorf("marshal block: %w", err)
	}
	return s.blockTopic.Publish(ctx, CompressMessage(data))
}

// PublishAttestation gossips an attestation.
func (s *Service) PublishAttestation(ctx context.Context, att *types.Attestation) error {
	data, err := att.MarshalSSZ()
	if err != nil {
		return fmt.Errorf("marshal attestation: %w", err)
	}
	return s.attTopic.Publish(ctx, CompressMessage(data))
}

func (s *Service) readBlocks() {
	for {
		msg, err := s.blockSub.Next(s.ctx)
		if err != nil {
			return
		}
		if msg.ReceivedFrom == s.host.ID() {
			continue
		}
		data, err := DecompressMessage(msg.Data)
		if err != nil {
			s.logger.Debug("bad block payload", "peer", msg.ReceivedFrom, "err", err)
			continue
		}
		block := new(types.SignedBeaconBlock)
		if err := block.UnmarshalSSZ(data); err != nil {
			s.logger.Debug("undecodable block", "peer", msg.ReceivedFrom, "err", err)
			continue
		}
		if s.onBlock != nil {
			if err := s.onBlock(s.ctx, block); err != nil {
				s.logger.Debug("block rejected",
					"peer", msg.ReceivedFrom,
					"slot", block.Message.Slot,
					"err", err,
				)
			}
		}
	}
}

func (s *Service) readAttestations() {
	for {
		msg, err := s.attSub.Next(s.ctx)
		if err != nil {
			return
		}
		if msg.ReceivedFrom == s.host.ID() {
			continue
		}
		data, err := DecompressMessage(msg.Data)
		if err != nil {
			continue
		}
		att := new(types.Attestation)
		if err := att.UnmarshalSSZ(data); err != nil {
			continue
		}
		if s.onAttestation != nil {
			if err := s.onAttestation(s.ctx, att); err != nil {
				s.logger.Debug("attestation rejected", "peer", msg.ReceivedFrom, "err", err)
			}
		}
	}
}
