package reqresp

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/golang/snappy"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
)

const (
	// MaxMsgSize bounds any single request or response payload.
	MaxMsgSize = 10 * 1024 * 1024
)

// Response codes.
const (
	RespCodeSuccess     byte = 0x00
	RespCodeInvalidReq  byte = 0x01
	RespCodeServerError byte = 0x02
	RespCodeEmpty       byte = 0x03 // defined "no block" response for empty slots
)

// StreamHandler binds the protocol handlers to libp2p streams and issues
// outbound requests. Every call carries a deadline derived from the
// configured timeout; expiry surfaces to the caller as a stream error.
type StreamHandler struct {
	host    host.Host
	handler *Handler
	timeout time.Duration
	logger  *slog.Logger
}

// NewStreamHandler creates a stream handler with per-call timeouts.
func NewStreamHandler(h host.Host, handler *Handler, timeout time.Duration, logger *slog.Logger) *StreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamHandler{host: h, handler: handler, timeout: timeout, logger: logger}
}

// RegisterProtocols installs all request/response protocol handlers.
func (s *StreamHandler) RegisterProtocols() {
	s.host.SetStreamHandler(protocol.ID(StatusProtocolV1), s.handleStatusStream)
	s.host.SetStreamHandler(protocol.ID(BlocksBySlotProtocolV1), s.handleBlockBySlotStream)
	s.host.SetStreamHandler(protocol.ID(GoodbyeProtocolV1), s.handleGoodbyeStream)
}

func (s *StreamHandler) handleStatusStream(stream network.Stream) {
	defer stream.Close()
	_ = stream.SetReadDeadline(time.Now().Add(s.timeout))

	data, err := readMessage(stream)
	if err != nil {
		s.logger.Debug("status request read failed", "peer", stream.Conn().RemotePeer(), "err", err)
		writeErrorResponse(stream, RespCodeInvalidReq)
		return
	}
	var peerStatus Status
	if err := peerStatus.UnmarshalSSZ(data); err != nil {
		s.logger.Debug("status request decode failed", "peer", stream.Conn().RemotePeer(), "err", err)
		writeErrorResponse(stream, RespCodeInvalidReq)
		return
	}

	resp, err := s.handler.LocalStatus().MarshalSSZ()
	if err != nil {
		writeErrorResponse(stream, RespCodeServerError)
		return
	}
	_ = stream.SetWriteDeadline(time.Now().Add(s.timeout))
	if err := writeSuccessResponse(stream, resp); err != nil {
		s.logger.Debug("status response write failed", "peer", stream.Conn().RemotePeer(), "err", err)
	}
}

func (s *StreamHandler) handleBlockBySlotStream(stream network.Stream) {
	defer stream.Close()
	_ = stream.SetReadDeadline(time.Now().Add(s.timeout))

	data, err := readMessage(stream)
	if err != nil {
		writeErrorResponse(stream, RespCodeInvalidReq)
		return
	}
	var req BeaconBlocksBySlotRequest
	if err := req.UnmarshalSSZ(data); err != nil {
		writeErrorResponse(stream, RespCodeInvalidReq)
		return
	}

	blk, err := s.handler.HandleBlockBySlot(&req)
	_ = stream.SetWriteDeadline(time.Now().Add(s.timeout))
	if err != nil {
		writeErrorResponse(stream, RespCodeServerError)
		return
	}
	if blk == nil {
		writeErrorResponse(stream, RespCodeEmpty)
		return
	}
	respData, err := blk.MarshalSSZ()
	if err != nil {
		writeErrorResponse(stream, RespCodeServerError)
		return
	}
	if err := writeSuccessResponse(stream, respData); err != nil {
		s.logger.Debug("block response write failed", "peer", stream.Conn().RemotePeer(), "err", err)
	}
}

func (s *StreamHandler) handleGoodbyeStream(stream network.Stream) {
	defer stream.Close()
	_ = stream.SetReadDeadline(time.Now().Add(s.timeout))

	data, err := readMessage(stream)
	if err != nil {
		return
	}
	var msg Goodbye
	if err := msg.UnmarshalSSZ(data); err != nil {
		return
	}
	s.logger.Debug("peer said goodbye",
		"peer", stream.Conn().RemotePeer(),
		"reason", msg.Reason,
	)
}

// SendStatus performs the status handshake and returns the peer's status.
func (s *StreamHandler) SendStatus(ctx context.Context, peerID peer.ID, status *Status) (*Status, error) {
	respData, err := s.roundTrip(ctx, peerID, StatusProtocolV1, status)
	if err != nil {
		return nil, err
	}
	var peerStatus Status
	if err := peerStatus.UnmarshalSSZ(respData); err != nil {
		return nil, fmt.Errorf("unmarshal status: %w", err)
	}
	return &peerStatus, nil
}

// RequestBlockBySlot fetches the peer's canonical block at exactly the
// given slot. An empty-slot response surfaces as ErrEmptyResponse.
func (s *StreamHandler) RequestBlockBySlot(ctx context.Context, peerID peer.ID, req *BeaconBlocksBySlotRequest, into sszUnmarshaler) error {
	respData, err := s.roundTrip(ctx, peerID, BlocksBySlotProtocolV1, req)
	if err != nil {
		return err
	}
	if err := into.UnmarshalSSZ(respData); err != nil {
		return fmt.Errorf("unmarshal block: %w", err)
	}
	return nil
}

// SendGoodbye notifies the peer of the disconnect reason. Best effort; the
// response, if any, is ignored.
func (s *StreamHandler) SendGoodbye(ctx context.Context, peerID peer.ID, reason uint64) error {
	stream, err := s.newStream(ctx, peerID, GoodbyeProtocolV1)
	if err != nil {
		return err
	}
	defer stream.Close()

	data, err := (&Goodbye{Reason: reason}).MarshalSSZ()
	if err != nil {
		return err
	}
	_ = stream.SetWriteDeadline(time.Now().Add(s.timeout))
	if err := writeMessage(stream, data); err != nil {
		return err
	}
	return stream.CloseWrite()
}

type sszMarshaler interface {
	MarshalSSZ() ([]byte, error)
}

type sszUnmarshaler interface {
	UnmarshalSSZ([]byte) error
}

func (s *StreamHandler) newStream(ctx context.Context, peerID peer.ID, proto string) (network.Stream, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	stream, err := s.host.NewStream(ctx, peerID, protocol.ID(proto))
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	return stream, nil
}

// roundTrip writes one request and reads one success-coded response.
func (s *StreamHandler) roundTrip(ctx context.Context, peerID peer.ID, proto string, req sszMarshaler) ([]byte, error) {
	stream, err := s.newStream(ctx, peerID, proto)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	data, err := req.MarshalSSZ()
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = stream.SetWriteDeadline(deadline)
	if err := writeMessage(stream, data); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	if err := stream.CloseWrite(); err != nil {
		return nil, fmt.Errorf("close write: %w", err)
	}

	_ = stream.SetReadDeadline(deadline)
	code, respData, err := readResponse(stream)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	switch code {
	case RespCodeSuccess:
		return respData, nil
	case RespCodeEmpty:
		return nil, ErrEmptyResponse
	default:
		return nil, fmt.Errorf("peer returned error code %d", code)
	}
}

// Framed message I/O: varint length prefix of the uncompressed size,
// followed by snappy-compressed SSZ.

func writeMessage(w io.Writer, data []byte) error {
	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(data)))
	if _, err := w.Write(prefix[:n]); err != nil {
		return err
	}
	_, err := w.Write(snappy.Encode(nil, data))
	return err
}

func readMessage(r io.Reader) ([]byte, error) {
	buf, err := readAllBounded(r)
	if err != nil {
		return nil, err
	}
	return decodeFramed(buf)
}

func writeSuccessResponse(w io.Writer, data []byte) error {
	if _, err := w.Write([]byte{RespCodeSuccess}); err != nil {
		return err
	}
	return writeMessage(w, data)
}

func writeErrorResponse(w io.Writer, code byte) {
	_, _ = w.Write([]byte{code})
}

func readResponse(r io.Reader) (byte, []byte, error) {
	var codeBuf [1]byte
	if _, err := io.ReadFull(r, codeBuf[:]); err != nil {
		return 0, nil, err
	}
	code := codeBuf[0]
	if code != RespCodeSuccess {
		return code, nil, nil
	}
	data, err := readMessage(r)
	if err != nil {
		return code, nil, err
	}
	return code, data, nil
}

func readAllBounded(r io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, MaxMsgSize+binary.MaxVarintLen64))
	if err != nil {
		return nil, err
	}
	if len(buf) < 2 {
		return nil, fmt.Errorf("message too short")
	}
	return buf, nil
}

func decodeFramed(buf []byte) ([]byte, error) {
	uncompressedSize, varintLen := binary.Uvarint(buf)
	if varintLen <= 0 {
		return nil, fmt.Errorf("invalid varint prefix")
	}
	if uncompressedSize > MaxMsgSize {
		return nil, fmt.Errorf("message size %d exceeds limit", uncompressedSize)
	}
	data, err := snappy.Decode(nil, buf[varintLen:])
	if err != nil {
		return nil, fmt.Errorf("snappy decode: %w", err)
	}
	if uint64(len(data)) != uncompressedSize {
		return nil, fmt.Errorf("size prefix %d does not match payload %d", uncompressedSize, len(data))
	}
	return data, nil
}
