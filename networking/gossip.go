package networking

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/golang/snappy"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	pb "github.com/libp2p/go-libp2p-pubsub/pb"
	"github.com/libp2p/go-libp2p/core/host"

	"github.com/geanlabs/beacon/types"
)

// Gossip topic name templates; the fork digest scopes topics to the fork in
// force.
const (
	blockTopicTemplate       = "/eth2/%x/beacon_block/ssz_snappy"
	attestationTopicTemplate = "/eth2/%x/beacon_attestation/ssz_snappy"
)

// Message-ID domains distinguish payloads that decompressed from ones that
// did not.
var (
	messageDomainValidSnappy   = [4]byte{0x01, 0x00, 0x00, 0x00}
	messageDomainInvalidSnappy = [4]byte{0x00, 0x00, 0x00, 0x00}
)

// BlockTopicName returns the block gossip topic for a fork digest.
func BlockTopicName(digest types.ForkDigest) string {
	return fmt.Sprintf(blockTopicTemplate, digest)
}

// AttestationTopicName returns the attestation gossip topic for a fork digest.
func AttestationTopicName(digest types.ForkDigest) string {
	return fmt.Sprintf(attestationTopicTemplate, digest)
}

// NewGossipSub creates the pubsub router with message signing disabled;
// consensus payloads authenticate themselves.
func NewGossipSub(ctx context.Context, h host.Host) (*pubsub.PubSub, error) {
	return pubsub.NewGossipSub(ctx, h,
		pubsub.WithMessageSignaturePolicy(pubsub.StrictNoSign),
		pubsub.WithMessageIdFn(computeMessageID),
	)
}

// computeMessageID derives message identity from content so republished
// payloads dedupe across peers:
// SHA256(domain + uint64_le(len(topic)) + topic + data)[:20].
func computeMessageID(msg *pb.Message) string {
	domain := messageDomainInvalidSnappy
	data, err := snappy.Decode(nil, msg.Data)
	if err == nil {
		domain = messageDomainValidSnappy
	} else {
		data = msg.Data
	}

	topic := []byte(msg.GetTopic())
	var topicLen [8]byte
	binary.LittleEndian.PutUint64(topicLen[:], uint64(len(topic)))

	h := sha256.New()
	h.Write(domain[:])
	h.Write(topicLen[:])
	h.Write(topic)
	h.Write(data)
	return string(h.Sum(nil)[:20])
}

// CompressMessage snappy-compresses a gossip payload.
func CompressMessage(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// DecompressMessage reverses CompressMessage.
func DecompressMessage(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decode: %w", err)
	}
	return out, nil
}
