// Package networking runs the libp2p host: gossip topics, req/resp
// protocols, the status handshake, and peer chain validation.
package networking

import (
	"fmt"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
)

// NewHost creates a libp2p host listening on the given multiaddrs.
func NewHost(listenAddrs []string) (host.Host, error) {
	h, err := libp2p.New(
		libp2p.ListenAddrStrings(listenAddrs...),
	)
	if err != nil {
		return nil, fmt.Errorf("create libp2p host: %w", err)
	}
	return h, nil
}

// ParseBootnodes converts multiaddr strings into dialable peer infos.
func ParseBootnodes(addrs []string) ([]peer.AddrInfo, error) {
	infos := make([]peer.AddrInfo, 0, len(addrs))
	for _, s := range addrs {
		ma, err := multiaddr.NewMultiaddr(s)
		if err != nil {
			return nil, fmt.Errorf("parse bootnode %q: %w", s, err)
		}
		info, err := peer.AddrInfoFromP2pAddr(ma)
		if err != nil {
			return nil, fmt.Errorf("bootnode %q: %w", s, err)
		}
		infos = append(infos, *info)
	}
	return infos, nil
}
