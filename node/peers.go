package node

import (
	"context"
	"encoding/json"
	"time"

	"github.com/multiformats/go-multiaddr"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/errors"
	"github.com/waku-org/waku-go-bindings/ffi"
)

// Connect dials the peer at addr. A zero timeout means no timeout; a
// native-side timeout surfaces as an ordinary error. No retry is performed;
// retry and backoff policy belong to the caller.
func (n *RunningNode) Connect(ctx context.Context, addr multiaddr.Multiaddr, timeout time.Duration) error {
	if n == nil || n.ctx == nil {
		return errors.HandleMoved("connect")
	}
	c := n.ctx
	return ffi.CallEmpty(ctx, "connect", func(cb waku.Callback) waku.Status {
		return c.lib.Connect(c.ref, addr.String(), clampMillis(timeout), cb)
	})
}

// ListenAddresses reports the multiaddrs the node listens on.
func (n *RunningNode) ListenAddresses(ctx context.Context) ([]multiaddr.Multiaddr, error) {
	if n == nil || n.ctx == nil {
		return nil, errors.HandleMoved("listen_addresses")
	}
	c := n.ctx
	return ffi.CallParsed(ctx, "listen_addresses", func(cb waku.Callback) waku.Status {
		return c.lib.ListenAddresses(c.ref, cb)
	}, parseMultiaddrs)
}

// parseMultiaddrs decodes the native JSON array of multiaddr strings.
func parseMultiaddrs(payload string) ([]multiaddr.Multiaddr, error) {
	var raw []string
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, err
	}
	addrs := make([]multiaddr.Multiaddr, 0, len(raw))
	for _, s := range raw {
		addr, err := multiaddr.NewMultiaddr(s)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
