package node

import (
	"context"
	"encoding/json"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/errors"
	"github.com/waku-org/waku-go-bindings/ffi"
	"github.com/waku-org/waku-go-bindings/protocol"
)

// LightpushPublish forwards msg to the relay mesh through a lightpush
// service node and returns the message hash.
func (n *RunningNode) LightpushPublish(ctx context.Context, pubsubTopic protocol.PubsubTopic, msg *protocol.Message) (protocol.MessageHash, error) {
	if n == nil || n.ctx == nil {
		return protocol.MessageHash{}, errors.HandleMoved("lightpush_publish")
	}
	c := n.ctx

	messageJSON, err := json.Marshal(msg)
	if err != nil {
		return protocol.MessageHash{}, errors.InvalidInput(errors.PhaseFFI, "message does not serialize: "+err.Error())
	}

	return ffi.CallParsed(ctx, "lightpush_publish", func(cb waku.Callback) waku.Status {
		return c.lib.LightpushPublish(c.ref, pubsubTopic.String(), string(messageJSON), cb)
	}, protocol.ParseMessageHash)
}
