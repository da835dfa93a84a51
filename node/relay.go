package node

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/errors"
	"github.com/waku-org/waku-go-bindings/ffi"
	"github.com/waku-org/waku-go-bindings/protocol"
)

// RelayPublish publishes msg on pubsubTopic through the relay mesh and
// returns the message hash assigned by the native side. A zero timeout
// means no timeout.
func (n *RunningNode) RelayPublish(ctx context.Context, pubsubTopic protocol.PubsubTopic, msg *protocol.Message, timeout time.Duration) (protocol.MessageHash, error) {
	if n == nil || n.ctx == nil {
		return protocol.MessageHash{}, errors.HandleMoved("relay_publish")
	}
	c := n.ctx

	messageJSON, err := json.Marshal(msg)
	if err != nil {
		return protocol.MessageHash{}, errors.InvalidInput(errors.PhaseFFI, "message does not serialize: "+err.Error())
	}

	hash, err := ffi.CallParsed(ctx, "relay_publish", func(cb waku.Callback) waku.Status {
		return c.lib.RelayPublish(c.ref, pubsubTopic.String(), string(messageJSON), clampMillis(timeout), cb)
	}, protocol.ParseMessageHash)
	if err != nil {
		return protocol.MessageHash{}, err
	}

	c.log.Debug("published", zap.Stringer("hash", hash), zap.String("pubsubTopic", pubsubTopic.String()))
	return hash, nil
}

// RelayPublishText is a convenience wrapper that wraps text in a message on
// the /waku/2/{name}/proto content topic, timestamped with the node clock.
func (n *RunningNode) RelayPublishText(ctx context.Context, pubsubTopic protocol.PubsubTopic, text, contentTopicName string, timeout time.Duration) (protocol.MessageHash, error) {
	if n == nil || n.ctx == nil {
		return protocol.MessageHash{}, errors.HandleMoved("relay_publish")
	}
	msg := &protocol.Message{
		Payload:      []byte(text),
		ContentTopic: protocol.NewContentTopic("waku", "2", contentTopicName, protocol.EncodingProto),
		Timestamp:    n.ctx.clk.Now().UnixNano(),
	}
	return n.RelayPublish(ctx, pubsubTopic, msg, timeout)
}

// RelaySubscribe subscribes the relay protocol to pubsubTopic. Received
// messages arrive through the event handler.
func (n *RunningNode) RelaySubscribe(ctx context.Context, pubsubTopic protocol.PubsubTopic) error {
	if n == nil || n.ctx == nil {
		return errors.HandleMoved("relay_subscribe")
	}
	c := n.ctx
	return ffi.CallEmpty(ctx, "relay_subscribe", func(cb waku.Callback) waku.Status {
		return c.lib.RelaySubscribe(c.ref, pubsubTopic.String(), cb)
	})
}

// RelayUnsubscribe closes the relay subscription to pubsubTopic.
func (n *RunningNode) RelayUnsubscribe(ctx context.Context, pubsubTopic protocol.PubsubTopic) error {
	if n == nil || n.ctx == nil {
		return errors.HandleMoved("relay_unsubscribe")
	}
	c := n.ctx
	return ffi.CallEmpty(ctx, "relay_unsubscribe", func(cb waku.Callback) waku.Status {
		return c.lib.RelayUnsubscribe(c.ref, pubsubTopic.String(), cb)
	})
}

// NewContentTopic builds a canonical content topic through the native
// library.
func (n *RunningNode) NewContentTopic(ctx context.Context, application string, version uint32, name string, encoding protocol.Encoding) (protocol.ContentTopic, error) {
	if n == nil || n.ctx == nil {
		return protocol.ContentTopic{}, errors.HandleMoved("content_topic")
	}
	c := n.ctx
	return ffi.CallParsed(ctx, "content_topic", func(cb waku.Callback) waku.Status {
		return c.lib.ContentTopic(c.ref, application, version, name, encoding.String(), cb)
	}, protocol.ParseContentTopic)
}

// DefaultPubsubTopic reports the node's default pubsub topic.
func (n *RunningNode) DefaultPubsubTopic(ctx context.Context) (protocol.PubsubTopic, error) {
	if n == nil || n.ctx == nil {
		return "", errors.HandleMoved("default_pubsub_topic")
	}
	c := n.ctx
	return ffi.CallParsed(ctx, "default_pubsub_topic", func(cb waku.Callback) waku.Status {
		return c.lib.DefaultPubsubTopic(c.ref, cb)
	}, protocol.NewPubsubTopic)
}
