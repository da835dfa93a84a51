package node

import (
	"context"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/errors"
	"github.com/waku-org/waku-go-bindings/ffi"
	"github.com/waku-org/waku-go-bindings/protocol"
)

// FilterSubscribe subscribes to messages matching the content topics on
// pubsubTopic through a filter service node. Matches arrive through the
// event handler.
func (n *RunningNode) FilterSubscribe(ctx context.Context, pubsubTopic protocol.PubsubTopic, contentTopics []protocol.ContentTopic) error {
	if n == nil || n.ctx == nil {
		return errors.HandleMoved("filter_subscribe")
	}
	if len(contentTopics) == 0 {
		return errors.InvalidInput(errors.PhaseFFI, "filter subscription requires at least one content topic")
	}
	c := n.ctx
	return ffi.CallEmpty(ctx, "filter_subscribe", func(cb waku.Callback) waku.Status {
		return c.lib.FilterSubscribe(c.ref, pubsubTopic.String(), protocol.JoinContentTopics(contentTopics), cb)
	})
}

// FilterUnsubscribe removes the filter subscription for the given content
// topics.
func (n *RunningNode) FilterUnsubscribe(ctx context.Context, pubsubTopic protocol.PubsubTopic, contentTopics []protocol.ContentTopic) error {
	if n == nil || n.ctx == nil {
		return errors.HandleMoved("filter_unsubscribe")
	}
	c := n.ctx
	return ffi.CallEmpty(ctx, "filter_unsubscribe", func(cb waku.Callback) waku.Status {
		return c.lib.FilterUnsubscribe(c.ref, pubsubTopic.String(), protocol.JoinContentTopics(contentTopics), cb)
	})
}

// FilterUnsubscribeAll removes every filter subscription of the node.
func (n *RunningNode) FilterUnsubscribeAll(ctx context.Context) error {
	if n == nil || n.ctx == nil {
		return errors.HandleMoved("filter_unsubscribe_all")
	}
	c := n.ctx
	return ffi.CallEmpty(ctx, "filter_unsubscribe_all", func(cb waku.Callback) waku.Status {
		return c.lib.FilterUnsubscribeAll(c.ref, cb)
	})
}
