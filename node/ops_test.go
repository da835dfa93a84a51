package node

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waku-org/waku-go-bindings/errors"
	"github.com/waku-org/waku-go-bindings/protocol"
	"github.com/waku-org/waku-go-bindings/resource"
	"github.com/waku-org/waku-go-bindings/testbed"
)

func TestRelayPublish_ReturnsHash(t *testing.T) {
	lib := testbed.New()
	running := startedNode(t, lib)

	msg := &protocol.Message{
		Payload:      []byte("hello"),
		ContentTopic: protocol.NewContentTopic("app", "1", "chat", protocol.EncodingProto),
		Timestamp:    time.Now().UnixNano(),
	}
	hash, err := running.RelayPublish(context.Background(), protocol.DefaultPubsubTopic(), msg, time.Second)
	require.NoError(t, err)
	assert.False(t, hash.IsZero())

	published := lib.Published()
	require.Len(t, published, 1)
	assert.Equal(t, []byte("hello"), published[0].Payload)
}

func TestRelayPublish_NativeError(t *testing.T) {
	lib := testbed.New()
	running := startedNode(t, lib)

	lib.FailNext("relay_publish", "mesh has no peers")
	_, err := running.RelayPublish(context.Background(), protocol.DefaultPubsubTopic(),
		&protocol.Message{Payload: []byte("x")}, 0)
	var bridgeErr *errors.Error
	require.ErrorAs(t, err, &bridgeErr)
	assert.Equal(t, "mesh has no peers", bridgeErr.Detail)
}

func TestRelayPublishText_UsesNodeClock(t *testing.T) {
	lib := testbed.New()
	mock := clock.NewMock()
	mock.Set(time.Unix(1000, 0))

	n, err := New(context.Background(), lib, &Config{},
		WithLease(resource.NewLease()), WithClock(mock))
	require.NoError(t, err)
	running, err := n.Start(context.Background())
	require.NoError(t, err)
	defer running.Destroy(context.Background())

	_, err = running.RelayPublishText(context.Background(), protocol.DefaultPubsubTopic(), "hi", "chat", 0)
	require.NoError(t, err)

	published := lib.Published()
	require.Len(t, published, 1)
	assert.Equal(t, time.Unix(1000, 0).UnixNano(), published[0].Timestamp)
	assert.Equal(t, "/waku/2/chat/proto", published[0].ContentTopic.String())
	assert.Equal(t, []byte("hi"), published[0].Payload)
}

func TestRelaySubscribe_LoopsBackMessageEvent(t *testing.T) {
	lib := testbed.New()
	running := startedNode(t, lib)

	var got []MessageEvent
	require.NoError(t, running.SetEventHandler(func(ev Event) {
		if msg, ok := ev.(MessageEvent); ok {
			got = append(got, msg)
		}
	}))

	topic := protocol.DefaultPubsubTopic()
	require.NoError(t, running.RelaySubscribe(context.Background(), topic))

	hash, err := running.RelayPublishText(context.Background(), topic, "ping", "chat", 0)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, hash, got[0].MessageHash)
	assert.Equal(t, topic, got[0].PubsubTopic)
	assert.Equal(t, []byte("ping"), got[0].Message.Payload)
}

func TestRelayUnsubscribe_NotSubscribed(t *testing.T) {
	lib := testbed.New()
	running := startedNode(t, lib)

	// The native relay calls run their callback only on error; the error
	// must still surface with its message intact.
	err := running.RelayUnsubscribe(context.Background(), protocol.DefaultPubsubTopic())
	var bridgeErr *errors.Error
	require.ErrorAs(t, err, &bridgeErr)
	assert.Equal(t, errors.KindNativeFailure, bridgeErr.Kind)
	assert.Contains(t, bridgeErr.Detail, "not subscribed")
}

func TestFilterSubscribe_RequiresContentTopics(t *testing.T) {
	lib := testbed.New()
	running := startedNode(t, lib)

	err := running.FilterSubscribe(context.Background(), protocol.DefaultPubsubTopic(), nil)
	var bridgeErr *errors.Error
	require.ErrorAs(t, err, &bridgeErr)
	assert.Equal(t, errors.KindInvalidInput, bridgeErr.Kind)
	// Rejected before reaching the native side.
	assert.Equal(t, []string{"new", "start"}, lib.Calls())
}

func TestFilter_SubscribeUnsubscribe(t *testing.T) {
	ctx := context.Background()
	lib := testbed.New()
	running := startedNode(t, lib)

	topics := []protocol.ContentTopic{
		protocol.NewContentTopic("app", "1", "chat", protocol.EncodingProto),
		protocol.NewContentTopic("app", "1", "status", protocol.EncodingProto),
	}
	topic := protocol.DefaultPubsubTopic()

	require.NoError(t, running.FilterSubscribe(ctx, topic, topics))
	require.NoError(t, running.FilterUnsubscribe(ctx, topic, topics[:1]))
	require.NoError(t, running.FilterUnsubscribeAll(ctx))

	assert.Equal(t, []string{"new", "start", "filter_subscribe", "filter_unsubscribe", "filter_unsubscribe_all"}, lib.Calls())
}

func TestLightpushPublish(t *testing.T) {
	lib := testbed.New()
	running := startedNode(t, lib)

	msg := &protocol.Message{
		Payload:      []byte("via lightpush"),
		ContentTopic: protocol.NewContentTopic("app", "1", "chat", protocol.EncodingProto),
	}
	hash, err := running.LightpushPublish(context.Background(), protocol.DefaultPubsubTopic(), msg)
	require.NoError(t, err)
	assert.False(t, hash.IsZero())
	require.Len(t, lib.Published(), 1)
}

func TestConnectAndListenAddresses(t *testing.T) {
	ctx := context.Background()
	lib := testbed.New()
	running := startedNode(t, lib)

	peer, err := multiaddr.NewMultiaddr("/ip4/10.0.0.7/tcp/60000")
	require.NoError(t, err)
	require.NoError(t, running.Connect(ctx, peer, 5*time.Second))

	addrs, err := running.ListenAddresses(ctx)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, "/ip4/127.0.0.1/tcp/60000", addrs[0].String())
}

func TestNewContentTopicAndDefaultPubsubTopic(t *testing.T) {
	ctx := context.Background()
	lib := testbed.New()
	running := startedNode(t, lib)

	topic, err := running.NewContentTopic(ctx, "app", 1, "chat", protocol.EncodingProto)
	require.NoError(t, err)
	assert.Equal(t, "/app/1/chat/proto", topic.String())

	pubsub, err := running.DefaultPubsubTopic(ctx)
	require.NoError(t, err)
	assert.Equal(t, protocol.DefaultPubsubTopic(), pubsub)
}

func TestOps_AsyncCompletion(t *testing.T) {
	ctx := context.Background()
	lib := testbed.New(testbed.WithAsyncCompletion())
	running := startedNode(t, lib)

	topic := protocol.DefaultPubsubTopic()
	require.NoError(t, running.RelaySubscribe(ctx, topic))

	hash, err := running.RelayPublishText(ctx, topic, "async ping", "chat", time.Second)
	require.NoError(t, err)
	assert.False(t, hash.IsZero())

	_, err = running.StoreQuery(ctx, StoreCriteria{}, storePeer(t), time.Second)
	require.NoError(t, err)
}
