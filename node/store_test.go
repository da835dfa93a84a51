package node

import (
	"context"
	"testing"
	"time"

	"github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waku-org/waku-go-bindings/errors"
	"github.com/waku-org/waku-go-bindings/protocol"
	"github.com/waku-org/waku-go-bindings/testbed"
)

func storePeer(t *testing.T) multiaddr.Multiaddr {
	t.Helper()
	peer, err := multiaddr.NewMultiaddr("/ip4/127.0.0.1/tcp/60002")
	require.NoError(t, err)
	return peer
}

func hashOf(b byte) protocol.MessageHash {
	var h protocol.MessageHash
	for i := range h {
		h[i] = b
	}
	return h
}

func storedMessage(b byte) protocol.StoreMessage {
	return protocol.StoreMessage{
		MessageHash: hashOf(b),
		PubsubTopic: protocol.DefaultPubsubTopic(),
		Message: &protocol.Message{
			Payload:      []byte{b},
			ContentTopic: protocol.NewContentTopic("app", "1", "chat", protocol.EncodingProto),
			Timestamp:    int64(b),
		},
	}
}

func startedNode(t *testing.T, lib *testbed.Lib) *RunningNode {
	t.Helper()
	n := newTestNode(t, lib)
	running, err := n.Start(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = running.Destroy(context.Background()) })
	return running
}

func TestStoreQuery_WalksAllPages(t *testing.T) {
	lib := testbed.New()
	running := startedNode(t, lib)

	cursor1, cursor2 := hashOf(0xa2), hashOf(0xa4)
	lib.ScriptStorePages(
		protocol.StoreQueryResponse{
			StatusCode:       200,
			Messages:         []protocol.StoreMessage{storedMessage(1), storedMessage(2)},
			PaginationCursor: &cursor1,
		},
		protocol.StoreQueryResponse{
			StatusCode:       200,
			Messages:         []protocol.StoreMessage{storedMessage(3), storedMessage(4)},
			PaginationCursor: &cursor2,
		},
		protocol.StoreQueryResponse{
			StatusCode: 200,
			Messages:   []protocol.StoreMessage{storedMessage(5), storedMessage(6)},
		},
	)

	msgs, err := running.StoreQuery(context.Background(), StoreCriteria{PageSize: 2}, storePeer(t), time.Second)
	require.NoError(t, err)

	// All three pages accumulate and come back most-recent-first.
	require.Len(t, msgs, 6)
	for i, want := range []byte{6, 5, 4, 3, 2, 1} {
		assert.Equal(t, hashOf(want), msgs[i].MessageHash, "position %d", i)
	}

	// Exactly one native call per page, each continuing from the cursor
	// the previous response handed back.
	reqs := lib.StoreRequests()
	require.Len(t, reqs, 3)
	assert.Nil(t, reqs[0].PaginationCursor)
	require.NotNil(t, reqs[1].PaginationCursor)
	assert.Equal(t, cursor1, *reqs[1].PaginationCursor)
	require.NotNil(t, reqs[2].PaginationCursor)
	assert.Equal(t, cursor2, *reqs[2].PaginationCursor)

	for _, req := range reqs {
		assert.NotEmpty(t, req.RequestID)
		assert.True(t, req.IncludeData)
		assert.True(t, req.PaginationForward)
		assert.Equal(t, uint64(2), req.PaginationLimit)
	}
	assert.NotEqual(t, reqs[0].RequestID, reqs[1].RequestID)
}

func TestStoreQuery_EmptyFirstPage(t *testing.T) {
	lib := testbed.New()
	running := startedNode(t, lib)

	msgs, err := running.StoreQuery(context.Background(), StoreCriteria{}, storePeer(t), 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Len(t, lib.StoreRequests(), 1)
}

func TestStoreQuery_CriteriaOnTheWire(t *testing.T) {
	lib := testbed.New()
	running := startedNode(t, lib)

	topic := protocol.NewContentTopic("app", "1", "chat", protocol.EncodingProto)
	criteria := StoreCriteria{
		PubsubTopic:   protocol.DefaultPubsubTopic(),
		ContentTopics: []protocol.ContentTopic{topic},
		TimeStart:     100,
		TimeEnd:       200,
		HashesOnly:    true,
	}
	_, err := running.StoreQuery(context.Background(), criteria, storePeer(t), 0)
	require.NoError(t, err)

	reqs := lib.StoreRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, protocol.DefaultPubsubTopic(), reqs[0].PubsubTopic)
	assert.Equal(t, []protocol.ContentTopic{topic}, reqs[0].ContentTopics)
	assert.Equal(t, int64(100), reqs[0].TimeStart)
	assert.Equal(t, int64(200), reqs[0].TimeEnd)
	assert.False(t, reqs[0].IncludeData)
}

func TestStoreQuery_FailingPageAborts(t *testing.T) {
	lib := testbed.New()
	running := startedNode(t, lib)

	lib.FailNext("store_query", "store node unreachable")
	_, err := running.StoreQuery(context.Background(), StoreCriteria{}, storePeer(t), 0)
	var bridgeErr *errors.Error
	require.ErrorAs(t, err, &bridgeErr)
	assert.Equal(t, errors.KindNativeFailure, bridgeErr.Kind)
	assert.Equal(t, "store node unreachable", bridgeErr.Detail)
}

func TestStoreQuery_ErrorStatusCode(t *testing.T) {
	lib := testbed.New()
	running := startedNode(t, lib)

	lib.ScriptStorePages(protocol.StoreQueryResponse{
		StatusCode: 429,
		StatusDesc: "too many requests",
	})
	_, err := running.StoreQuery(context.Background(), StoreCriteria{}, storePeer(t), 0)
	var bridgeErr *errors.Error
	require.ErrorAs(t, err, &bridgeErr)
	assert.Equal(t, errors.PhaseStore, bridgeErr.Phase)
	assert.Contains(t, bridgeErr.Detail, "429")
	assert.Contains(t, bridgeErr.Detail, "too many requests")
}
