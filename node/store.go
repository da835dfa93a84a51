package node

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/multiformats/go-multiaddr"
	"go.uber.org/zap"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/errors"
	"github.com/waku-org/waku-go-bindings/ffi"
	"github.com/waku-org/waku-go-bindings/protocol"
)

// StoreCriteria filters a history query.
type StoreCriteria struct {
	// PubsubTopic restricts matches to one pubsub topic. Empty matches
	// all.
	PubsubTopic protocol.PubsubTopic
	// ContentTopics restricts matches to the given content topics. Empty
	// matches all.
	ContentTopics []protocol.ContentTopic
	// TimeStart and TimeEnd bound the message timestamps, in Unix
	// nanoseconds, inclusive. Zero means unbounded.
	TimeStart int64
	TimeEnd   int64
	// PageSize is the per-page message limit requested from the store
	// node. Zero uses the store node's default.
	PageSize uint64
	// HashesOnly omits message bodies from the results.
	HashesOnly bool
}

// StoreQuery retrieves the complete result set matching criteria from the
// store node at peer, walking the paginated native query until the store
// reports no further pages. Results are returned most-recent-first.
//
// Any failing page aborts the walk and discards what was accumulated. An
// empty first page is an empty result, not an error.
func (n *RunningNode) StoreQuery(ctx context.Context, criteria StoreCriteria, peer multiaddr.Multiaddr, timeout time.Duration) ([]protocol.StoreMessage, error) {
	if n == nil || n.ctx == nil {
		return nil, errors.HandleMoved("store_query")
	}
	c := n.ctx

	var (
		accum  []protocol.StoreMessage
		cursor *protocol.MessageHash
		pages  int
	)
	for {
		req := protocol.StoreQueryRequest{
			RequestID:         uuid.NewString(),
			IncludeData:       !criteria.HashesOnly,
			PubsubTopic:       criteria.PubsubTopic,
			ContentTopics:     criteria.ContentTopics,
			TimeStart:         criteria.TimeStart,
			TimeEnd:           criteria.TimeEnd,
			PaginationCursor:  cursor,
			PaginationForward: true,
			PaginationLimit:   criteria.PageSize,
		}
		queryJSON, err := json.Marshal(req)
		if err != nil {
			return nil, errors.InvalidInput(errors.PhaseStore, "store query does not serialize: "+err.Error())
		}

		resp, err := ffi.CallJSON[protocol.StoreQueryResponse](ctx, "store_query", func(cb waku.Callback) waku.Status {
			return c.lib.StoreQuery(c.ref, string(queryJSON), peer.String(), clampMillis(timeout), cb)
		})
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != 0 && resp.StatusCode/100 != 2 {
			return nil, errors.NativeFailure(errors.PhaseStore, "store_query",
				fmt.Sprintf("store responded %d: %s", resp.StatusCode, resp.StatusDesc))
		}

		accum = append(accum, resp.Messages...)
		pages++

		if resp.PaginationCursor == nil {
			break
		}
		// exclusive bound: the next page starts after this hash
		cursor = resp.PaginationCursor
	}

	// The store returns pages in forward-cursor order; the caller-facing
	// contract is most-recent-first.
	for i, j := 0, len(accum)-1; i < j; i, j = i+1, j-1 {
		accum[i], accum[j] = accum[j], accum[i]
	}

	c.log.Debug("store walk complete", zap.Int("pages", pages), zap.Int("messages", len(accum)))
	return accum, nil
}
