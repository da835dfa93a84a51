package protocol

// StoreQueryRequest is one page request of a history query. The native
// store protocol returns at most one page per call; PaginationCursor is the
// exclusive bound from which the page continues, absent on the first
// request.
type StoreQueryRequest struct {
	RequestID         string         `json:"requestId"`
	IncludeData       bool           `json:"includeData"`
	PubsubTopic       PubsubTopic    `json:"pubsubTopic,omitempty"`
	ContentTopics     []ContentTopic `json:"contentTopics,omitempty"`
	TimeStart         int64          `json:"timeStart,omitempty"`
	TimeEnd           int64          `json:"timeEnd,omitempty"`
	PaginationCursor  *MessageHash   `json:"paginationCursor,omitempty"`
	PaginationForward bool           `json:"paginationForward"`
	PaginationLimit   uint64         `json:"paginationLimit,omitempty"`
}

// StoreMessage is one stored message together with its hash and the pubsub
// topic it was published on.
type StoreMessage struct {
	MessageHash MessageHash `json:"messageHash"`
	PubsubTopic PubsubTopic `json:"pubsubTopic,omitempty"`
	Message     *Message    `json:"message,omitempty"`
}

// StoreQueryResponse is one page of a history query. A nil
// PaginationCursor means this is the final page.
type StoreQueryResponse struct {
	RequestID        string         `json:"requestId"`
	StatusCode       int            `json:"statusCode"`
	StatusDesc       string         `json:"statusDesc,omitempty"`
	Messages         []StoreMessage `json:"messages"`
	PaginationCursor *MessageHash   `json:"paginationCursor,omitempty"`
}
