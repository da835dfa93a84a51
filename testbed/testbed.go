// Package testbed provides a scripted, in-memory implementation of the
// native library boundary for tests and examples.
//
// The testbed honors the native contract the bridge is written against:
// every completion callback fires exactly once, optionally from a separate
// goroutine (WithAsyncCompletion) to exercise completions that land after
// the call returns. Relay and filter subscription calls mirror the real
// library's asymmetry and invoke their callback only on error.
//
// Individual operations are made to fail with FailNext; store pagination is
// scripted with ScriptStorePages; events are injected with EmitEvent or the
// relay loopback (a published message is delivered back to the publishing
// node's event slot when it subscribed to the topic).
package testbed

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/protocol"
)

type nodeState struct {
	started   bool
	eventCb   waku.EventCallback
	relaySubs map[string]struct{}
}

type scriptedFailure struct {
	message string
}

// Lib is a fake waku.Lib. The zero value is not usable; construct with New.
type Lib struct {
	mu       sync.Mutex
	async    bool
	version  string
	nextRef  waku.NodeRef
	nodes    map[waku.NodeRef]*nodeState
	failures map[string][]scriptedFailure

	calls         []string
	storePages    []protocol.StoreQueryResponse
	storeRequests []protocol.StoreQueryRequest
	published     []protocol.Message
}

// Option configures the testbed.
type Option func(*Lib)

// WithAsyncCompletion makes every completion callback fire from a spawned
// goroutine, after the native call has returned.
func WithAsyncCompletion() Option {
	return func(l *Lib) { l.async = true }
}

// WithVersion overrides the reported native version.
func WithVersion(v string) Option {
	return func(l *Lib) { l.version = v }
}

// New creates an empty testbed library.
func New(opts ...Option) *Lib {
	l := &Lib{
		version:  "0.35.1",
		nextRef:  1,
		nodes:    make(map[waku.NodeRef]*nodeState),
		failures: make(map[string][]scriptedFailure),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FailNext scripts the next invocation of op to fail with message. Multiple
// scripted failures for one op apply in order.
func (l *Lib) FailNext(op, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[op] = append(l.failures[op], scriptedFailure{message: message})
}

// ScriptStorePages queues the pages successive store queries will return.
func (l *Lib) ScriptStorePages(pages ...protocol.StoreQueryResponse) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.storePages = append(l.storePages, pages...)
}

// StoreRequests returns the decoded store query requests received so far.
func (l *Lib) StoreRequests() []protocol.StoreQueryRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]protocol.StoreQueryRequest(nil), l.storeRequests...)
}

// Calls returns the operation names invoked so far, in order.
func (l *Lib) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// Published returns the messages published through relay or lightpush.
func (l *Lib) Published() []protocol.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]protocol.Message(nil), l.published...)
}

// EmitEvent injects a raw event payload into the node's event slot.
// It reports whether an event callback was registered.
func (l *Lib) EmitEvent(ref waku.NodeRef, payload []byte) bool {
	l.mu.Lock()
	node := l.nodes[ref]
	var cb waku.EventCallback
	if node != nil {
		cb = node.eventCb
	}
	l.mu.Unlock()

	if cb == nil {
		return false
	}
	cb(payload)
	return true
}

// complete fires cb exactly once, inline or from a goroutine depending on
// the completion mode.
func (l *Lib) complete(cb waku.Callback, status waku.Status, payload []byte) {
	if cb == nil {
		return
	}
	if l.async {
		go func() {
			time.Sleep(time.Millisecond)
			cb(status, payload)
		}()
		return
	}
	cb(status, payload)
}

// takeFailure pops the next scripted failure for op, recording the call.
func (l *Lib) takeFailure(op string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, op)
	pending := l.failures[op]
	if len(pending) == 0 {
		return "", false
	}
	l.failures[op] = pending[1:]
	return pending[0].message, true
}

func (l *Lib) node(ref waku.NodeRef) *nodeState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nodes[ref]
}

// fail completes cb with a failure and returns StatusErr.
func (l *Lib) fail(cb waku.Callback, message string) waku.Status {
	l.complete(cb, waku.StatusErr, []byte(message))
	return waku.StatusErr
}

func (l *Lib) unknownRef(cb waku.Callback) waku.Status {
	return l.fail(cb, "unknown node reference")
}

// New implements waku.Lib.
func (l *Lib) New(configJSON string, cb waku.Callback) waku.NodeRef {
	if msg, ok := l.takeFailure("new"); ok {
		l.fail(cb, msg)
		return waku.NilNodeRef
	}
	if !json.Valid([]byte(configJSON)) {
		l.fail(cb, "invalid config json")
		return waku.NilNodeRef
	}

	l.mu.Lock()
	ref := l.nextRef
	l.nextRef++
	l.nodes[ref] = &nodeState{relaySubs: make(map[string]struct{})}
	l.mu.Unlock()

	l.complete(cb, waku.StatusOK, nil)
	return ref
}

// Destroy implements waku.Lib.
func (l *Lib) Destroy(ref waku.NodeRef, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("destroy"); ok {
		return l.fail(cb, msg)
	}

	l.mu.Lock()
	_, known := l.nodes[ref]
	delete(l.nodes, ref)
	l.mu.Unlock()

	if !known {
		return l.unknownRef(cb)
	}
	l.complete(cb, waku.StatusOK, nil)
	return waku.StatusOK
}

// Start implements waku.Lib.
func (l *Lib) Start(ref waku.NodeRef, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("start"); ok {
		return l.fail(cb, msg)
	}
	l.mu.Lock()
	node := l.nodes[ref]
	if node == nil {
		l.mu.Unlock()
		return l.unknownRef(cb)
	}
	if node.started {
		l.mu.Unlock()
		return l.fail(cb, "node already started")
	}
	node.started = true
	l.mu.Unlock()

	l.complete(cb, waku.StatusOK, nil)
	return waku.StatusOK
}

// Stop implements waku.Lib.
func (l *Lib) Stop(ref waku.NodeRef, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("stop"); ok {
		return l.fail(cb, msg)
	}
	l.mu.Lock()
	node := l.nodes[ref]
	if node == nil {
		l.mu.Unlock()
		return l.unknownRef(cb)
	}
	if !node.started {
		l.mu.Unlock()
		return l.fail(cb, "node not started")
	}
	node.started = false
	l.mu.Unlock()

	l.complete(cb, waku.StatusOK, nil)
	return waku.StatusOK
}

// Version implements waku.Lib.
func (l *Lib) Version(ref waku.NodeRef, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("version"); ok {
		return l.fail(cb, msg)
	}
	l.complete(cb, waku.StatusOK, []byte(l.version))
	return waku.StatusOK
}

// Connect implements waku.Lib.
func (l *Lib) Connect(ref waku.NodeRef, peerAddr string, timeoutMS int32, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("connect"); ok {
		return l.fail(cb, msg)
	}
	if l.node(ref) == nil {
		return l.unknownRef(cb)
	}
	l.complete(cb, waku.StatusOK, nil)
	return waku.StatusOK
}

// ListenAddresses implements waku.Lib.
func (l *Lib) ListenAddresses(ref waku.NodeRef, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("listen_addresses"); ok {
		return l.fail(cb, msg)
	}
	if l.node(ref) == nil {
		return l.unknownRef(cb)
	}
	l.complete(cb, waku.StatusOK, []byte(`["/ip4/127.0.0.1/tcp/60000"]`))
	return waku.StatusOK
}

// RelayPublish implements waku.Lib. The returned hash is the sha256 of the
// serialized message. When the publishing node subscribed to pubsubTopic
// and has an event slot, the message loops back as a message event.
func (l *Lib) RelayPublish(ref waku.NodeRef, pubsubTopic, messageJSON string, timeoutMS int32, cb waku.Callback) waku.Status {
	return l.publish(ref, "relay_publish", pubsubTopic, messageJSON, cb)
}

// LightpushPublish implements waku.Lib.
func (l *Lib) LightpushPublish(ref waku.NodeRef, pubsubTopic, messageJSON string, cb waku.Callback) waku.Status {
	return l.publish(ref, "lightpush_publish", pubsubTopic, messageJSON, cb)
}

func (l *Lib) publish(ref waku.NodeRef, op, pubsubTopic, messageJSON string, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure(op); ok {
		return l.fail(cb, msg)
	}
	var msg protocol.Message
	if err := json.Unmarshal([]byte(messageJSON), &msg); err != nil {
		return l.fail(cb, "invalid message json: "+err.Error())
	}

	hash := protocol.MessageHash(sha256.Sum256([]byte(messageJSON)))

	l.mu.Lock()
	node := l.nodes[ref]
	if node == nil {
		l.mu.Unlock()
		return l.unknownRef(cb)
	}
	if !node.started {
		l.mu.Unlock()
		return l.fail(cb, "node not started")
	}
	l.published = append(l.published, msg)
	_, subscribed := node.relaySubs[pubsubTopic]
	eventCb := node.eventCb
	l.mu.Unlock()

	l.complete(cb, waku.StatusOK, []byte(hash.String()))

	if subscribed && eventCb != nil {
		payload, _ := json.Marshal(map[string]any{
			"eventType":   "message",
			"pubsubTopic": pubsubTopic,
			"messageHash": hash.String(),
			"wakuMessage": msg,
		})
		if l.async {
			go eventCb(payload)
		} else {
			eventCb(payload)
		}
	}
	return waku.StatusOK
}

// RelaySubscribe implements waku.Lib. Like the real library, the callback
// fires only on error.
func (l *Lib) RelaySubscribe(ref waku.NodeRef, pubsubTopic string, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("relay_subscribe"); ok {
		return l.fail(cb, msg)
	}
	node := l.node(ref)
	if node == nil {
		return l.unknownRef(cb)
	}

	l.mu.Lock()
	node.relaySubs[pubsubTopic] = struct{}{}
	l.mu.Unlock()
	return waku.StatusOK
}

// RelayUnsubscribe implements waku.Lib. The callback fires only on error.
func (l *Lib) RelayUnsubscribe(ref waku.NodeRef, pubsubTopic string, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("relay_unsubscribe"); ok {
		return l.fail(cb, msg)
	}
	node := l.node(ref)
	if node == nil {
		return l.unknownRef(cb)
	}

	l.mu.Lock()
	_, subscribed := node.relaySubs[pubsubTopic]
	delete(node.relaySubs, pubsubTopic)
	l.mu.Unlock()

	if !subscribed {
		return l.fail(cb, "not subscribed to "+pubsubTopic)
	}
	return waku.StatusOK
}

// FilterSubscribe implements waku.Lib.
func (l *Lib) FilterSubscribe(ref waku.NodeRef, pubsubTopic, contentTopics string, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("filter_subscribe"); ok {
		return l.fail(cb, msg)
	}
	if l.node(ref) == nil {
		return l.unknownRef(cb)
	}
	l.complete(cb, waku.StatusOK, nil)
	return waku.StatusOK
}

// FilterUnsubscribe implements waku.Lib.
func (l *Lib) FilterUnsubscribe(ref waku.NodeRef, pubsubTopic, contentTopics string, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("filter_unsubscribe"); ok {
		return l.fail(cb, msg)
	}
	if l.node(ref) == nil {
		return l.unknownRef(cb)
	}
	l.complete(cb, waku.StatusOK, nil)
	return waku.StatusOK
}

// FilterUnsubscribeAll implements waku.Lib.
func (l *Lib) FilterUnsubscribeAll(ref waku.NodeRef, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("filter_unsubscribe_all"); ok {
		return l.fail(cb, msg)
	}
	if l.node(ref) == nil {
		return l.unknownRef(cb)
	}
	l.complete(cb, waku.StatusOK, nil)
	return waku.StatusOK
}

// StoreQuery implements waku.Lib, returning the next scripted page. With
// nothing scripted it returns an empty final page.
func (l *Lib) StoreQuery(ref waku.NodeRef, queryJSON string, peerAddr string, timeoutMS int32, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("store_query"); ok {
		return l.fail(cb, msg)
	}
	if l.node(ref) == nil {
		return l.unknownRef(cb)
	}

	var req protocol.StoreQueryRequest
	if err := json.Unmarshal([]byte(queryJSON), &req); err != nil {
		return l.fail(cb, "invalid store query: "+err.Error())
	}

	l.mu.Lock()
	l.storeRequests = append(l.storeRequests, req)
	page := protocol.StoreQueryResponse{RequestID: req.RequestID, StatusCode: 200, Messages: []protocol.StoreMessage{}}
	if len(l.storePages) > 0 {
		page = l.storePages[0]
		l.storePages = l.storePages[1:]
		page.RequestID = req.RequestID
	}
	l.mu.Unlock()

	payload, err := json.Marshal(page)
	if err != nil {
		return l.fail(cb, "serialize store page: "+err.Error())
	}
	l.complete(cb, waku.StatusOK, payload)
	return waku.StatusOK
}

// ContentTopic implements waku.Lib.
func (l *Lib) ContentTopic(ref waku.NodeRef, appName string, appVersion uint32, topicName, encoding string, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("content_topic"); ok {
		return l.fail(cb, msg)
	}
	topic := fmt.Sprintf("/%s/%d/%s/%s", appName, appVersion, topicName, encoding)
	l.complete(cb, waku.StatusOK, []byte(topic))
	return waku.StatusOK
}

// DefaultPubsubTopic implements waku.Lib.
func (l *Lib) DefaultPubsubTopic(ref waku.NodeRef, cb waku.Callback) waku.Status {
	if msg, ok := l.takeFailure("default_pubsub_topic"); ok {
		return l.fail(cb, msg)
	}
	l.complete(cb, waku.StatusOK, []byte(protocol.DefaultPubsubTopic().String()))
	return waku.StatusOK
}

// SetEventCallback implements waku.Lib.
func (l *Lib) SetEventCallback(ref waku.NodeRef, cb waku.EventCallback) waku.Status {
	node := l.node(ref)
	if node == nil {
		return waku.StatusErr
	}
	l.mu.Lock()
	node.eventCb = cb
	l.mu.Unlock()
	return waku.StatusOK
}

var _ waku.Lib = (*Lib)(nil)
