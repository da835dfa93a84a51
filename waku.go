package waku

// NodeRef is an opaque, address-sized reference to a native waku node.
// It is produced by Lib.New, owned by exactly one node handle at a time,
// and invalid after Lib.Destroy.
type NodeRef uintptr

// NilNodeRef is the zero node reference. Passing it to any Lib operation
// other than New is a contract violation on the caller's side.
const NilNodeRef NodeRef = 0

// Status is the return code of a native call and the first argument of
// every completion callback.
type Status int32

const (
	// StatusOK indicates the native call succeeded.
	StatusOK Status = 0
	// StatusErr indicates the native call failed; the callback payload
	// carries the error message.
	StatusErr Status = 1
	// StatusMissingCallback indicates the native side required a callback
	// but none was registered.
	StatusMissingCallback Status = 2

	// StatusUndefined is an internal sentinel meaning "no callback ran yet".
	// It never crosses the native boundary.
	StatusUndefined Status = -1
)

// Callback is the completion callback handed to every asynchronous native
// operation. The native side invokes it exactly once with the final status
// and the raw response bytes (nil or empty when there is no payload).
//
// This is the Go rendering of the C callback
// (status_code, response_bytes, response_len, user_data): the closure value
// itself carries the user-data binding. Implementations of Lib may invoke
// it from any goroutine, before or after the originating call returns.
type Callback func(status Status, payload []byte)

// EventCallback receives asynchronous node events through the long-lived
// event slot registered with Lib.SetEventCallback. It is distinct from the
// per-call Callback: the event slot lives as long as the node, a completion
// callback lives for one call.
type EventCallback func(payload []byte)

// Lib is the native ABI boundary of libwaku. Each method mirrors one native
// function: arguments are already serialized to the wire shape the native
// side expects (JSON documents, canonical topic strings, multiaddr strings),
// and asynchronous operations take the per-call completion Callback.
//
// Timeouts cross the boundary as int32 milliseconds; zero means no timeout.
// A timeout firing on the native side still delivers exactly one completion,
// as a failure.
//
// The protocol engine behind this interface is out of scope for this module.
// A production build binds it to libwaku over cgo; tests use the testbed
// package.
type Lib interface {
	// New creates a native node from a JSON configuration document. The
	// returned NodeRef is valid only when the completion reports success.
	New(configJSON string, cb Callback) NodeRef

	// Destroy releases the native node. Valid from any lifecycle state.
	Destroy(node NodeRef, cb Callback) Status

	// Start mounts the configured protocols and starts the node.
	Start(node NodeRef, cb Callback) Status

	// Stop stops a started node. The node may be started again.
	Stop(node NodeRef, cb Callback) Status

	// Version reports the native library version string.
	Version(node NodeRef, cb Callback) Status

	// Connect dials a peer by multiaddr.
	Connect(node NodeRef, peerAddr string, timeoutMS int32, cb Callback) Status

	// ListenAddresses reports the multiaddrs the node listens on.
	ListenAddresses(node NodeRef, cb Callback) Status

	// RelayPublish publishes a JSON-serialized message on a pubsub topic.
	// The completion payload is the message hash.
	RelayPublish(node NodeRef, pubsubTopic, messageJSON string, timeoutMS int32, cb Callback) Status

	// RelaySubscribe subscribes the relay protocol to a pubsub topic.
	RelaySubscribe(node NodeRef, pubsubTopic string, cb Callback) Status

	// RelayUnsubscribe closes a relay subscription.
	RelayUnsubscribe(node NodeRef, pubsubTopic string, cb Callback) Status

	// FilterSubscribe subscribes to filtered messages on the given content
	// topics. contentTopics is a comma-joined list of canonical forms.
	FilterSubscribe(node NodeRef, pubsubTopic, contentTopics string, cb Callback) Status

	// FilterUnsubscribe removes a filter subscription.
	FilterUnsubscribe(node NodeRef, pubsubTopic, contentTopics string, cb Callback) Status

	// FilterUnsubscribeAll removes every filter subscription of the node.
	FilterUnsubscribeAll(node NodeRef, cb Callback) Status

	// LightpushPublish forwards a message through a lightpush service node.
	LightpushPublish(node NodeRef, pubsubTopic, messageJSON string, cb Callback) Status

	// StoreQuery requests one page of message history from peerAddr. The
	// completion payload is a store response document.
	StoreQuery(node NodeRef, queryJSON string, peerAddr string, timeoutMS int32, cb Callback) Status

	// ContentTopic builds a canonical content topic string natively.
	ContentTopic(node NodeRef, appName string, appVersion uint32, topicName, encoding string, cb Callback) Status

	// DefaultPubsubTopic reports the node's default pubsub topic.
	DefaultPubsubTopic(node NodeRef, cb Callback) Status

	// SetEventCallback installs cb as the node's single event slot,
	// replacing any previous registration. A nil cb clears the slot.
	SetEventCallback(node NodeRef, cb EventCallback) Status
}
