// Package node exposes the libwaku node through typestate handles.
//
// node.New returns a *Node in the Initialized state: the native node exists
// but no protocol is running. Start consumes the handle and returns a
// *RunningNode; Stop consumes that and hands back an Initialized handle, so
// a node can be restarted without recreating it. Destroy is legal in both
// states and releases the native resources.
//
// Operations that require a started node (connecting to peers, publishing,
// subscribing, store queries, listen-address enumeration) are methods of
// RunningNode only, so calling them on a node that was never started is a
// compile error rather than a native-side failure. Version, event-handler
// registration and Destroy exist in both states.
//
// Each node acquires a resource.Lease on creation; the default lease admits
// one node per process, matching the native library's constraint. Tests
// pass WithLease to run independent lifecycles.
//
// Incoming events (received messages, topic health, peer connection
// changes) are delivered through a single handler registered with
// SetEventHandler; see the Event types in this package.
package node
