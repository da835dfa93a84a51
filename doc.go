// Package waku provides Go bindings for the libwaku native library: a safety
// and ergonomics layer between application code and the synchronous,
// callback-driven protocol engine.
//
// The native library exposes every operation as a C function taking
// serialized arguments and a completion callback that fires exactly once,
// possibly from a foreign thread, before or after the call returns. This
// module converts that boundary into ordinary Go calls with typed results,
// and encodes the node lifecycle in the type system so that, for example,
// publishing on a node that was never started is a compile error.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct
// responsibilities:
//
//	waku/           Root package with the native ABI boundary (Lib, Status, Callback)
//	├── ffi/        Completion transport, result classification, call adapter
//	├── node/       Typestate node handles, configuration, protocol operations,
//	│               event demultiplexing, paginated store queries
//	├── protocol/   Content topics, pubsub topics, message hashes, wire types
//	├── resource/   Process-wide node lease
//	├── errors/     Structured error types
//	└── testbed/    Scripted in-memory native library for tests and examples
//
// # Quick Start
//
// Create, start and use a node:
//
//	n, err := node.New(ctx, lib, &node.Config{TCPPort: 60000})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	running, err := n.Start(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer running.Destroy(ctx)
//
//	topic := protocol.DefaultPubsubTopic()
//	if err := running.RelaySubscribe(ctx, topic); err != nil {
//	    log.Fatal(err)
//	}
//	hash, err := running.RelayPublish(ctx, topic, msg, time.Second)
//
// The lib value is any implementation of waku.Lib: the cgo binding to
// libwaku in production, or testbed.New() in tests.
//
// # Lifecycle
//
// node.New returns a *node.Node in the Initialized state. Start consumes it
// and returns a *node.RunningNode; Stop consumes that and returns an
// Initialized handle again. Destroy is valid in both states. Operations that
// require a started node (publish, subscribe, connect, store queries) exist
// only on RunningNode, so misuse is caught at compile time.
package waku
