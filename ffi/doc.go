// Package ffi drives single native calls to completion.
//
// Every asynchronous libwaku operation reports its result by invoking a
// completion callback exactly once, possibly from a thread the native
// library controls, before or after the call itself returns. This package
// turns that pattern into one blocking Go call:
//
//	err := ffi.CallEmpty(ctx, "relay_subscribe", func(cb waku.Callback) waku.Status {
//	    return lib.RelaySubscribe(node, topic, cb)
//	})
//
// Each call allocates its own pending slot (outcome cell plus a single-fire
// signal), so concurrent calls are structurally isolated: there is no shared
// callback state to serialize them through. The slot is owned by the calling
// frame and stays reachable until the callback fires, even when the caller
// abandons the wait on context cancellation.
//
// Outcome classification follows the native contract strictly. A failure
// status yields an error carrying the native message verbatim. A payload
// that is not valid UTF-8, a status code outside the contract, a missing
// callback registration, or a completion that never ran where one was
// required all panic: they mean the native and managed sides have fallen
// out of sync, which calling code cannot recover from.
//
// One known behavioral variance is handled explicitly: some native
// operations report StatusOK from the call itself and only invoke the
// callback on error. CallEmpty treats that as success instead of an
// undefined completion state.
package ffi
