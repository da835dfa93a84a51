// Package errors provides structured error types for the waku bindings.
//
// Errors are categorized by Phase (where in the bridge the error occurred)
// and Kind (error category). Native-side failures keep the native message
// verbatim under KindNativeFailure and are ordinary, recoverable errors.
// Decode failures and bridge misconfiguration (missing callback, undefined
// completion state) indicate the native and managed sides have fallen out
// of sync; those constructors exist so the ffi package can panic with a
// structured value.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseStore, errors.KindNativeFailure).
//		Op("store_query").
//		Detail("peer unreachable").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NativeFailure(errors.PhaseFFI, "relay_publish", msg)
//	err := errors.InvalidTopic(raw)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
