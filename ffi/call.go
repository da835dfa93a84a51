package ffi

import (
	"context"
	"encoding/json"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/errors"
)

// Call adapts one native operation: it receives the per-call completion
// callback and returns the native status. Argument serialization happens
// in the closure, before the adapter runs it, so every buffer the native
// call needs stays live for the call's full duration.
type Call func(cb waku.Callback) waku.Status

// CallEmpty drives a no-response native call to completion.
//
// If the native call returns StatusOK without having fired the callback,
// the call is treated as successful immediately: those operations invoke
// their callback only on error, and waiting would block forever.
func CallEmpty(ctx context.Context, op string, call Call) error {
	p := newPending()
	status := call(p.callback())
	if !p.fired() && status == waku.StatusOK {
		return classifyEmpty(op, status, Response{})
	}
	r, err := p.wait(ctx, op)
	if err != nil {
		return err
	}
	return classifyEmpty(op, status, r)
}

// CallString drives a native call to completion and returns its payload as
// a plain string. Unlike CallEmpty the completion must run: the value only
// arrives through the callback.
func CallString(ctx context.Context, op string, call Call) (string, error) {
	p := newPending()
	status := call(p.callback())
	r, err := p.wait(ctx, op)
	if err != nil {
		return "", err
	}
	return classifyValue(op, status, r)
}

// CallJSON drives a native call to completion and decodes its payload into
// T. A payload that does not parse is a native contract violation and
// panics.
func CallJSON[T any](ctx context.Context, op string, call Call) (T, error) {
	var v T
	s, err := CallString(ctx, op, call)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		panic(errors.InvalidJSON(errors.PhaseDecode, op, err))
	}
	return v, nil
}

// CallParsed drives a native call to completion and converts its payload
// with parse. Domain types with a textual wire form (message hashes, topic
// strings) use this instead of CallJSON. A parse failure panics.
func CallParsed[T any](ctx context.Context, op string, call Call, parse func(string) (T, error)) (T, error) {
	var v T
	s, err := CallString(ctx, op, call)
	if err != nil {
		return v, err
	}
	v, perr := parse(s)
	if perr != nil {
		panic(errors.InvalidJSON(errors.PhaseDecode, op, perr))
	}
	return v, nil
}

// CallCreate drives a node-creating native call to completion and returns
// the new node reference. Creation failures surface through the completion;
// a successful completion with a nil reference is reported as a native
// failure rather than handed to the caller.
func CallCreate(ctx context.Context, op string, call func(cb waku.Callback) waku.NodeRef) (waku.NodeRef, error) {
	p := newPending()
	ref := call(p.callback())
	r, err := p.wait(ctx, op)
	if err != nil {
		return waku.NilNodeRef, err
	}
	if _, err := classifyValue(op, waku.StatusOK, r); err != nil {
		return waku.NilNodeRef, err
	}
	if ref == waku.NilNodeRef {
		return waku.NilNodeRef, errors.NativeFailure(errors.PhaseFFI, op, "native library returned a nil node reference")
	}
	return ref, nil
}
