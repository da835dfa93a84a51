package ffi

import (
	"unicode/utf8"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/errors"
)

type outcome uint8

const (
	// outcomeUndefined is the zero value: no callback ran yet.
	outcomeUndefined outcome = iota
	outcomeSuccess
	outcomeFailure
	outcomeMissingCallback
)

// Response is the completion outcome of one native call: success with an
// optional payload, failure with a message, a missing-callback report, or
// undefined when no callback ran.
type Response struct {
	payload string
	kind    outcome
}

// Undefined reports whether no callback has classified this response.
func (r Response) Undefined() bool { return r.kind == outcomeUndefined }

// classify converts a raw callback invocation into a Response.
//
// A non-UTF8 payload or an unrecognized status code is a native contract
// violation and panics with a structured error.
func classify(status waku.Status, payload []byte) Response {
	if !utf8.Valid(payload) {
		panic(errors.InvalidUTF8(errors.PhaseFFI, payload))
	}
	text := string(payload)
	switch status {
	case waku.StatusOK:
		return Response{kind: outcomeSuccess, payload: text}
	case waku.StatusErr:
		return Response{kind: outcomeFailure, payload: text}
	case waku.StatusMissingCallback:
		return Response{kind: outcomeMissingCallback}
	default:
		panic(errors.UnknownStatus(int32(status)))
	}
}

// classifyEmpty maps a completion outcome for a call that returns no
// payload. The success payload, if any, is ignored: several native
// operations populate the callback only on error and report plain StatusOK
// otherwise, which is why an undefined outcome paired with StatusOK is
// success rather than a bridge defect.
func classifyEmpty(op string, status waku.Status, r Response) error {
	if r.kind == outcomeUndefined && status == waku.StatusOK {
		return nil
	}
	switch r.kind {
	case outcomeSuccess:
		return nil
	case outcomeFailure:
		return errors.NativeFailure(errors.PhaseFFI, op, r.payload)
	case outcomeMissingCallback:
		panic(errors.MissingCallback(op))
	default:
		panic(errors.UndefinedState(op, int32(status)))
	}
}

// classifyValue maps a completion outcome for a call whose payload must be
// consumed. Missing or never-run callbacks are bridge defects here: the
// value can only arrive through the completion.
func classifyValue(op string, status waku.Status, r Response) (string, error) {
	switch r.kind {
	case outcomeSuccess:
		return r.payload, nil
	case outcomeFailure:
		return "", errors.NativeFailure(errors.PhaseFFI, op, r.payload)
	case outcomeMissingCallback:
		panic(errors.MissingCallback(op))
	default:
		panic(errors.UndefinedState(op, int32(status)))
	}
}
