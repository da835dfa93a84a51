package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseFFI       Phase = "ffi"       // native call dispatch and completion
	PhaseDecode    Phase = "decode"    // native response to Go value
	PhaseConfig    Phase = "config"    // node configuration
	PhaseLifecycle Phase = "lifecycle" // node state transitions
	PhaseEvent     Phase = "event"     // event demultiplexing
	PhaseStore     Phase = "store"     // paginated store queries
)

// Kind categorizes the error
type Kind string

const (
	// KindNativeFailure carries a failure reported by the native side. The
	// native message is preserved verbatim; this is the only recoverable
	// kind crossing the bridge.
	KindNativeFailure Kind = "native_failure"

	KindInvalidUTF8     Kind = "invalid_utf8"
	KindInvalidJSON     Kind = "invalid_json"
	KindInvalidTopic    Kind = "invalid_topic"
	KindInvalidHash     Kind = "invalid_hash"
	KindInvalidInput    Kind = "invalid_input"
	KindMissingCallback Kind = "missing_callback"
	KindUndefinedState  Kind = "undefined_state"
	KindUnknownStatus   Kind = "unknown_status"
	KindAlreadyRunning  Kind = "already_running"
	KindHandleMoved     Kind = "handle_moved"
	KindCanceled        Kind = "canceled"
)

// Error is the structured error type used throughout the bindings
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation the error occurred in
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NativeFailure wraps an error message reported by the native side. The
// message is kept byte-for-byte; callers may match on the Kind and still
// read the original text.
func NativeFailure(phase Phase, op, message string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNativeFailure,
		Op:     op,
		Detail: message,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error for a native payload
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence in native payload: %x", preview),
	}
}

// InvalidJSON creates a decode error for a native payload that did not
// parse into the expected shape
func InvalidJSON(phase Phase, op string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindInvalidJSON,
		Op:    op,
		Cause: cause,
	}
}

// InvalidTopic creates an error for a malformed topic string
func InvalidTopic(raw string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidTopic,
		Detail: fmt.Sprintf("malformed topic %q, expected /{application}/{version}/{name}/{encoding}", raw),
	}
}

// InvalidHash creates an error for a malformed message hash
func InvalidHash(detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidHash,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// MissingCallback creates an error for a native call that required a
// callback but had none registered. This signals a defect in the bridge
// itself and is used as a panic value, not returned.
func MissingCallback(op string) *Error {
	return &Error{
		Phase:  PhaseFFI,
		Kind:   KindMissingCallback,
		Op:     op,
		Detail: "callback is required",
	}
}

// UndefinedState creates an error for a completion that never ran. Like
// MissingCallback it indicates the native and managed sides fell out of
// sync and is used as a panic value.
func UndefinedState(op string, status int32) *Error {
	return &Error{
		Phase:  PhaseFFI,
		Kind:   KindUndefinedState,
		Op:     op,
		Detail: fmt.Sprintf("status %d was returned but the callback was not executed", status),
	}
}

// UnknownStatus creates an error for a status code outside the native
// contract
func UnknownStatus(status int32) *Error {
	return &Error{
		Phase:  PhaseFFI,
		Kind:   KindUnknownStatus,
		Detail: fmt.Sprintf("undefined return code %d", status),
	}
}

// AlreadyRunning creates an error for acquiring an occupied node lease
func AlreadyRunning() *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindAlreadyRunning,
		Detail: "a waku node already holds this lease",
	}
}

// HandleMoved creates an error for using a handle after a lifecycle
// transition consumed it
func HandleMoved(op string) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindHandleMoved,
		Op:     op,
		Detail: "handle was consumed by a previous transition",
	}
}

// Canceled wraps a context cancellation observed while awaiting a
// completion
func Canceled(op string, cause error) *Error {
	return &Error{
		Phase: PhaseFFI,
		Kind:  KindCanceled,
		Op:    op,
		Cause: cause,
	}
}

// Config creates a configuration error
func Config(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  cause,
	}
}
