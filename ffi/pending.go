package ffi

import (
	"context"
	"sync"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/errors"
)

// pending is the per-call completion slot: a mutable outcome cell plus a
// single-fire notification. One slot exists per in-flight call and never
// escapes the call that created it; the callback closure keeps it reachable
// for as long as the native side might still invoke it.
type pending struct {
	done chan struct{}
	resp Response
	once sync.Once
}

func newPending() *pending {
	return &pending{done: make(chan struct{})}
}

// callback returns the completion trampoline for this slot. It is safe to
// invoke from any goroutine; only the first invocation wins, so a native
// side that misbehaves and double-fires cannot corrupt the outcome.
func (p *pending) callback() waku.Callback {
	return func(status waku.Status, payload []byte) {
		r := classify(status, payload)
		p.once.Do(func() {
			p.resp = r
			close(p.done)
		})
	}
}

// fired reports whether the completion already ran.
func (p *pending) fired() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// wait blocks until the completion fires or ctx is done. This is the single
// suspension point of the bridge. An abandoned slot remains valid: a late
// callback still lands in it without touching the departed caller.
func (p *pending) wait(ctx context.Context, op string) (Response, error) {
	select {
	case <-p.done:
		return p.resp, nil
	case <-ctx.Done():
		return Response{}, errors.Canceled(op, ctx.Err())
	}
}
