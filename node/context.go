package node

import (
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/errors"
	"github.com/waku-org/waku-go-bindings/resource"
)

// nodeContext owns the opaque native node reference for the lifetime of a
// node, across state transitions. Handles move it between each other; it is
// never shared by two live handles.
type nodeContext struct {
	lib   waku.Lib
	ref   waku.NodeRef
	lease resource.Lease
	clk   clock.Clock
	log   *zap.Logger

	// handlerMu guards handler registration against concurrent dispatch.
	// Dispatch only holds it long enough to read the handler reference,
	// never while user code runs, so a handler may re-register without
	// deadlocking.
	handlerMu sync.Mutex
	handler   EventHandler
}

// setEventHandler replaces the node's event handler and (re)installs the
// dispatcher with the native event slot. A nil handler clears the slot.
func (c *nodeContext) setEventHandler(h EventHandler) error {
	c.handlerMu.Lock()
	c.handler = h
	c.handlerMu.Unlock()

	var cb waku.EventCallback
	if h != nil {
		cb = c.dispatch
	}
	if status := c.lib.SetEventCallback(c.ref, cb); status != waku.StatusOK {
		return errors.NativeFailure(errors.PhaseEvent, "set_event_callback",
			fmt.Sprintf("event callback registration failed with status %d", status))
	}
	return nil
}

// dispatch is the long-lived event trampoline. It runs on whatever thread
// the native library delivers events from and must not be confused with the
// per-call completion callbacks: this slot lives as long as the node.
func (c *nodeContext) dispatch(payload []byte) {
	ev := decodeEvent(payload)

	c.handlerMu.Lock()
	h := c.handler
	c.handlerMu.Unlock()
	if h == nil {
		return
	}

	c.log.Debug("dispatching event", zap.String("type", eventName(ev)))
	h(ev)
}

// releaseRef drops the native reference and returns the lease. The context
// is unusable afterwards.
func (c *nodeContext) releaseRef() {
	c.ref = waku.NilNodeRef
	c.lease.Release()
}
