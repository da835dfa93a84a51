package node

import (
	"context"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/errors"
	"github.com/waku-org/waku-go-bindings/ffi"
	"github.com/waku-org/waku-go-bindings/resource"
)

// Node is a handle to a created but not started native node. Start consumes
// it; only Version, SetEventHandler, Destroy and the content-topic helpers
// are available in this state.
type Node struct {
	ctx *nodeContext
}

// RunningNode is a handle to a started native node with its protocols
// mounted. It exposes the full operation surface; Stop consumes it and
// returns an Initialized handle.
type RunningNode struct {
	ctx *nodeContext
}

// Option configures node creation.
type Option func(*nodeContext)

// WithLease overrides the singleton-node lease. Tests use this to run
// independent lifecycles in one process.
func WithLease(l resource.Lease) Option {
	return func(c *nodeContext) { c.lease = l }
}

// WithClock overrides the clock used for message timestamps.
func WithClock(clk clock.Clock) Option {
	return func(c *nodeContext) { c.clk = clk }
}

// New creates a native node from cfg and returns its Initialized handle.
// The node holds the process lease until Destroy.
func New(ctx context.Context, lib waku.Lib, cfg *Config, opts ...Option) (*Node, error) {
	c := &nodeContext{
		lib:   lib,
		lease: resource.Process(),
		clk:   clock.New(),
		log:   Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	configJSON, err := cfg.marshal()
	if err != nil {
		return nil, err
	}

	if err := c.lease.Acquire(); err != nil {
		return nil, err
	}

	ref, err := ffi.CallCreate(ctx, "new", func(cb waku.Callback) waku.NodeRef {
		return lib.New(configJSON, cb)
	})
	if err != nil {
		c.lease.Release()
		return nil, err
	}
	c.ref = ref

	c.log.Debug("created node", zap.Uintptr("ref", uintptr(ref)))
	return &Node{ctx: c}, nil
}

// take moves the context out of the handle, leaving it invalid.
func (n *Node) take(op string) (*nodeContext, error) {
	if n == nil || n.ctx == nil {
		return nil, errors.HandleMoved(op)
	}
	c := n.ctx
	n.ctx = nil
	return c, nil
}

func (n *RunningNode) take(op string) (*nodeContext, error) {
	if n == nil || n.ctx == nil {
		return nil, errors.HandleMoved(op)
	}
	c := n.ctx
	n.ctx = nil
	return c, nil
}

// Start mounts the configured protocols and starts the node, consuming
// this handle. On failure the handle stays valid so the caller may retry.
func (n *Node) Start(ctx context.Context) (*RunningNode, error) {
	if n == nil || n.ctx == nil {
		return nil, errors.HandleMoved("start")
	}
	c := n.ctx
	err := ffi.CallEmpty(ctx, "start", func(cb waku.Callback) waku.Status {
		return c.lib.Start(c.ref, cb)
	})
	if err != nil {
		return nil, err
	}
	n.ctx = nil
	c.log.Debug("node started")
	return &RunningNode{ctx: c}, nil
}

// Stop stops the node, consuming this handle and returning an Initialized
// one. On failure the handle stays valid.
func (n *RunningNode) Stop(ctx context.Context) (*Node, error) {
	if n == nil || n.ctx == nil {
		return nil, errors.HandleMoved("stop")
	}
	c := n.ctx
	err := ffi.CallEmpty(ctx, "stop", func(cb waku.Callback) waku.Status {
		return c.lib.Stop(c.ref, cb)
	})
	if err != nil {
		return nil, err
	}
	n.ctx = nil
	c.log.Debug("node stopped")
	return &Node{ctx: c}, nil
}

// Destroy releases the native node and the process lease. The handle is
// consumed even when the native call fails.
func (n *Node) Destroy(ctx context.Context) error {
	c, err := n.take("destroy")
	if err != nil {
		return err
	}
	return destroy(ctx, c)
}

// Destroy releases the native node and the process lease without stopping
// it first. The handle is consumed even when the native call fails.
func (n *RunningNode) Destroy(ctx context.Context) error {
	c, err := n.take("destroy")
	if err != nil {
		return err
	}
	return destroy(ctx, c)
}

func destroy(ctx context.Context, c *nodeContext) error {
	// Clear the event slot first so no event lands in a dying node.
	var errs error
	if status := c.lib.SetEventCallback(c.ref, nil); status != waku.StatusOK {
		errs = multierr.Append(errs, errors.NativeFailure(errors.PhaseEvent, "set_event_callback",
			"failed to clear event callback during destroy"))
	}

	err := ffi.CallEmpty(ctx, "destroy", func(cb waku.Callback) waku.Status {
		return c.lib.Destroy(c.ref, cb)
	})
	errs = multierr.Append(errs, err)

	c.releaseRef()
	c.log.Debug("node destroyed")
	return errs
}

// Version reports the native library version.
func (n *Node) Version(ctx context.Context) (string, error) {
	if n == nil || n.ctx == nil {
		return "", errors.HandleMoved("version")
	}
	return version(ctx, n.ctx)
}

// Version reports the native library version.
func (n *RunningNode) Version(ctx context.Context) (string, error) {
	if n == nil || n.ctx == nil {
		return "", errors.HandleMoved("version")
	}
	return version(ctx, n.ctx)
}

func version(ctx context.Context, c *nodeContext) (string, error) {
	return ffi.CallString(ctx, "version", func(cb waku.Callback) waku.Status {
		return c.lib.Version(c.ref, cb)
	})
}

// SetEventHandler registers h as the node's event handler, replacing any
// previous one. A nil handler stops event delivery.
func (n *Node) SetEventHandler(h EventHandler) error {
	if n == nil || n.ctx == nil {
		return errors.HandleMoved("set_event_handler")
	}
	return n.ctx.setEventHandler(h)
}

// SetEventHandler registers h as the node's event handler, replacing any
// previous one. A nil handler stops event delivery.
func (n *RunningNode) SetEventHandler(h EventHandler) error {
	if n == nil || n.ctx == nil {
		return errors.HandleMoved("set_event_handler")
	}
	return n.ctx.setEventHandler(h)
}

// clampMillis converts a timeout to the int32 millisecond width the native
// boundary uses, clamping instead of overflowing. Zero and negative mean no
// timeout; positive sub-millisecond timeouts round up rather than silently
// becoming "no timeout".
func clampMillis(d time.Duration) int32 {
	if d <= 0 {
		return 0
	}
	ms := d.Milliseconds()
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	if ms == 0 {
		return 1
	}
	return int32(ms)
}
