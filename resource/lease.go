package resource

import (
	"sync"

	"github.com/waku-org/waku-go-bindings/errors"
)

// Lease grants exclusive use of a singleton resource. Acquire fails while
// another holder has the lease; Release returns it. Release on an
// unacquired lease is a no-op.
type Lease interface {
	Acquire() error
	Release()
}

// ProcessLease is a Lease admitting one holder at a time.
type ProcessLease struct {
	mu   sync.Mutex
	held bool
}

// NewLease creates an unheld lease.
func NewLease() *ProcessLease {
	return &ProcessLease{}
}

// Acquire takes the lease, failing if it is already held.
func (l *ProcessLease) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return errors.AlreadyRunning()
	}
	l.held = true
	return nil
}

// Release returns the lease.
func (l *ProcessLease) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
}

var process = NewLease()

// Process returns the shared per-process lease used by default for native
// nodes.
func Process() Lease { return process }
