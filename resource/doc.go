// Package resource guards singleton native resources.
//
// The native library supports at most one node per process. Rather than a
// process-wide mutable flag, that constraint is modeled as a Lease the node
// acquires on creation and releases on destroy. Tests inject their own
// lease so independent lifecycles do not interfere; production code uses
// the shared Process lease.
package resource
