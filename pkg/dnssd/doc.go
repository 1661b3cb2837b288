// Package dnssd is an asynchronous bridge between a native caller and a
// host-supplied DNS-SD discovery backend.
//
// The package does not speak mDNS itself. All protocol work is delegated to
// a Backend capability bound once via Bridge.Bind; the backend delivers
// results back on its own goroutines through the ResultSink entry points
// (HandleBrowse, HandleResolve). The bridge owns everything in between:
//
//   - the service-type codec translating between a base type + protocol and
//     the dotted wire form (FullType, FullTypeWithSubTypes, SplitProtocol)
//   - the browse-session table mapping opaque SessionIDs to callbacks and
//     the BrowseHandles the backend correlates on
//   - TXT-record reconstruction with owned, accounted buffers scoped to a
//     single callback invocation
//   - the locking discipline around backend calls and result delivery
//
// # Locking
//
// One mutex per Bridge guards the bound backend, the session table and the
// accounting counters. The lock is always released before crossing into the
// backend: a backend entry point may block for an unbounded time and may
// re-enter this layer from its own goroutines. Result deliveries acquire the
// lock before touching shared state and hold it across the callback
// invocation. Callbacks therefore run with the bridge lock held and must not
// call bridge operations synchronously.
//
// # Cancellation
//
// StopBrowse is the only cancellation primitive. Browse results cross an
// asynchronous boundary, so one more delivery may arrive for a session
// shortly after StopBrowse returns; such deliveries are dropped, not treated
// as errors.
package dnssd
