package dnssd

import (
	"fmt"
	"log/slog"
	"math"
	"net/netip"
	"sync"
	"time"

	"github.com/nsdbridge/nsdbridge-go/pkg/log"
)

// Config configures a Bridge.
type Config struct {
	// Logger receives diagnostic output. Nil means slog.Default().
	Logger *slog.Logger

	// Trace receives one event per operation and delivery.
	// Nil disables tracing.
	Trace log.Logger
}

// Bridge exposes the DNS-SD operations and routes their results. All methods
// are safe for concurrent use. See the package documentation for the locking
// and callback rules.
type Bridge struct {
	logger *slog.Logger
	trace  log.Logger

	mu       sync.Mutex
	backend  Backend
	sessions *sessionRegistry

	txt textAccounting
}

// New creates a Bridge with no backend bound. Operations that reach the
// backend fail with ErrIncorrectState until Bind is called.
func New(cfg Config) *Bridge {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	trace := cfg.Trace
	if trace == nil {
		trace = log.NoopLogger{}
	}
	return &Bridge{
		logger:   logger,
		trace:    trace,
		sessions: newSessionRegistry(),
	}
}

// Bind installs the discovery backend. Each entry point's presence is checked
// here, not per call: absent entry points are logged once and the operations
// needing them fail with ErrIncorrectState. Bind is expected to be called
// once, before any operation.
func (b *Bridge) Bind(backend Backend) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.backend = backend

	entryPoints := []struct {
		name  string
		bound bool
	}{
		{"browse", backend.Browse != nil},
		{"stopBrowse", backend.StopBrowse != nil},
		{"resolve", backend.Resolve != nil},
		{"publish", backend.Publish != nil},
		{"removeServices", backend.RemoveServices != nil},
	}
	for _, ep := range entryPoints {
		if !ep.bound {
			b.logger.Warn("discovery backend does not provide entry point", "entry", ep.name)
		}
	}
}

// Init reports readiness to the caller. The backend is not involved: the
// bridge itself needs no asynchronous setup, so onSuccess is invoked
// synchronously before Init returns. Both callbacks must be non-nil.
func (b *Bridge) Init(onSuccess, onError ReadyCallback, ctx any) error {
	if onSuccess == nil || onError == nil {
		return fmt.Errorf("%w: init callbacks must be non-nil", ErrInvalidArgument)
	}

	b.emit(log.Event{Op: log.OpInit, Direction: log.DirectionOut})
	onSuccess(ctx, nil)
	return nil
}

// Shutdown is a no-op: the bridge holds no resources beyond the session
// table, which the caller drains through StopBrowse.
func (b *Bridge) Shutdown() {}

// Browse starts browsing for baseType and returns the identifier of the new
// session. baseType may carry a "._sub." composite; the backend receives the
// subtype-filter query form. family and iface are accepted for signature
// compatibility with the platform surface and are not forwarded — the
// backend browses all interfaces.
func (b *Bridge) Browse(baseType string, proto Protocol, family AddressFamily, iface string, callback BrowseCallback, ctx any) (SessionID, error) {
	_ = family
	_ = iface

	if baseType == "" || callback == nil {
		return 0, fmt.Errorf("%w: browse requires a type and a callback", ErrInvalidArgument)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.backend.Browse == nil {
		return 0, fmt.Errorf("%w: browse entry point not bound", ErrIncorrectState)
	}

	query := FullTypeWithSubTypes(baseType, proto)

	// The handle must exist before the backend call so that a delivery
	// racing the call's return still finds its session.
	id, sess := b.sessions.create(callback)

	err := b.callOut("browse", func() error {
		return b.backend.Browse(query, sess.handle, ctx, b)
	})
	if err != nil {
		b.sessions.reclaim(id)
		return 0, err
	}

	b.emit(log.Event{
		Op:          log.OpBrowse,
		Direction:   log.DirectionOut,
		ServiceType: query,
		Session:     uint64(id),
		Handle:      uint64(sess.handle),
	})
	return id, nil
}

// StopBrowse ends the browse session id. The session is reclaimed and
// destroyed unconditionally, even when the backend stop call fails; the
// identifier is invalid as soon as StopBrowse returns. Cancellation is
// cooperative: a delivery already in flight may still arrive and is dropped.
func (b *Bridge) StopBrowse(id SessionID) error {
	if id == 0 {
		return fmt.Errorf("%w: browse session identifier is zero", ErrInvalidArgument)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.backend.StopBrowse == nil {
		return fmt.Errorf("%w: stopBrowse entry point not bound", ErrIncorrectState)
	}

	sess, ok := b.sessions.reclaim(id)
	if !ok {
		return fmt.Errorf("%w: unknown browse session %d", ErrInvalidArgument, id)
	}

	err := b.callOut("stopBrowse", func() error {
		// The backend correlates by the handle it was given at browse time,
		// not by the session identifier.
		return b.backend.StopBrowse(sess.handle)
	})

	b.emit(log.Event{
		Op:        log.OpStopBrowse,
		Direction: log.DirectionOut,
		Session:   uint64(id),
		Handle:    uint64(sess.handle),
		Error:     errString(err),
	})
	return err
}

// Sessions returns the identifiers of all active browse sessions, unordered.
func (b *Bridge) Sessions() []SessionID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions.ids()
}

// Resolve asks the backend to resolve service.Name of service's type.
// No session is created; exactly one later delivery to callback is expected.
// The returned error reflects only the synchronous call-out, never the
// eventual result. iface is accepted for signature compatibility and not
// forwarded.
func (b *Bridge) Resolve(service *Service, iface string, callback ResolveCallback, ctx any) error {
	_ = iface

	if service == nil || callback == nil {
		return fmt.Errorf("%w: resolve requires a service and a callback", ErrInvalidArgument)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.backend.Resolve == nil {
		return fmt.Errorf("%w: resolve entry point not bound", ErrIncorrectState)
	}

	fullType := FullType(service.Type, service.Protocol)
	err := b.callOut("resolve", func() error {
		return b.backend.Resolve(service.Name, fullType, callback, ctx, b)
	})
	if err != nil {
		return err
	}

	b.emit(log.Event{
		Op:          log.OpResolve,
		Direction:   log.DirectionOut,
		ServiceType: fullType,
		Instance:    service.Name,
	})
	return nil
}

// ResolveNoLongerNeeded is a hint that the caller is done with earlier
// resolve results for instanceName. The bridge keeps no resolve state, so
// this is a no-op.
func (b *Bridge) ResolveNoLongerNeeded(instanceName string) {}

// PublishService registers service with the backend. The call is atomic:
// name, host, type, port, TXT entries and subtypes are marshalled and handed
// over in one backend call, and there is no incremental update path. The
// callback mirrors the platform signature and is not invoked; the outcome is
// the return value.
func (b *Bridge) PublishService(service *Service, callback PublishCallback, ctx any) error {
	_ = callback
	_ = ctx

	if service == nil {
		return fmt.Errorf("%w: publish requires a service", ErrInvalidArgument)
	}
	if !fitsCount(len(service.Text)) || !fitsCount(len(service.SubTypes)) {
		return fmt.Errorf("%w: publish entry counts exceed 32-bit range", ErrInvalidArgument)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.backend.Publish == nil {
		return fmt.Errorf("%w: publish entry point not bound", ErrIncorrectState)
	}

	fullType := FullType(service.Type, service.Protocol)

	keys := make([]string, len(service.Text))
	values := make([][]byte, len(service.Text))
	for i, entry := range service.Text {
		keys[i] = entry.Key
		if entry.Value != nil {
			values[i] = append([]byte(nil), entry.Value...)
		}
	}
	subTypes := append([]string(nil), service.SubTypes...)

	err := b.callOut("publish", func() error {
		return b.backend.Publish(service.Name, service.HostName, fullType, service.Port, keys, values, subTypes)
	})

	b.emit(log.Event{
		Op:          log.OpPublish,
		Direction:   log.DirectionOut,
		ServiceType: fullType,
		Instance:    service.Name,
		Count:       len(service.Text),
		Error:       errString(err),
	})
	return err
}

// FinalizeServiceUpdate always succeeds: PublishService is atomic per call,
// so there is nothing to commit.
func (b *Bridge) FinalizeServiceUpdate() error {
	return nil
}

// RemoveServices withdraws every record previously published through this
// bridge.
func (b *Bridge) RemoveServices() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.backend.RemoveServices == nil {
		return fmt.Errorf("%w: removeServices entry point not bound", ErrIncorrectState)
	}

	err := b.callOut("removeServices", func() error {
		return b.backend.RemoveServices()
	})

	b.emit(log.Event{Op: log.OpRemoveServices, Direction: log.DirectionOut, Error: errString(err)})
	return err
}

// ReconfirmRecord always fails with ErrUnsupported; the backend surface has
// no record-reconfirmation entry point.
func (b *Bridge) ReconfirmRecord(hostName string, address netip.Addr, iface string) error {
	return fmt.Errorf("%w: record reconfirmation", ErrUnsupported)
}

// callOut runs one backend entry point with the bridge lock released.
// The caller must hold the lock. The backend may block indefinitely and may
// re-enter this layer from its own goroutines, so invoking it under the lock
// is the deadlock hazard this helper exists to avoid. A backend error or
// panic surfaces exactly once as ErrBackendFault and is never retried.
func (b *Bridge) callOut(name string, fn func() error) (err error) {
	b.mu.Unlock()
	defer b.mu.Lock()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("discovery backend panicked", "entry", name, "panic", r)
			err = fmt.Errorf("%w: %s panicked: %v", ErrBackendFault, name, r)
		}
	}()

	if callErr := fn(); callErr != nil {
		b.logger.Error("discovery backend call failed", "entry", name, "err", callErr)
		return fmt.Errorf("%w: %s: %v", ErrBackendFault, name, callErr)
	}
	return nil
}

// emit stamps and records a trace event.
func (b *Bridge) emit(ev log.Event) {
	ev.Timestamp = time.Now()
	b.trace.Log(ev)
}

// fitsCount reports whether n is representable as the backend's 32-bit
// entry count.
func fitsCount(n int) bool {
	return n >= 0 && uint64(n) <= math.MaxUint32
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Compile-time interface satisfaction check.
var _ ResultSink = (*Bridge)(nil)
