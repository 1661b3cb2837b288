package dnssd

import (
	"fmt"
	"math"
	"net/netip"
	"strings"
	"sync/atomic"

	"github.com/nsdbridge/nsdbridge-go/pkg/log"
)

// textAccounting counts TXT buffer ownership: one allocation per copied key,
// one per copied value. Every allocation made for a callback invocation is
// matched by exactly one release after the callback returns.
type textAccounting struct {
	allocated atomic.Uint64
	released  atomic.Uint64
}

// TextAllocStats is a snapshot of TXT buffer accounting. Outside of an
// in-flight callback, Allocated always equals Released.
type TextAllocStats struct {
	Allocated uint64
	Released  uint64
}

// TextAllocStats returns the current TXT buffer accounting.
func (b *Bridge) TextAllocStats() TextAllocStats {
	return TextAllocStats{
		Allocated: b.txt.allocated.Load(),
		Released:  b.txt.released.Load(),
	}
}

// HandleResolve is the entry point the backend invokes once per resolve
// completion, on a backend-owned goroutine.
//
// Exactly one callback invocation happens per completion: success with the
// built record and its single address, or failure with neither. An empty
// address or zero port marks a failed resolution and dispatches
// ErrUnknownResourceID before anything is built. TXT entries are copied into
// bridge-owned buffers, lent to the callback for its invocation, and
// released when it returns.
func (b *Bridge) HandleResolve(instanceName, fullType, hostName, address string, port int, text TextRecordSource, callback ResolveCallback, ctx any) {
	if callback == nil {
		b.logger.Error("resolve result dropped: nil callback", "instance", instanceName)
		return
	}

	dispatched := false
	dispatch := func(service *Service, addrs []netip.Addr, err error) {
		if dispatched {
			return
		}
		dispatched = true

		b.mu.Lock()
		callback(ctx, service, addrs, err)
		b.mu.Unlock()

		b.emit(log.Event{
			Op:          log.OpResolveResult,
			Direction:   log.DirectionIn,
			ServiceType: fullType,
			Instance:    instanceName,
			Error:       errString(err),
		})
	}

	if address == "" || port == 0 {
		dispatch(nil, nil, fmt.Errorf("%w: resolve completed without address or port", ErrUnknownResourceID))
		return
	}
	if len(instanceName) > MaxInstanceNameLen {
		dispatch(nil, nil, fmt.Errorf("%w: instance name exceeds %d bytes", ErrInvalidArgument, MaxInstanceNameLen))
		return
	}
	if len(fullType) > MaxFullTypeLen {
		dispatch(nil, nil, fmt.Errorf("%w: service type exceeds %d bytes", ErrInvalidArgument, MaxFullTypeLen))
		return
	}
	if port < 0 || port > math.MaxUint16 {
		dispatch(nil, nil, fmt.Errorf("%w: port %d out of range", ErrInvalidArgument, port))
		return
	}

	addr, err := netip.ParseAddr(address)
	if err != nil {
		dispatch(nil, nil, fmt.Errorf("%w: address %q: %v", ErrInvalidArgument, address, err))
		return
	}

	baseType, proto, err := SplitProtocol(fullType)
	if err != nil {
		dispatch(nil, nil, err)
		return
	}

	service := &Service{
		Name:      instanceName,
		HostName:  hostName,
		Type:      baseType,
		Protocol:  proto,
		Port:      uint16(port),
		Interface: addr.Zone(),
	}
	if text != nil {
		service.Text = b.copyTextEntries(text)
	}

	dispatch(service, []netip.Addr{addr}, nil)

	b.releaseTextEntries(service.Text)
	service.Text = nil
}

// HandleBrowse is the entry point the backend invokes per browse batch, on a
// backend-owned goroutine. All instance names in a batch share one wire type.
//
// The batch is all-or-nothing: the first over-length instance name aborts the
// whole delivery with a single error dispatch and no partial list. A
// successful batch is dispatched once with the terminal flag set. Deliveries
// for a handle whose session has ended are dropped.
func (b *Bridge) HandleBrowse(instanceNames []string, fullType string, handle BrowseHandle, ctx any) {
	if handle == 0 {
		b.logger.Error("browse result dropped: zero handle", "serviceType", fullType)
		return
	}

	dispatched := false
	dispatch := func(services []Service, err error) {
		if dispatched {
			return
		}
		dispatched = true

		b.mu.Lock()
		sess, ok := b.sessions.byHandle(handle)
		if !ok {
			b.mu.Unlock()
			// Cancellation is racy by design: the session may have been
			// reclaimed while this delivery was in flight.
			b.logger.Debug("browse result after session end", "handle", uint64(handle), "serviceType", fullType)
			return
		}
		sess.callback(ctx, services, true, err)
		b.mu.Unlock()

		b.emit(log.Event{
			Op:          log.OpBrowseResult,
			Direction:   log.DirectionIn,
			ServiceType: fullType,
			Handle:      uint64(handle),
			Count:       len(services),
			Error:       errString(err),
		})
	}

	baseType, proto, err := SplitProtocol(fullType)
	if err != nil {
		dispatch(nil, err)
		return
	}

	services := make([]Service, 0, len(instanceNames))
	for _, name := range instanceNames {
		if len(name) > MaxInstanceNameLen {
			dispatch(nil, fmt.Errorf("%w: instance name exceeds %d bytes", ErrInvalidArgument, MaxInstanceNameLen))
			return
		}
		services = append(services, Service{Name: name, Type: baseType, Protocol: proto})
	}

	// The slice is surrendered to the callback for the duration of the
	// dispatch only.
	dispatch(services, nil)
}

// copyTextEntries builds bridge-owned TXT entries from text in
// backend-reported order. Every key is copied; a value is copied when present
// and recorded as the nil sentinel when the key carries no data. Each copy is
// counted for release accounting.
func (b *Bridge) copyTextEntries(text TextRecordSource) []TextEntry {
	keys := text.Keys()
	entries := make([]TextEntry, 0, len(keys))
	for _, key := range keys {
		entry := TextEntry{Key: strings.Clone(key)}
		b.txt.allocated.Add(1)

		if data, ok := text.Data(key); ok {
			// Owned copy; an empty value stays non-nil to remain distinct
			// from the absent sentinel.
			entry.Value = append(make([]byte, 0, len(data)), data...)
			b.txt.allocated.Add(1)
		}
		entries = append(entries, entry)
	}
	return entries
}

// releaseTextEntries returns every buffer copied for one callback invocation.
// It runs on every path once the entries exist, whether or not the dispatch
// reported success.
func (b *Bridge) releaseTextEntries(entries []TextEntry) {
	for i := range entries {
		b.txt.released.Add(1)
		if entries[i].Value != nil {
			b.txt.released.Add(1)
		}
		entries[i] = TextEntry{}
	}
}
