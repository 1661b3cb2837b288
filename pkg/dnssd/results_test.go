package dnssd

import (
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resolveRecorder captures the single expected resolve delivery.
type resolveRecorder struct {
	calls   int
	ctx     any
	service *Service
	addrs   []netip.Addr
	err     error

	// text snapshot taken during the callback, while the entries are
	// still lent out
	text []TextEntry
}

func (r *resolveRecorder) callback(ctx any, service *Service, addrs []netip.Addr, err error) {
	r.calls++
	r.ctx = ctx
	r.service = service
	r.addrs = addrs
	r.err = err
	if service != nil {
		for _, entry := range service.Text {
			copied := TextEntry{Key: entry.Key}
			if entry.Value != nil {
				copied.Value = make([]byte, len(entry.Value))
				copy(copied.Value, entry.Value)
			}
			r.text = append(r.text, copied)
		}
	}
}

func TestHandleResolveSuccess(t *testing.T) {
	bridge, _ := newTestBridge(t)

	text := NewOrderedTextRecords()
	text.Set("D", []byte("1234"))
	text.Set("CM", nil)        // key without data
	text.Set("VP", []byte("")) // present but empty

	rec := &resolveRecorder{}
	bridge.HandleResolve("evse-001", "_matter._tcp", "evse-001.local.", "192.168.4.20", 5540,
		text, rec.callback, "resolve-ctx")

	require.Equal(t, 1, rec.calls)
	assert.Equal(t, "resolve-ctx", rec.ctx)
	require.NoError(t, rec.err)
	require.NotNil(t, rec.service)

	assert.Equal(t, "evse-001", rec.service.Name)
	assert.Equal(t, "evse-001.local.", rec.service.HostName)
	assert.Equal(t, "_matter", rec.service.Type)
	assert.Equal(t, ProtocolTCP, rec.service.Protocol)
	assert.Equal(t, uint16(5540), rec.service.Port)
	assert.Empty(t, rec.service.Interface)

	require.Len(t, rec.addrs, 1)
	assert.Equal(t, netip.MustParseAddr("192.168.4.20"), rec.addrs[0])

	require.Len(t, rec.text, 3)
	assert.Equal(t, []byte("1234"), rec.text[0].Value)
	assert.Nil(t, rec.text[1].Value, "key without data must carry the absent sentinel")
	assert.NotNil(t, rec.text[2].Value, "empty value must stay distinct from absent")
	assert.Empty(t, rec.text[2].Value)
}

func TestHandleResolveScopedAddress(t *testing.T) {
	bridge, _ := newTestBridge(t)

	rec := &resolveRecorder{}
	bridge.HandleResolve("evse-001", "_matter._udp", "evse-001.local.", "fe80::1%eth0", 5540,
		nil, rec.callback, nil)

	require.Equal(t, 1, rec.calls)
	require.NoError(t, rec.err)
	assert.Equal(t, "eth0", rec.service.Interface, "address zone must surface as the interface")
	require.Len(t, rec.addrs, 1)
	assert.Equal(t, "eth0", rec.addrs[0].Zone())
}

func TestHandleResolveMissingAddressOrPort(t *testing.T) {
	bridge, _ := newTestBridge(t)

	tests := []struct {
		name    string
		address string
		port    int
	}{
		{"NoAddress", "", 5540},
		{"NoPort", "192.168.4.20", 0},
		{"Neither", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &resolveRecorder{}
			bridge.HandleResolve("evse-001", "_matter._tcp", "", tt.address, tt.port,
				nil, rec.callback, nil)

			require.Equal(t, 1, rec.calls, "failure must dispatch exactly once")
			assert.ErrorIs(t, rec.err, ErrUnknownResourceID)
			assert.Nil(t, rec.service)
			assert.Nil(t, rec.addrs)
		})
	}

	stats := bridge.TextAllocStats()
	assert.Zero(t, stats.Allocated, "failed resolutions must not copy TXT buffers")
}

func TestHandleResolveValidation(t *testing.T) {
	bridge, _ := newTestBridge(t)

	tests := []struct {
		name     string
		instance string
		fullType string
		address  string
		port     int
	}{
		{"InstanceTooLong", strings.Repeat("x", MaxInstanceNameLen+1), "_matter._tcp", "192.168.4.20", 5540},
		{"TypeTooLong", "evse-001", strings.Repeat("x", MaxFullTypeLen+1), "192.168.4.20", 5540},
		{"PortOutOfRange", "evse-001", "_matter._tcp", "192.168.4.20", 70000},
		{"BadAddress", "evse-001", "_matter._tcp", "not-an-address", 5540},
		{"BadType", "evse-001", "_matter._xyz", "192.168.4.20", 5540},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &resolveRecorder{}
			bridge.HandleResolve(tt.instance, tt.fullType, "", tt.address, tt.port,
				nil, rec.callback, nil)

			require.Equal(t, 1, rec.calls)
			assert.ErrorIs(t, rec.err, ErrInvalidArgument)
			assert.Nil(t, rec.service)
		})
	}
}

func TestHandleResolveNilCallbackDropped(t *testing.T) {
	bridge, _ := newTestBridge(t)

	// Must not panic.
	bridge.HandleResolve("evse-001", "_matter._tcp", "", "192.168.4.20", 5540, nil, nil, nil)
}

func TestHandleResolveTextAccountingBalances(t *testing.T) {
	bridge, _ := newTestBridge(t)

	text := NewOrderedTextRecords()
	text.Set("D", []byte("1234"))
	text.Set("CM", nil)
	text.Set("VP", []byte("65521+32769"))

	rec := &resolveRecorder{}
	bridge.HandleResolve("evse-001", "_matter._tcp", "evse-001.local.", "192.168.4.20", 5540,
		text, rec.callback, nil)

	require.Equal(t, 1, rec.calls)

	// 3 keys + 2 present values.
	stats := bridge.TextAllocStats()
	assert.Equal(t, uint64(5), stats.Allocated)
	assert.Equal(t, stats.Allocated, stats.Released,
		"every buffer lent to the callback must be released after it returns")

	// The entries handed to the callback were zeroed on release.
	assert.Nil(t, rec.service.Text)
}

func TestHandleBrowseSuccess(t *testing.T) {
	bridge, backend := newTestBridge(t)

	var gotServices []Service
	var gotFinal bool
	var gotCtx any
	calls := 0
	_, err := bridge.Browse("_matter", ProtocolTCP, AddressFamilyAny, "",
		func(ctx any, services []Service, finalBatch bool, err error) {
			calls++
			gotCtx = ctx
			gotFinal = finalBatch
			gotServices = append([]Service(nil), services...)
			require.NoError(t, err)
		}, nil)
	require.NoError(t, err)
	handle := backend.browseHandles[0]

	bridge.HandleBrowse([]string{"evse-001", "evse-002"}, "_matter._tcp", handle, "browse-ctx")

	require.Equal(t, 1, calls)
	assert.Equal(t, "browse-ctx", gotCtx)
	assert.True(t, gotFinal, "every delivered batch is terminal")
	require.Len(t, gotServices, 2)
	assert.Equal(t, "evse-001", gotServices[0].Name)
	assert.Equal(t, "_matter", gotServices[0].Type)
	assert.Equal(t, ProtocolTCP, gotServices[0].Protocol)
	assert.Equal(t, "evse-002", gotServices[1].Name)
}

func TestHandleBrowseBatchAbortsOnOverlongName(t *testing.T) {
	bridge, backend := newTestBridge(t)

	calls := 0
	var gotServices []Service
	var gotErr error
	_, err := bridge.Browse("_matter", ProtocolTCP, AddressFamilyAny, "",
		func(ctx any, services []Service, finalBatch bool, err error) {
			calls++
			gotServices = services
			gotErr = err
		}, nil)
	require.NoError(t, err)
	handle := backend.browseHandles[0]

	names := []string{"evse-001", strings.Repeat("x", MaxInstanceNameLen+1), "evse-003"}
	bridge.HandleBrowse(names, "_matter._tcp", handle, nil)

	require.Equal(t, 1, calls, "an aborted batch dispatches exactly once")
	assert.ErrorIs(t, gotErr, ErrInvalidArgument)
	assert.Nil(t, gotServices, "no partial batch on abort")
}

func TestHandleBrowseBadTypeDispatchesError(t *testing.T) {
	bridge, backend := newTestBridge(t)

	var gotErr error
	calls := 0
	_, err := bridge.Browse("_matter", ProtocolTCP, AddressFamilyAny, "",
		func(ctx any, services []Service, finalBatch bool, err error) {
			calls++
			gotErr = err
		}, nil)
	require.NoError(t, err)

	bridge.HandleBrowse([]string{"evse-001"}, "_matter._xyz", backend.browseHandles[0], nil)

	require.Equal(t, 1, calls)
	assert.ErrorIs(t, gotErr, ErrInvalidArgument)
}

func TestHandleBrowseAfterStopDropped(t *testing.T) {
	bridge, backend := newTestBridge(t)

	id, err := bridge.Browse("_matter", ProtocolTCP, AddressFamilyAny, "",
		func(ctx any, services []Service, finalBatch bool, err error) {
			t.Error("delivery after StopBrowse must be dropped")
		}, nil)
	require.NoError(t, err)
	handle := backend.browseHandles[0]

	require.NoError(t, bridge.StopBrowse(id))

	// A delivery already in flight arrives after cancellation.
	bridge.HandleBrowse([]string{"evse-001"}, "_matter._tcp", handle, nil)
}

func TestHandleBrowseZeroHandleDropped(t *testing.T) {
	bridge, _ := newTestBridge(t)

	// Must not panic and must not reach any session.
	bridge.HandleBrowse([]string{"evse-001"}, "_matter._tcp", 0, nil)
}

func TestHandleBrowseRoutesToCorrectSession(t *testing.T) {
	bridge, backend := newTestBridge(t)

	var first, second int
	_, err := bridge.Browse("_matter", ProtocolTCP, AddressFamilyAny, "",
		func(any, []Service, bool, error) { first++ }, nil)
	require.NoError(t, err)
	_, err = bridge.Browse("_matterc", ProtocolUDP, AddressFamilyAny, "",
		func(any, []Service, bool, error) { second++ }, nil)
	require.NoError(t, err)
	require.Len(t, backend.browseHandles, 2)

	bridge.HandleBrowse([]string{"evse-001"}, "_matterc._udp", backend.browseHandles[1], nil)

	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}
