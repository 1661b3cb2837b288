package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/enbility/zeroconf/v3"

	"github.com/nsdbridge/nsdbridge-go/pkg/dnssd"
)

// ZeroconfBackend implements the bridge's discovery backend capability
// using zeroconf.
type ZeroconfBackend struct {
	config Config

	mu sync.Mutex

	// Active browses, keyed by the bridge's correlation handle.
	browses map[dnssd.BrowseHandle]context.CancelFunc

	// Published services, keyed by "<instance>.<fullType>".
	servers map[string]*zeroconf.Server
}

// NewZeroconfBackend creates a new zeroconf-backed discovery backend.
func NewZeroconfBackend(config Config) *ZeroconfBackend {
	return &ZeroconfBackend{
		config:  config.withDefaults(),
		browses: make(map[dnssd.BrowseHandle]context.CancelFunc),
		servers: make(map[string]*zeroconf.Server),
	}
}

// Capability returns the backend entry points for binding to a bridge.
func (z *ZeroconfBackend) Capability() dnssd.Backend {
	return dnssd.Backend{
		Browse:         z.browse,
		StopBrowse:     z.stopBrowse,
		Resolve:        z.resolve,
		Publish:        z.publish,
		RemoveServices: z.removeServices,
	}
}

// Close stops every active browse and withdraws every published service.
func (z *ZeroconfBackend) Close() {
	z.mu.Lock()
	defer z.mu.Unlock()

	for handle, cancel := range z.browses {
		cancel()
		delete(z.browses, handle)
	}
	for key, server := range z.servers {
		server.Shutdown()
		delete(z.servers, key)
	}
}

// getInterfaces returns the network interfaces to use.
// Returns nil to use all interfaces.
func (z *ZeroconfBackend) getInterfaces() []net.Interface {
	if z.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(z.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// clientOptions returns zeroconf client options based on config.
func (z *ZeroconfBackend) clientOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	// Select specific interface if configured
	if ifaces := z.getInterfaces(); ifaces != nil {
		opts = append(opts, zeroconf.SelectIfaces(ifaces))
	}

	return opts
}

// serverOptions returns zeroconf server options based on config.
func (z *ZeroconfBackend) serverOptions() []zeroconf.ServerOption {
	var opts []zeroconf.ServerOption
	if z.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(z.config.TTL.Seconds())))
	}
	return opts
}

// queryToServiceName converts the bridge's browse query grammar into the
// DNS-SD name zeroconf browses, and returns alongside it the plain dotted
// wire type results are reported under:
//
//	"<sub>,<base>._tcp" -> ("<sub>._sub.<base>._tcp", "<base>._tcp")
//	"<base>._tcp"       -> ("<base>._tcp",            "<base>._tcp")
func queryToServiceName(query string) (service, wireType string) {
	if i := strings.Index(query, ","); i >= 0 {
		subType, full := query[:i], query[i+1:]
		return subType + "._sub." + full, full
	}
	return query, query
}

// browse starts a browse for the bridge. Each discovered instance is
// delivered as its own batch; removals are not reported through the bridge
// surface and are drained here.
func (z *ZeroconfBackend) browse(fullType string, handle dnssd.BrowseHandle, ctx any, sink dnssd.ResultSink) error {
	serviceName, wireType := queryToServiceName(fullType)

	browseCtx, cancel := context.WithCancel(context.Background())
	z.mu.Lock()
	z.browses[handle] = cancel
	z.mu.Unlock()

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				sink.HandleBrowse([]string{entry.Instance}, wireType, handle, ctx)

			case _, ok := <-removed:
				if !ok {
					removed = nil
				}

			case <-browseCtx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(browseCtx, serviceName, z.config.Domain, entries, removed, z.clientOptions()...)
	}()

	return nil
}

// stopBrowse cancels the browse for handle. Unknown handles are ignored:
// the bridge's cancellation is racy by design and a stop may trail the
// browse's own completion.
func (z *ZeroconfBackend) stopBrowse(handle dnssd.BrowseHandle) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if cancel, ok := z.browses[handle]; ok {
		cancel()
		delete(z.browses, handle)
	}
	return nil
}

// resolve browses fullType until an entry for instanceName appears, then
// delivers the single completion. A timeout completes with an empty address.
func (z *ZeroconfBackend) resolve(instanceName, fullType string, callback dnssd.ResolveCallback, ctx any, sink dnssd.ResultSink) error {
	resolveCtx, cancel := context.WithTimeout(context.Background(), z.config.ResolveTimeout)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer cancel()
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					sink.HandleResolve(instanceName, fullType, "", "", 0, nil, callback, ctx)
					return
				}
				if entry.Instance != instanceName {
					continue
				}
				sink.HandleResolve(entry.Instance, fullType, entry.HostName, z.entryAddress(entry), entry.Port,
					TextRecordsFromStrings(entry.Text), callback, ctx)
				return

			case _, ok := <-removed:
				if !ok {
					removed = nil
				}

			case <-resolveCtx.Done():
				sink.HandleResolve(instanceName, fullType, "", "", 0, nil, callback, ctx)
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(resolveCtx, fullType, z.config.Domain, entries, removed, z.clientOptions()...)
	}()

	return nil
}

// entryAddress picks the address literal reported for a resolved entry:
// the first IPv4 address, else the first IPv6 address zone-qualified when it
// is link-local and an interface is configured. Empty when the entry carried
// no address, which the bridge reports as a failed resolution.
func (z *ZeroconfBackend) entryAddress(entry *zeroconf.ServiceEntry) string {
	if len(entry.AddrIPv4) > 0 {
		return entry.AddrIPv4[0].String()
	}
	if len(entry.AddrIPv6) > 0 {
		addr := entry.AddrIPv6[0]
		if addr.IsLinkLocalUnicast() && z.config.Interface != "" {
			return addr.String() + "%" + z.config.Interface
		}
		return addr.String()
	}
	return ""
}

// publish registers a service record. Re-publishing an instance+type replaces
// the previous registration.
func (z *ZeroconfBackend) publish(name, hostName, fullType string, port uint16, keys []string, values [][]byte, subTypes []string) error {
	_ = hostName // zeroconf advertises the local host

	txt := TextStrings(keys, values)

	// zeroconf takes subtypes appended to the service, comma-separated.
	service := fullType
	if len(subTypes) > 0 {
		service = fullType + "," + strings.Join(subTypes, ",")
	}

	server, err := zeroconf.Register(
		name,
		service,
		z.config.Domain,
		int(port),
		txt,
		z.getInterfaces(),
		z.serverOptions()...,
	)
	if err != nil {
		return fmt.Errorf("failed to register service %q: %w", name, err)
	}

	key := name + "." + fullType
	z.mu.Lock()
	if old, ok := z.servers[key]; ok {
		old.Shutdown()
	}
	z.servers[key] = server
	z.mu.Unlock()

	return nil
}

// removeServices withdraws every record published through this backend.
func (z *ZeroconfBackend) removeServices() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	for key, server := range z.servers {
		server.Shutdown()
		delete(z.servers, key)
	}
	return nil
}
