// Package discovery implements a DNS-SD discovery backend using zeroconf.
//
// ZeroconfBackend provides the entry points the dnssd bridge binds to
// (browse, stopBrowse, resolve, publish, removeServices) and delivers
// results back on its own goroutines through the bridge's ResultSink.
// It is the reference backend for this repository; the bridge itself never
// constructs one — callers inject it:
//
//	backend := discovery.NewZeroconfBackend(discovery.DefaultConfig())
//	bridge := dnssd.New(dnssd.Config{})
//	bridge.Bind(backend.Capability())
//
// # Browse queries
//
// The bridge hands browse a query in its subtype-filter grammar,
// "<subtype>,<base>._tcp|._udp" or a plain "<base>._tcp|._udp". The backend
// converts the subtype form to the DNS-SD subtype browse name
// "<subtype>._sub.<base>._tcp" and reports results under the plain dotted
// wire type, which is what the bridge's codec decodes.
//
// # Resolution
//
// Resolve browses the instance's service type and completes on the first
// entry whose instance name matches, or with an empty address after the
// configured timeout — the bridge maps that to its unknown-resource error.
// Exactly one delivery happens per resolve call.
package discovery
