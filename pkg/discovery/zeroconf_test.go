package discovery

import (
	"testing"
	"time"
)

func TestQueryToServiceName(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantService string
		wantWire    string
	}{
		{"Plain", "_matter._tcp", "_matter._tcp", "_matter._tcp"},
		{"Subtype", "_L1234,_matter._tcp", "_L1234._sub._matter._tcp", "_matter._tcp"},
		{"SubtypeUDP", "_CM,_matterc._udp", "_CM._sub._matterc._udp", "_matterc._udp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, wire := queryToServiceName(tt.query)
			if service != tt.wantService || wire != tt.wantWire {
				t.Errorf("queryToServiceName(%q) = (%q, %q), want (%q, %q)",
					tt.query, service, wire, tt.wantService, tt.wantWire)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	if c.Domain != Domain {
		t.Errorf("Domain = %q, want %q", c.Domain, Domain)
	}
	if c.TTL != DefaultTTL {
		t.Errorf("TTL = %v, want %v", c.TTL, DefaultTTL)
	}
	if c.ResolveTimeout != DefaultResolveTimeout {
		t.Errorf("ResolveTimeout = %v, want %v", c.ResolveTimeout, DefaultResolveTimeout)
	}
}

func TestConfigWithDefaultsKeepsExplicitValues(t *testing.T) {
	c := Config{
		Interface:      "eth0",
		Domain:         "example",
		TTL:            30 * time.Second,
		ResolveTimeout: time.Second,
	}.withDefaults()

	if c.Interface != "eth0" || c.Domain != "example" || c.TTL != 30*time.Second || c.ResolveTimeout != time.Second {
		t.Errorf("withDefaults overwrote explicit values: %+v", c)
	}
}

func TestNewZeroconfBackendCapability(t *testing.T) {
	backend := NewZeroconfBackend(DefaultConfig())
	defer backend.Close()

	capability := backend.Capability()
	if capability.Browse == nil || capability.StopBrowse == nil || capability.Resolve == nil ||
		capability.Publish == nil || capability.RemoveServices == nil {
		t.Error("capability must provide every entry point")
	}
}

func TestStopBrowseUnknownHandleIgnored(t *testing.T) {
	backend := NewZeroconfBackend(DefaultConfig())
	defer backend.Close()

	// A stop trailing the browse's own end is not an error.
	if err := backend.stopBrowse(99); err != nil {
		t.Errorf("stopBrowse(unknown) = %v, want nil", err)
	}
}
