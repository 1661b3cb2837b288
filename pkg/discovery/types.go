package discovery

import (
	"time"
)

// mDNS constants.
const (
	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultTTL is the DNS record TTL for published services.
	DefaultTTL = 120 * time.Second

	// DefaultResolveTimeout bounds how long a resolve browses for its
	// instance before completing empty.
	DefaultResolveTimeout = 10 * time.Second
)

// Config configures a ZeroconfBackend.
type Config struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// Domain is the mDNS domain. Empty means Domain ("local").
	Domain string

	// TTL is the DNS record TTL for published services.
	// Zero means DefaultTTL.
	TTL time.Duration

	// ResolveTimeout bounds a resolve's browse. Zero means
	// DefaultResolveTimeout.
	ResolveTimeout time.Duration
}

// DefaultConfig returns the default backend configuration.
func DefaultConfig() Config {
	return Config{
		Domain:         Domain,
		TTL:            DefaultTTL,
		ResolveTimeout: DefaultResolveTimeout,
	}
}

// withDefaults fills zero fields with the package defaults.
func (c Config) withDefaults() Config {
	if c.Domain == "" {
		c.Domain = Domain
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
	if c.ResolveTimeout == 0 {
		c.ResolveTimeout = DefaultResolveTimeout
	}
	return c
}
