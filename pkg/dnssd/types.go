package dnssd

import (
	"errors"
	"net/netip"
)

// Protocol identifies the transport protocol part of a DNS-SD service type.
type Protocol uint8

const (
	// ProtocolUnknown is the zero value; it never round-trips through the codec.
	ProtocolUnknown Protocol = iota

	// ProtocolTCP corresponds to the "._tcp" wire suffix.
	ProtocolTCP

	// ProtocolUDP corresponds to the "._udp" wire suffix.
	ProtocolUDP
)

// String returns the protocol name.
func (p Protocol) String() string {
	switch p {
	case ProtocolTCP:
		return "TCP"
	case ProtocolUDP:
		return "UDP"
	default:
		return "UNKNOWN"
	}
}

// AddressFamily selects which address families a browse should cover.
type AddressFamily uint8

const (
	// AddressFamilyAny browses all address families.
	AddressFamilyAny AddressFamily = iota

	// AddressFamilyIPv4 restricts browsing to IPv4.
	AddressFamilyIPv4

	// AddressFamilyIPv6 restricts browsing to IPv6.
	AddressFamilyIPv6
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit for instance names.
	MaxInstanceNameLen = 63

	// MaxBaseTypeLen bounds the base type decoded by SplitProtocol.
	MaxBaseTypeLen = 63

	// MaxFullTypeLen bounds the dotted wire form accepted from the backend.
	MaxFullTypeLen = MaxBaseTypeLen + len(suffixTCP)
)

// Bridge errors. Operations wrap these with context; match with errors.Is.
var (
	// ErrInvalidArgument reports malformed or oversized inputs: nil callbacks,
	// unparseable wire types, bad ports or address literals.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIncorrectState reports that a required backend entry point is not bound.
	ErrIncorrectState = errors.New("incorrect state")

	// ErrNoMemory reports an allocation failure. Kept for API parity with the
	// platform layers this bridge fronts; Go heap exhaustion is not recoverable,
	// so the bridge itself never produces it.
	ErrNoMemory = errors.New("out of memory")

	// ErrBackendFault reports an error or panic that crossed the backend call
	// boundary.
	ErrBackendFault = errors.New("backend fault")

	// ErrUnsupported reports an operation the bridge does not implement.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrUnknownResourceID reports a resolve completion that carried no
	// address or port.
	ErrUnknownResourceID = errors.New("unknown resource id")
)

// TextEntry is one TXT attribute of a service instance.
//
// A nil Value is the explicit "absent" sentinel: the key exists with no data.
// This is distinct from a present empty value, which is non-nil and zero
// length. Entries handed to a resolve callback are owned by the bridge and
// released when the callback returns; callbacks must copy anything they keep.
type TextEntry struct {
	Key   string
	Value []byte
}

// Service describes one DNS-SD service instance crossing the bridge in
// either direction.
type Service struct {
	// Name is the service instance name, at most MaxInstanceNameLen bytes.
	Name string

	// HostName is the advertised host, e.g. "evse-001.local.".
	HostName string

	// Type is the base service type with the protocol suffix stripped,
	// e.g. "_matter".
	Type string

	// Protocol is the transport protocol encoded in the wire type.
	Protocol Protocol

	// Port is the service port.
	Port uint16

	// Interface identifies the interface the service was resolved on. It is
	// the zone of a scoped address literal ("fe80::1%eth0" -> "eth0") and
	// empty when the address carried no zone.
	Interface string

	// Text holds the TXT attributes in backend-reported order.
	Text []TextEntry

	// SubTypes lists service subtypes for publication.
	SubTypes []string
}

// ReadyCallback reports the outcome of an asynchronous setup step.
type ReadyCallback func(ctx any, err error)

// BrowseCallback receives one batch of browse results. Every delivered batch
// is terminal (finalBatch is always true); there is no incremental
// "more coming" signal. The services slice is only valid for the duration of
// the invocation.
type BrowseCallback func(ctx any, services []Service, finalBatch bool, err error)

// ResolveCallback receives the single completion of a resolve. On success the
// service and exactly one address are set; on failure both are nil. The
// service's Text entries are released when the callback returns.
type ResolveCallback func(ctx any, service *Service, addrs []netip.Addr, err error)

// PublishCallback mirrors the platform publish-completion signature. The
// backend publish call is synchronous here, so the bridge reports the outcome
// through the PublishService return value and never invokes this callback.
type PublishCallback func(ctx any, instanceName string, err error)
