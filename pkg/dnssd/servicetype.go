package dnssd

import (
	"fmt"
	"strings"
)

// Wire-form fragments of a DNS-SD service type.
const (
	suffixTCP = "._tcp"
	suffixUDP = "._udp"

	// subTypeMarker separates a base type from its subtype in the caller's
	// composite type form, e.g. "_matter._sub._L1234".
	subTypeMarker = "._sub."
)

// FullType returns the dotted wire form of a service type:
// "<base>._tcp" or "<base>._udp". Any protocol other than UDP encodes as TCP,
// matching the platform layers this bridge fronts.
func FullType(baseType string, proto Protocol) string {
	if proto == ProtocolUDP {
		return baseType + suffixUDP
	}
	return baseType + suffixTCP
}

// FullTypeWithSubTypes builds the backend's browse query for a service type.
//
// A composite type "<base>._sub.<subtype>" is reordered into the backend's
// subtype-filter query grammar "<subtype>,<base>._tcp|._udp". A type without
// the subtype marker encodes exactly like FullType.
func FullTypeWithSubTypes(baseType string, proto Protocol) string {
	pos := strings.Index(baseType, subTypeMarker)
	if pos < 0 {
		return FullType(baseType, proto)
	}
	subType := baseType[pos+len(subTypeMarker):]
	return subType + "," + FullType(baseType[:pos], proto)
}

// SplitProtocol decodes a dotted wire type into its base type and protocol.
//
// The string is split at the last '.'; the suffix must be exactly "._tcp" or
// "._udp" and the base type must fit MaxBaseTypeLen. Anything else fails with
// ErrInvalidArgument.
func SplitProtocol(fullType string) (string, Protocol, error) {
	idx := strings.LastIndex(fullType, ".")
	if idx < 0 {
		return "", ProtocolUnknown, fmt.Errorf("%w: service type %q has no protocol suffix", ErrInvalidArgument, fullType)
	}

	base := fullType[:idx]
	if base == "" {
		return "", ProtocolUnknown, fmt.Errorf("%w: service type %q has an empty base", ErrInvalidArgument, fullType)
	}
	if len(base) > MaxBaseTypeLen {
		return "", ProtocolUnknown, fmt.Errorf("%w: service type %q exceeds %d bytes", ErrInvalidArgument, base, MaxBaseTypeLen)
	}

	switch fullType[idx:] {
	case suffixTCP:
		return base, ProtocolTCP, nil
	case suffixUDP:
		return base, ProtocolUDP, nil
	default:
		return "", ProtocolUnknown, fmt.Errorf("%w: service type %q is neither TCP nor UDP", ErrInvalidArgument, fullType)
	}
}
