package dnssd

import (
	"errors"
	"strings"
	"testing"
)

func TestFullType(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		proto Protocol
		want  string
	}{
		{"TCP", "_matter", ProtocolTCP, "_matter._tcp"},
		{"UDP", "_matterc", ProtocolUDP, "_matterc._udp"},
		{"UnknownEncodesAsTCP", "_http", ProtocolUnknown, "_http._tcp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FullType(tt.base, tt.proto); got != tt.want {
				t.Errorf("FullType(%q, %v) = %q, want %q", tt.base, tt.proto, got, tt.want)
			}
		})
	}
}

func TestFullTypeWithSubTypes(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		proto Protocol
		want  string
	}{
		{"NoSubtype", "_matter", ProtocolTCP, "_matter._tcp"},
		{"SubtypeTCP", "_matter._sub._L1234", ProtocolTCP, "_L1234,_matter._tcp"},
		{"SubtypeUDP", "_matterc._sub._S5", ProtocolUDP, "_S5,_matterc._udp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FullTypeWithSubTypes(tt.base, tt.proto); got != tt.want {
				t.Errorf("FullTypeWithSubTypes(%q, %v) = %q, want %q", tt.base, tt.proto, got, tt.want)
			}
		})
	}
}

func TestSplitProtocol(t *testing.T) {
	tests := []struct {
		name      string
		fullType  string
		wantBase  string
		wantProto Protocol
		wantErr   bool
	}{
		{"TCP", "_matter._tcp", "_matter", ProtocolTCP, false},
		{"UDP", "_matterc._udp", "_matterc", ProtocolUDP, false},
		{"NoSuffix", "_matter", "", ProtocolUnknown, true},
		{"WrongSuffix", "_matter._xyz", "", ProtocolUnknown, true},
		{"SuffixOnly", "._tcp", "", ProtocolUnknown, true},
		{"BaseAtLimit", strings.Repeat("a", MaxBaseTypeLen) + "._tcp", strings.Repeat("a", MaxBaseTypeLen), ProtocolTCP, false},
		{"BaseOverLimit", strings.Repeat("a", MaxBaseTypeLen+1) + "._tcp", "", ProtocolUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, proto, err := SplitProtocol(tt.fullType)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SplitProtocol(%q) succeeded, want error", tt.fullType)
				}
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("SplitProtocol(%q) error = %v, want ErrInvalidArgument", tt.fullType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitProtocol(%q) failed: %v", tt.fullType, err)
			}
			if base != tt.wantBase || proto != tt.wantProto {
				t.Errorf("SplitProtocol(%q) = (%q, %v), want (%q, %v)",
					tt.fullType, base, proto, tt.wantBase, tt.wantProto)
			}
		})
	}
}

func TestServiceTypeRoundTrip(t *testing.T) {
	for _, proto := range []Protocol{ProtocolTCP, ProtocolUDP} {
		full := FullType("_matter", proto)
		base, got, err := SplitProtocol(full)
		if err != nil {
			t.Fatalf("SplitProtocol(%q) failed: %v", full, err)
		}
		if base != "_matter" || got != proto {
			t.Errorf("round trip through %q = (%q, %v), want (_matter, %v)", full, base, got, proto)
		}
	}
}
