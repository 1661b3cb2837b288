package log

import (
	"time"
)

// Event records one discovery operation or result delivery.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Op identifies the operation.
	Op Op `cbor:"2,keyasint"`

	// Direction indicates which way the event crossed the backend boundary.
	Direction Direction `cbor:"3,keyasint"`

	// ServiceType is the dotted wire type or browse query involved.
	ServiceType string `cbor:"4,keyasint,omitempty"`

	// Instance is the service instance name, where one is involved.
	Instance string `cbor:"5,keyasint,omitempty"`

	// Session is the browse session identifier, for browse lifecycle events.
	Session uint64 `cbor:"6,keyasint,omitempty"`

	// Handle is the backend correlation handle, for browse events.
	Handle uint64 `cbor:"7,keyasint,omitempty"`

	// Count is the batch size of a browse delivery or the TXT entry count
	// of a publish.
	Count int `cbor:"8,keyasint,omitempty"`

	// Error is the failure reported for the operation, empty on success.
	Error string `cbor:"9,keyasint,omitempty"`
}

// Op identifies a bridge operation or delivery.
type Op uint8

const (
	// OpInit is the synchronous initialization handshake.
	OpInit Op = 0
	// OpBrowse is a browse start crossing into the backend.
	OpBrowse Op = 1
	// OpStopBrowse is a browse cancellation crossing into the backend.
	OpStopBrowse Op = 2
	// OpBrowseResult is a browse batch delivered by the backend.
	OpBrowseResult Op = 3
	// OpResolve is a resolve crossing into the backend.
	OpResolve Op = 4
	// OpResolveResult is a resolve completion delivered by the backend.
	OpResolveResult Op = 5
	// OpPublish is a service publication crossing into the backend.
	OpPublish Op = 6
	// OpRemoveServices is a publication withdrawal crossing into the backend.
	OpRemoveServices Op = 7
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpInit:
		return "INIT"
	case OpBrowse:
		return "BROWSE"
	case OpStopBrowse:
		return "STOP_BROWSE"
	case OpBrowseResult:
		return "BROWSE_RESULT"
	case OpResolve:
		return "RESOLVE"
	case OpResolveResult:
		return "RESOLVE_RESULT"
	case OpPublish:
		return "PUBLISH"
	case OpRemoveServices:
		return "REMOVE_SERVICES"
	default:
		return "UNKNOWN"
	}
}

// Direction indicates which way an event crossed the backend boundary.
type Direction uint8

const (
	// DirectionIn indicates a result delivered by the backend.
	DirectionIn Direction = 0
	// DirectionOut indicates a call into the backend.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}
