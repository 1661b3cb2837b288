package dnssd

// Backend is the discovery backend capability. Each field is one entry point,
// resolved once by whoever constructs the backend and checked for presence at
// Bind time rather than per call. A nil field marks an operation the backend
// does not provide; bridge operations needing it fail with ErrIncorrectState.
//
// Entry points may block for an unbounded time. The bridge never invokes them
// while holding its lock, and backends must never call a ResultSink entry
// point synchronously from inside one of these functions while expecting the
// caller's callback to have run.
type Backend struct {
	// Browse starts browsing for fullType, which uses the subtype-filter
	// query grammar produced by FullTypeWithSubTypes. Deliveries for this
	// browse carry the given handle back to sink.HandleBrowse.
	Browse func(fullType string, handle BrowseHandle, ctx any, sink ResultSink) error

	// StopBrowse cancels the browse identified by handle.
	StopBrowse func(handle BrowseHandle) error

	// Resolve looks up one service instance. Exactly one later delivery to
	// sink.HandleResolve is expected, carrying callback and ctx back
	// unchanged.
	Resolve func(instanceName, fullType string, callback ResolveCallback, ctx any, sink ResultSink) error

	// Publish registers a service record. keys, values and subTypes are
	// parallel, fully marshalled by the bridge; a nil value is a key without
	// data.
	Publish func(name, hostName, fullType string, port uint16, keys []string, values [][]byte, subTypes []string) error

	// RemoveServices withdraws every record previously published through
	// Publish. There is no per-record granularity.
	RemoveServices func() error
}

// ResultSink is the interface the backend delivers results on. The Bridge
// implements it; deliveries arrive on backend-owned goroutines.
type ResultSink interface {
	// HandleBrowse delivers one batch of instance names sharing a single
	// dotted wire type for the browse identified by handle.
	HandleBrowse(instanceNames []string, fullType string, handle BrowseHandle, ctx any)

	// HandleResolve delivers the single completion of a resolve. An empty
	// address or zero port marks a failed resolution. text may be nil when
	// the instance carried no TXT record.
	HandleResolve(instanceName, fullType, hostName, address string, port int, text TextRecordSource, callback ResolveCallback, ctx any)
}

// TextRecordSource exposes the TXT attributes of a resolved instance.
// It stands between the bridge and whatever map representation the backend
// holds, so the bridge can copy entries out in backend-reported order.
type TextRecordSource interface {
	// Keys returns the attribute keys in backend-reported order.
	Keys() []string

	// Data returns the value for key. ok is false when the key is present
	// without data, which is distinct from an empty value.
	Data(key string) (data []byte, ok bool)
}

// OrderedTextRecords is the provided TextRecordSource implementation:
// insertion-ordered keys over a value map.
type OrderedTextRecords struct {
	keys   []string
	values map[string][]byte
}

// NewOrderedTextRecords returns an empty record set.
func NewOrderedTextRecords() *OrderedTextRecords {
	return &OrderedTextRecords{values: make(map[string][]byte)}
}

// Set appends key with the given value. A nil value records the key as
// present without data. Setting an existing key overwrites its value without
// changing its position.
func (r *OrderedTextRecords) Set(key string, value []byte) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Keys returns the keys in insertion order.
func (r *OrderedTextRecords) Keys() []string {
	return r.keys
}

// Data returns the value for key; ok is false for keys set without data.
func (r *OrderedTextRecords) Data(key string) ([]byte, bool) {
	value, exists := r.values[key]
	if !exists || value == nil {
		return nil, false
	}
	return value, true
}

// Compile-time interface satisfaction check.
var _ TextRecordSource = (*OrderedTextRecords)(nil)
