package discovery

import (
	"strings"

	"github.com/nsdbridge/nsdbridge-go/pkg/dnssd"
)

// TextStrings converts parallel key/value lists into the "key=value" strings
// mDNS libraries publish. A nil value produces a bare key (attribute present
// without data); an empty non-nil value produces "key=".
func TextStrings(keys []string, values [][]byte) []string {
	result := make([]string, 0, len(keys))
	for i, key := range keys {
		if i < len(values) && values[i] != nil {
			result = append(result, key+"="+string(values[i]))
		} else {
			result = append(result, key)
		}
	}
	return result
}

// TextRecordsFromStrings parses "key=value" strings into an ordered record
// set in wire order. A bare key becomes the absent sentinel; "key=" becomes a
// present empty value.
func TextRecordsFromStrings(strs []string) *dnssd.OrderedTextRecords {
	records := dnssd.NewOrderedTextRecords()
	for _, s := range strs {
		if s == "" {
			continue
		}
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			records.Set(parts[0], []byte(parts[1]))
		} else {
			// Key without value (boolean attribute)
			records.Set(parts[0], nil)
		}
	}
	return records
}
