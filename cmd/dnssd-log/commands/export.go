package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nsdbridge/nsdbridge-go/pkg/log"
)

// exportEvent is the JSON shape of one exported trace event.
type exportEvent struct {
	Timestamp   string `json:"timestamp"`
	Op          string `json:"op"`
	Direction   string `json:"direction"`
	ServiceType string `json:"service_type,omitempty"`
	Instance    string `json:"instance,omitempty"`
	Session     uint64 `json:"session,omitempty"`
	Handle      uint64 `json:"handle,omitempty"`
	Count       int    `json:"count,omitempty"`
	Error       string `json:"error,omitempty"`
}

func toExportEvent(event log.Event) exportEvent {
	return exportEvent{
		Timestamp:   event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		Op:          event.Op.String(),
		Direction:   event.Direction.String(),
		ServiceType: event.ServiceType,
		Instance:    event.Instance,
		Session:     event.Session,
		Handle:      event.Handle,
		Count:       event.Count,
		Error:       event.Error,
	}
}

// RunExport exports the trace file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toExportEvent(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "op", "direction", "service_type", "instance", "session", "handle", "count", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.Op.String(),
			event.Direction.String(),
			event.ServiceType,
			event.Instance,
			strconv.FormatUint(event.Session, 10),
			strconv.FormatUint(event.Handle, 10),
			strconv.Itoa(event.Count),
			event.Error,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
