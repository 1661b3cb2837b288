// Package commands implements the dnssd-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/nsdbridge/nsdbridge-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Op         *log.Op
	Direction  *log.Direction
	ErrorsOnly bool
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp DIRECTION OPERATION
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s %-3s %s\n", ts, event.Direction.String(), event.Op.String())

	if event.ServiceType != "" {
		fmt.Fprintf(w, "  Type: %s\n", event.ServiceType)
	}
	if event.Instance != "" {
		fmt.Fprintf(w, "  Instance: %s\n", event.Instance)
	}
	if event.Session != 0 {
		fmt.Fprintf(w, "  Session: %d", event.Session)
		if event.Handle != 0 {
			fmt.Fprintf(w, "  Handle: %d", event.Handle)
		}
		fmt.Fprintln(w)
	} else if event.Handle != 0 {
		fmt.Fprintf(w, "  Handle: %d\n", event.Handle)
	}
	if event.Count != 0 {
		fmt.Fprintf(w, "  Count: %d\n", event.Count)
	}
	if event.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// ParseOpFlag parses an operation string from a command-line flag
// (case-insensitive).
func ParseOpFlag(s string) (log.Op, error) {
	return parseOp(s)
}

func parseOp(s string) (log.Op, error) {
	switch strings.ToLower(s) {
	case "init":
		return log.OpInit, nil
	case "browse":
		return log.OpBrowse, nil
	case "stop-browse":
		return log.OpStopBrowse, nil
	case "browse-result":
		return log.OpBrowseResult, nil
	case "resolve":
		return log.OpResolve, nil
	case "resolve-result":
		return log.OpResolveResult, nil
	case "publish":
		return log.OpPublish, nil
	case "remove-services":
		return log.OpRemoveServices, nil
	default:
		return 0, fmt.Errorf("invalid operation: %s", s)
	}
}

// ParseDirectionFlag parses a direction string from a command-line flag
// (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	return parseDirection(s)
}

func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, log.Filter{
		Op:         filter.Op,
		Direction:  filter.Direction,
		ErrorsOnly: filter.ErrorsOnly,
	})
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
