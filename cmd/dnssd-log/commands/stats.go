package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/nsdbridge/nsdbridge-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents       int
	EventsByOp        map[log.Op]int
	EventsByDirection map[log.Direction]int
	Sessions          map[uint64]*SessionStats
	ServiceTypes      map[string]int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single browse session.
type SessionStats struct {
	FirstSeen   time.Time
	LastSeen    time.Time
	Events      int
	ServiceType string
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByOp:        make(map[log.Op]int),
		EventsByDirection: make(map[log.Direction]int),
		Sessions:          make(map[uint64]*SessionStats),
		ServiceTypes:      make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByOp[event.Op]++
		stats.EventsByDirection[event.Direction]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.ServiceType != "" {
			stats.ServiceTypes[event.ServiceType]++
		}

		// Track per-session stats
		if event.Session != 0 {
			sess, ok := stats.Sessions[event.Session]
			if !ok {
				sess = &SessionStats{
					FirstSeen: event.Timestamp,
					LastSeen:  event.Timestamp,
				}
				stats.Sessions[event.Session] = sess
			}
			sess.Events++
			if event.Timestamp.After(sess.LastSeen) {
				sess.LastSeen = event.Timestamp
			}
			if event.ServiceType != "" && sess.ServiceType == "" {
				sess.ServiceType = event.ServiceType
			}
		}

		if event.Error != "" {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== DNS-SD Trace Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by operation
	fmt.Fprintln(w, "Events by Operation:")
	ops := []log.Op{
		log.OpInit, log.OpBrowse, log.OpStopBrowse, log.OpBrowseResult,
		log.OpResolve, log.OpResolveResult, log.OpPublish, log.OpRemoveServices,
	}
	for _, op := range ops {
		if count := stats.EventsByOp[op]; count > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", op.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by direction
	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Service types
	if len(stats.ServiceTypes) > 0 {
		fmt.Fprintln(w, "Service Types:")
		types := make([]string, 0, len(stats.ServiceTypes))
		for t := range stats.ServiceTypes {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(w, "  %-24s %d\n", t+":", stats.ServiceTypes[t])
		}
		fmt.Fprintln(w)
	}

	// Browse sessions
	fmt.Fprintf(w, "Browse Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		ids := make([]uint64, 0, len(stats.Sessions))
		for id := range stats.Sessions {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		fmt.Fprintln(w)
		for _, id := range ids {
			sess := stats.Sessions[id]
			duration := sess.LastSeen.Sub(sess.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%d] %d events, duration %s\n", id, sess.Events, duration)
			if sess.ServiceType != "" {
				fmt.Fprintf(w, "       Type: %s\n", sess.ServiceType)
			}
		}
	}

	// Errors
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
