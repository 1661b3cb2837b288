package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// captureLogger records events for assertions.
type captureLogger struct {
	events []Event
}

func (c *captureLogger) Log(event Event) {
	c.events = append(c.events, event)
}

func TestNoopLoggerDiscards(t *testing.T) {
	// Must not panic; nothing observable to assert.
	NoopLogger{}.Log(Event{Timestamp: time.Now(), Op: OpInit})
}

func TestMultiLoggerFansOut(t *testing.T) {
	a := &captureLogger{}
	b := &captureLogger{}
	multi := NewMultiLogger(a, b, NoopLogger{})

	multi.Log(Event{Op: OpBrowse, Session: 3})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("fan-out reached %d/%d loggers, want 1/1", len(a.events), len(b.events))
	}
	if a.events[0].Session != 3 {
		t.Errorf("event corrupted in fan-out: %+v", a.events[0])
	}
}

func TestSlogAdapterEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewSlogAdapter(logger)

	adapter.Log(Event{
		Op:          OpResolveResult,
		Direction:   DirectionIn,
		ServiceType: "_matter._tcp",
		Instance:    "evse-001",
		Error:       "unknown resource id",
	})

	out := buf.String()
	for _, want := range []string{"RESOLVE_RESULT", "IN", "_matter._tcp", "evse-001", "unknown resource id"} {
		if !strings.Contains(out, want) {
			t.Errorf("slog output missing %q: %s", want, out)
		}
	}
}

func TestSlogAdapterOmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewSlogAdapter(logger)

	adapter.Log(Event{Op: OpInit, Direction: DirectionOut})

	out := buf.String()
	for _, unwanted := range []string{"service_type", "instance", "session", "handle", "err"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("slog output carries empty field %q: %s", unwanted, out)
		}
	}
}
