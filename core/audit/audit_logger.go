package audit

import (
	"fmt"
	"time"
)

// Event represents an operational event worth an audit log line, such as a
// capture, a verification run or a bundle export.
type Event struct {
	Timestamp time.Time
	EventType string // e.g., "EvidenceCapture", "ChainVerification"
	EntityID  string // e.g., evidence ID or tenant ID
	Result    string // e.g., "success", "failure"
	Reason    string // error message or reason code
	Metadata  map[string]string
}

// Logger is the interface for logging operational audit events.
type Logger interface {
	LogEvent(event Event)
}

// StdoutLogger is a simple implementation that logs to stdout.
type StdoutLogger struct{}

func (l *StdoutLogger) LogEvent(event Event) {
	fmt.Printf("[%s] [%s] Entity: %s, Result: %s, Reason: %s, Metadata: %+v\n",
		event.Timestamp.Format(time.RFC3339), event.EventType, event.EntityID, event.Result, event.Reason, event.Metadata)
}

// NewStdoutLogger returns a new StdoutLogger.
func NewStdoutLogger() Logger {
	return &StdoutLogger{}
}

// NopLogger discards all events.
type NopLogger struct{}

func (l *NopLogger) LogEvent(event Event) {}

// NewNopLogger returns a logger that discards everything, for tests.
func NewNopLogger() Logger {
	return &NopLogger{}
}
