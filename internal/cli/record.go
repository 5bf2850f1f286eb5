package cli

import (
	"time"

	"github.com/Paintersrp/procwatch/internal/observe"
)

// eventRecord represents a process event ready for JSON encoding.
type eventRecord struct {
	Timestamp time.Time `json:"ts"`
	Type      string    `json:"type"`
	Line      string    `json:"line,omitempty"`
	Error     string    `json:"error,omitempty"`
	ExitCode  *int      `json:"exitCode,omitempty"`
	Signal    string    `json:"signal,omitempty"`
}

func newEventRecord(ev observe.Event) eventRecord {
	rec := eventRecord{
		Timestamp: ev.Timestamp,
		Type:      string(ev.Type),
		Line:      ev.Line,
	}
	if ev.Err != nil {
		rec.Error = ev.Err.Error()
	}
	if ev.Exit != nil {
		rec.ExitCode = ev.Exit.Code
		rec.Signal = ev.Exit.Signal
	}
	return rec
}
