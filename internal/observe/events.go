// Package observe turns spawned processes into ordered, cancellable event
// streams.
package observe

import (
	"time"

	"github.com/Paintersrp/procwatch/internal/spawn"
)

// EventType identifies the variant carried by an Event.
type EventType string

const (
	EventTypeStdout EventType = "stdout"
	EventTypeStderr EventType = "stderr"
	EventTypeError  EventType = "error"
	EventTypeExit   EventType = "exit"
)

// Event is a single notification observed on a process instance. Exactly one
// of Line, Err and Exit is meaningful, depending on Type. A stream carries at
// most one terminal event and nothing after it.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Line      string
	Err       error
	Exit      *spawn.ExitStatus
}

// Terminal reports whether the event ends the stream.
func (e Event) Terminal() bool {
	return e.Type == EventTypeError || e.Type == EventTypeExit
}

func lineEvent(t EventType, line string) Event {
	return Event{Timestamp: time.Now(), Type: t, Line: line}
}

func errorEvent(err error) Event {
	return Event{Timestamp: time.Now(), Type: EventTypeError, Err: err}
}

func exitEvent(status spawn.ExitStatus) Event {
	return Event{Timestamp: time.Now(), Type: EventTypeExit, Exit: &status}
}
