package spawn

import (
	"fmt"
	"io"
	"strings"
)

// State describes the lifecycle of a Handle. A handle transitions away from
// StateRunning exactly once.
type State int32

const (
	// StateRunning means the process has been started and no terminal
	// condition has been observed yet.
	StateRunning State = iota
	// StateKilled means termination was requested through the handle
	// before a natural exit was observed.
	StateKilled
	// StateExited means the process exited on its own.
	StateExited
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateKilled:
		return "killed"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ExitStatus captures how a process finished. At least one of Code and Signal
// is set.
type ExitStatus struct {
	Code   *int
	Signal string
}

func (e ExitStatus) String() string {
	bits := make([]string, 0, 2)
	if e.Code != nil {
		bits = append(bits, fmt.Sprintf("code=%d", *e.Code))
	}
	if e.Signal != "" {
		bits = append(bits, "signal="+e.Signal)
	}
	if len(bits) == 0 {
		return "unknown"
	}
	return strings.Join(bits, " ")
}

// Handle is an opaque reference to one running OS process instance. A handle
// is owned by the observation session that created it; other code paths only
// coordinate through MarkKilled.
type Handle interface {
	// Pid returns the OS process id.
	Pid() int

	// Stdin, Stdout and Stderr expose the byte-stream endpoints. Each may
	// be nil when the endpoint is absent.
	Stdin() io.WriteCloser
	Stdout() io.ReadCloser
	Stderr() io.ReadCloser

	// Exits delivers exit notifications. A notification carrying only a
	// non-fatal interrupt signal does not mean the process terminated;
	// consumers decide how to treat it.
	Exits() <-chan ExitStatus

	// Fails delivers runtime failures that are not process exits.
	Fails() <-chan error

	// State reports the current lifecycle state.
	State() State

	// MarkKilled records kill intent on the handle. It returns true for
	// the first caller only; every later call is a no-op.
	MarkKilled() bool

	// Terminate sends the default termination signal to the process.
	Terminate() error
}

// Starter launches a process and returns its handle. Implementations must
// create the OS process synchronously before returning, so that lifecycle
// detection can be bound before any event can fire.
type Starter func() (Handle, error)

// Error describes a process creation that failed at the OS level. It carries
// the triggering command so higher layers can surface it to users.
type Error struct {
	Command string
	Args    []string
	Dir     string
	Err     error
}

func (e *Error) Error() string {
	cmdline := e.Command
	if len(e.Args) > 0 {
		cmdline += " " + strings.Join(e.Args, " ")
	}
	if e.Dir != "" {
		return fmt.Sprintf("spawn %q in %s: %v", cmdline, e.Dir, e.Err)
	}
	return fmt.Sprintf("spawn %q: %v", cmdline, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
