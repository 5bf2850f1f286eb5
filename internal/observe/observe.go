package observe

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/procwatch/internal/log"
	"github.com/Paintersrp/procwatch/internal/pstree"
	"github.com/Paintersrp/procwatch/internal/spawn"
)

// Options tune an observation session.
type Options struct {
	// KillTree terminates the process's discovered children as well when
	// the session is torn down before a natural exit.
	KillTree bool

	// GracePeriod overrides how long trailing output is accepted after the
	// terminal signal. Zero means the default of 100ms.
	GracePeriod time.Duration

	// Buffer is the event channel capacity. Zero means a sensible default.
	Buffer int

	// Logger overrides the session logger.
	Logger *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.GracePeriod <= 0 {
		o.GracePeriod = defaultGracePeriod
	}
	if o.Buffer <= 0 {
		o.Buffer = defaultBuffer
	}
	return o
}

func (o Options) logger() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	return log.WithComponent("observe")
}

// Observe spawns a process via start and returns its merged event stream:
// stdout and stderr lines in arrival order, closed by exactly one terminal
// event (error or exit). The stream is cold: every call invokes start anew,
// synchronously, and binds exit detection before returning, so no lifecycle
// event can be lost to a startup race. Cancelling ctx before the terminal
// event tears the session down and kills the process (the whole tree when
// Options.KillTree is set).
func Observe(ctx context.Context, start spawn.Starter, opts Options) <-chan Event {
	opts = opts.withDefaults()
	out := make(chan Event, opts.Buffer)

	h, err := start()
	if err != nil {
		out <- errorEvent(err)
		close(out)
		return out
	}

	w := watchLifecycle(h)
	m := newMux(h, w, out, opts)
	m.start(ctx)
	return out
}

// ExitResult is the terminal-only view of a process: either the exit status
// or the error that ended the session.
type ExitResult struct {
	Status *spawn.ExitStatus
	Err    error
}

// ObserveExit spawns a process via start and delivers at most one ExitResult,
// then closes the channel. Output is consumed and discarded. Cancelling ctx
// before the terminal event kills the process and closes the channel without
// a result.
func ObserveExit(ctx context.Context, start spawn.Starter, opts Options) <-chan ExitResult {
	opts = opts.withDefaults()
	out := make(chan ExitResult, 1)

	h, err := start()
	if err != nil {
		out <- ExitResult{Err: err}
		close(out)
		return out
	}

	w := watchLifecycle(h)
	go discard(h.Stdout())
	go discard(h.Stderr())

	go func() {
		defer close(out)
		defer w.Close()
		defer closeStreams(h)

		select {
		case ev := <-w.terminal:
			switch ev.Type {
			case EventTypeExit:
				out <- ExitResult{Status: ev.Exit}
			case EventTypeError:
				out <- ExitResult{Err: ev.Err}
			}
		case <-ctx.Done():
			if h.State() == spawn.StateRunning {
				pstree.Kill(h, opts.KillTree)
			}
		}
	}()
	return out
}

func discard(r io.ReadCloser) {
	if r == nil {
		return
	}
	_, _ = io.Copy(io.Discard, r)
}

func closeStreams(h spawn.Handle) {
	if r := h.Stdout(); r != nil {
		_ = r.Close()
	}
	if r := h.Stderr(); r != nil {
		_ = r.Close()
	}
}
