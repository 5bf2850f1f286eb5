package observe

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/procwatch/internal/metrics"
	"github.com/Paintersrp/procwatch/internal/pstree"
	"github.com/Paintersrp/procwatch/internal/spawn"
)

const (
	// defaultGracePeriod is how long output already in flight at the OS
	// level is still accepted after the terminal signal.
	defaultGracePeriod = 100 * time.Millisecond

	defaultBuffer = 64
	maxLineSize   = 1024 * 1024
)

// mux merges stdout lines, stderr lines and the lifecycle terminal event into
// one ordered event sequence.
type mux struct {
	handle  spawn.Handle
	watcher *lifecycleWatcher
	out     chan Event
	lines   chan Event

	grace    time.Duration
	killTree bool
	logger   zerolog.Logger

	detached   chan struct{}
	detachOnce sync.Once
	scanners   sync.WaitGroup
}

func newMux(h spawn.Handle, w *lifecycleWatcher, out chan Event, opts Options) *mux {
	return &mux{
		handle:   h,
		watcher:  w,
		out:      out,
		lines:    make(chan Event, opts.Buffer),
		grace:    opts.GracePeriod,
		killTree: opts.KillTree,
		logger:   opts.logger(),
		detached: make(chan struct{}),
	}
}

func (m *mux) start(ctx context.Context) {
	if r := m.handle.Stdout(); r != nil {
		m.scanners.Add(1)
		go m.scanLines(r, EventTypeStdout)
	}
	if r := m.handle.Stderr(); r != nil {
		m.scanners.Add(1)
		go m.scanLines(r, EventTypeStderr)
	}
	go m.run(ctx)
}

// scanLines adapts a raw byte stream into complete text lines. The trailing
// partial line, if any, is flushed when the stream ends. Read errors are
// side-channel diagnostics and never terminate the event sequence.
func (m *mux) scanLines(r io.ReadCloser, t EventType) {
	defer m.scanners.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		select {
		case m.lines <- lineEvent(t, scanner.Text()):
		case <-m.detached:
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		m.logger.Warn().Err(err).Int("pid", m.handle.Pid()).Str("stream", string(t)).Msg("output stream error")
	}
}

func (m *mux) run(ctx context.Context) {
	defer close(m.out)
	defer m.detach()
	defer m.watcher.Close()

	for {
		select {
		case ev := <-m.lines:
			if !m.emit(ctx, ev) {
				m.killIfRunning()
				return
			}
		case term := <-m.watcher.terminal:
			m.drain(ctx, term)
			return
		case <-ctx.Done():
			m.killIfRunning()
			return
		}
	}
}

// drain keeps forwarding output for the grace period after the terminal
// signal, then emits the terminal event as the last event of the sequence.
func (m *mux) drain(ctx context.Context, term Event) {
	timer := time.NewTimer(m.grace)
	defer timer.Stop()

	for {
		select {
		case ev := <-m.lines:
			if !m.emit(ctx, ev) {
				return
			}
		case <-timer.C:
			m.flushLines(ctx)
			m.emit(ctx, term)
			return
		case <-ctx.Done():
			return
		}
	}
}

// flushLines forwards output already sitting in the line channel. Lines that
// arrived before the cutoff must not lose a select race against the expired
// timer.
func (m *mux) flushLines(ctx context.Context) {
	for {
		select {
		case ev := <-m.lines:
			if !m.emit(ctx, ev) {
				return
			}
		default:
			return
		}
	}
}

func (m *mux) emit(ctx context.Context, ev Event) bool {
	select {
	case m.out <- ev:
		metrics.IncrementEvents(string(ev.Type))
		return true
	case <-ctx.Done():
		return false
	}
}

// killIfRunning is the teardown side effect: a subscription torn down before
// the terminal event must not leave the process behind.
func (m *mux) killIfRunning() {
	if m.handle.State() == spawn.StateRunning {
		pstree.Kill(m.handle, m.killTree)
	}
}

// detach releases the byte-stream listeners. Closing the read ends unblocks
// scanners that are mid-read, including ones held open by lingering
// descendants of an exited process.
func (m *mux) detach() {
	m.detachOnce.Do(func() {
		close(m.detached)
		if r := m.handle.Stdout(); r != nil {
			_ = r.Close()
		}
		if r := m.handle.Stderr(); r != nil {
			_ = r.Close()
		}
		m.scanners.Wait()
	})
}
