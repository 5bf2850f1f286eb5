package observe

import (
	"fmt"
	"sync"

	"github.com/Paintersrp/procwatch/internal/spawn"
)

// interruptSignal names the advisory notification a runtime may deliver for a
// user interrupt the process survived. A notification carrying it is only
// skipped while the process is still running; a real SIGINT death is terminal.
const interruptSignal = "SIGINT"

// lifecycleWatcher listens for a handle's exit and failure notifications and
// captures the first real terminal event in a 1-buffered channel, so the
// event is retained even while output is still being consumed.
type lifecycleWatcher struct {
	handle   spawn.Handle
	terminal chan Event

	stop     chan struct{}
	stopOnce sync.Once
}

// watchLifecycle binds terminal-event detection to a handle. An exited handle
// is fine: its exit notification is retained in the handle's buffered channel
// until consumed, so a process that finished before the watcher attached loses
// nothing. A handle already carrying kill intent is an integration bug (an
// earlier teardown owned it and may have consumed the notification), so that
// fails loudly instead of waiting forever.
func watchLifecycle(h spawn.Handle) *lifecycleWatcher {
	if st := h.State(); st == spawn.StateKilled {
		panic(fmt.Sprintf("observe: lifecycle bound to %s handle (pid %d)", st, h.Pid()))
	}

	w := &lifecycleWatcher{
		handle:   h,
		terminal: make(chan Event, 1),
		stop:     make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *lifecycleWatcher) run() {
	for {
		select {
		case <-w.stop:
			return
		case status := <-w.handle.Exits():
			if status.Code == nil && status.Signal == interruptSignal &&
				w.handle.State() == spawn.StateRunning {
				// Advisory interrupt, the process survived it.
				// A real SIGINT death flips the handle state
				// before the notification is delivered, so it
				// is never skipped here.
				continue
			}
			w.terminal <- exitEvent(status)
			return
		case err := <-w.handle.Fails():
			w.terminal <- errorEvent(err)
			return
		}
	}
}

// Close releases the watcher goroutine. Safe to call multiple times.
func (w *lifecycleWatcher) Close() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
}
