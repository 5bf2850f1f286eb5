package spawn

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/procwatch/internal/log"
	"github.com/Paintersrp/procwatch/internal/metrics"
)

// StarterFor returns a Starter that launches the given spec. Each invocation
// spawns a fresh, independent process instance.
func StarterFor(spec *Spec) Starter {
	return func() (Handle, error) {
		return Start(spec)
	}
}

// Start launches the process described by spec. The OS process is created
// synchronously: when Start returns a handle, exit and failure detection can
// be attached before any lifecycle event is delivered.
func Start(spec *Spec) (Handle, error) {
	if spec == nil || spec.Command == "" {
		return nil, errors.New("spawn: spec has no command")
	}

	cmd := exec.Command(spec.Command, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}

	env := Environ()
	for k, v := range spec.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = env

	// Plain os.Pipe endpoints instead of StdoutPipe: Wait must not close
	// the read ends while trailing output is still being drained.
	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("spawn: stdout pipe: %w", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		outR.Close()
		outW.Close()
		return nil, fmt.Errorf("spawn: stderr pipe: %w", err)
	}
	cmd.Stdout = outW
	cmd.Stderr = errW

	// Without a payload the child keeps the default null stdin and reads
	// EOF immediately; a pipe nobody writes to would block it forever.
	var stdin io.WriteCloser
	if spec.Stdin != "" {
		stdin, err = cmd.StdinPipe()
		if err != nil {
			closeAll(outR, outW, errR, errW)
			return nil, fmt.Errorf("spawn: stdin pipe: %w", err)
		}
	}

	if err := cmd.Start(); err != nil {
		closeAll(outR, outW, errR, errW, stdin)
		metrics.IncrementSpawnFailures()
		return nil, &Error{Command: spec.Command, Args: spec.Args, Dir: spec.Dir, Err: err}
	}
	// The child owns the write ends now.
	outW.Close()
	errW.Close()

	h := &osHandle{
		cmd:     cmd,
		stdin:   stdin,
		stdout:  outR,
		stderr:  errR,
		exits:   make(chan ExitStatus, 1),
		fails:   make(chan error, 1),
		started: time.Now(),
		logger:  log.WithComponent("spawn"),
	}

	if stdin != nil {
		payload := spec.Stdin
		go func() {
			if _, err := io.WriteString(stdin, payload); err != nil {
				h.logger.Warn().Err(err).Int("pid", h.Pid()).Msg("write stdin payload")
			}
			_ = stdin.Close()
		}()
	}

	metrics.IncrementSpawns()
	go h.wait()
	return h, nil
}

type osHandle struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
	stderr  io.ReadCloser
	exits   chan ExitStatus
	fails   chan error
	started time.Time
	logger  zerolog.Logger

	state      atomic.Int32
	killIntent atomic.Bool
}

func (h *osHandle) Pid() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

func (h *osHandle) Stdin() io.WriteCloser    { return h.stdin }
func (h *osHandle) Stdout() io.ReadCloser    { return h.stdout }
func (h *osHandle) Stderr() io.ReadCloser    { return h.stderr }
func (h *osHandle) Exits() <-chan ExitStatus { return h.exits }
func (h *osHandle) Fails() <-chan error      { return h.fails }

func (h *osHandle) State() State {
	return State(h.state.Load())
}

func (h *osHandle) MarkKilled() bool {
	if !h.killIntent.CompareAndSwap(false, true) {
		return false
	}
	h.state.CompareAndSwap(int32(StateRunning), int32(StateKilled))
	return true
}

func (h *osHandle) Terminate() error {
	if h.cmd.Process == nil {
		return nil
	}
	return terminateProcess(h.cmd.Process)
}

func (h *osHandle) wait() {
	err := h.cmd.Wait()
	metrics.ObserveProcessLifetime(time.Since(h.started))

	if err == nil {
		code := 0
		h.state.CompareAndSwap(int32(StateRunning), int32(StateExited))
		h.exits <- ExitStatus{Code: &code}
		return
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		h.state.CompareAndSwap(int32(StateRunning), int32(StateExited))
		h.exits <- exitStatusFrom(exitErr)
		return
	}

	h.fails <- err
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		if c != nil {
			_ = c.Close()
		}
	}
}
