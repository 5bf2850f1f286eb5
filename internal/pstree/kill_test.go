package pstree

import (
	"errors"
	"io"
	stdruntime "runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/procwatch/internal/spawn"
)

// nonexistentPid is above the default Linux pid_max, so it cannot name a real
// process. Termination of an already-gone pid must not raise.
const nonexistentPid = 999999999

type fakeHandle struct {
	pid          int
	terminations atomic.Int32
	terminateErr error

	killed atomic.Bool
	state  atomic.Int32
}

func (h *fakeHandle) Pid() int                     { return h.pid }
func (h *fakeHandle) Stdin() io.WriteCloser        { return nil }
func (h *fakeHandle) Stdout() io.ReadCloser        { return nil }
func (h *fakeHandle) Stderr() io.ReadCloser        { return nil }
func (h *fakeHandle) Exits() <-chan spawn.ExitStatus { return nil }
func (h *fakeHandle) Fails() <-chan error          { return nil }

func (h *fakeHandle) State() spawn.State {
	return spawn.State(h.state.Load())
}

func (h *fakeHandle) MarkKilled() bool {
	if !h.killed.CompareAndSwap(false, true) {
		return false
	}
	h.state.CompareAndSwap(int32(spawn.StateRunning), int32(spawn.StateKilled))
	return true
}

func (h *fakeHandle) Terminate() error {
	h.terminations.Add(1)
	return h.terminateErr
}

func TestKillRunsTerminationAtMostOnce(t *testing.T) {
	h := &fakeHandle{pid: nonexistentPid}

	Kill(h, false)
	Kill(h, false)
	Kill(h, false)

	require.Equal(t, int32(1), h.terminations.Load())
	require.Equal(t, spawn.StateKilled, h.State())
}

func TestKillSwallowsTerminationFailures(t *testing.T) {
	h := &fakeHandle{pid: nonexistentPid, terminateErr: errors.New("permission denied")}

	// Must log and continue, never panic or propagate.
	Kill(h, false)
	require.Equal(t, int32(1), h.terminations.Load())
}

func TestKillNilHandleIsNoop(t *testing.T) {
	Kill(nil, true)
}

func TestKillTreeModeSkipsHandleTerminate(t *testing.T) {
	if stdruntime.GOOS == "windows" {
		t.Skip("tree kill shells out to taskkill on windows")
	}

	h := &fakeHandle{pid: nonexistentPid}
	Kill(h, true)

	// Tree mode goes through the process table, not Handle.Terminate.
	require.Equal(t, int32(0), h.terminations.Load())
	require.False(t, h.MarkKilled(), "kill intent should already be recorded")
}

func TestKillPidAlreadyGone(t *testing.T) {
	if stdruntime.GOOS == "windows" {
		t.Skip("nonexistent-pid semantics differ on windows")
	}

	require.NoError(t, KillPid(nonexistentPid, false))
	require.NoError(t, KillPid(nonexistentPid, true))
}

func TestKillPidRejectsNonPositive(t *testing.T) {
	if stdruntime.GOOS == "windows" {
		t.Skip("nonexistent-pid semantics differ on windows")
	}

	// pid 0 would signal our own process group.
	require.Error(t, KillPid(0, false))
	require.Error(t, KillPid(-1, false))
}
