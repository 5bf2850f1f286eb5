package observe

import (
	"context"
	stdruntime "runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Paintersrp/procwatch/internal/spawn"
)

func shSpec(script string) *spawn.Spec {
	return &spawn.Spec{Command: "/bin/sh", Args: []string{"-c", script}}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if stdruntime.GOOS == "windows" {
		t.Skip("tests use /bin/sh and are skipped on windows")
	}
}

func TestObserveExitCleanExit(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	res, ok := <-ObserveExit(context.Background(), spawn.StarterFor(shSpec("exit 0")), Options{})
	require.True(t, ok)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Status)
	require.NotNil(t, res.Status.Code)
	require.Equal(t, 0, *res.Status.Code)
	require.Empty(t, res.Status.Signal)
}

func TestObserveExitNonZero(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	res, ok := <-ObserveExit(context.Background(), spawn.StarterFor(shSpec("exit 4")), Options{})
	require.True(t, ok)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Status.Code)
	require.Equal(t, 4, *res.Status.Code)
}

func TestObserveExitSpawnError(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	start := spawn.StarterFor(&spawn.Spec{Command: "/definitely/not/a/binary"})
	res, ok := <-ObserveExit(context.Background(), start, Options{})
	require.True(t, ok)
	require.Nil(t, res.Status)
	require.Error(t, res.Err)
	require.Contains(t, res.Err.Error(), "/definitely/not/a/binary")
}

func TestObserveExitCancelKills(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	results := ObserveExit(ctx, spawn.StarterFor(shSpec("sleep 5")), Options{})

	time.Sleep(50 * time.Millisecond)
	cancel()

	_, ok := <-results
	require.False(t, ok, "torn-down session must close without a result")
}

func TestObserveRealProcessEndToEnd(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	spec := shSpec("echo out; echo err 1>&2; exit 3")
	events := collect(t, Observe(context.Background(), spawn.StarterFor(spec), Options{}))
	requireSingleTerminalLast(t, events)

	var stdout, stderr []string
	for _, ev := range events {
		switch ev.Type {
		case EventTypeStdout:
			stdout = append(stdout, ev.Line)
		case EventTypeStderr:
			stderr = append(stderr, ev.Line)
		}
	}
	require.Equal(t, []string{"out"}, stdout)
	require.Equal(t, []string{"err"}, stderr)

	last := events[len(events)-1]
	require.Equal(t, EventTypeExit, last.Type)
	require.NotNil(t, last.Exit.Code)
	require.Equal(t, 3, *last.Exit.Code)
}

func TestObserveRealProcessesAreIndependent(t *testing.T) {
	skipOnWindows(t)

	h1, err := spawn.Start(shSpec("sleep 0.2"))
	require.NoError(t, err)
	h2, err := spawn.Start(shSpec("sleep 0.2"))
	require.NoError(t, err)

	require.NotEqual(t, h1.Pid(), h2.Pid())

	for _, h := range []spawn.Handle{h1, h2} {
		select {
		case <-h.Exits():
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for exit")
		}
	}
}

func TestObserveCancelKillsRealProcess(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h, err := spawn.Start(shSpec("sleep 30"))
	require.NoError(t, err)
	start := func() (spawn.Handle, error) { return h, nil }

	ctx, cancel := context.WithCancel(context.Background())
	events := Observe(ctx, start, Options{})

	time.Sleep(50 * time.Millisecond)
	cancel()
	collect(t, events)

	// Teardown requested the kill; the process must actually go away.
	select {
	case status := <-h.Exits():
		require.Equal(t, "SIGTERM", status.Signal)
	case <-time.After(5 * time.Second):
		t.Fatal("process survived teardown")
	}
	require.Equal(t, spawn.StateKilled, h.State())
}
