//go:build !windows

package observe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sys/unix"

	"github.com/Paintersrp/procwatch/internal/spawn"
)

func TestObserveRealInterruptDeathTerminatesStream(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	// Signal the sleep binary directly; a shell in between may defer the
	// interrupt until its child exits.
	h, err := spawn.Start(&spawn.Spec{Command: "/bin/sleep", Args: []string{"30"}})
	require.NoError(t, err)
	start := func() (spawn.Handle, error) { return h, nil }

	events := Observe(context.Background(), start, Options{})

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, unix.Kill(h.Pid(), unix.SIGINT))

	out := collect(t, events)
	requireSingleTerminalLast(t, out)

	last := out[len(out)-1]
	require.Equal(t, EventTypeExit, last.Type)
	require.Nil(t, last.Exit.Code)
	require.Equal(t, "SIGINT", last.Exit.Signal)
}
