// Package pstree terminates processes and their discovered children.
package pstree

import (
	"github.com/Paintersrp/procwatch/internal/log"
	"github.com/Paintersrp/procwatch/internal/metrics"
	"github.com/Paintersrp/procwatch/internal/spawn"
)

// Kill requests termination of the process behind h, fire-and-forget. The
// underlying termination action runs at most once per handle: later calls
// (from any code path) observe the kill-intent flag and return immediately.
// Failures are logged, never returned, so teardown paths cannot fail because
// termination failed.
func Kill(h spawn.Handle, tree bool) {
	if h == nil || !h.MarkKilled() {
		return
	}

	mode := "single"
	if tree {
		mode = "tree"
	}
	metrics.IncrementKillRequests(mode)

	var err error
	if tree {
		err = killTree(h.Pid())
	} else {
		err = h.Terminate()
	}
	if err != nil {
		metrics.IncrementKillFailures()
		logger := log.WithComponent("pstree")
		logger.Warn().
			Err(err).
			Int("pid", h.Pid()).
			Bool("tree", tree).
			Msg("kill process")
	}
}

// KillPid terminates the process with the given pid. In tree mode the
// process's immediate children are terminated first. Termination of an
// already-gone process is not an error.
func KillPid(pid int, tree bool) error {
	mode := "single"
	if tree {
		mode = "tree"
	}
	metrics.IncrementKillRequests(mode)

	var err error
	if tree {
		err = killTree(pid)
	} else {
		err = killSingle(pid)
	}
	if err != nil {
		metrics.IncrementKillFailures()
	}
	return err
}
