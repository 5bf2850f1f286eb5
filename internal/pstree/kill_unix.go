//go:build !windows

package pstree

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/Paintersrp/procwatch/internal/log"
	"github.com/Paintersrp/procwatch/internal/pstable"
)

// killTree signals the target's immediate children, then the target itself.
// Deeper descendants are not chased; see the package tests for the contract.
func killTree(pid int) error {
	logger := log.WithComponent("pstree")

	children, err := pstable.ChildrenOf(context.Background(), pid)
	if err != nil {
		// Still try the target itself; a missing table must not leave
		// the root running.
		logger.Warn().Err(err).Int("pid", pid).Msg("list children")
		children = nil
	}

	for _, child := range children {
		if err := signalProcess(child.Pid, unix.SIGTERM); err != nil {
			logger.Warn().
				Err(err).
				Int("pid", child.Pid).
				Str("command", child.Command).
				Msg("kill child process")
		}
	}
	return signalProcess(pid, unix.SIGTERM)
}

func killSingle(pid int) error {
	return signalProcess(pid, unix.SIGTERM)
}

func signalProcess(pid int, sig unix.Signal) error {
	if pid <= 0 {
		return fmt.Errorf("refusing to signal pid %d", pid)
	}
	if err := unix.Kill(pid, sig); err != nil {
		if errors.Is(err, unix.ESRCH) {
			// Already gone.
			return nil
		}
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return nil
}
