//go:build windows

package pstree

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// killTree uses taskkill to forcefully terminate the process and all of its
// descendants in one shot.
func killTree(pid int) error {
	out, err := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).CombinedOutput()
	if err != nil {
		return fmt.Errorf("taskkill pid %d: %w: %s", pid, err, bytes.TrimSpace(out))
	}
	return nil
}

func killSingle(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		// Already gone.
		return nil
	}
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill pid %d: %w", pid, err)
	}
	return nil
}
