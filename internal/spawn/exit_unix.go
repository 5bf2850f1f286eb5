//go:build !windows

package spawn

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func exitStatusFrom(err *exec.ExitError) ExitStatus {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitStatus{Signal: unix.SignalName(ws.Signal())}
	}
	code := err.ExitCode()
	return ExitStatus{Code: &code}
}

func terminateProcess(p *os.Process) error {
	if err := p.Signal(syscall.SIGTERM); err != nil {
		if err == os.ErrProcessDone {
			return nil
		}
		return err
	}
	return nil
}
