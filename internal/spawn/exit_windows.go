//go:build windows

package spawn

import (
	"errors"
	"os"
	"os/exec"
)

func exitStatusFrom(err *exec.ExitError) ExitStatus {
	code := err.ExitCode()
	return ExitStatus{Code: &code}
}

func terminateProcess(p *os.Process) error {
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
