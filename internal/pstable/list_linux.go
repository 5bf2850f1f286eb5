//go:build linux

package pstable

import (
	"context"

	"github.com/prometheus/procfs"
)

// listProcesses reads /proc directly and only shells out to ps when procfs is
// unavailable (e.g. mounted with restrictive hidepid options).
func listProcesses(ctx context.Context) ([]ProcessInfo, error) {
	infos, err := listViaProc()
	if err != nil {
		return listViaPS(ctx)
	}
	return infos, nil
}

func listViaProc() ([]ProcessInfo, error) {
	fs, err := procfs.NewFS("/proc")
	if err != nil {
		return nil, err
	}
	procs, err := fs.AllProcs()
	if err != nil {
		return nil, err
	}

	infos := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		stat, err := p.Stat()
		if err != nil {
			// Process vanished between the directory scan and the
			// stat read.
			continue
		}
		infos = append(infos, ProcessInfo{
			Pid:       p.PID,
			ParentPid: stat.PPID,
			Command:   stat.Comm,
		})
	}
	return infos, nil
}
