// Package pstable queries and parses platform process-table snapshots.
package pstable

import (
	"context"
	"strconv"
	"strings"
)

// ProcessInfo is one row of a process-table snapshot. It carries no lifecycle
// beyond the listing that produced it.
type ProcessInfo struct {
	Pid       int
	ParentPid int
	Command   string
}

// missingID marks an id column that did not parse as an integer. Rows keeping
// the sentinel simply never match numeric filters such as ChildrenOf.
const missingID = -1

// Parse converts the textual output of a process-listing command into
// ProcessInfo records. The first line is a header and is discarded; each
// following line is split on runs of whitespace, the first two columns being
// parent id and id, the rest forming the command.
func Parse(raw string) []ProcessInfo {
	lines := strings.Split(raw, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	infos := make([]ProcessInfo, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 2 {
			continue
		}
		infos = append(infos, ProcessInfo{
			ParentPid: atoiOrMissing(fields[0]),
			Pid:       atoiOrMissing(fields[1]),
			Command:   strings.Join(fields[2:], " "),
		})
	}
	return infos
}

func atoiOrMissing(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return missingID
	}
	return n
}

// ListProcesses returns a snapshot of the current process table.
func ListProcesses(ctx context.Context) ([]ProcessInfo, error) {
	return listProcesses(ctx)
}

// ChildrenOf returns the table entries whose parent id equals pid.
func ChildrenOf(ctx context.Context, pid int) ([]ProcessInfo, error) {
	all, err := ListProcesses(ctx)
	if err != nil {
		return nil, err
	}
	return childrenIn(all, pid), nil
}

func childrenIn(infos []ProcessInfo, pid int) []ProcessInfo {
	var children []ProcessInfo
	for _, info := range infos {
		if info.ParentPid == pid {
			children = append(children, info)
		}
	}
	return children
}
