//go:build !windows

package pstable

import (
	"context"
	"fmt"
	"os/exec"
)

func listViaPS(ctx context.Context) ([]ProcessInfo, error) {
	out, err := exec.CommandContext(ctx, "ps", "-A", "-o", "ppid,pid,comm").Output()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	return Parse(string(out)), nil
}
