//go:build !linux && !windows

package pstable

import "context"

func listProcesses(ctx context.Context) ([]ProcessInfo, error) {
	return listViaPS(ctx)
}
