//go:build windows

package pstable

import (
	"context"
	"errors"
)

// ErrUnsupported is returned on platforms without a process-table listing
// command. Tree termination there goes through taskkill and never consults
// the table.
var ErrUnsupported = errors.New("pstable: process listing not supported on this platform")

func listProcesses(context.Context) ([]ProcessInfo, error) {
	return nil, ErrUnsupported
}
