package spawn

import (
	"os"
	"sync"
)

var (
	envOnce     sync.Once
	envSnapshot []string
)

// Environ returns the process-wide environment snapshot used when spawning.
// The snapshot is computed once per process lifetime; later changes to the
// environment are not reflected. Callers receive a copy they may append to.
func Environ() []string {
	envOnce.Do(func() {
		envSnapshot = os.Environ()
	})
	return append([]string(nil), envSnapshot...)
}
