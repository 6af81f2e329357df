//go:build !windows

package host

import (
	"os"
	"syscall"
)

// ReadySignals returns the signals treated as readiness: SIGUSR1.
func ReadySignals() []os.Signal {
	return []os.Signal{syscall.SIGUSR1}
}
