//go:build windows

package host

import "os"

// ReadySignals returns nil; Windows has no user signals.
func ReadySignals() []os.Signal {
	return nil
}
