//go:build unix

package steamworks

import (
	"errors"

	"golang.org/x/sys/unix"
)

// processAlive sends signal 0 to the recorded pid. EPERM means the process
// exists under another user, which still counts as running.
func processAlive(pidFile string) bool {
	pid, ok := readPID(pidFile)
	if !ok {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
