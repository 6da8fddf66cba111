package steamworks

import (
	"os"
	"strconv"
	"strings"
)

// readPID returns the pid recorded in path. Non-positive values are
// rejected: signalling pid 0 or -1 would reach a whole process group.
func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
