//go:build !unix

package steamworks

func processAlive(pidFile string) bool {
	_, ok := readPID(pidFile)
	return ok
}
