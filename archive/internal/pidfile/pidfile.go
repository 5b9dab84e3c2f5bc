// Package pidfile keeps at most one exporter alive per host. Starting
// a new instance terminates the one recorded in the PID file, so a
// botched service stop never leaves two processes fighting over the
// listen port.
package pidfile

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Takeover records our PID at path, first stopping any instance the
// file points at. A missing file or a stale PID is nothing to kill and
// never an error.
func Takeover(path string, logger *slog.Logger) error {
	if pid, err := read(path); err == nil && pid != os.Getpid() {
		if processExists(pid) {
			logger.Info("stopping previous instance", "pid", pid, "pidfile", path)
			if err := terminate(pid); err != nil {
				return fmt.Errorf("pidfile: stop previous instance %d: %w", pid, err)
			}
		}
		os.Remove(path)
	}
	data := []byte(strconv.Itoa(os.Getpid()) + "\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("pidfile: write %s: %w", path, err)
	}
	return nil
}

// Remove deletes the file if it still records our own PID. A file
// rewritten by a newer instance is left alone.
func Remove(path string) {
	if pid, err := read(path); err == nil && pid == os.Getpid() {
		os.Remove(path)
	}
}

func read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("pidfile: bad contents %q", data)
	}
	return pid, nil
}

func terminate(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return err
	}
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		if !processExists(pid) {
			return nil
		}
	}
	return fmt.Errorf("process %d still alive after SIGTERM", pid)
}

func processExists(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 checks existence without actually sending a signal.
	return proc.Signal(syscall.Signal(0)) == nil
}
