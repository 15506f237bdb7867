package power

import (
	"fmt"
	"os"
	"os/exec"
)

// Restart launches a fresh copy of the current binary with the same
// arguments and terminates this process. It is the tail end of a factory
// reset, so on success it never returns. An error means the replacement
// process could not be started and the caller keeps running.
func Restart() error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate binary: %w", err)
	}

	cmd := exec.Command(self, os.Args[1:]...) //nolint:gosec // Restarting the binary we are already running.
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start replacement process: %w", err)
	}

	os.Exit(0)

	return nil
}
