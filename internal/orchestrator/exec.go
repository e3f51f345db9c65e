package orchestrator

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/raoulx24/dotfile-archiver/internal/registry"
	"github.com/raoulx24/dotfile-archiver/internal/run"
)

// invokeUnit runs one unit's executable to completion and waits on it
// synchronously, with no timeout. The contract is positional: argument one
// is "true"/"false" for backup capture, argument two is the shared run
// timestamp. Unit output is appended to {logDir}/{unit}.log.
func invokeUnit(u registry.Unit, backupEnabled bool, ts run.Timestamp, logDir string) error {
	args := []string{fmt.Sprintf("%t", backupEnabled)}
	if ts != "" {
		args = append(args, ts.String())
	}

	cmd := exec.Command(u.Executable, args...)

	logPath := filepath.Join(logDir, u.Name+".log")
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		defer f.Close()
		cmd.Stdout = f
		cmd.Stderr = f
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("unit %q: %w", u.Name, err)
	}
	return nil
}
