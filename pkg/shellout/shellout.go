// Package shellout wraps external command execution with a hard timeout, for
// the git and physical-disk probes that shell out to OS tools.
package shellout

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout is the hard wall-clock timeout applied to every shell-out
// performed by the scanner pipeline.
const DefaultTimeout = 5 * time.Second

// Run executes name with args in dir (if non-empty) and returns its trimmed
// standard output. If the command fails, times out, or cannot be found, an
// error is returned; callers in this module always treat that as "field
// remains null" rather than a fatal condition.
func Run(dir, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(output)), nil
}
