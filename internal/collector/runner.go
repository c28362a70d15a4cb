package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external command and returns its standard output.
// A non-zero exit is an error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands as local subprocesses.
type ExecRunner struct {
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Run executes name with args. The process is killed when ctx is done.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%s: %w", name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				return "", fmt.Errorf("%s exited with code %d", name, exitErr.ExitCode())
			}
			return "", fmt.Errorf("%s exited with code %d: %s", name, exitErr.ExitCode(), msg)
		}
		return "", fmt.Errorf("exec %s: %w", name, err)
	}
	return stdout.String(), nil
}

var errNoCronCommand = errors.New("no cron command configured")
