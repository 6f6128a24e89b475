package serialctl

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// CommandResult carries the outcome of an external command
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the command exited with status zero
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner executes external programs on behalf of a Port.
//
// Run returns an error only when the program could not be started or was
// interrupted by ctx; a program that runs and exits non-zero is reported
// through CommandResult.ExitCode.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

var _ CommandRunner = ExecRunner{}

// Run executes name with args and captures both output streams
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	default:
		result.ExitCode = -1
		return result, err
	}
}

// commandLine renders a command for logs and error messages
func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
