package git

import (
	"context"
	"os/exec"

	"github.com/bashhack/dirtrack/internal/errors"
)

// Result is the outcome of a finished command.
type Result struct {
	// ExitCode is the process exit code, or -1 if the command never ran.
	ExitCode int

	// Output is the combined stdout and stderr of the command.
	Output string
}

// CommandExecutor defines an interface for executing commands
type CommandExecutor interface {
	// Run executes name with args in dir and waits for it to finish.
	// A non-zero exit or a failure to start returns a *errors.CommandError
	// alongside the populated Result.
	Run(ctx context.Context, dir string, name string, args ...string) (Result, error)
}

// ExecExecutor is the default implementation of CommandExecutor
// that delegates to the os/exec package
type ExecExecutor struct{}

// NewExecExecutor creates a new ExecExecutor
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// Run implements CommandExecutor.Run
func (e *ExecExecutor) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	result := Result{Output: string(out)}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = -1
	}

	wrappedErr := errors.Wrap(errors.ErrCommandFailed, err.Error())
	return result, errors.NewCommandError(name, args, result.ExitCode, wrappedErr, result.Output)
}
