package git

import (
	"context"
	"strings"

	"github.com/bashhack/dirtrack/internal/errors"
	"github.com/bashhack/dirtrack/internal/logger"
)

// notARepositoryExitCode is the status git uses for its generic fatal errors,
// which rev-parse returns outside a work tree.
const notARepositoryExitCode = 128

// Committer stages, commits and pushes every change in a directory.
type Committer struct {
	dir      string
	executor CommandExecutor
	logger   logger.Logger
	push     bool
}

// NewCommitter creates a Committer that runs git in dir.
// When push is false the push step is skipped.
func NewCommitter(dir string, executor CommandExecutor, log logger.Logger, push bool) *Committer {
	return &Committer{
		dir:      dir,
		executor: executor,
		logger:   log,
		push:     push,
	}
}

// Commit runs `git add -A`, `git commit -m message` and `git push` in order.
// The first failing step is logged and returned as a *errors.CommandError;
// later steps are not attempted. No step is retried.
func (c *Committer) Commit(ctx context.Context, message string) error {
	steps := [][]string{
		{"add", "-A"},
		{"commit", "-m", message},
	}
	if c.push {
		steps = append(steps, []string{"push"})
	}

	for _, args := range steps {
		if err := c.runStep(ctx, args); err != nil {
			return err
		}
	}

	return nil
}

// runStep executes a single git command and logs its exit code and output.
func (c *Committer) runStep(ctx context.Context, args []string) error {
	result, err := c.executor.Run(ctx, c.dir, "git", args...)
	output := strings.TrimSpace(result.Output)

	if output != "" {
		c.logger.Info("CMD: git %s (exit %d)\n%s", strings.Join(args, " "), result.ExitCode, output)
	} else {
		c.logger.Info("CMD: git %s (exit %d)", strings.Join(args, " "), result.ExitCode)
	}

	if err == nil && result.ExitCode != 0 {
		err = errors.NewCommandError("git", args, result.ExitCode, errors.ErrCommandFailed, result.Output)
	}
	if err == nil {
		return nil
	}

	if output == "" {
		output = err.Error()
	}
	c.logger.Warning("git %s failed: %s", args[0], output)

	var cmdErr *errors.CommandError
	if errors.As(err, &cmdErr) && errors.Is(err, errors.ErrCommandFailed) {
		return cmdErr
	}
	return errors.NewCommandError("git", args, result.ExitCode, errors.Wrap(errors.ErrCommandFailed, err.Error()), result.Output)
}

// IsRepository reports whether dir is inside a git work tree.
// A git exit status of 128 means "not a repository" and yields (false, nil);
// any other failure (git missing, permissions) is returned as an error.
func IsRepository(ctx context.Context, executor CommandExecutor, dir string) (bool, error) {
	result, err := executor.Run(ctx, dir, "git", "rev-parse", "--is-inside-work-tree")
	if err != nil {
		if result.ExitCode == notARepositoryExitCode {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(result.Output) == "true", nil
}
