package git

import (
	"context"
	"strings"
)

// executedCommand records a single call made through MockCommandExecutor.
type executedCommand struct {
	Dir  string
	Name string
	Args []string
}

func (c executedCommand) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// MockCommandExecutor is a simple mock of the CommandExecutor interface
// that doesn't actually execute anything but just records calls.
type MockCommandExecutor struct {
	Output   string
	Commands []executedCommand
	RunFn    func(ctx context.Context, dir string, name string, args ...string) (Result, error)
}

// Run implements the CommandExecutor interface
func (m *MockCommandExecutor) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	m.Commands = append(m.Commands, executedCommand{Dir: dir, Name: name, Args: args})

	if m.RunFn != nil {
		return m.RunFn(ctx, dir, name, args...)
	}

	return Result{Output: m.Output}, nil
}

// CommandLines returns every recorded command rendered as a single line.
func (m *MockCommandExecutor) CommandLines() []string {
	lines := make([]string, 0, len(m.Commands))
	for _, c := range m.Commands {
		lines = append(lines, c.String())
	}
	return lines
}

// NewMockCommandExecutor creates a new mock executor
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Commands: make([]executedCommand, 0),
	}
}
