package collector

import (
	"context"
	"os/exec"
)

// Runner abstracts external command execution so collectors can be tested
// without cvmfs_server or df installed.
type Runner interface {
	// Output runs the command and returns its combined stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Output implements Runner.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
