package runner

import (
	"context"
	"io"
	"os/exec"

	"github.com/pkg/errors"
)

// Executor runs an external program to completion.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) error
}

// ShellExecutor runs programs as child processes sharing the given standard streams.
type ShellExecutor struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Execute runs name with args and waits for it. The process is killed when ctx is done.
func (e ShellExecutor) Execute(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	if err != nil {
		return errors.Wrapf(err, "unable to run %s", name)
	}

	return nil
}

var _ Executor = ShellExecutor{}
