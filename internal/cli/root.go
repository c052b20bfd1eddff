// Package cli wires the seasnap subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/askiada/seasnap/internal/config"
	"github.com/askiada/seasnap/internal/logging"
	"github.com/askiada/seasnap/internal/runner"
)

// Env is the outside world a command runs in.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Executor runs external programs. Defaults to a runner.ShellExecutor.
	Executor runner.Executor
	// WorkDir is the directory relative paths are resolved against. Defaults to the current
	// directory.
	WorkDir string
}

type app struct {
	env       Env
	scriptDir string
	verbose   bool

	cfg    config.Config
	logger *logrus.Logger
}

// path resolves a user supplied path against the working directory.
func (a *app) path(p string) string {
	if a.env.WorkDir == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(a.env.WorkDir, p)
}

func (a *app) executor() runner.Executor {
	if a.env.Executor != nil {
		return a.env.Executor
	}

	return runner.ShellExecutor{Dir: a.env.WorkDir, Stdin: a.env.Stdin, Stdout: a.env.Stdout, Stderr: a.env.Stderr}
}

func (a *app) setup(_ *cobra.Command, _ []string) error {
	a.logger = logging.New(a.env.Stderr, a.verbose)
	if a.scriptDir == "" {
		dir, err := config.DefaultScriptDir()
		if err != nil {
			return err
		}
		a.scriptDir = dir
	}
	a.cfg = config.Default(a.scriptDir)
	a.logger.WithField("script_dir", a.scriptDir).Debug("configuration loaded")

	return nil
}

// NewCommand builds the seasnap command tree.
func NewCommand(env Env) *cobra.Command {
	a := &app{env: env}
	root := &cobra.Command{
		Use:               "seasnap",
		Short:             "Run SeA-SnaP pipelines and helpers",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.scriptDir, "script-dir", "", "directory holding the pipelines and config templates (default: folder of the executable)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "print debug messages")

	root.AddCommand(
		newWorkingDirCommand(a),
		newSampleInfoCommand(a),
		newCovariateFileCommand(a),
		newPipelineCommand(a, config.Mapping, "run mapping pipeline"),
		newPipelineCommand(a, config.DE, "run differential expression (DE) pipeline"),
		newShowMatrixCommand(a),
		newCleanupLogCommand(a),
	)

	return root
}

// Run executes the command line args and returns the process exit code.
func Run(ctx context.Context, args []string, env Env) int {
	if env.Stdin == nil {
		env.Stdin = os.Stdin
	}
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}

	cmd := NewCommand(env)
	cmd.SetArgs(args)
	cmd.SetIn(env.Stdin)
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)

	if len(args) == 0 {
		_ = cmd.Help()

		return 1
	}

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %s\n", err)

		return 1
	}

	return 0
}

// ExitCode maps the result of Run to the process exit code: a run interrupted through ctx exits
// with 130 whatever the command returned.
func ExitCode(ctx context.Context, code int) int {
	if ctx.Err() != nil {
		return 130
	}

	return code
}
