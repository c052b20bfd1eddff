// Package runner starts the mapping and DE pipelines with the workflow engine, either directly
// or through the cluster scheduler.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/askiada/seasnap/internal/config"
)

// Mode selects where a pipeline runs.
type Mode string

const (
	Local   Mode = "local"
	Cluster Mode = "cluster"
)

// ErrInvalidMode is returned for modes other than local, l, cluster and c.
var ErrInvalidMode = errors.New("invalid mode")

// ParseMode accepts the long and one letter mode names.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "local", "l":
		return Local, nil
	case "cluster", "c":
		return Cluster, nil
	default:
		return "", errors.Wrapf(ErrInvalidMode, "%q, expected local, l, cluster or c", s)
	}
}

// Request describes one pipeline run.
type Request struct {
	Pipeline string
	Mode     Mode
	// EngineOptions are passed to the workflow engine unchanged.
	EngineOptions []string
	// WorkDir is the working directory holding the cluster config. Defaults to ".".
	WorkDir string
}

func (r Request) path(name string) string {
	if r.WorkDir == "" {
		return name
	}

	return filepath.Join(r.WorkDir, name)
}

// EngineCommand returns the workflow engine invocation of pipeline.
func EngineCommand(cfg config.Config, pipeline string, engineOptions []string) ([]string, error) {
	snakefile, err := cfg.Snakefile(pipeline)
	if err != nil {
		return nil, err
	}

	return append([]string{cfg.WorkflowEngine, "--snakefile", snakefile}, engineOptions...), nil
}

// ClusterScript returns the content of the run script submitted to the scheduler.
func ClusterScript(cfg config.Config, cc config.ClusterConfig, pipeline string, engineOptions []string) (string, error) {
	cmd, err := EngineCommand(cfg, pipeline, engineOptions)
	if err != nil {
		return "", err
	}

	parts := []string{shellquote.Join(cmd...)}
	if cc.RunCommand.SnakeOpt != "" {
		parts = append(parts, cc.RunCommand.SnakeOpt)
	}
	parts = append(parts, "--cluster-config", shellquote.Join(cfg.ClusterConfig))
	if cc.RunCommand.RunCommand != "" {
		parts = append(parts, cc.RunCommand.RunCommand)
	}

	return strings.Join(parts, " "), nil
}

// Run starts the pipeline and waits for the engine, or for the submission, to finish. The
// command submitted to the cluster is echoed to stdout.
func Run(ctx context.Context, cfg config.Config, exe Executor, req Request, stdout io.Writer, logger logrus.FieldLogger) error {
	switch req.Mode {
	case Local:
		cmd, err := EngineCommand(cfg, req.Pipeline, req.EngineOptions)
		if err != nil {
			return err
		}
		logger.WithField("pipeline", req.Pipeline).Debugf("running %s", shellquote.Join(cmd...))

		return exe.Execute(ctx, cmd[0], cmd[1:]...)
	case Cluster:
		cc, err := config.LoadClusterConfig(req.path(cfg.ClusterConfig))
		if err != nil {
			return err
		}
		script, err := ClusterScript(cfg, cc, req.Pipeline, req.EngineOptions)
		if err != nil {
			return err
		}
		err = os.MkdirAll(req.path(cfg.ClusterLogDir), 0o755)
		if err != nil {
			return errors.Wrapf(err, "unable to create %s", cfg.ClusterLogDir)
		}
		err = os.WriteFile(req.path(cfg.RunScript), []byte(script), 0o755) //nolint:gosec // submitted to the scheduler
		if err != nil {
			return errors.Wrapf(err, "unable to write %s", cfg.RunScript)
		}
		logger.WithField("pipeline", req.Pipeline).Debugf("%s written", cfg.RunScript)

		command := "set -e; " + cfg.ClusterStart
		fmt.Fprintln(stdout, command)

		return exe.Execute(ctx, cfg.Shell, "-c", command)
	default:
		return errors.Wrapf(ErrInvalidMode, "%q", req.Mode)
	}
}
