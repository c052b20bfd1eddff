// Package workdir prepares the directories pipelines are run from.
package workdir

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kardianos/osext"
	"github.com/lestrrat-go/strftime"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/askiada/seasnap/internal/config"
)

// DefaultDirname names working directories after the day they are created.
const DefaultDirname = "results_%Y_%m_%d/"

var (
	// ErrDirectoryExists is returned when the working directory is already there.
	ErrDirectoryExists = errors.New("directory already exists")
	// ErrSetup is returned when the working directory cannot be filled.
	ErrSetup = errors.New("unable to set up working directory")
)

// Options describes the working directory to create.
type Options struct {
	// Dirname is a strftime template. Defaults to DefaultDirname.
	Dirname string
	// Configs selects the pipeline config templates to copy. Defaults to every pipeline.
	Configs []string
	// Now is the time Dirname is rendered with. Defaults to the current time.
	Now time.Time
	// Executable is the target of the wrapper link. Defaults to the running executable.
	Executable string
}

// Setup creates the working directory and fills it with the selected config templates, the
// cluster config and a link to the seasnap executable. It returns the directory created.
func Setup(cfg config.Config, opts Options, logger logrus.FieldLogger) (string, error) {
	dirname := opts.Dirname
	if dirname == "" {
		dirname = DefaultDirname
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	dir, err := strftime.Format(dirname, now)
	if err != nil {
		return "", errors.Wrapf(ErrSetup, "invalid directory template %q: %s", dirname, err)
	}
	dir = filepath.Clean(dir)

	configs := opts.Configs
	if len(configs) == 0 {
		configs = config.Pipelines
	}
	templates := []string{}
	seen := map[string]struct{}{}
	for _, name := range configs {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tpl, err := cfg.ConfigTemplate(name)
		if err != nil {
			return "", err
		}
		templates = append(templates, tpl)
	}
	templates = append(templates, cfg.ScriptPath(cfg.ClusterConfig))

	executable := opts.Executable
	if executable == "" {
		executable, err = osext.Executable()
		if err != nil {
			return "", errors.Wrap(err, "unable to locate executable")
		}
	}

	if _, err := os.Lstat(dir); err == nil {
		return "", errors.Wrapf(ErrDirectoryExists, "%s", dir)
	}
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", errors.Wrapf(ErrSetup, "unable to create %s: %s", dir, err)
	}
	logger.Infof("working directory %s created...", dir)

	for _, tpl := range templates {
		dst := filepath.Join(dir, filepath.Base(tpl))
		err = copyFile(tpl, dst)
		if err != nil {
			return "", err
		}
		logger.WithField("file", dst).Debug("config copied")
	}

	err = os.Symlink(executable, filepath.Join(dir, cfg.Wrapper))
	if err != nil {
		return "", errors.Wrapf(ErrSetup, "unable to link %s: %s", cfg.Wrapper, err)
	}

	return dir, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(ErrSetup, "unable to open %s: %s", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(ErrSetup, "unable to create %s: %s", dst, err)
	}
	_, err = io.Copy(out, in)
	if err != nil {
		out.Close()

		return errors.Wrapf(ErrSetup, "unable to copy %s: %s", src, err)
	}

	return errors.Wrapf(out.Close(), "unable to close %s", dst)
}
