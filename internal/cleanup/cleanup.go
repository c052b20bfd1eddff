// Package cleanup removes what cluster runs leave behind in a working directory.
package cleanup

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/askiada/seasnap/internal/config"
)

// patterns lists the files removed next to the log directory.
var patterns = []string{"temp_snakemake*.sh", "core.*"}

// ClusterLogs deletes, inside dir, the cluster log directory, the engine job scripts, the run
// script, core dumps and every regular file whose name contains "log". It returns the removed
// paths in removal order.
func ClusterLogs(cfg config.Config, dir string, logger logrus.FieldLogger) ([]string, error) {
	removed := []string{}

	logDir := filepath.Join(dir, cfg.ClusterLogDir)
	if info, err := os.Stat(logDir); err == nil && info.IsDir() {
		err = os.RemoveAll(logDir)
		if err != nil {
			return removed, errors.Wrapf(err, "unable to remove %s", logDir)
		}
		logger.WithField("path", logDir).Info("removed")
		removed = append(removed, logDir)
	}

	candidates := []string{filepath.Join(dir, cfg.RunScript)}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return removed, errors.Wrapf(err, "invalid pattern %s", pattern)
		}
		candidates = append(candidates, matches...)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return removed, errors.Wrapf(err, "unable to list %s", dir)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), "log") {
			candidates = append(candidates, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(candidates[1:])

	seen := map[string]struct{}{}
	for _, p := range candidates {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		info, err := os.Lstat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		err = os.Remove(p)
		if err != nil {
			return removed, errors.Wrapf(err, "unable to remove %s", p)
		}
		logger.WithField("path", p).Info("removed")
		removed = append(removed, p)
	}

	return removed, nil
}
