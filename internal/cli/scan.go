package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/askiada/seasnap/internal/config"
	"github.com/askiada/seasnap/pkg/metadata"
	"github.com/askiada/seasnap/pkg/pipeline/drawer"
	"github.com/askiada/seasnap/pkg/pipeline/measure"
)

// scanOptions returns the options of a directory scan. When graphFile is set, the scan is
// measured and its graph drawn to graphFile; the returned function logs the measures.
func (a *app) scanOptions(graphFile string) ([]metadata.Option, func()) {
	opts := []metadata.Option{metadata.WithLogger(a.logger)}
	if graphFile == "" {
		return opts, func() {}
	}

	msr := measure.NewDefaultMeasure()
	opts = append(opts, metadata.WithPipelineOptions(
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(a.path(graphFile)), msr),
	))

	return opts, func() {
		for _, s := range measure.Summarize(msr) {
			a.logger.WithFields(logrus.Fields{
				"step":    s.Name,
				"items":   s.Items,
				"average": s.Average,
				"total":   s.Total,
			}).Debug("scan step")
		}
		a.logger.WithField("file", graphFile).Info("scan graph written")
	}
}

// pipelineConfig loads the config files named by flag. Default files that do not exist are
// skipped; files given on the command line must exist.
func (a *app) pipelineConfig(cmd *cobra.Command, flag string, paths []string) (config.PipelineConfig, error) {
	explicit := cmd.Flags().Changed(flag)
	existing := []string{}
	for _, p := range paths {
		p = a.path(p)
		if !explicit {
			if _, err := os.Stat(p); err != nil {
				a.logger.WithField("file", p).Debug("config file not found, skipped")

				continue
			}
		}
		existing = append(existing, p)
	}

	pc, err := config.LoadPipelineConfig(existing...)
	if err != nil {
		return pc, errors.Wrap(err, "unable to load pipeline config")
	}

	return pc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
