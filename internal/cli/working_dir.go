package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/seasnap/internal/config"
	"github.com/askiada/seasnap/internal/workdir"
)

func newWorkingDirCommand(a *app) *cobra.Command {
	var (
		dirname string
		configs []string
	)
	cmd := &cobra.Command{
		Use:   "working_dir",
		Short: "setup a working directory for running the pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, c := range configs {
				if _, ok := a.cfg.ConfigFiles[c]; !ok {
					return errors.Wrapf(config.ErrUnknownPipeline, "%q, expected mapping or DE", c)
				}
			}
			_, err := workdir.Setup(a.cfg, workdir.Options{
				Dirname: a.path(dirname),
				Configs: configs,
			}, a.logger)

			return err
		},
	}
	cmd.Flags().StringVarP(&dirname, "dirname", "d", workdir.DefaultDirname, "name of directory, strftime directives are expanded")
	cmd.Flags().StringSliceVarP(&configs, "configs", "c", config.Pipelines, "configs to be imported (mapping, DE)")

	return cmd
}
