package cli

import (
	"github.com/spf13/cobra"

	"github.com/askiada/seasnap/internal/matrix"
	"github.com/askiada/seasnap/pkg/metadata"
)

func newShowMatrixCommand(a *app) *cobra.Command {
	var configFile, covariateFile string
	cmd := &cobra.Command{
		Use:   "show_matrix",
		Short: "print model matrix for DE pipeline",
		Long:  "Print model.matrix() based on config and covariate file to console.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return matrix.Show(cmd.Context(), a.cfg, a.executor(), a.path(configFile), a.path(covariateFile), cmd.OutOrStdout(), a.logger)
		},
	}
	cmd.Flags().StringVar(&configFile, "config_file", "DE_config.yaml", "config file to be loaded")
	cmd.Flags().StringVar(&covariateFile, "covariate_file", metadata.DefaultCovariateFile, "name of covariate file")

	return cmd
}
