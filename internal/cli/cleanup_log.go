package cli

import (
	"github.com/spf13/cobra"

	"github.com/askiada/seasnap/internal/cleanup"
)

func newCleanupLogCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup_log",
		Short: "delete log files from cluster execution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := cleanup.ClusterLogs(a.cfg, a.path("."), a.logger)
			if err != nil {
				return err
			}
			a.logger.Debugf("%d files removed", len(removed))

			return nil
		},
	}
}
