package cli

import (
	"github.com/spf13/cobra"

	"github.com/askiada/seasnap/internal/runner"
)

func newPipelineCommand(a *app, pipeline, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   pipeline + " local|l|cluster|c [engine options...]",
		Short: short,
		Long:  short + ".\nEverything after the mode is passed to the workflow engine.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := runner.ParseMode(args[0])
			if err != nil {
				return err
			}

			return runner.Run(cmd.Context(), a.cfg, a.executor(), runner.Request{
				Pipeline:      pipeline,
				Mode:          mode,
				EngineOptions: args[1:],
				WorkDir:       a.env.WorkDir,
			}, cmd.OutOrStdout(), a.logger)
		},
	}
	cmd.Flags().SetInterspersed(false)

	return cmd
}
