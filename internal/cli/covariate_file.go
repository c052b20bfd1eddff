package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/seasnap/pkg/metadata"
)

const covariateLong = `Generate a covariate file from input for the DE pipeline.
Five mandatory columns are automatically generated.
Additional columns can be added with --col 'NAME LEVELS',
where NAME is the column name and LEVELS can be specified in two ways:
1) by group:level pairs, e.g. gr1:lvl1 gr2:lvl1 gr3:lvl2
2) by level:groups list, e.g. lvl1:gr1,gr2 lvl2:gr3
NAME and LEVELS are passed as one quoted argument, either separated by a space or by
a colon, and --col may be repeated:

  seasnap covariate_file salmon sf --col 'group gr1:lvl1 gr2:lvl1 gr3:lvl2'
  seasnap covariate_file salmon sf --col 'group:lvl1:gr1,gr2 lvl2:gr3' --col 'batch b1:gr1,gr2,gr3'`

type covariateFlags struct {
	configFiles []string
	output      string
	cols        []string
	root        string
	pattern     string
	sep         string
	graph       string
}

func newCovariateFileCommand(a *app) *cobra.Command {
	f := &covariateFlags{}
	cmd := &cobra.Command{
		Use:   "covariate_file STEP EXTENSION",
		Short: "generate a covariate file for DE pipeline",
		Long:  covariateLong,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.covariateFile(cmd, f, args[0], args[1])
		},
	}
	flags := cmd.Flags()
	flags.StringSliceVar(&f.configFiles, "config_files", []string{"DE_config.yaml"}, "config files to be loaded")
	flags.StringVar(&f.output, "output", metadata.DefaultCovariateFile, "name of covariate file")
	flags.StringArrayVar(&f.cols, "col", nil, "add a column, e.g. --col 'NAME gr1:lvl1 gr2:lvl1 gr3:lvl2'")
	flags.StringVar(&f.root, "root", "", "directory the output pattern is relative to (default: working directory)")
	flags.StringVar(&f.pattern, "pattern", "", "step output pattern (default: pipeline_param.in_path_pattern of the config files)")
	flags.StringVar(&f.sep, "sep", "\t", "column separator of the covariate file")
	flags.StringVar(&f.graph, "graph", "", "write the scan graph in DOT format to this file")

	return cmd
}

func (a *app) covariateFile(cmd *cobra.Command, f *covariateFlags, step, extension string) error {
	sep, err := metadata.ParseSeparator(f.sep)
	if err != nil {
		return err
	}
	pc, err := a.pipelineConfig(cmd, "config_files", f.configFiles)
	if err != nil {
		return err
	}

	opts, report := a.scanOptions(f.graph)
	cf, err := metadata.DeriveCovariates(cmd.Context(), metadata.CovariateOptions{
		Root:      a.path(firstNonEmpty(f.root, ".")),
		Pattern:   firstNonEmpty(f.pattern, pc.PipelineParam.InPathPattern, metadata.DefaultOutputPattern),
		Step:      step,
		Extension: extension,
	}, opts...)
	if err != nil {
		return err
	}
	report()

	for _, col := range f.cols {
		name, items, err := metadata.ParseColumnArg(col)
		if err != nil {
			return err
		}
		err = cf.AddColumnSpec(name, items)
		if err != nil {
			return errors.Wrapf(err, "unable to add column %s", name)
		}
	}

	err = metadata.WriteFile(a.path(f.output), func(w io.Writer) error {
		return cf.WriteTable(w, sep)
	})
	if err != nil {
		return err
	}
	a.logger.WithField("rows", len(cf.Rows())).Debugf("%s written", f.output)
	printEditNotice(cmd.OutOrStdout(), "covariate file", f.output)

	return nil
}
