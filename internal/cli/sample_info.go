package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/seasnap/pkg/metadata"
)

const (
	fromDirectory = "parse_dir"
	formatYAML    = "yaml"
	formatTSV     = "tsv"
)

type sampleInfoFlags struct {
	libraryDefault string
	configFiles    []string
	output         string
	input          string
	sep            string
	from           string
	to             string
	root           string
	pattern        string
	graph          string
}

func newSampleInfoCommand(a *app) *cobra.Command {
	f := &sampleInfoFlags{}
	cmd := &cobra.Command{
		Use:   "sample_info",
		Short: "generate sample info for mapping pipeline",
		Long:  "Generate sample info (yaml) file from input for the mapping pipeline.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.sampleInfo(cmd, f)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.libraryDefault, "library_default", "l", string(metadata.Unstranded), "default strandedness for all samples (unstranded, forward, reverse)")
	flags.StringSliceVarP(&f.configFiles, "config_files", "c", []string{"mapping_config.yaml"}, "config files to be loaded")
	flags.StringVarP(&f.output, "output", "o", "sample_info", "name of sample info file, without extension")
	flags.StringVarP(&f.input, "input", "i", "sample_info.tsv", "import from this file; only needed with --from yaml or tsv")
	flags.StringVarP(&f.sep, "sep", "s", "\t", `separator for importing or exporting tables with --from tsv or --to tsv, "auto" to detect`)
	flags.StringVarP(&f.from, "from", "f", fromDirectory, "import sample info from parse_dir, yaml or tsv")
	flags.StringVarP(&f.to, "to", "t", formatYAML, "export sample info file type, yaml or tsv")
	flags.StringVar(&f.root, "root", "", "directory to scan (default: leading directories of the input pattern)")
	flags.StringVar(&f.pattern, "pattern", "", "input file pattern (default: pipeline_param.in_path_pattern of the config files)")
	flags.StringVar(&f.graph, "graph", "", "write the scan graph in DOT format to this file")

	return cmd
}

func (a *app) sampleInfo(cmd *cobra.Command, f *sampleInfoFlags) error {
	def, err := metadata.ParseStrandedness(f.libraryDefault)
	if err != nil {
		return err
	}
	sep, err := metadata.ParseSeparator(f.sep)
	if err != nil {
		return err
	}
	if f.to != formatYAML && f.to != formatTSV {
		return errors.Errorf("invalid --to %q, expected yaml or tsv", f.to)
	}

	var si *metadata.SampleInfo
	switch f.from {
	case fromDirectory:
		pc, err := a.pipelineConfig(cmd, "config_files", f.configFiles)
		if err != nil {
			return err
		}
		pattern := firstNonEmpty(f.pattern, pc.PipelineParam.InPathPattern, metadata.DefaultInputPattern)
		root := f.root
		if root != "" {
			root = a.path(root)
		} else {
			pattern = a.path(pattern)
		}
		opts, report := a.scanOptions(f.graph)
		si, err = metadata.DeriveSampleInfo(cmd.Context(), metadata.SampleInfoOptions{
			Root:    root,
			Pattern: pattern,
			Default: def,
		}, opts...)
		if err != nil {
			return err
		}
		report()
	case formatYAML, formatTSV:
		in, err := metadata.OpenFile(a.path(f.input))
		if err != nil {
			return err
		}
		defer in.Close()
		if f.from == formatYAML {
			si, err = metadata.ReadSampleInfoYAML(in, def)
		} else {
			si, err = metadata.ReadSampleInfoTable(in, sep, def)
		}
		if err != nil {
			return errors.Wrapf(err, "unable to import %s", f.input)
		}
	default:
		return errors.Errorf("invalid --from %q, expected parse_dir, yaml or tsv", f.from)
	}

	output := f.output + "." + f.to
	err = metadata.WriteFile(a.path(output), func(w io.Writer) error {
		if f.to == formatYAML {
			return si.WriteYAML(w)
		}

		return si.WriteTable(w, sep)
	})
	if err != nil {
		return err
	}
	a.logger.WithField("samples", si.Len()).Debugf("%s written", output)
	printEditNotice(cmd.OutOrStdout(), "sample info", output)

	return nil
}
