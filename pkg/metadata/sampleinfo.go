package metadata

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/seasnap/pkg/pipeline"
)

// DefaultReadGroup names the read group of samples whose pattern has no read group wildcard.
const DefaultReadGroup = "default"

// DefaultInputPattern matches paired end fastq files such as s1_R1.fastq.gz.
const DefaultInputPattern = "{sample}_R{mate}.{extension}"

// ReadGroup holds the input files of one lane, flowcell or library of a sample.
type ReadGroup struct {
	Name  string   `yaml:"name"`
	Paths []string `yaml:"paths,flow"`
}

// Sample is one row of the sample info.
type Sample struct {
	ID         string       `yaml:"id"`
	Stranded   Strandedness `yaml:"stranded"`
	ReadGroups []ReadGroup  `yaml:"read_groups"`
}

// Paths returns every input file of the sample, read group by read group.
func (s Sample) Paths() []string {
	var res []string
	for _, rg := range s.ReadGroups {
		res = append(res, rg.Paths...)
	}

	return res
}

func (s Sample) clone() Sample {
	res := Sample{ID: s.ID, Stranded: s.Stranded, ReadGroups: make([]ReadGroup, len(s.ReadGroups))}
	for i, rg := range s.ReadGroups {
		res.ReadGroups[i] = ReadGroup{Name: rg.Name, Paths: append([]string(nil), rg.Paths...)}
	}

	return res
}

// SampleInfo is the ordered collection of samples fed to the mapping pipeline.
// Sample identifiers are unique and every sample has at least one path.
type SampleInfo struct {
	samples []*Sample
	index   map[string]*Sample
}

// NewSampleInfo returns an empty SampleInfo.
func NewSampleInfo() *SampleInfo {
	return &SampleInfo{index: make(map[string]*Sample)}
}

// Len returns the number of samples.
func (si *SampleInfo) Len() int {
	return len(si.samples)
}

// Samples returns a copy of the samples in discovery or import order.
func (si *SampleInfo) Samples() []Sample {
	res := make([]Sample, len(si.samples))
	for i, s := range si.samples {
		res[i] = s.clone()
	}

	return res
}

// Sample returns a copy of the sample with the given identifier.
func (si *SampleInfo) Sample(id string) (Sample, bool) {
	s, ok := si.index[id]
	if !ok {
		return Sample{}, false
	}

	return s.clone(), true
}

// SetStrandedness overrides the strandedness of one sample.
func (si *SampleInfo) SetStrandedness(id string, stranded Strandedness) error {
	s, ok := si.index[id]
	if !ok {
		return parseErrorf("unknown sample %q", id)
	}
	v, err := ParseStrandedness(string(stranded))
	if err != nil {
		return err
	}
	s.Stranded = v

	return nil
}

// addPath appends path to the read group of sample id, creating both when needed.
func (si *SampleInfo) addPath(id, group, path string, stranded Strandedness) {
	s, ok := si.index[id]
	if !ok {
		s = &Sample{ID: id, Stranded: stranded}
		si.samples = append(si.samples, s)
		si.index[id] = s
	}
	for i := range s.ReadGroups {
		if s.ReadGroups[i].Name == group {
			s.ReadGroups[i].Paths = append(s.ReadGroups[i].Paths, path)

			return
		}
	}
	s.ReadGroups = append(s.ReadGroups, ReadGroup{Name: group, Paths: []string{path}})
}

// SampleInfoOptions drives DeriveSampleInfo.
type SampleInfoOptions struct {
	// Root is the directory to scan. When empty, the leading directories of Pattern are used.
	Root string
	// Pattern names input files, relative to Root. Defaults to DefaultInputPattern.
	Pattern string
	// Default is the strandedness given to every sample. Defaults to Unstranded.
	Default Strandedness
}

type sampleFile struct {
	idx    int
	sample string
	group  string
	path   string
}

func (f sampleFile) index() int { return f.idx }

// readGroupOf joins the values of the wildcards that are neither the sample, the mate nor the
// extension.
func readGroupOf(pat *Pattern, values map[string]string) string {
	var parts []string
	for _, w := range pat.Wildcards() {
		switch w {
		case WildcardSample, WildcardMate, WildcardPairedEnd, WildcardExtension:
			continue
		}
		parts = append(parts, values[w])
	}
	if len(parts) == 0 {
		return DefaultReadGroup
	}

	return strings.Join(parts, "_")
}

func (o SampleInfoOptions) resolve() (string, *Pattern, Strandedness, error) {
	raw := o.Pattern
	if raw == "" {
		raw = DefaultInputPattern
	}
	pat, err := CompilePattern(raw)
	if err != nil {
		return "", nil, "", err
	}

	root := o.Root
	if root == "" {
		root, pat, err = pat.SplitRoot()
		if err != nil {
			return "", nil, "", err
		}
	}
	if !pat.Has(WildcardSample) {
		return "", nil, "", parseErrorf("path pattern %q has no {%s} wildcard", pat, WildcardSample)
	}

	stranded := o.Default
	if stranded == "" {
		stranded = Unstranded
	}
	stranded, err = ParseStrandedness(string(stranded))
	if err != nil {
		return "", nil, "", err
	}

	return root, pat, stranded, nil
}

// DeriveSampleInfo scans a directory for input files and groups them by sample.
// Files not matching the pattern are skipped with a warning.
func DeriveSampleInfo(ctx context.Context, sio SampleInfoOptions, opts ...Option) (*SampleInfo, error) {
	root, pat, stranded, err := sio.resolve()
	if err != nil {
		return nil, err
	}
	err = checkRoot(root)
	if err != nil {
		return nil, err
	}

	o := newOptions(opts...)
	pipe, err := pipeline.New(ctx, o.pipelineOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create scan pipeline")
	}
	walk, err := addWalkStep(pipe, root)
	if err != nil {
		return nil, errors.Wrap(err, "unable to add walk step")
	}
	matched, err := pipeline.AddStepOneToMany(pipe, "match", walk, func(_ context.Context, file foundFile) ([]sampleFile, error) {
		values, ok := pat.Match(file.rel)
		if !ok {
			o.logger.WithField("path", file.path).Warnf("file does not match %q, skipped", pat)

			return nil, nil
		}

		return []sampleFile{{
			idx:    file.idx,
			sample: values[WildcardSample],
			group:  readGroupOf(pat, values),
			path:   filepath.Join(root, filepath.FromSlash(file.rel)),
		}}, nil
	}, pipeline.StepConcurrency[sampleFile](o.concurrency))
	if err != nil {
		return nil, errors.Wrap(err, "unable to add match step")
	}
	collected, err := addCollectSink(pipe, matched)
	if err != nil {
		return nil, errors.Wrap(err, "unable to add collect sink")
	}

	err = pipe.Run()
	if err != nil {
		return nil, err
	}

	files := collected()
	if len(files) == 0 {
		return nil, fsErrorf("no file under %s matches %q", root, pat)
	}

	si := NewSampleInfo()
	for _, f := range files {
		si.addPath(f.sample, f.group, f.path, stranded)
	}
	o.logger.WithField("root", root).Debugf("%d samples found in %d files", si.Len(), len(files))

	return si, nil
}
