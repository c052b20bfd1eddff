package metadata

import (
	"context"
	"crypto/md5" //nolint:gosec // checksums identify artifacts, they do not protect them
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/askiada/seasnap/pkg/pipeline"
)

// Mandatory covariate columns, in file order.
const (
	ColumnMD5       = "md5"
	ColumnFilename  = "filename"
	ColumnLabel     = "label"
	ColumnSample    = "sample"
	ColumnReplicate = "replicate"
)

// DefaultCovariateFile is the file name used when none is given.
const DefaultCovariateFile = "covariate_file.txt"

// DefaultOutputPattern locates the artifacts of a pipeline step.
const DefaultOutputPattern = "{step}/{sample}.{extension}"

// MandatoryColumns lists the columns every covariate file starts with.
func MandatoryColumns() []string {
	return []string{ColumnMD5, ColumnFilename, ColumnLabel, ColumnSample, ColumnReplicate}
}

func isMandatory(name string) bool {
	for _, c := range MandatoryColumns() {
		if c == name {
			return true
		}
	}

	return false
}

// CovariateRow describes one pipeline output artifact. Extra holds the values of the
// additional columns, in column order.
type CovariateRow struct {
	MD5       string
	Filename  string
	Label     string
	Sample    string
	Replicate string
	Extra     []string
}

func (r CovariateRow) values() []string {
	return append([]string{r.MD5, r.Filename, r.Label, r.Sample, r.Replicate}, r.Extra...)
}

// CovariateFile is the table describing the samples of a differential expression analysis.
type CovariateFile struct {
	extra []string
	rows  []CovariateRow
}

// Columns returns the mandatory columns followed by the additional ones in the order they were
// added.
func (cf *CovariateFile) Columns() []string {
	return append(MandatoryColumns(), cf.extra...)
}

// Rows returns a copy of the rows in discovery order.
func (cf *CovariateFile) Rows() []CovariateRow {
	res := make([]CovariateRow, len(cf.rows))
	for i, r := range cf.rows {
		res[i] = r
		if r.Extra != nil {
			res[i].Extra = append([]string(nil), r.Extra...)
		}
	}

	return res
}

// Samples returns the distinct sample identifiers in order of first appearance.
func (cf *CovariateFile) Samples() []string {
	seen := map[string]struct{}{}
	res := []string{}
	for _, r := range cf.rows {
		if _, ok := seen[r.Sample]; ok {
			continue
		}
		seen[r.Sample] = struct{}{}
		res = append(res, r.Sample)
	}

	return res
}

// Values returns the value of column name for every row.
func (cf *CovariateFile) Values(name string) ([]string, error) {
	for i, c := range cf.Columns() {
		if c != name {
			continue
		}
		res := make([]string, len(cf.rows))
		for j, r := range cf.rows {
			res[j] = r.values()[i]
		}

		return res, nil
	}

	return nil, parseErrorf("covariate file has no column %q", name)
}

// AddColumn appends a grouping column. The column must label every sample of the file and
// nothing else; the file is left untouched otherwise.
func (cf *CovariateFile) AddColumn(col Column) error {
	if col.Name == "" {
		return parseErrorf("column without name")
	}
	for _, c := range cf.Columns() {
		if c == col.Name {
			return parseErrorf("column %q already exists", col.Name)
		}
	}
	err := col.checkCoverage(cf.Samples())
	if err != nil {
		return err
	}

	cf.extra = append(cf.extra, col.Name)
	for i := range cf.rows {
		cf.rows[i].Extra = append(cf.rows[i].Extra, col.Labels[cf.rows[i].Sample])
	}

	return nil
}

// AddColumnSpec parses items with ParseColumnSpec against the samples of the file and adds the
// resulting column.
func (cf *CovariateFile) AddColumnSpec(name string, items []string) error {
	col, err := ParseColumnSpec(name, items, cf.Samples())
	if err != nil {
		return err
	}

	return cf.AddColumn(col)
}

// CovariateOptions drives DeriveCovariates.
type CovariateOptions struct {
	// Root is the directory the pattern is relative to. Defaults to the working directory.
	Root string
	// Pattern names the artifacts. Defaults to DefaultOutputPattern.
	Pattern string
	// Step is the pipeline step whose outputs are collected, e.g. "salmon".
	Step string
	// Extension is the output file extension, e.g. "sf".
	Extension string
}

type artifact struct {
	idx    int
	sample string
	path   string
	md5    string
}

func (a artifact) index() int { return a.idx }

func (o CovariateOptions) resolve() (string, *Pattern, error) {
	if o.Step == "" || o.Extension == "" {
		return "", nil, parseErrorf("step and extension are required")
	}
	raw := o.Pattern
	if raw == "" {
		raw = DefaultOutputPattern
	}
	pat, err := CompilePattern(raw)
	if err != nil {
		return "", nil, err
	}
	pat, err = pat.Expand(map[string]string{WildcardStep: o.Step, WildcardExtension: o.Extension})
	if err != nil {
		return "", nil, err
	}
	prefix, rel, err := pat.SplitRoot()
	if err != nil {
		return "", nil, err
	}
	if !rel.Has(WildcardSample) {
		return "", nil, parseErrorf("path pattern %q has no {%s} wildcard", raw, WildcardSample)
	}

	root := prefix
	if o.Root != "" && !filepath.IsAbs(prefix) {
		root = filepath.Join(o.Root, prefix)
	}

	return root, rel, nil
}

func fileMD5(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", fsErrorf("unable to open %s: %s", name, err)
	}
	defer f.Close()

	h := md5.New() //nolint:gosec
	_, err = io.Copy(h, f)
	if err != nil {
		return "", fsErrorf("unable to read %s: %s", name, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// DeriveCovariates scans the outputs of a pipeline step and fills the mandatory columns, one
// row per artifact in walk order.
func DeriveCovariates(ctx context.Context, co CovariateOptions, opts ...Option) (*CovariateFile, error) {
	root, pat, err := co.resolve()
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
	matched, err := pipeline.AddStepOneToMany(pipe, "match", walk, func(_ context.Context, file foundFile) ([]artifact, error) {
		values, ok := pat.Match(file.rel)
		if !ok {
			return nil, nil
		}

		return []artifact{{idx: file.idx, sample: values[WildcardSample], path: file.path}}, nil
	}, pipeline.StepConcurrency[artifact](o.concurrency))
	if err != nil {
		return nil, errors.Wrap(err, "unable to add match step")
	}
	hashed, err := pipeline.AddStepOneToOne(pipe, "md5", matched, func(_ context.Context, a artifact) (artifact, error) {
		sum, err := fileMD5(a.path)
		if err != nil {
			return a, err
		}
		a.md5 = sum

		return a, nil
	}, pipeline.StepConcurrency[artifact](o.concurrency))
	if err != nil {
		return nil, errors.Wrap(err, "unable to add md5 step")
	}
	collected, err := addCollectSink(pipe, hashed)
	if err != nil {
		return nil, errors.Wrap(err, "unable to add collect sink")
	}

	err = pipe.Run()
	if err != nil {
		return nil, err
	}

	artifacts := collected()
	if len(artifacts) == 0 {
		return nil, fsErrorf("no %s output under %s matches %q", co.Step, root, pat)
	}

	perSample := map[string]int{}
	for _, a := range artifacts {
		perSample[a.sample]++
	}
	cf := &CovariateFile{}
	replicate := map[string]int{}
	for _, a := range artifacts {
		replicate[a.sample]++
		rep := strconv.Itoa(replicate[a.sample])
		label := a.sample
		if perSample[a.sample] > 1 {
			label += "_" + rep
		}
		cf.rows = append(cf.rows, CovariateRow{
			MD5:       a.md5,
			Filename:  a.path,
			Label:     label,
			Sample:    a.sample,
			Replicate: rep,
		})
	}
	o.logger.WithField("root", root).Debugf("%d %s artifacts found for %d samples", len(cf.rows), co.Step, len(perSample))

	return cf, nil
}
