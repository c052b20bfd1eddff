package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/seasnap/internal/cli"
	"github.com/askiada/seasnap/pkg/metadata"
)

type recordingExecutor struct {
	calls [][]string
}

func (r *recordingExecutor) Execute(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))

	return nil
}

type result struct {
	code   int
	stdout string
	stderr string
	calls  [][]string
}

func run(t *testing.T, workDir string, args ...string) result {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	exe := &recordingExecutor{}
	code := cli.Run(context.Background(), append([]string{"--script-dir", "/opt/sea-snap"}, args...), cli.Env{
		Stdin:    strings.NewReader(""),
		Stdout:   stdout,
		Stderr:   stderr,
		Executor: exe,
		WorkDir:  workDir,
	})

	return result{code: code, stdout: stdout.String(), stderr: stderr.String(), calls: exe.calls}
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func TestRunWithoutArgs(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	code := cli.Run(context.Background(), nil, cli.Env{Stdout: stdout, Stderr: &bytes.Buffer{}})
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "covariate_file")
}

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()

	res := run(t, t.TempDir(), "align")
	assert.Equal(t, 1, res.code)
	assert.True(t, strings.HasPrefix(res.stderr, "Error: "))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, cli.ExitCode(context.Background(), 0))
	assert.Equal(t, 1, cli.ExitCode(context.Background(), 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 130, cli.ExitCode(ctx, 0))
	assert.Equal(t, 130, cli.ExitCode(ctx, 1))
}

func TestCovariateFileHelpShowsQuotedColumn(t *testing.T) {
	t.Parallel()

	res := run(t, t.TempDir(), "covariate_file", "--help")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "--col 'group gr1:lvl1 gr2:lvl1 gr3:lvl2'")
}

func TestSampleInfoFromDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"input/s1_R1.fastq.gz": "a",
		"input/s1_R2.fastq.gz": "b",
		"input/s2_R1.fastq.gz": "c",
		"mapping_config.yaml":  "pipeline_param:\n  in_path_pattern: input/{sample}_R{mate}.fastq.gz\n",
	})

	res := run(t, dir, "sample_info", "-l", "forward", "--graph", "scan.dot")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "EDIT BEFORE RUNNING PIPELINE!")

	f, err := os.Open(filepath.Join(dir, "sample_info.yaml"))
	require.NoError(t, err)
	defer f.Close()
	si, err := metadata.ReadSampleInfoYAML(f, metadata.Unstranded)
	require.NoError(t, err)
	require.Equal(t, 2, si.Len())
	s1, ok := si.Sample("s1")
	require.True(t, ok)
	assert.Equal(t, metadata.Forward, s1.Stranded)
	assert.Len(t, s1.Paths(), 2)

	graph, err := os.ReadFile(filepath.Join(dir, "scan.dot"))
	require.NoError(t, err)
	assert.Contains(t, string(graph), `"walk" -> "match"`)
}

func TestSampleInfoFromTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"samples.csv": "sample,stranded,read_group,path\ns1,reverse,L1,a.fq\n",
	})

	res := run(t, dir, "sample_info", "-f", "tsv", "-i", "samples.csv", "-s", ",", "-t", "tsv", "-o", "out")
	require.Equal(t, 0, res.code, res.stderr)
	content, err := os.ReadFile(filepath.Join(dir, "out.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "sample,stranded,read_group,path\ns1,reverse,L1,a.fq\n", string(content))
}

func TestSampleInfoErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tcs := map[string][]string{
		"bad strandedness":      {"sample_info", "-l", "both"},
		"bad format":            {"sample_info", "-t", "xml"},
		"bad source":            {"sample_info", "-f", "xml"},
		"missing config":        {"sample_info", "-c", "missing.yaml"},
		"missing input":         {"sample_info", "-f", "yaml", "-i", "missing.yaml"},
		"empty scan directory":  {"sample_info", "--root", "."},
	}

	for name, args := range tcs {
		args := args
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res := run(t, dir, args...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, "Error: ")
		})
	}
}

func TestCovariateFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"salmon/gr1.sf": "1",
		"salmon/gr2.sf": "2",
		"salmon/gr3.sf": "3",
	})

	res := run(t, dir, "covariate_file", "salmon", "sf",
		"--col", "group:gr1:lvl1 gr2:lvl1 gr3:lvl2",
		"--col", "batch b1:gr1,gr3 b2:gr2",
	)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "covariate_file.txt")

	f, err := os.Open(filepath.Join(dir, metadata.DefaultCovariateFile))
	require.NoError(t, err)
	defer f.Close()
	cf, err := metadata.ReadCovariateTable(f, metadata.DefaultSeparator)
	require.NoError(t, err)
	assert.Equal(t, append(metadata.MandatoryColumns(), "group", "batch"), cf.Columns())
	batches, err := cf.Values("batch")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2", "b1"}, batches)
}

func TestCovariateFileContractViolation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"salmon/gr1.sf": "1",
		"salmon/gr2.sf": "2",
	})

	res := run(t, dir, "covariate_file", "salmon", "sf", "--col", "group gr1:lvl1")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "gr2")
	assert.NoFileExists(t, filepath.Join(dir, metadata.DefaultCovariateFile))
}

func TestCovariateFileArgs(t *testing.T) {
	t.Parallel()

	res := run(t, t.TempDir(), "covariate_file", "salmon")
	assert.Equal(t, 1, res.code)
}

func TestPipelineLocal(t *testing.T) {
	t.Parallel()

	res := run(t, t.TempDir(), "mapping", "l", "--cores", "8", "-n")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, [][]string{{"snakemake", "--snakefile", "/opt/sea-snap/mapping_pipeline.snake", "--cores", "8", "-n"}}, res.calls)
}

func TestPipelineCluster(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"cluster_config.json": `{"__set_run_command__": {"snake_opt": "--jobs 10", "run_command": "--drmaa"}}`,
	})

	res := run(t, dir, "DE", "cluster")
	require.Equal(t, 0, res.code, res.stderr)
	require.Len(t, res.calls, 1)
	assert.Equal(t, "sh", res.calls[0][0])
	assert.Contains(t, res.stdout, "qsub")

	script, err := os.ReadFile(filepath.Join(dir, "run_pipeline.sh"))
	require.NoError(t, err)
	assert.Equal(t, "snakemake --snakefile /opt/sea-snap/DE_pipeline.snake --jobs 10 --cluster-config cluster_config.json --drmaa", string(script))
}

func TestPipelineBadMode(t *testing.T) {
	t.Parallel()

	res := run(t, t.TempDir(), "DE", "remote")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid mode")
	assert.Empty(t, res.calls)
}

func TestShowMatrix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"DE_config.yaml":     "experiment:\n  design_formula: ~ group\n",
		"covariate_file.txt": "md5\tfilename\tlabel\tsample\treplicate\tgroup\naa\ta.sf\ts1\ts1\t1\tctrl\n",
	})

	res := run(t, dir, "show_matrix")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, [][]string{{"Rscript", "--vanilla", "-e", "group <- c('ctrl')", "-e", "model.matrix(~ group)"}}, res.calls)
}

func TestCleanupLog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"sge_log/1.out":   "",
		"run_pipeline.sh": "",
		"DE_config.yaml":  "",
	})

	res := run(t, dir, "cleanup_log")
	require.Equal(t, 0, res.code, res.stderr)
	assert.NoDirExists(t, filepath.Join(dir, "sge_log"))
	assert.NoFileExists(t, filepath.Join(dir, "run_pipeline.sh"))
	assert.FileExists(t, filepath.Join(dir, "DE_config.yaml"))
}

func TestWorkingDir(t *testing.T) {
	t.Parallel()

	scriptDir := t.TempDir()
	writeFiles(t, scriptDir, map[string]string{
		"mapping_config.yaml": "m",
		"DE_config.yaml":      "d",
		"cluster_config.json": "{}",
	})
	dir := t.TempDir()

	stderr := &bytes.Buffer{}
	code := cli.Run(context.Background(), []string{"--script-dir", scriptDir, "working_dir", "-d", "run_%Y", "-c", "mapping"}, cli.Env{
		Stdout:  &bytes.Buffer{},
		Stderr:  stderr,
		WorkDir: dir,
	})
	require.Equal(t, 0, code, stderr.String())

	matches, err := filepath.Glob(filepath.Join(dir, "run_*", "mapping_config.yaml"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	res := run(t, dir, "working_dir", "-c", "variant")
	assert.Equal(t, 1, res.code)
}
