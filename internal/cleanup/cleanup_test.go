package cleanup_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/seasnap/internal/cleanup"
	"github.com/askiada/seasnap/internal/config"
)

func TestClusterLogs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch := func(name string) {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o600))
	}
	for _, name := range []string{
		"sge_log/job.1/out",
		"temp_snakemake_1.sh",
		"run_pipeline.sh",
		"core.1234",
		"pipeline_log.out",
		"snakemake.log",
		"DE_config.yaml",
		"covariate_file.txt",
		"catalog/keep.txt",
	} {
		touch(name)
	}
	logger, hook := test.NewNullLogger()

	removed, err := cleanup.ClusterLogs(config.Default("/opt/sea-snap"), dir, logger)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "sge_log"),
		filepath.Join(dir, "run_pipeline.sh"),
		filepath.Join(dir, "core.1234"),
		filepath.Join(dir, "pipeline_log.out"),
		filepath.Join(dir, "snakemake.log"),
		filepath.Join(dir, "temp_snakemake_1.sh"),
	}, removed)
	assert.Len(t, hook.AllEntries(), len(removed))

	assert.NoDirExists(t, filepath.Join(dir, "sge_log"))
	assert.FileExists(t, filepath.Join(dir, "DE_config.yaml"))
	assert.FileExists(t, filepath.Join(dir, "covariate_file.txt"))
	assert.FileExists(t, filepath.Join(dir, "catalog", "keep.txt"))

	removed, err = cleanup.ClusterLogs(config.Default("/opt/sea-snap"), dir, logger)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestClusterLogsMissingDir(t *testing.T) {
	t.Parallel()

	logger, _ := test.NewNullLogger()
	_, err := cleanup.ClusterLogs(config.Default("/opt/sea-snap"), filepath.Join(t.TempDir(), "missing"), logger)
	assert.Error(t, err)
}
