package workdir_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/seasnap/internal/config"
	"github.com/askiada/seasnap/internal/workdir"
)

func scriptDir(t *testing.T) config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default(dir)
	for _, name := range []string{"mapping_config.yaml", "DE_config.yaml", "cluster_config.json", "seasnap"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o600))
	}

	return cfg
}

func TestSetup(t *testing.T) {
	t.Parallel()

	cfg := scriptDir(t)
	out := t.TempDir()
	logger, hook := test.NewNullLogger()
	opts := workdir.Options{
		Dirname:    filepath.Join(out, "results_%Y_%m_%d") + "/",
		Configs:    []string{config.DE, config.DE},
		Now:        time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC),
		Executable: cfg.ScriptPath("seasnap"),
	}

	dir, err := workdir.Setup(cfg, opts, logger)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "results_2024_03_05"), dir)

	content, err := os.ReadFile(filepath.Join(dir, "DE_config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "DE_config.yaml", string(content))
	assert.FileExists(t, filepath.Join(dir, "cluster_config.json"))
	assert.NoFileExists(t, filepath.Join(dir, "mapping_config.yaml"))

	target, err := os.Readlink(filepath.Join(dir, "sea-snap"))
	require.NoError(t, err)
	assert.Equal(t, cfg.ScriptPath("seasnap"), target)
	require.NotEmpty(t, hook.AllEntries())
	assert.Contains(t, hook.AllEntries()[0].Message, "created")

	_, err = workdir.Setup(cfg, opts, logger)
	assert.ErrorIs(t, err, workdir.ErrDirectoryExists)
}

func TestSetupAllConfigs(t *testing.T) {
	t.Parallel()

	cfg := scriptDir(t)
	logger, _ := test.NewNullLogger()
	dir, err := workdir.Setup(cfg, workdir.Options{
		Dirname:    filepath.Join(t.TempDir(), "run"),
		Executable: cfg.ScriptPath("seasnap"),
	}, logger)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "mapping_config.yaml"))
	assert.FileExists(t, filepath.Join(dir, "DE_config.yaml"))
}

func TestSetupErrors(t *testing.T) {
	t.Parallel()

	cfg := scriptDir(t)
	logger, _ := test.NewNullLogger()

	_, err := workdir.Setup(cfg, workdir.Options{
		Dirname:    filepath.Join(t.TempDir(), "run"),
		Configs:    []string{"variant"},
		Executable: cfg.ScriptPath("seasnap"),
	}, logger)
	assert.ErrorIs(t, err, config.ErrUnknownPipeline)

	require.NoError(t, os.Remove(cfg.ScriptPath("cluster_config.json")))
	_, err = workdir.Setup(cfg, workdir.Options{
		Dirname:    filepath.Join(t.TempDir(), "run"),
		Executable: cfg.ScriptPath("seasnap"),
	}, logger)
	assert.ErrorIs(t, err, workdir.ErrSetup)
}
