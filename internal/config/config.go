// Package config describes where seasnap finds its pipeline definitions and how it talks to the
// workflow engine and the cluster scheduler.
package config

import (
	"path/filepath"

	"github.com/kardianos/osext"
	"github.com/pkg/errors"
)

// Pipeline names.
const (
	Mapping = "mapping"
	DE      = "DE"
)

// Pipelines lists the known pipelines in the order their configs are imported.
var Pipelines = []string{Mapping, DE}

// Config gathers the file names and external tools used by every command.
type Config struct {
	// ScriptDir holds the pipeline definitions and the config templates.
	ScriptDir string
	// ConfigFiles maps a pipeline to its config template, relative to ScriptDir.
	ConfigFiles map[string]string
	// Snakefiles maps a pipeline to its workflow definition, relative to ScriptDir.
	Snakefiles map[string]string
	// ClusterConfig is the cluster config file, copied into working directories.
	ClusterConfig string
	// ClusterStart is the scheduler submission of the generated run script.
	ClusterStart string
	// ClusterLogDir receives the scheduler logs.
	ClusterLogDir string
	// RunScript is the script written for cluster runs.
	RunScript string
	// WorkflowEngine runs the pipelines.
	WorkflowEngine string
	// StatsRuntime evaluates model matrices.
	StatsRuntime string
	// Shell runs cluster submissions.
	Shell string
	// Wrapper is the name of the link to the executable created in working directories.
	Wrapper string
}

// Default returns the configuration of a standard installation rooted at scriptDir.
func Default(scriptDir string) Config {
	return Config{
		ScriptDir: scriptDir,
		ConfigFiles: map[string]string{
			Mapping: "mapping_config.yaml",
			DE:      "DE_config.yaml",
		},
		Snakefiles: map[string]string{
			Mapping: "mapping_pipeline.snake",
			DE:      "DE_pipeline.snake",
		},
		ClusterConfig:  "cluster_config.json",
		ClusterStart:   "qsub -cwd -V -pe smp 1 -l h_vmem=4G -l h_rt=100:00:00 -P medium -j y -o pipeline_log.out -e pipeline_log.err run_pipeline.sh",
		ClusterLogDir:  "sge_log",
		RunScript:      "run_pipeline.sh",
		WorkflowEngine: "snakemake",
		StatsRuntime:   "Rscript",
		Shell:          "sh",
		Wrapper:        "sea-snap",
	}
}

// DefaultScriptDir returns the folder of the running executable.
func DefaultScriptDir() (string, error) {
	dir, err := osext.ExecutableFolder()
	if err != nil {
		return "", errors.Wrap(err, "unable to locate executable folder")
	}

	return dir, nil
}

// ScriptPath returns name inside the script directory.
func (c Config) ScriptPath(name string) string {
	return filepath.Join(c.ScriptDir, name)
}

// ConfigTemplate returns the path of the config template of pipeline.
func (c Config) ConfigTemplate(pipeline string) (string, error) {
	name, ok := c.ConfigFiles[pipeline]
	if !ok {
		return "", errors.Wrapf(ErrUnknownPipeline, "%q", pipeline)
	}

	return c.ScriptPath(name), nil
}

// Snakefile returns the path of the workflow definition of pipeline.
func (c Config) Snakefile(pipeline string) (string, error) {
	name, ok := c.Snakefiles[pipeline]
	if !ok {
		return "", errors.Wrapf(ErrUnknownPipeline, "%q", pipeline)
	}

	return c.ScriptPath(name), nil
}
