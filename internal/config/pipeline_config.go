package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PipelineParam is the pipeline_param section of a pipeline config.
type PipelineParam struct {
	InPathPattern  string `yaml:"in_path_pattern"`
	OutPathPattern string `yaml:"out_path_pattern"`
}

// Experiment is the experiment section of a DE config.
type Experiment struct {
	DesignFormula string `yaml:"design_formula"`
}

// PipelineConfig holds the parts of a pipeline config that seasnap reads. Every other key is
// left to the workflow engine.
type PipelineConfig struct {
	PipelineParam PipelineParam `yaml:"pipeline_param"`
	Experiment    Experiment    `yaml:"experiment"`
}

// merge overrides the fields of pc set in other.
func (pc *PipelineConfig) merge(other PipelineConfig) {
	if other.PipelineParam.InPathPattern != "" {
		pc.PipelineParam.InPathPattern = other.PipelineParam.InPathPattern
	}
	if other.PipelineParam.OutPathPattern != "" {
		pc.PipelineParam.OutPathPattern = other.PipelineParam.OutPathPattern
	}
	if other.Experiment.DesignFormula != "" {
		pc.Experiment.DesignFormula = other.Experiment.DesignFormula
	}
}

// LoadPipelineConfig reads the YAML config files in order, later files overriding earlier ones.
func LoadPipelineConfig(paths ...string) (PipelineConfig, error) {
	res := PipelineConfig{}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return PipelineConfig{}, errors.Wrapf(ErrInvalidConfig, "unable to read %s: %s", p, err)
		}
		pc := PipelineConfig{}
		err = yaml.Unmarshal(data, &pc)
		if err != nil {
			return PipelineConfig{}, errors.Wrapf(ErrInvalidConfig, "unable to decode %s: %s", p, err)
		}
		res.merge(pc)
	}

	return res, nil
}
