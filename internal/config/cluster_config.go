package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// ClusterConfig is the cluster config file given to the workflow engine. seasnap only reads the
// __set_run_command__ entry.
type ClusterConfig struct {
	RunCommand struct {
		SnakeOpt   string `json:"snake_opt"`
		RunCommand string `json:"run_command"`
	} `json:"__set_run_command__"`
}

// LoadClusterConfig reads the cluster config at path.
func LoadClusterConfig(path string) (ClusterConfig, error) {
	res := ClusterConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		return res, errors.Wrapf(ErrInvalidConfig, "unable to read %s: %s", path, err)
	}
	err = json.Unmarshal(data, &res)
	if err != nil {
		return res, errors.Wrapf(ErrInvalidConfig, "unable to decode %s: %s", path, err)
	}

	return res, nil
}
