package config

import "github.com/pkg/errors"

var (
	// ErrUnknownPipeline is returned for a pipeline other than mapping and DE.
	ErrUnknownPipeline = errors.New("unknown pipeline")
	// ErrInvalidConfig is returned for config files that cannot be read or decoded.
	ErrInvalidConfig = errors.New("invalid config")
)
