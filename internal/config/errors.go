// Package config provides configuration types and defaults for probemap.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidWorkers indicates a worker count outside 1-MaxWorkers.
	ErrInvalidWorkers = errors.New("worker count out of range")

	// ErrMissingFFmpeg indicates no ffmpeg executable was configured.
	ErrMissingFFmpeg = errors.New("ffmpeg path not set")

	// ErrInvalidTimeout indicates a non-positive probe timeout.
	ErrInvalidTimeout = errors.New("probe timeout must be positive")

	// ErrMissingProfiles indicates an operation needs a profiles file and none was given.
	ErrMissingProfiles = errors.New("profiles file not set")
)
