package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Default constants
const (
	// DefaultFFmpegPath is the ffmpeg executable looked up on PATH.
	DefaultFFmpegPath = "ffmpeg"

	// DefaultProbeTimeout bounds a single ffmpeg probe invocation.
	DefaultProbeTimeout = 60 * time.Second

	// DefaultProfilePath is where the profiles file is looked for when none is given.
	DefaultProfilePath = "~/.config/probemap/profiles.toml"

	// DefaultLogDir is the run log directory.
	DefaultLogDir = "~/.local/state/probemap/logs"

	// MaxWorkers caps parallel probes during a scan.
	MaxWorkers = 32
)

// Config holds all configuration for a probemap run.
type Config struct {
	// External tools
	FFmpegPath   string
	ProbeTimeout time.Duration

	// Paths
	ProfilePath string
	OutputDir   string // Transcode output directory, defaults to the input's directory
	LogDir      string

	// Output
	Verbose bool
	JSON    bool
	NoLog   bool

	// Scan parallelism
	Workers int
}

// DefaultWorkers returns the CPU count bounded by MaxWorkers.
func DefaultWorkers() int {
	return min(max(runtime.NumCPU(), 1), MaxWorkers)
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		FFmpegPath:   DefaultFFmpegPath,
		ProbeTimeout: DefaultProbeTimeout,
		ProfilePath:  DefaultProfilePath,
		LogDir:       DefaultLogDir,
		Workers:      DefaultWorkers(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.FFmpegPath) == "" {
		return ErrMissingFFmpeg
	}

	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: must be 1-%d, got %d", ErrInvalidWorkers, MaxWorkers, c.Workers)
	}

	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTimeout, c.ProbeTimeout)
	}

	return nil
}

// Normalize expands ~ and makes the configured paths absolute.
func (c *Config) Normalize() error {
	var err error
	if c.ProfilePath, err = ExpandPath(c.ProfilePath); err != nil {
		return fmt.Errorf("profiles path: %w", err)
	}
	if c.OutputDir, err = ExpandPath(c.OutputDir); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	if c.LogDir, err = ExpandPath(c.LogDir); err != nil {
		return fmt.Errorf("log dir: %w", err)
	}
	return nil
}

// RequireProfiles returns the profiles path, or ErrMissingProfiles when it
// is unset or the file does not exist.
func (c *Config) RequireProfiles() (string, error) {
	if c.ProfilePath == "" {
		return "", ErrMissingProfiles
	}
	if _, err := os.Stat(c.ProfilePath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingProfiles, c.ProfilePath)
	}
	return c.ProfilePath, nil
}

// ExpandPath resolves a leading ~ to the home directory and returns an
// absolute, cleaned path. The empty string is returned unchanged.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
