// Package discovery finds video files for batch scans.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	coreerrors "github.com/five82/probemap/internal/errors"
	"github.com/five82/probemap/internal/util"
)

// Logger defines the interface for discovery logging.
type Logger interface {
	Info(format string, args ...any)
	Debug(format string, args ...any)
}

// Options controls the directory walk.
type Options struct {
	// Recursive descends into subdirectories. Hidden directories are skipped.
	Recursive bool
}

// Result contains the results of file discovery.
type Result struct {
	Files        []string
	SkippedCount int
}

// FindVideoFiles finds video files under dir, sorted case-insensitively
// by path. logger may be nil.
func FindVideoFiles(dir string, opts Options, logger Logger) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, coreerrors.NewIOError(fmt.Sprintf("directory does not exist: %s", dir), err)
	}
	if !info.IsDir() {
		return nil, coreerrors.NewIOError(fmt.Sprintf("%s is not a directory", dir), nil)
	}

	result := &Result{}
	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() {
			if path == dir {
				return nil
			}
			if !opts.Recursive || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if util.IsVideoFile(path) {
			result.Files = append(result.Files, path)
		} else {
			result.SkippedCount++
		}
		return nil
	})
	if walkErr != nil {
		return nil, coreerrors.NewIOError(fmt.Sprintf("cannot read directory %s", dir), walkErr)
	}

	if len(result.Files) == 0 {
		return nil, coreerrors.NewNoFilesFoundError(dir)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return strings.ToLower(result.Files[i]) < strings.ToLower(result.Files[j])
	})

	if logger != nil {
		logDiscoveredFiles(result, logger)
	}

	return result, nil
}

// logDiscoveredFiles logs the first 5 discovered files plus a count.
func logDiscoveredFiles(result *Result, logger Logger) {
	logger.Info("Found %d video file(s), skipped %d other file(s)", len(result.Files), result.SkippedCount)

	for _, file := range result.Files[:min(5, len(result.Files))] {
		logger.Debug("  %s", filepath.Base(file))
	}
	if len(result.Files) > 5 {
		logger.Debug("  ... and %d more", len(result.Files)-5)
	}
}
