package probemap

import (
	"context"
	"path/filepath"
	"time"

	"github.com/five82/probemap/internal/discovery"
	"github.com/five82/probemap/internal/reporter"
	"github.com/five82/probemap/internal/worker"
)

// FileAnalysis is one file's outcome within a scan.
type FileAnalysis struct {
	Path     string
	Analysis *Analysis
	Err      error
}

// ScanResult contains the outcome of a directory scan.
type ScanResult struct {
	Files        []FileAnalysis
	ValidCount   int
	InvalidCount int
	MatchedCount int
	Duration     time.Duration
}

// FindVideos finds video files in a directory.
func FindVideos(dir string, recursive bool) ([]string, error) {
	result, err := discovery.FindVideoFiles(dir, discovery.Options{Recursive: recursive}, nil)
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}

// Scan analyzes every video file under dir in parallel. Per-file failures
// are recorded in the result rather than aborting the scan; a rule
// configuration error does abort it.
func (e *Engine) Scan(ctx context.Context, dir string, recursive bool) (*ScanResult, error) {
	if _, err := e.requireProfiles(); err != nil {
		return nil, err
	}

	found, err := discovery.FindVideoFiles(dir, discovery.Options{Recursive: recursive}, e.logger)
	if err != nil {
		return nil, err
	}
	return e.ScanFiles(ctx, found.Files)
}

// ScanFiles analyzes the given files in parallel.
func (e *Engine) ScanFiles(ctx context.Context, files []string) (*ScanResult, error) {
	if _, err := e.requireProfiles(); err != nil {
		return nil, err
	}

	start := time.Now()
	e.reporter.BatchStarted(reporter.BatchStartInfo{
		TotalFiles: len(files),
		FileList:   files,
		Workers:    e.config.Workers,
	})

	results := make([]FileAnalysis, len(files))
	err := worker.ForEach(ctx, e.config.Workers, len(files), func(ctx context.Context, i int) {
		analysis, err := e.Analyze(ctx, files[i])
		results[i] = FileAnalysis{Path: files[i], Analysis: analysis, Err: err}
	}, func(p worker.Progress) {
		e.reporter.FileProgress(reporter.FileProgressContext{
			CurrentFile: p.Completed,
			TotalFiles:  p.Total,
		})
	})
	if err != nil {
		return nil, err
	}

	scan := &ScanResult{Files: results, Duration: time.Since(start)}
	fileResults := make([]reporter.FileResult, len(results))
	for i, r := range results {
		fr := reporter.FileResult{Filename: filepath.Base(r.Path)}
		if r.Analysis != nil && r.Analysis.Info.Valid {
			scan.ValidCount++
			fr.Valid = true
		} else {
			scan.InvalidCount++
		}
		if r.Analysis != nil && r.Analysis.Matched {
			scan.MatchedCount++
			fr.Rule = r.Analysis.Rule
			fr.Profile = r.Analysis.Profile.Name
		}
		if r.Err != nil {
			if isRuleConfig(r.Err) {
				return scan, r.Err
			}
			fr.Error = r.Err.Error()
		}
		fileResults[i] = fr
	}

	e.reporter.BatchComplete(reporter.BatchSummary{
		TotalFiles:    len(files),
		ValidCount:    scan.ValidCount,
		InvalidCount:  scan.InvalidCount,
		MatchedCount:  scan.MatchedCount,
		TotalDuration: scan.Duration,
		FileResults:   fileResults,
	})
	return scan, nil
}
