// Package reporter provides operator-facing output for probe, mapping and
// transcode runs: a terminal renderer, an NDJSON stream and fan-out helpers.
package reporter

import "time"

// TrackRow is one audio or subtitle track as shown to the operator.
type TrackRow struct {
	Index    string
	Language string
	Codec    string // Empty for subtitles
	Default  bool
}

// MediaSummary describes a parsed media file.
type MediaSummary struct {
	Path       string
	Valid      bool
	Duration   string
	Resolution string
	VideoCodec string
	ColorSpace string
	FPS        int
	SizeMB     float64
	Audio      []TrackRow
	Subtitles  []TrackRow
}

// StreamPlanSummary contains the stream selection derived for a file.
type StreamPlanSummary struct {
	InputFile string
	Rule      string // Empty when the profile was chosen explicitly
	Profile   string
	Args      []string
}

// ProgressSnapshot contains transcode progress information.
type ProgressSnapshot struct {
	Percent float32
	Speed   float32
	FPS     float32
	ETA     time.Duration
	Bitrate string
}

// TranscodeOutcome contains final transcode results.
type TranscodeOutcome struct {
	InputFile    string
	OutputFile   string
	OriginalSize uint64
	OutputSize   uint64
	TotalTime    time.Duration
}

// ValidationSummary contains output validation results.
type ValidationSummary struct {
	Passed bool
	Steps  []ValidationStep
}

// ValidationStep represents a single validation check.
type ValidationStep struct {
	Name    string
	Passed  bool
	Details string
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
	Workers    int
}

// FileProgressContext contains the number of files finished within a batch.
type FileProgressContext struct {
	CurrentFile int
	TotalFiles  int
	Path        string
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	TotalFiles    int
	ValidCount    int
	InvalidCount  int
	MatchedCount  int
	TotalDuration time.Duration
	FileResults   []FileResult
}

// FileResult contains the per-file outcome of a batch scan.
type FileResult struct {
	Filename string
	Valid    bool
	Rule     string
	Profile  string
	Error    string
}
