package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events, one object per line.
type JSONReporter struct {
	writer             io.Writer
	mu                 sync.Mutex
	lastProgressBucket int
	lastProgressTime   time.Time
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return NewJSONReporterWithWriter(os.Stdout)
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{
		writer:             w,
		lastProgressBucket: -1,
	}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]any{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]any{
		"type":      "verbose",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func trackEvents(rows []TrackRow) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		entry := map[string]any{
			"stream":   row.Index,
			"language": row.Language,
		}
		if row.Codec != "" {
			entry["codec"] = row.Codec
			entry["default"] = row.Default
		}
		out[i] = entry
	}
	return out
}

func (r *JSONReporter) MediaSummary(summary MediaSummary) {
	event := map[string]any{
		"type":      "media",
		"path":      summary.Path,
		"valid":     summary.Valid,
		"timestamp": r.timestamp(),
	}
	if summary.Valid {
		event["duration"] = summary.Duration
		event["resolution"] = summary.Resolution
		event["video_codec"] = summary.VideoCodec
		event["color_space"] = summary.ColorSpace
		event["fps"] = summary.FPS
		event["size_mb"] = summary.SizeMB
		event["audio"] = trackEvents(summary.Audio)
		event["subtitles"] = trackEvents(summary.Subtitles)
	}
	r.write(event)
}

func (r *JSONReporter) StreamPlan(summary StreamPlanSummary) {
	r.write(map[string]any{
		"type":       "stream_plan",
		"input_file": summary.InputFile,
		"rule":       summary.Rule,
		"profile":    summary.Profile,
		"args":       summary.Args,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) TranscodeStarted(input, output string) {
	r.mu.Lock()
	r.lastProgressBucket = -1
	r.lastProgressTime = time.Time{}
	r.mu.Unlock()

	r.write(map[string]any{
		"type":        "transcode_started",
		"input_file":  input,
		"output_file": output,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) TranscodeProgress(progress ProgressSnapshot) {
	const minInterval = 5 * time.Second

	bucket := int(progress.Percent)
	now := time.Now()

	r.mu.Lock()
	intervalElapsed := r.lastProgressTime.IsZero() || now.Sub(r.lastProgressTime) >= minInterval
	shouldEmit := bucket > r.lastProgressBucket || intervalElapsed || progress.Percent >= 99.0
	if !shouldEmit {
		r.mu.Unlock()
		return
	}
	if bucket > r.lastProgressBucket {
		r.lastProgressBucket = bucket
	}
	r.lastProgressTime = now
	r.mu.Unlock()

	r.write(map[string]any{
		"type":        "transcode_progress",
		"percent":     progress.Percent,
		"speed":       progress.Speed,
		"fps":         progress.FPS,
		"eta_seconds": int64(progress.ETA.Seconds()),
		"bitrate":     progress.Bitrate,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) TranscodeComplete(outcome TranscodeOutcome) {
	r.write(map[string]any{
		"type":               "transcode_complete",
		"input_file":         outcome.InputFile,
		"output_file":        outcome.OutputFile,
		"original_size":      outcome.OriginalSize,
		"output_size":        outcome.OutputSize,
		"total_time_seconds": outcome.TotalTime.Seconds(),
		"timestamp":          r.timestamp(),
	})
}

func (r *JSONReporter) ValidationComplete(summary ValidationSummary) {
	steps := make([]map[string]any, len(summary.Steps))
	for i, step := range summary.Steps {
		steps[i] = map[string]any{
			"step":    step.Name,
			"passed":  step.Passed,
			"details": step.Details,
		}
	}

	r.write(map[string]any{
		"type":              "validation_complete",
		"validation_passed": summary.Passed,
		"validation_steps":  steps,
		"timestamp":         r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]any{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) OperationComplete(message string) {
	r.write(map[string]any{
		"type":      "operation_complete",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]any{
		"type":        "batch_started",
		"total_files": info.TotalFiles,
		"file_list":   info.FileList,
		"workers":     info.Workers,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) FileProgress(context FileProgressContext) {
	r.write(map[string]any{
		"type":         "file_progress",
		"current_file": context.CurrentFile,
		"total_files":  context.TotalFiles,
		"path":         context.Path,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	results := make([]map[string]any, len(summary.FileResults))
	for i, result := range summary.FileResults {
		results[i] = map[string]any{
			"filename": result.Filename,
			"valid":    result.Valid,
			"rule":     result.Rule,
			"profile":  result.Profile,
			"error":    result.Error,
		}
	}

	r.write(map[string]any{
		"type":                   "batch_complete",
		"total_files":            summary.TotalFiles,
		"valid_count":            summary.ValidCount,
		"invalid_count":          summary.InvalidCount,
		"matched_count":          summary.MatchedCount,
		"total_duration_seconds": summary.TotalDuration.Seconds(),
		"file_results":           results,
		"timestamp":              r.timestamp(),
	})
}
