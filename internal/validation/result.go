// Package validation checks a transcoded file against the stream selection
// that produced it.
package validation

import "fmt"

// Result contains the overall validation result.
type Result struct {
	IsProbeValid                bool
	IsDurationCorrect           bool
	IsAudioTrackCountCorrect    bool
	IsSubtitleTrackCountCorrect bool
	IsAudioLanguageSetCorrect   bool

	// Details
	ExpectedDuration  int
	ActualDuration    int
	DurationMessage   string
	ExpectedAudio     int
	ActualAudio       int
	ExpectedSubtitles int
	ActualSubtitles   int
	LanguageMessage   string
}

// ValidationStep represents a single validation check.
type ValidationStep struct {
	Name    string
	Passed  bool
	Details string
}

// IsValid returns true if all validation checks passed.
func (r *Result) IsValid() bool {
	return r.IsProbeValid &&
		r.IsDurationCorrect &&
		r.IsAudioTrackCountCorrect &&
		r.IsSubtitleTrackCountCorrect &&
		r.IsAudioLanguageSetCorrect
}

// GetValidationSteps returns all validation steps with results.
func (r *Result) GetValidationSteps() []ValidationStep {
	if !r.IsProbeValid {
		return []ValidationStep{{
			Name:    "Output probe",
			Passed:  false,
			Details: "Output could not be parsed",
		}}
	}
	return []ValidationStep{
		{
			Name:    "Duration",
			Passed:  r.IsDurationCorrect,
			Details: r.DurationMessage,
		},
		{
			Name:    "Audio tracks",
			Passed:  r.IsAudioTrackCountCorrect,
			Details: formatCount(r.ActualAudio, r.ExpectedAudio),
		},
		{
			Name:    "Subtitle tracks",
			Passed:  r.IsSubtitleTrackCountCorrect,
			Details: formatCount(r.ActualSubtitles, r.ExpectedSubtitles),
		},
		{
			Name:    "Audio languages",
			Passed:  r.IsAudioLanguageSetCorrect,
			Details: r.LanguageMessage,
		},
	}
}

// GetFailures returns descriptions of failed validation checks.
func (r *Result) GetFailures() []string {
	var failures []string
	for _, step := range r.GetValidationSteps() {
		if !step.Passed {
			failures = append(failures, step.Name+": "+step.Details)
		}
	}
	return failures
}

func formatCount(actual, expected int) string {
	if actual == expected {
		return fmt.Sprintf("%d as selected", actual)
	}
	return fmt.Sprintf("got %d, expected %d", actual, expected)
}
