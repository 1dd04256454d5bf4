package validation

import (
	"fmt"
	"slices"

	"github.com/five82/probemap/internal/mapping"
	"github.com/five82/probemap/internal/media"
)

// durationToleranceSecs is the maximum allowed difference in whole seconds
// between input and output runtime.
const durationToleranceSecs = 1

// Expectation describes what a transcode of one input should produce.
type Expectation struct {
	RuntimeSecs    int
	AudioLanguages []string
	SubtitleTracks int
}

// Expect derives the expected output of transcoding input with p's stream
// selection.
func Expect(input media.MediaInfo, p mapping.Profile) Expectation {
	exp := Expectation{RuntimeSecs: input.RuntimeSecs}

	inclAudio, exclAudio := p.IncludedAudioLanguages(), p.ExcludedAudioLanguages()
	for _, t := range input.Audio {
		if mapping.Keep(t.Language, inclAudio, exclAudio) {
			exp.AudioLanguages = append(exp.AudioLanguages, t.Language)
		}
	}

	inclSubs, exclSubs := p.IncludedSubtitleLanguages(), p.ExcludedSubtitleLanguages()
	for _, t := range input.Subtitle {
		if mapping.Keep(t.Language, inclSubs, exclSubs) {
			exp.SubtitleTracks++
		}
	}
	return exp
}

// Validate compares the probed output against exp.
func Validate(output media.MediaInfo, exp Expectation) *Result {
	result := &Result{
		IsProbeValid:      output.Valid,
		ExpectedDuration:  exp.RuntimeSecs,
		ExpectedAudio:     len(exp.AudioLanguages),
		ExpectedSubtitles: exp.SubtitleTracks,
	}
	if !output.Valid {
		return result
	}

	result.ActualDuration = output.RuntimeSecs
	result.IsDurationCorrect, result.DurationMessage = validateDuration(output.RuntimeSecs, exp.RuntimeSecs)

	result.ActualAudio = len(output.Audio)
	result.IsAudioTrackCountCorrect = result.ActualAudio == result.ExpectedAudio

	result.ActualSubtitles = len(output.Subtitle)
	result.IsSubtitleTrackCountCorrect = result.ActualSubtitles == result.ExpectedSubtitles

	result.IsAudioLanguageSetCorrect, result.LanguageMessage = validateAudioLanguages(output.Audio, exp.AudioLanguages)
	return result
}

// validateDuration checks that duration is within acceptable tolerance.
func validateDuration(actual, expected int) (bool, string) {
	diff := actual - expected
	if diff < 0 {
		diff = -diff
	}
	if diff <= durationToleranceSecs {
		return true, fmt.Sprintf("Duration matches input (%ds)", actual)
	}
	return false, fmt.Sprintf("Duration mismatch: got %ds, expected %ds (diff: %ds)", actual, expected, diff)
}

// validateAudioLanguages checks the output audio languages in container order.
func validateAudioLanguages(tracks []media.AudioTrack, expected []string) (bool, string) {
	actual := make([]string, len(tracks))
	for i, t := range tracks {
		actual[i] = t.Language
	}
	if slices.Equal(actual, expected) {
		if len(actual) == 0 {
			return true, "No audio tracks"
		}
		return true, fmt.Sprintf("Languages preserved: %v", actual)
	}
	return false, fmt.Sprintf("Languages %v, expected %v", actual, expected)
}
