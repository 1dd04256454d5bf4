// Package mapping derives the ffmpeg stream-selection arguments for a
// parsed media file from a profile's language inclusion and exclusion lists.
package mapping

import (
	"fmt"
	"slices"

	"github.com/five82/probemap/internal/media"
	"github.com/five82/probemap/internal/reporter"
)

const (
	mapFlag     = "-map"
	defaultFlag = "default"
)

// Profile supplies the language rules used for stream selection.
type Profile interface {
	ExcludedAudioLanguages() []string
	ExcludedSubtitleLanguages() []string
	IncludedAudioLanguages() []string
	IncludedSubtitleLanguages() []string
	DefaultAudioLanguage() (string, bool)
	DefaultSubtitleLanguage() (string, bool)
}

// BuildStreamArgs returns the ordered -map and -disposition tokens that
// select info's streams according to p. The caller must check info.Valid.
//
// With no inclusion or exclusion lists configured for either track type the
// result is the single pair `-map 0`. Otherwise the video stream is mapped
// first, followed by the kept audio tracks, an optional default-audio
// disposition override, and the kept subtitle tracks.
func BuildStreamArgs(info media.MediaInfo, p Profile, diag reporter.Diagnostics) []string {
	if diag == nil {
		diag = reporter.NullReporter{}
	}

	inclAudio, exclAudio := p.IncludedAudioLanguages(), p.ExcludedAudioLanguages()
	inclSubs, exclSubs := p.IncludedSubtitleLanguages(), p.ExcludedSubtitleLanguages()

	if len(inclAudio) == 0 && len(exclAudio) == 0 && len(inclSubs) == 0 && len(exclSubs) == 0 {
		return []string{mapFlag, "0"}
	}

	args := []string{mapFlag, streamSpec(info.VideoStreamIndex)}

	fallback, _ := p.DefaultAudioLanguage()
	args = append(args, mapAudio(info.Audio, inclAudio, exclAudio, fallback, diag)...)
	args = append(args, mapSubtitles(info.Subtitle, inclSubs, exclSubs)...)
	return args
}

func mapAudio(tracks []media.AudioTrack, includes, excludes []string, fallback string, diag reporter.Diagnostics) []string {
	var args []string
	var kept []media.AudioTrack
	droppedDefault := false

	for _, t := range tracks {
		if !Keep(t.Language, includes, excludes) {
			if t.Default {
				droppedDefault = true
			}
			continue
		}
		kept = append(kept, t)
		args = append(args, mapFlag, streamSpec(t.StreamIndex))
	}

	if !droppedDefault {
		return args
	}

	if fallback == "" {
		diag.Warning("a default audio stream will be removed but no default language is configured to replace it")
		return args
	}

	pos, ok := ReassignDefault(kept, fallback)
	if !ok {
		diag.Warning(fmt.Sprintf("a default audio stream will be removed and no remaining audio stream has default language %q", fallback))
		return args
	}
	return append(args, fmt.Sprintf("-disposition:a:%d", pos), defaultFlag)
}

// Subtitles have no default reassignment step.
func mapSubtitles(tracks []media.SubtitleTrack, includes, excludes []string) []string {
	var args []string
	for _, t := range tracks {
		if Keep(t.Language, includes, excludes) {
			args = append(args, mapFlag, streamSpec(t.StreamIndex))
		}
	}
	return args
}

// Keep reports whether a track in language lang survives the given lists.
// A non-empty inclusion list is authoritative: the track is kept exactly
// when its language is listed there, whatever the exclusion list says.
func Keep(lang string, includes, excludes []string) bool {
	if len(includes) > 0 {
		return slices.Contains(includes, lang)
	}
	return !slices.Contains(excludes, lang)
}

// ReassignDefault returns the position among kept of the first track in
// language fallback, for use as the output's new default audio track.
func ReassignDefault(kept []media.AudioTrack, fallback string) (int, bool) {
	for i, t := range kept {
		if t.Language == fallback {
			return i, true
		}
	}
	return 0, false
}

func streamSpec(index string) string {
	return "0:" + index
}
