package probe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/five82/probemap/internal/media"
	"github.com/five82/probemap/internal/reporter"
	"github.com/five82/probemap/internal/util"
)

// streamID matches the `#0:N` stream specifier plus the optional `[0x..]`
// PID suffix printed for MPEG-TS inputs and the optional language tag.
const streamID = `Stream #0:(\d+)(?:\[0x[0-9a-fA-F]+\])?(?:\((\w+)\))?`

var (
	durationRegex = regexp.MustCompile(`Duration: (\d+):(\d+):(\d+)`)
	videoRegex    = regexp.MustCompile(`(?m)` + streamID + `: Video: (\w+).*?, (\w+)[(,].*? (\d+)x(\d+).*? (\d+)(?:\.\d+)? fps`)
	audioRegex    = regexp.MustCompile(`(?m)^\s*` + streamID + `: Audio: (\w+)(.*)$`)
	subtitleRegex = regexp.MustCompile(`(?m)^\s*` + streamID + `: Subtitle:`)
)

const defaultMarker = "(default)"

// sizeFunc returns the size in bytes of the file at path.
type sizeFunc func(path string) (uint64, error)

// Parse builds a MediaInfo from the report text ffmpeg printed for path.
// Warnings about unusable reports are sent to diag, which may be nil.
func Parse(path, output string, diag reporter.Diagnostics) media.MediaInfo {
	return parse(path, output, util.GetFileSize, diag)
}

func parse(path, output string, size sizeFunc, diag reporter.Diagnostics) media.MediaInfo {
	if diag == nil {
		diag = reporter.NullReporter{}
	}

	dur := durationRegex.FindStringSubmatch(output)
	if dur == nil {
		diag.Warning(fmt.Sprintf("probe output has no duration: ffmpeg -i %s", path))
		return media.Invalid()
	}

	video := videoRegex.FindStringSubmatch(output)
	if video == nil {
		diag.Warning(fmt.Sprintf("probe output has no recognizable video stream: ffmpeg -i %s", path))
		return media.Invalid()
	}

	bytes, err := size(path)
	if err != nil {
		diag.Warning(fmt.Sprintf("cannot determine size of %s: %v", path, err))
		return media.Invalid()
	}

	// Groups: 1 index, 2 language, 3 codec, 4 pixel format, 5 width, 6 height, 7 fps.
	return media.MediaInfo{
		Valid:            true,
		Path:             path,
		VideoCodec:       video[3],
		VideoStreamIndex: video[1],
		Width:            atoi(video[5]),
		Height:           atoi(video[6]),
		RuntimeSecs:      atoi(dur[1])*3600 + atoi(dur[2])*60 + atoi(dur[3]),
		FileSizeMB:       util.BytesToMB(bytes),
		FPS:              atoi(video[7]),
		ColorSpace:       video[4],
		Audio:            parseAudio(output),
		Subtitle:         parseSubtitles(output),
	}
}

func parseAudio(output string) []media.AudioTrack {
	var tracks []media.AudioTrack
	for _, m := range audioRegex.FindAllStringSubmatch(output, -1) {
		tracks = append(tracks, media.AudioTrack{
			StreamIndex: m[1],
			Language:    languageOrUnd(m[2]),
			Format:      m[3],
			Default:     strings.Contains(m[4], defaultMarker),
		})
	}
	return tracks
}

func parseSubtitles(output string) []media.SubtitleTrack {
	var tracks []media.SubtitleTrack
	for _, m := range subtitleRegex.FindAllStringSubmatch(output, -1) {
		tracks = append(tracks, media.SubtitleTrack{
			StreamIndex: m[1],
			Language:    languageOrUnd(m[2]),
		})
	}
	return tracks
}

func languageOrUnd(lang string) string {
	if lang == "" {
		return media.UndeterminedLanguage
	}
	return lang
}

// atoi converts a regex-validated digit run.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
