// Package media holds the structured description of a probed media file:
// its primary video stream attributes and ordered audio and subtitle tracks.
package media

import (
	"fmt"
	"strings"

	"github.com/five82/probemap/internal/util"
)

// UndeterminedLanguage is the language recorded for tracks without a tag.
const UndeterminedLanguage = "und"

// AudioTrack describes one audio stream in container order.
type AudioTrack struct {
	StreamIndex string
	Language    string
	Format      string
	Default     bool
}

// Codec returns the audio codec name.
func (a AudioTrack) Codec() string {
	return a.Format
}

func (a AudioTrack) String() string {
	disposition := ""
	if a.Default {
		disposition = "default"
	}
	return fmt.Sprintf("%s:%s:%s:%s", a.StreamIndex, a.Language, a.Format, disposition)
}

// SubtitleTrack describes one subtitle stream in container order.
type SubtitleTrack struct {
	StreamIndex string
	Language    string
}

func (s SubtitleTrack) String() string {
	return fmt.Sprintf("%s:%s", s.StreamIndex, s.Language)
}

// MediaInfo describes one media file. When Valid is false no other field
// carries meaning.
type MediaInfo struct {
	Valid bool

	Path             string
	VideoCodec       string
	VideoStreamIndex string
	Width            int
	Height           int
	RuntimeSecs      int
	FileSizeMB       float64
	FPS              int
	ColorSpace       string

	Audio    []AudioTrack
	Subtitle []SubtitleTrack
}

// Invalid returns the marker value for media whose probe output was unusable.
func Invalid() MediaInfo {
	return MediaInfo{}
}

// IsMultistream reports whether the file carries more than one audio or
// more than one subtitle track.
func (m MediaInfo) IsMultistream() bool {
	return len(m.Audio) > 1 || len(m.Subtitle) > 1
}

// Resolution returns the frame size as WIDTHxHEIGHT.
func (m MediaInfo) Resolution() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

func (m MediaInfo) String() string {
	if !m.Valid {
		return "MediaInfo: invalid"
	}

	audio := make([]string, len(m.Audio))
	for i, a := range m.Audio {
		audio[i] = a.String()
	}
	subs := make([]string, len(m.Subtitle))
	for i, s := range m.Subtitle {
		subs[i] = s.String()
	}

	return fmt.Sprintf("MediaInfo: %s, %.2fmb, %d fps, cs=%s, %s, %s, c:v=%s, audio=(%s), sub=(%s)",
		m.Path, m.FileSizeMB, m.FPS, m.ColorSpace, m.Resolution(),
		util.FormatDurationFromSecs(int64(m.RuntimeSecs)), m.VideoCodec,
		strings.Join(audio, ","), strings.Join(subs, ","))
}
