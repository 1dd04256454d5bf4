package rules

import (
	"github.com/five82/probemap/internal/media"
)

// Attribute is one of the numeric MediaInfo properties a rule may test.
type Attribute int

const (
	AttrResWidth Attribute = iota
	AttrResHeight
	AttrRuntime
	AttrFPS
	AttrFileSize
	AttrAudioTracks
	AttrSubtitleTracks
)

var attributeNames = map[string]Attribute{
	"res_width":       AttrResWidth,
	"res_height":      AttrResHeight,
	"runtime":         AttrRuntime,
	"fps":             AttrFPS,
	"filesize_mb":     AttrFileSize,
	"audio_tracks":    AttrAudioTracks,
	"subtitle_tracks": AttrSubtitleTracks,
}

// ParseAttribute resolves a rule criterion name.
func ParseAttribute(name string) (Attribute, bool) {
	a, ok := attributeNames[name]
	return a, ok
}

// AttributeNames lists every recognized criterion name.
func AttributeNames() []string {
	return []string{"res_width", "res_height", "runtime", "fps", "filesize_mb", "audio_tracks", "subtitle_tracks"}
}

func (a Attribute) String() string {
	for name, attr := range attributeNames {
		if attr == a {
			return name
		}
	}
	return "unknown"
}

// Value returns the attribute's value for info. Runtime is in seconds.
func (a Attribute) Value(info media.MediaInfo) float64 {
	switch a {
	case AttrResWidth:
		return float64(info.Width)
	case AttrResHeight:
		return float64(info.Height)
	case AttrRuntime:
		return float64(info.RuntimeSecs)
	case AttrFPS:
		return float64(info.FPS)
	case AttrFileSize:
		return info.FileSizeMB
	case AttrAudioTracks:
		return float64(len(info.Audio))
	case AttrSubtitleTracks:
		return float64(len(info.Subtitle))
	default:
		return 0
	}
}

// scale is the factor converting rule literals to the stored unit.
// Runtime rules are written in minutes.
func (a Attribute) scale() float64 {
	if a == AttrRuntime {
		return 60
	}
	return 1
}
