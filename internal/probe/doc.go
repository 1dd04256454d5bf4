// Package probe turns the textual stream report printed by `ffmpeg -i`
// into a media.MediaInfo.
//
// Only the report text is inspected; the single other input is the file's
// size on disk. Reports missing the overall duration or a primary video
// stream produce an invalid MediaInfo and a warning, never an error.
package probe
