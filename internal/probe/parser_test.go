package probe

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/five82/probemap/internal/media"
	"github.com/five82/probemap/internal/util"
)

const episodeReport = `Input #0, matroska,webm, from '/media/show/episode.mkv':
  Metadata:
    title           : Episode
    encoder         : libebml v1.4.2 + libmatroska v1.6.4
  Duration: 00:30:15.04, start: 0.000000, bitrate: 4521 kb/s
  Chapters:
    Chapter #0:0: start 0.000000, end 300.000000
      Metadata:
        title           : Chapter 1
  Stream #0:0(eng): Video: h264 (High), yuv420p(tv, bt709, progressive), 1920x1080 [SAR 1:1 DAR 16:9], 23.98 fps, 23.98 tbr, 1k tbn (default)
    Metadata:
      BPS-eng         : 3813205
  Stream #0:1(eng): Audio: ac3, 48000 Hz, 5.1(side), fltp, 640 kb/s (default)
    Metadata:
      title           : Surround 5.1
  Stream #0:2(spa): Audio: aac (LC), 48000 Hz, stereo, fltp
  Stream #0:3(eng): Subtitle: subrip
At least one output file must be specified
`

const tsReport = `Input #0, mpegts, from 'recording.ts':
  Duration: 01:02:03.50, start: 1.400000, bitrate: 9000 kb/s
  Program 1
  Stream #0:0[0x100]: Video: mpeg2video (Main) ([2][0][0][0] / 0x0002), yuv420p(tv, top first), 720x576 [SAR 16:15 DAR 4:3], 25 fps, 25 tbr, 90k tbn
  Stream #0:1[0x101](ger): Audio: mp2 ([3][0][0][0] / 0x0003), 48000 Hz, stereo, fltp, 192 kb/s
  Stream #0:2[0x102]: Audio: ac3 ([129][0][0][0] / 0x0081), 48000 Hz, 5.1(side), fltp, 448 kb/s
  Stream #0:3[0x103](ger): Subtitle: dvb_teletext ([6][0][0][0] / 0x0006)
  Stream #0:4[0x104]: Subtitle: dvb_subtitle ([6][0][0][0] / 0x0006)
`

type recordingDiagnostics struct {
	mu       sync.Mutex
	warnings []string
	verbose  []string
}

func (r *recordingDiagnostics) Warning(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, message)
}

func (r *recordingDiagnostics) Verbose(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verbose = append(r.verbose, message)
}

func fixedSize(bytes uint64) sizeFunc {
	return func(string) (uint64, error) { return bytes, nil }
}

func TestParseEpisodeReport(t *testing.T) {
	diag := &recordingDiagnostics{}
	info := parse("/media/show/episode.mkv", episodeReport, fixedSize(512*util.MiB), diag)

	if !info.Valid {
		t.Fatalf("expected valid MediaInfo, warnings: %v", diag.warnings)
	}
	if len(diag.warnings) != 0 {
		t.Errorf("unexpected warnings: %v", diag.warnings)
	}

	if info.RuntimeSecs != 1815 {
		t.Errorf("RuntimeSecs = %d, want 1815", info.RuntimeSecs)
	}
	if info.FPS != 23 {
		t.Errorf("FPS = %d, want 23 (fraction discarded)", info.FPS)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("resolution = %dx%d, want 1920x1080", info.Width, info.Height)
	}
	if info.VideoCodec != "h264" {
		t.Errorf("VideoCodec = %q, want h264", info.VideoCodec)
	}
	if info.ColorSpace != "yuv420p" {
		t.Errorf("ColorSpace = %q, want yuv420p", info.ColorSpace)
	}
	if info.VideoStreamIndex != "0" {
		t.Errorf("VideoStreamIndex = %q, want 0", info.VideoStreamIndex)
	}
	if info.FileSizeMB != 512 {
		t.Errorf("FileSizeMB = %v, want 512", info.FileSizeMB)
	}
	if info.Path != "/media/show/episode.mkv" {
		t.Errorf("Path = %q", info.Path)
	}

	wantAudio := []media.AudioTrack{
		{StreamIndex: "1", Language: "eng", Format: "ac3", Default: true},
		{StreamIndex: "2", Language: "spa", Format: "aac", Default: false},
	}
	if len(info.Audio) != len(wantAudio) {
		t.Fatalf("len(Audio) = %d, want %d", len(info.Audio), len(wantAudio))
	}
	for i, want := range wantAudio {
		if info.Audio[i] != want {
			t.Errorf("Audio[%d] = %+v, want %+v", i, info.Audio[i], want)
		}
	}

	if len(info.Subtitle) != 1 {
		t.Fatalf("len(Subtitle) = %d, want 1", len(info.Subtitle))
	}
	if got := info.Subtitle[0]; got.StreamIndex != "3" || got.Language != "eng" {
		t.Errorf("Subtitle[0] = %+v", got)
	}
}

func TestParseTransportStreamReport(t *testing.T) {
	info := parse("recording.ts", tsReport, fixedSize(0), nil)
	if !info.Valid {
		t.Fatal("expected valid MediaInfo")
	}

	if info.RuntimeSecs != 3723 {
		t.Errorf("RuntimeSecs = %d, want 3723", info.RuntimeSecs)
	}
	if info.VideoCodec != "mpeg2video" || info.Width != 720 || info.Height != 576 || info.FPS != 25 {
		t.Errorf("video = %s %dx%d %d fps", info.VideoCodec, info.Width, info.Height, info.FPS)
	}

	if len(info.Audio) != 2 {
		t.Fatalf("len(Audio) = %d, want 2", len(info.Audio))
	}
	if info.Audio[0].Language != "ger" || info.Audio[1].Language != media.UndeterminedLanguage {
		t.Errorf("audio languages = %q, %q", info.Audio[0].Language, info.Audio[1].Language)
	}
	if info.Audio[0].Default || info.Audio[1].Default {
		t.Error("no audio track is marked default")
	}

	if len(info.Subtitle) != 2 {
		t.Fatalf("len(Subtitle) = %d, want 2", len(info.Subtitle))
	}
	if info.Subtitle[1].Language != media.UndeterminedLanguage {
		t.Errorf("Subtitle[1].Language = %q, want und", info.Subtitle[1].Language)
	}
}

func TestParseTrackCounts(t *testing.T) {
	header := "  Duration: 00:01:00.00, start: 0.000000, bitrate: 1 kb/s\n" +
		"  Stream #0:0: Video: hevc (Main 10), yuv420p10le(tv, bt2020nc/bt2020/smpte2084), 3840x2160, 24 fps, 24 tbr\n"

	tests := []struct {
		name      string
		audio     int
		subtitles int
	}{
		{"no tracks", 0, 0},
		{"audio only", 3, 0},
		{"subtitles only", 0, 4},
		{"mixed", 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			b.WriteString(header)
			idx := 1
			for i := 0; i < tt.audio; i++ {
				b.WriteString("  Stream #0:" + strconv.Itoa(idx) + ": Audio: opus, 48000 Hz, stereo, fltp\n")
				idx++
			}
			for i := 0; i < tt.subtitles; i++ {
				b.WriteString("  Stream #0:" + strconv.Itoa(idx) + ": Subtitle: ass\n")
				idx++
			}

			info := parse("x.mkv", b.String(), fixedSize(1), nil)
			if !info.Valid {
				t.Fatal("expected valid MediaInfo")
			}
			if len(info.Audio) != tt.audio {
				t.Errorf("len(Audio) = %d, want %d", len(info.Audio), tt.audio)
			}
			if len(info.Subtitle) != tt.subtitles {
				t.Errorf("len(Subtitle) = %d, want %d", len(info.Subtitle), tt.subtitles)
			}
			for _, a := range info.Audio {
				if a.Language != media.UndeterminedLanguage {
					t.Errorf("untagged audio language = %q, want und", a.Language)
				}
			}
			for _, s := range info.Subtitle {
				if s.Language != media.UndeterminedLanguage {
					t.Errorf("untagged subtitle language = %q, want und", s.Language)
				}
			}
		})
	}
}

func TestParseInvalidReports(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{
			name:   "empty output",
			output: "",
		},
		{
			name:   "missing duration",
			output: "  Stream #0:0: Video: h264 (High), yuv420p, 1280x720, 30 fps\n",
		},
		{
			name:   "duration not available",
			output: "  Duration: N/A, bitrate: N/A\n  Stream #0:0: Video: h264 (High), yuv420p, 1280x720, 30 fps\n",
		},
		{
			name:   "no video stream",
			output: "  Duration: 00:03:00.00\n  Stream #0:0: Audio: mp3, 44100 Hz, stereo, fltp, 320 kb/s\n",
		},
		{
			name:   "cover art without frame rate",
			output: "  Duration: 00:03:00.00\n  Stream #0:1: Video: mjpeg (Baseline), yuvj420p(pc, bt470bg/unknown/unknown), 600x600, 90k tbr\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := &recordingDiagnostics{}
			info := parse("/media/bad.avi", tt.output, fixedSize(1), diag)

			if info.Valid {
				t.Fatal("expected invalid MediaInfo")
			}
			if info.Path != "" || info.Audio != nil || info.RuntimeSecs != 0 {
				t.Errorf("invalid MediaInfo carries data: %+v", info)
			}
			if len(diag.warnings) != 1 {
				t.Fatalf("got %d warnings, want 1", len(diag.warnings))
			}
			if !strings.Contains(diag.warnings[0], "/media/bad.avi") {
				t.Errorf("warning %q should reference the path", diag.warnings[0])
			}
		})
	}
}

func TestParseSizeFailure(t *testing.T) {
	diag := &recordingDiagnostics{}
	failing := func(string) (uint64, error) { return 0, errors.New("no such file") }

	info := parse("/gone.mkv", episodeReport, failing, diag)
	if info.Valid {
		t.Fatal("expected invalid MediaInfo when the file size is unavailable")
	}
	if len(diag.warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(diag.warnings))
	}
}

func TestParseReadsSizeFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.mkv")
	if err := os.WriteFile(path, make([]byte, 2*util.MiB), 0644); err != nil {
		t.Fatal(err)
	}

	info := Parse(path, episodeReport, nil)
	if !info.Valid {
		t.Fatal("expected valid MediaInfo")
	}
	if info.FileSizeMB != 2 {
		t.Errorf("FileSizeMB = %v, want 2", info.FileSizeMB)
	}
}

func TestParseDefaultMarkerOnlyOnOwnLine(t *testing.T) {
	output := "  Duration: 00:10:00.00\n" +
		"  Stream #0:0: Video: vp9 (Profile 0), yuv420p(tv), 1280x720, 29.97 fps, 29.97 tbr (default)\n" +
		"  Stream #0:1(jpn): Audio: opus, 48000 Hz, stereo, fltp\n" +
		"  Stream #0:2(eng): Audio: opus, 48000 Hz, stereo, fltp (default)\n"

	info := parse("clip.webm", output, fixedSize(1), nil)
	if !info.Valid {
		t.Fatal("expected valid MediaInfo")
	}
	if info.FPS != 29 {
		t.Errorf("FPS = %d, want 29", info.FPS)
	}
	if info.Audio[0].Default {
		t.Error("jpn track should not be default")
	}
	if !info.Audio[1].Default {
		t.Error("eng track should be default")
	}
}
