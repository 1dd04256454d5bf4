package media

import "testing"

func sampleInfo() MediaInfo {
	return MediaInfo{
		Valid:            true,
		Path:             "/media/show.mkv",
		VideoCodec:       "h264",
		VideoStreamIndex: "0",
		Width:            1920,
		Height:           1080,
		RuntimeSecs:      1815,
		FileSizeMB:       512.5,
		FPS:              23,
		ColorSpace:       "yuv420p",
		Audio: []AudioTrack{
			{StreamIndex: "1", Language: "eng", Format: "ac3", Default: true},
			{StreamIndex: "2", Language: "spa", Format: "aac"},
		},
		Subtitle: []SubtitleTrack{
			{StreamIndex: "3", Language: "eng"},
		},
	}
}

func TestAudioTrackCodecReturnsFormat(t *testing.T) {
	a := AudioTrack{StreamIndex: "1", Language: "eng", Format: "truehd"}
	if got := a.Codec(); got != "truehd" {
		t.Errorf("Codec() = %q, want %q", got, "truehd")
	}
}

func TestTrackString(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"default audio", AudioTrack{StreamIndex: "1", Language: "eng", Format: "ac3", Default: true}.String(), "1:eng:ac3:default"},
		{"plain audio", AudioTrack{StreamIndex: "2", Language: "und", Format: "aac"}.String(), "2:und:aac:"},
		{"subtitle", SubtitleTrack{StreamIndex: "3", Language: "fre"}.String(), "3:fre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("String() = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestMediaInfoString(t *testing.T) {
	want := "MediaInfo: /media/show.mkv, 512.50mb, 23 fps, cs=yuv420p, 1920x1080, 00:30:15, c:v=h264, audio=(1:eng:ac3:default,2:spa:aac:), sub=(3:eng)"
	if got := sampleInfo().String(); got != want {
		t.Errorf("String() =\n  %q\nwant\n  %q", got, want)
	}

	if got := Invalid().String(); got != "MediaInfo: invalid" {
		t.Errorf("Invalid().String() = %q", got)
	}
}

func TestIsMultistream(t *testing.T) {
	info := sampleInfo()
	if !info.IsMultistream() {
		t.Error("two audio tracks should be multistream")
	}

	info.Audio = info.Audio[:1]
	if info.IsMultistream() {
		t.Error("one audio and one subtitle track should not be multistream")
	}

	info.Subtitle = append(info.Subtitle, SubtitleTrack{StreamIndex: "4", Language: "ger"})
	if !info.IsMultistream() {
		t.Error("two subtitle tracks should be multistream")
	}
}

func TestInvalidIsZero(t *testing.T) {
	info := Invalid()
	if info.Valid {
		t.Error("Invalid() must not be valid")
	}
	if info.Path != "" || len(info.Audio) != 0 || info.RuntimeSecs != 0 {
		t.Errorf("Invalid() should carry no data, got %+v", info)
	}
}
