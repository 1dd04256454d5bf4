package probemap

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

const profilesTOML = `
[profiles.films]
output_options = ["-c:v", "libx265", "-c:a", "copy"]
extension = ".mkv"

[profiles.films.audio]
exclude = ["es"]
default = "en"

[profiles.shorts]
output_options = ["-c", "copy"]

[[rules]]
name = "films"
profile = "films"
[rules.criteria]
runtime = ">60"

[[rules]]
name = "shorts"
profile = "shorts"
[rules.criteria]
runtime = "0-60"
`

// report renders an ffmpeg probe report with the given duration and a
// default Spanish track followed by an English one.
func report(duration string) string {
	return "Input #0, matroska,webm, from 'in.mkv':\n" +
		"  Duration: " + duration + ", start: 0.000000, bitrate: 4000 kb/s\n" +
		"  Stream #0:0: Video: h264 (High), yuv420p(progressive), 1920x1080, 24 fps, 24 tbr\n" +
		"  Stream #0:1(spa): Audio: ac3, 48000 Hz, 5.1(side), fltp, 640 kb/s (default)\n" +
		"  Stream #0:2(eng): Audio: aac (LC), 48000 Hz, stereo, fltp\n" +
		"  Stream #0:3(eng): Subtitle: subrip\n"
}

type recordingDiagnostics struct {
	warnings []string
}

func (r *recordingDiagnostics) Warning(message string) { r.warnings = append(r.warnings, message) }
func (r *recordingDiagnostics) Verbose(string)         {}

func writeFile(t *testing.T, dir, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeFFmpeg writes a shell script that prints the probe report stored
// next to the input as <input>.report.
func fakeFFmpeg(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	return writeFile(t, t.TempDir(), "ffmpeg", `#!/bin/sh
cat "$3.report" >&2
exit 1
`, 0755)
}

func TestParseAndMap(t *testing.T) {
	diag := &recordingDiagnostics{}
	input := writeFile(t, t.TempDir(), "in.mkv", "x", 0644)
	info := Parse(input, report("01:40:00.00"), diag)
	if !info.Valid {
		t.Fatalf("expected valid media, warnings %v", diag.warnings)
	}

	set, err := LoadProfiles(writeFile(t, t.TempDir(), "profiles.toml", profilesTOML, 0644))
	if err != nil {
		t.Fatal(err)
	}
	films, _ := set.Profile("films")

	got := BuildStreamArgs(info, films, diag)
	want := []string{"-map", "0:0", "-map", "0:2", "-disposition:a:0", "default", "-map", "0:3"}
	if !slices.Equal(got, want) {
		t.Errorf("BuildStreamArgs() = %v, want %v", got, want)
	}

	ok, err := Evaluate("films", "runtime", "90-120", info, false, diag)
	if err != nil || !ok {
		t.Errorf("Evaluate(runtime 90-120) = %v, %v; want match", ok, err)
	}
}

func TestNewRequiresValidConfig(t *testing.T) {
	if _, err := New(WithWorkers(0)); err == nil {
		t.Error("expected error for zero workers")
	}
	if _, err := New(WithProfilesFile(filepath.Join(t.TempDir(), "missing.toml"))); !IsKind(err, KindProfile) {
		t.Errorf("missing profiles error = %v, want profile error", err)
	}
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	profiles := writeFile(t, dir, "profiles.toml", profilesTOML, 0644)
	input := writeFile(t, dir, "film.mkv", "not really video", 0644)
	writeFile(t, dir, "film.mkv.report", report("01:40:00.00"), 0644)

	engine, err := New(WithFFmpegPath(fakeFFmpeg(t)), WithProfilesFile(profiles))
	if err != nil {
		t.Fatal(err)
	}

	analysis, err := engine.Analyze(context.Background(), input)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !analysis.Matched || analysis.Rule != "films" || analysis.Profile.Name != "films" {
		t.Fatalf("analysis = %+v", analysis)
	}
	if analysis.Info.RuntimeSecs != 6000 {
		t.Errorf("RuntimeSecs = %d, want 6000", analysis.Info.RuntimeSecs)
	}
	if !slices.Contains(analysis.StreamArgs, "-disposition:a:0") {
		t.Errorf("StreamArgs = %v, want a default override", analysis.StreamArgs)
	}

	if got := engine.OutputPath(input, analysis.Profile); got != filepath.Join(dir, "film.mkv") {
		t.Errorf("OutputPath() = %s", got)
	}
}

func TestAnalyzeSecondRule(t *testing.T) {
	dir := t.TempDir()
	profiles := writeFile(t, dir, "profiles.toml", profilesTOML, 0644)
	input := writeFile(t, dir, "short.mkv", "x", 0644)
	writeFile(t, dir, "short.mkv.report", report("00:20:00.00"), 0644)

	engine, err := New(WithFFmpegPath(fakeFFmpeg(t)), WithProfilesFile(profiles))
	if err != nil {
		t.Fatal(err)
	}

	analysis, err := engine.Analyze(context.Background(), input)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analysis.Rule != "shorts" {
		t.Fatalf("Rule = %q, want shorts", analysis.Rule)
	}
	if want := []string{"-map", "0"}; !slices.Equal(analysis.StreamArgs, want) {
		t.Errorf("StreamArgs = %v, want %v", analysis.StreamArgs, want)
	}
}

func TestAnalyzeRuleConfigError(t *testing.T) {
	dir := t.TempDir()
	profiles := writeFile(t, dir, "profiles.toml", `
[profiles.any]
[[rules]]
name = "by-bitrate"
profile = "any"
[rules.criteria]
bitrate = ">1000"
`, 0644)
	input := writeFile(t, dir, "film.mkv", "x", 0644)
	writeFile(t, dir, "film.mkv.report", report("01:40:00.00"), 0644)

	engine, err := New(WithFFmpegPath(fakeFFmpeg(t)), WithProfilesFile(profiles))
	if err != nil {
		t.Fatal(err)
	}

	_, err = engine.Analyze(context.Background(), input)
	if !IsKind(err, KindRuleConfig) {
		t.Fatalf("Analyze() error = %v, want rule configuration error", err)
	}
	if !strings.Contains(err.Error(), "by-bitrate") || !strings.Contains(err.Error(), "bitrate") {
		t.Errorf("error %q should name the rule and attribute", err)
	}
}

func TestAnalyzeUnparseable(t *testing.T) {
	dir := t.TempDir()
	profiles := writeFile(t, dir, "profiles.toml", profilesTOML, 0644)
	input := writeFile(t, dir, "cover.mkv", "x", 0644)
	writeFile(t, dir, "cover.mkv.report", "Input #0, matroska,webm, from 'cover.mkv':\n  Duration: N/A\n", 0644)

	engine, err := New(WithFFmpegPath(fakeFFmpeg(t)), WithProfilesFile(profiles))
	if err != nil {
		t.Fatal(err)
	}

	analysis, err := engine.Analyze(context.Background(), input)
	if !IsKind(err, KindProbeParse) {
		t.Fatalf("Analyze() error = %v, want probe parse error", err)
	}
	if analysis == nil || analysis.Info.Valid {
		t.Errorf("analysis = %+v, want invalid media", analysis)
	}
}

func TestScan(t *testing.T) {
	profiles := writeFile(t, t.TempDir(), "profiles.toml", profilesTOML, 0644)
	media := t.TempDir()
	for name, duration := range map[string]string{"a.mkv": "01:40:00.00", "b.mkv": "02:00:00.00"} {
		writeFile(t, media, name, "x", 0644)
		writeFile(t, media, name+".report", report(duration), 0644)
	}
	writeFile(t, media, "broken.mkv", "x", 0644)
	writeFile(t, media, "broken.mkv.report", "Input #0, matroska,webm, from 'broken.mkv':\n  Duration: N/A\n", 0644)

	engine, err := New(WithFFmpegPath(fakeFFmpeg(t)), WithProfilesFile(profiles), WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}

	result, err := engine.Scan(context.Background(), media, false)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(result.Files) != 3 {
		t.Fatalf("got %d files, want 3", len(result.Files))
	}
	if result.ValidCount != 2 || result.InvalidCount != 1 || result.MatchedCount != 2 {
		t.Errorf("counts valid=%d invalid=%d matched=%d", result.ValidCount, result.InvalidCount, result.MatchedCount)
	}
	if !strings.HasSuffix(result.Files[1].Path, "b.mkv") {
		t.Errorf("files not in sorted order: %v", result.Files[1].Path)
	}
	if broken := result.Files[2]; !strings.HasSuffix(broken.Path, "broken.mkv") || !IsKind(broken.Err, KindProbeParse) {
		t.Errorf("Files[2] = %s, %v; want broken.mkv with a probe parse error", broken.Path, broken.Err)
	}
}

func TestSummarize(t *testing.T) {
	input := writeFile(t, t.TempDir(), "in.mkv", "x", 0644)
	info := Parse(input, report("00:30:15.00"), nil)
	s := Summarize(info)
	if !s.Valid || s.Duration != "00:30:15" || s.Resolution != "1920x1080" {
		t.Errorf("summary = %+v", s)
	}
	if len(s.Audio) != 2 || !s.Audio[0].Default || s.Audio[0].Codec != "ac3" {
		t.Errorf("audio rows = %+v", s.Audio)
	}
	if len(s.Subtitles) != 1 || s.Subtitles[0].Codec != "" {
		t.Errorf("subtitle rows = %+v", s.Subtitles)
	}

	if Summarize(MediaInfo{}).Valid {
		t.Error("invalid media should summarize as invalid")
	}
}

// fakeTranscoder extends fakeFFmpeg with a transcode mode: it writes the
// output file and copies <input>.result to <output>.report for re-probing.
func fakeTranscoder(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	return writeFile(t, t.TempDir(), "ffmpeg", `#!/bin/sh
if [ "$2" = "-i" ]; then
	cat "$3.report" >&2
	exit 1
fi
prev=""
for a in "$@"; do
	if [ "$prev" = "-i" ]; then in="$a"; fi
	prev="$a"
	out="$a"
done
echo "frame=1 fps=24 time=01:40:00.00 bitrate=1000kbits/s speed=2x" >&2
echo encoded > "$out"
cp "$in.result" "$out.report"
`, 0755)
}

func TestTranscodeValidatesOutput(t *testing.T) {
	outputReport := "Input #0, matroska,webm, from 'out.mkv':\n" +
		"  Duration: 01:40:00.40, start: 0.000000, bitrate: 2000 kb/s\n" +
		"  Stream #0:0: Video: hevc (Main), yuv420p(tv), 1920x1080, 24 fps, 24 tbr\n" +
		"  Stream #0:1(eng): Audio: aac (LC), 48000 Hz, stereo, fltp (default)\n" +
		"  Stream #0:2(eng): Subtitle: subrip\n"

	tests := []struct {
		name       string
		result     string
		wantPassed bool
	}{
		{"selected tracks only", outputReport, true},
		{"dropped track present", report("01:40:00.00"), false},
		{"truncated", strings.Replace(outputReport, "01:40:00.40", "00:50:00.00", 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			profiles := writeFile(t, dir, "profiles.toml", profilesTOML, 0644)
			input := writeFile(t, dir, "film.mkv", "not really video", 0644)
			writeFile(t, dir, "film.mkv.report", report("01:40:00.00"), 0644)
			writeFile(t, dir, "film.mkv.result", tt.result, 0644)

			engine, err := New(WithFFmpegPath(fakeTranscoder(t)), WithProfilesFile(profiles))
			if err != nil {
				t.Fatal(err)
			}

			output := filepath.Join(dir, "out", "film.mkv")
			result, err := engine.Transcode(context.Background(), input, output)
			if err != nil {
				t.Fatalf("Transcode() error = %v", err)
			}
			if result.OutputFile != output {
				t.Errorf("OutputFile = %s, want %s", result.OutputFile, output)
			}
			if result.ValidationPassed != tt.wantPassed {
				t.Errorf("ValidationPassed = %v, steps %+v", result.ValidationPassed, result.ValidationSteps)
			}
			if err := result.Err(); (err == nil) != tt.wantPassed {
				t.Errorf("Err() = %v", err)
			} else if err != nil && !IsKind(err, KindValidation) {
				t.Errorf("Err() kind = %v, want validation", err)
			}
		})
	}
}

func TestTranscodeRefusesToOverwriteInput(t *testing.T) {
	dir := t.TempDir()
	profiles := writeFile(t, dir, "profiles.toml", profilesTOML, 0644)
	input := writeFile(t, dir, "film.mkv", "not really video", 0644)
	writeFile(t, dir, "film.mkv.report", report("01:40:00.00"), 0644)

	engine, err := New(WithFFmpegPath(fakeTranscoder(t)), WithProfilesFile(profiles))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Transcode(context.Background(), input, ""); !IsKind(err, KindIO) {
		t.Errorf("Transcode() error = %v, want I/O error", err)
	}
}
