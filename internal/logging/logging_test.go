package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupDisabled(t *testing.T) {
	l, err := Setup(t.TempDir(), true, true)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if l != nil {
		t.Fatal("expected nil logger when logging is disabled")
	}

	// A nil logger is safe to use.
	l.Info("ignored")
	l.Warn("ignored")
	l.Command("ffmpeg", []string{"-i", "x"})
	if l.FilePath() != "" {
		t.Error("nil logger should report no file")
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSetupWritesLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"info level", false, false},
		{"debug level", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "logs")
			l, err := Setup(dir, tt.verbose, false)
			if err != nil {
				t.Fatalf("Setup() error = %v", err)
			}

			l.Info("probing %s", "a.mkv")
			l.Debug("raw output %d bytes", 42)
			l.Command("ffmpeg", []string{"-hide_banner", "-i", "a.mkv"})
			l.Error("boom")
			path := l.FilePath()
			if err := l.Close(); err != nil {
				t.Fatal(err)
			}

			if !strings.HasPrefix(filepath.Base(path), "probemap_run_") {
				t.Errorf("log file name = %s", path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			content := string(data)

			for _, want := range []string{"[INFO] probemap starting", "[INFO] probing a.mkv", "[ERROR] boom"} {
				if !strings.Contains(content, want) {
					t.Errorf("log missing %q:\n%s", want, content)
				}
			}
			hasDebug := strings.Contains(content, "[DEBUG] raw output 42 bytes")
			if hasDebug != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v", hasDebug, tt.wantDebug)
			}
			hasExec := strings.Contains(content, "exec: ffmpeg -hide_banner -i a.mkv")
			if hasExec != tt.wantDebug {
				t.Errorf("exec line present = %v, want %v", hasExec, tt.wantDebug)
			}
		})
	}
}
