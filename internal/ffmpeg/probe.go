package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	coreerrors "github.com/five82/probemap/internal/errors"
)

// waitDelay bounds how long a killed command may hold its output pipes open.
const waitDelay = 2 * time.Second

// inputMarker starts ffmpeg's stream report for the first input.
const inputMarker = "Input #0"

// ProbeOutput runs `ffmpeg -hide_banner -i input` and returns the report
// ffmpeg writes to stderr.
//
// ffmpeg exits non-zero when no output file is given, so a failed exit is
// only an error when the report is missing.
func ProbeOutput(ctx context.Context, ffmpegPath, input string) (string, error) {
	cmd := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-i", input)
	cmd.WaitDelay = waitDelay

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := stderr.String()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", coreerrors.NewTimeoutError(ffmpegPath, input)
	}
	if ctx.Err() != nil {
		return "", coreerrors.NewCancelledError()
	}
	if strings.Contains(output, inputMarker) {
		return output, nil
	}
	if err == nil {
		return output, nil
	}
	return "", coreerrors.WrapExecError(ffmpegPath, err, lastLines(output, 5))
}

// lastLines returns at most n trailing non-empty lines of s.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
