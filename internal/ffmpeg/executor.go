package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	coreerrors "github.com/five82/probemap/internal/errors"
	"github.com/five82/probemap/internal/util"
)

// Progress represents transcode progress information.
type Progress struct {
	Percent     float32
	Speed       float32
	FPS         float32
	ETA         time.Duration
	Bitrate     string
	ElapsedSecs float64
}

// ProgressCallback is called with progress updates during a transcode.
type ProgressCallback func(Progress)

// Result contains the result of an ffmpeg transcode.
type Result struct {
	Success bool
	Error   error
	Stderr  string
}

var timeRegex = regexp.MustCompile(`time=(\d{2}:\d{2}:\d{2}\.?\d*)`)

// RunTranscode executes ffmpeg with args and reports progress against
// duration, the input runtime in seconds.
func RunTranscode(ctx context.Context, ffmpegPath string, args []string, duration float64, callback ProgressCallback) Result {
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	cmd.WaitDelay = waitDelay

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{Error: fmt.Errorf("failed to get stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return Result{Error: coreerrors.NewCommandStartError(ffmpegPath, err)}
	}

	var stderrBuilder strings.Builder
	parseProgress(stderr, &stderrBuilder, duration, callback)

	err = cmd.Wait()
	stderrStr := stderrBuilder.String()

	if err != nil {
		if ctx.Err() != nil {
			return Result{Error: coreerrors.NewCancelledError(), Stderr: stderrStr}
		}
		return Result{
			Error:  coreerrors.WrapExecError(ffmpegPath, err, lastLines(stderrStr, 5)),
			Stderr: stderrStr,
		}
	}

	return Result{Success: true, Stderr: stderrStr}
}

// parseProgress reads ffmpeg stderr and parses progress updates.
func parseProgress(stderr io.Reader, stderrBuilder *strings.Builder, duration float64, callback ProgressCallback) {
	reader := bufio.NewReader(stderr)
	var lineBuf strings.Builder

	for {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}

		stderrBuilder.WriteByte(b)

		// Progress lines end with \r, everything else with \n.
		if b == '\r' || b == '\n' {
			line := lineBuf.String()
			lineBuf.Reset()

			if callback != nil && strings.Contains(line, "time=") {
				if progress, ok := parseProgressLine(line, duration); ok {
					callback(progress)
				}
			}
		} else {
			lineBuf.WriteByte(b)
		}
	}
}

// field returns the value following key= in line, up to the next blank.
func field(line, key string) string {
	idx := strings.Index(line, key+"=")
	if idx < 0 {
		return ""
	}
	remaining := strings.TrimLeft(line[idx+len(key)+1:], " ")
	if end := strings.IndexAny(remaining, " \t\r\n"); end >= 0 {
		remaining = remaining[:end]
	}
	return remaining
}

// parseProgressLine extracts progress information from an ffmpeg status line.
// Lines whose time is not yet known (time=N/A) are skipped.
func parseProgressLine(line string, duration float64) (Progress, bool) {
	matches := timeRegex.FindStringSubmatch(line)
	if len(matches) < 2 {
		return Progress{}, false
	}
	elapsedSecs, ok := util.ParseFFmpegTime(matches[1])
	if !ok {
		return Progress{}, false
	}

	p := Progress{ElapsedSecs: elapsedSecs, Bitrate: field(line, "bitrate")}

	if f, err := strconv.ParseFloat(field(line, "fps"), 32); err == nil {
		p.FPS = float32(f)
	}
	if s, err := strconv.ParseFloat(strings.TrimSuffix(field(line, "speed"), "x"), 32); err == nil {
		p.Speed = float32(s)
	}

	if duration > 0 {
		p.Percent = float32(min(elapsedSecs/duration*100, 100))
		if p.Speed > 0 {
			remaining := max(duration-elapsedSecs, 0)
			p.ETA = time.Duration(remaining/float64(p.Speed)) * time.Second
		}
	}

	return p, true
}
