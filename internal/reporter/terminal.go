package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/probemap/internal/util"
)

// TerminalOptions controls terminal rendering.
type TerminalOptions struct {
	Out          io.Writer // Defaults to os.Stdout
	Err          io.Writer // Defaults to os.Stderr
	Color        bool
	ShowProgress bool
}

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu           sync.Mutex
	out          io.Writer
	errOut       io.Writer
	showProgress bool
	progress     *progressbar.ProgressBar
	maxPercent   float32
	cyan         *color.Color
	green        *color.Color
	yellow       *color.Color
	red          *color.Color
	magenta      *color.Color
	faint        *color.Color
	bold         *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter(opts TerminalOptions) *TerminalReporter {
	r := &TerminalReporter{
		out:          opts.Out,
		errOut:       opts.Err,
		showProgress: opts.ShowProgress,
		cyan:         color.New(color.FgCyan, color.Bold),
		green:        color.New(color.FgGreen),
		yellow:       color.New(color.FgYellow, color.Bold),
		red:          color.New(color.FgRed, color.Bold),
		magenta:      color.New(color.FgMagenta),
		faint:        color.New(color.Faint),
		bold:         color.New(color.Bold),
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.errOut == nil {
		r.errOut = os.Stderr
	}
	if !opts.Color {
		for _, c := range []*color.Color{r.cyan, r.green, r.yellow, r.red, r.magenta, r.faint, r.bold} {
			c.DisableColor()
		}
	}
	return r
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) section(title string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, title)
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = r.yellow.Fprintf(r.errOut, "WARN: %s\n", message)
}

func (r *TerminalReporter) Verbose(message string) {
	_, _ = r.faint.Fprintln(r.errOut, message)
}

func (r *TerminalReporter) MediaSummary(summary MediaSummary) {
	r.section("MEDIA")
	r.printLabel(11, "File:", summary.Path)
	if !summary.Valid {
		r.printLabel(11, "Status:", r.red.Sprint("unrecognized probe output"))
		return
	}
	r.printLabel(11, "Duration:", summary.Duration)
	r.printLabel(11, "Resolution:", summary.Resolution)
	r.printLabel(11, "Video:", fmt.Sprintf("%s, %s, %d fps", summary.VideoCodec, summary.ColorSpace, summary.FPS))
	r.printLabel(11, "Size:", fmt.Sprintf("%.2f MB", summary.SizeMB))

	if len(summary.Audio) > 0 {
		_, _ = fmt.Fprintln(r.out)
		_, _ = fmt.Fprintln(r.out, renderTracks("Audio", summary.Audio, true))
	}
	if len(summary.Subtitles) > 0 {
		_, _ = fmt.Fprintln(r.out)
		_, _ = fmt.Fprintln(r.out, renderTracks("Subtitle", summary.Subtitles, false))
	}
}

// renderTracks renders a track listing as a rounded table.
func renderTracks(title string, rows []TrackRow, withCodec bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)

	header := table.Row{"Stream", "Language"}
	if withCodec {
		header = append(header, "Codec", "Default")
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := table.Row{row.Index, row.Language}
		if withCodec {
			def := ""
			if row.Default {
				def = "yes"
			}
			r = append(r, row.Codec, def)
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func (r *TerminalReporter) StreamPlan(summary StreamPlanSummary) {
	r.section("STREAMS")
	r.printLabel(8, "File:", summary.InputFile)
	if summary.Rule != "" {
		r.printLabel(8, "Rule:", summary.Rule)
	}
	r.printLabel(8, "Profile:", r.green.Sprint(summary.Profile))
	r.printLabel(8, "Args:", strings.Join(summary.Args, " "))
}

func (r *TerminalReporter) TranscodeStarted(input, output string) {
	r.finishProgress()

	r.section("TRANSCODE")
	_, _ = fmt.Fprintf(r.out, "  %s %s -> %s\n", r.magenta.Sprint("›"), input, output)

	if !r.showProgress {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progressbar.NewOptions64(
		100,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(r.errOut),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Transcoding [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) TranscodeProgress(progress ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}

	clamped := min(max(progress.Percent, 0), 100)
	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set64(int64(clamped))
	}

	r.progress.Describe(fmt.Sprintf("speed %.1fx, fps %.1f, eta %s",
		progress.Speed, progress.FPS, util.FormatDurationFromSecs(int64(progress.ETA.Seconds()))))
}

func (r *TerminalReporter) TranscodeComplete(outcome TranscodeOutcome) {
	r.finishProgress()

	r.section("RESULTS")
	r.printLabel(7, "Output:", r.bold.Sprint(outcome.OutputFile))
	r.printLabel(7, "Size:", fmt.Sprintf("%s -> %s",
		util.FormatBytes(outcome.OriginalSize), util.FormatBytes(outcome.OutputSize)))
	r.printLabel(7, "Time:", util.FormatDurationFromSecs(int64(outcome.TotalTime.Seconds())))
}

func (r *TerminalReporter) ValidationComplete(summary ValidationSummary) {
	r.finishProgress()

	r.section("VALIDATION")
	if summary.Passed {
		_, _ = fmt.Fprintf(r.out, "  %s\n", r.green.Sprint("All checks passed"))
	} else {
		_, _ = fmt.Fprintf(r.out, "  %s\n", r.red.Sprint("Validation failed"))
	}

	maxLen := 0
	for _, step := range summary.Steps {
		maxLen = max(maxLen, len(step.Name))
	}
	for _, step := range summary.Steps {
		status := r.green.Sprint("ok")
		if !step.Passed {
			status = r.red.Sprint("FAIL")
		}
		_, _ = fmt.Fprintf(r.out, "  - %-*s %s (%s)\n", maxLen+1, step.Name+":", status, step.Details)
	}
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.finishProgress()

	_, _ = fmt.Fprintln(r.errOut)
	_, _ = r.red.Fprintf(r.errOut, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(r.errOut, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) OperationComplete(message string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.green.Sprint("✓"), r.bold.Sprint(message))
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	r.finishProgress()

	r.section("SCAN")
	_, _ = fmt.Fprintf(r.out, "  Probing %d files with %d workers\n", info.TotalFiles, info.Workers)

	if !r.showProgress {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progressbar.NewOptions(
		info.TotalFiles,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(r.errOut),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Scanning [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) FileProgress(context FileProgressContext) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		_, _ = fmt.Fprintf(r.out, "  [%d/%d] %s\n", context.CurrentFile, context.TotalFiles, context.Path)
		return
	}
	_ = r.progress.Set(context.CurrentFile)
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.finishProgress()

	r.section("SCAN SUMMARY")
	_, _ = fmt.Fprintf(r.out, "  %s\n", r.bold.Sprintf("%d of %d parsed", summary.ValidCount, summary.TotalFiles))
	_, _ = fmt.Fprintf(r.out, "  Matched: %s, unrecognized: %s\n",
		r.green.Sprint(summary.MatchedCount),
		r.red.Sprint(summary.InvalidCount))
	_, _ = fmt.Fprintf(r.out, "  Time: %s\n", util.FormatDurationFromSecs(int64(summary.TotalDuration.Seconds())))

	if len(summary.FileResults) == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Rule", "Profile", "Status"})
	for _, result := range summary.FileResults {
		status := "ok"
		switch {
		case result.Error != "":
			status = result.Error
		case !result.Valid:
			status = "unrecognized"
		case result.Profile == "":
			status = "no match"
		}
		tw.AppendRow(table.Row{result.Filename, result.Rule, result.Profile, status})
	}
	_, _ = fmt.Fprintln(r.out, tw.Render())
}
