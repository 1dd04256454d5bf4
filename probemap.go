// Package probemap turns ffmpeg's probe report into structured media
// information, picks a transcode profile for it from a rules file, and
// derives the ffmpeg stream selection that profile asks for.
//
// Basic usage:
//
//	engine, err := probemap.New(
//	    probemap.WithProfilesFile("profiles.toml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	analysis, err := engine.Analyze(ctx, "movie.mkv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(analysis.Profile.Name, analysis.StreamArgs)
package probemap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/probemap/internal/config"
	coreerrors "github.com/five82/probemap/internal/errors"
	"github.com/five82/probemap/internal/ffmpeg"
	"github.com/five82/probemap/internal/logging"
	"github.com/five82/probemap/internal/mapping"
	"github.com/five82/probemap/internal/media"
	"github.com/five82/probemap/internal/probe"
	"github.com/five82/probemap/internal/profile"
	"github.com/five82/probemap/internal/reporter"
	"github.com/five82/probemap/internal/rules"
	"github.com/five82/probemap/internal/util"
	"github.com/five82/probemap/internal/validation"
)

// Re-exported types
type (
	MediaInfo      = media.MediaInfo
	AudioTrack     = media.AudioTrack
	SubtitleTrack  = media.SubtitleTrack
	Profile        = profile.Profile
	ProfileSet     = profile.Set
	MappingProfile = mapping.Profile
	Diagnostics    = reporter.Diagnostics
	Reporter       = reporter.Reporter
)

// Parse converts ffmpeg probe text for path into MediaInfo. The result is
// invalid when the duration or the video stream cannot be found.
func Parse(path, output string, diag Diagnostics) MediaInfo {
	return probe.Parse(path, output, diag)
}

// BuildStreamArgs returns the ffmpeg stream selection tokens for info
// under p.
func BuildStreamArgs(info MediaInfo, p MappingProfile, diag Diagnostics) []string {
	return mapping.BuildStreamArgs(info, p, diag)
}

// Evaluate reports whether info satisfies one rule criterion.
func Evaluate(rule, attribute, value string, info MediaInfo, verbose bool, diag Diagnostics) (bool, error) {
	return rules.NewEvaluator(verbose, diag).Evaluate(rule, attribute, value, info)
}

// LoadProfiles reads a TOML profiles file.
func LoadProfiles(path string) (*ProfileSet, error) {
	return profile.Load(path)
}

// Engine probes files and applies profiles to them.
type Engine struct {
	config       *config.Config
	profilesPath string
	profiles     *profile.Set
	reporter     reporter.Reporter
	logger       *logging.Logger
}

// Analysis is the outcome of probing one file and matching it against the
// rules.
type Analysis struct {
	Info       MediaInfo
	Matched    bool
	Rule       string
	Profile    *Profile
	StreamArgs []string
}

// TranscodeResult contains the result of a single transcode.
type TranscodeResult struct {
	OutputFile       string
	OriginalSize     uint64
	OutputSize       uint64
	Duration         time.Duration
	ValidationPassed bool
	ValidationSteps  []validation.ValidationStep
}

// Err returns a validation error when the output failed any check.
func (r *TranscodeResult) Err() error {
	if r.ValidationPassed {
		return nil
	}
	var failures []string
	for _, step := range r.ValidationSteps {
		if !step.Passed {
			failures = append(failures, step.Name+": "+step.Details)
		}
	}
	return coreerrors.NewValidationError(r.OutputFile, failures)
}

// Option configures the engine.
type Option func(*Engine)

// New creates an Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	cfg := config.NewConfig()
	cfg.ProfilePath = ""
	cfg.LogDir = ""

	e := &Engine{config: cfg, reporter: reporter.NullReporter{}}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.config.Validate(); err != nil {
		return nil, err
	}

	if e.profiles == nil && e.profilesPath != "" {
		set, err := profile.Load(e.profilesPath)
		if err != nil {
			return nil, err
		}
		e.profiles = set
	}

	return e, nil
}

// WithConfig replaces the engine configuration.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		c := *cfg
		e.config = &c
	}
}

// WithFFmpegPath sets the ffmpeg executable.
func WithFFmpegPath(path string) Option {
	return func(e *Engine) {
		e.config.FFmpegPath = path
	}
}

// WithVerbose reports every rule criterion that fails to match.
func WithVerbose(verbose bool) Option {
	return func(e *Engine) {
		e.config.Verbose = verbose
	}
}

// WithWorkers sets the number of parallel probes during a scan.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.config.Workers = n
	}
}

// WithProbeTimeout bounds each ffmpeg probe.
func WithProbeTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.config.ProbeTimeout = d
	}
}

// WithOutputDir sets where transcodes are written. The default is the
// input's directory.
func WithOutputDir(dir string) Option {
	return func(e *Engine) {
		e.config.OutputDir = dir
	}
}

// WithProfilesFile loads profiles and rules from a TOML file.
func WithProfilesFile(path string) Option {
	return func(e *Engine) {
		e.profilesPath = path
	}
}

// WithProfiles uses an already loaded profile set.
func WithProfiles(set *ProfileSet) Option {
	return func(e *Engine) {
		e.profiles = set
	}
}

// WithReporter sends diagnostics and progress to r.
func WithReporter(r Reporter) Option {
	return func(e *Engine) {
		if r != nil {
			e.reporter = r
		}
	}
}

// WithLogger records commands and outcomes in a run log.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Profiles returns the loaded profile set, or nil.
func (e *Engine) Profiles() *ProfileSet {
	return e.profiles
}

func (e *Engine) requireProfiles() (*profile.Set, error) {
	if e.profiles == nil {
		return nil, coreerrors.NewProfileError("no profiles loaded", config.ErrMissingProfiles)
	}
	return e.profiles, nil
}

func (e *Engine) evaluator() rules.Evaluator {
	return rules.NewEvaluator(e.config.Verbose, e.reporter)
}

// Probe runs ffmpeg on path and parses its report. Unparseable output
// yields the invalid MediaInfo together with a probe parse error.
func (e *Engine) Probe(ctx context.Context, path string) (MediaInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.ProbeTimeout)
	defer cancel()

	e.logger.Command(e.config.FFmpegPath, []string{"-hide_banner", "-i", path})
	output, err := ffmpeg.ProbeOutput(ctx, e.config.FFmpegPath, path)
	if err != nil {
		e.logger.Error("probe %s: %v", path, err)
		return media.Invalid(), err
	}

	info := probe.Parse(path, output, e.reporter)
	if !info.Valid {
		e.logger.Warn("unrecognized probe output for %s", path)
		return info, coreerrors.NewProbeParseError(path)
	}
	e.logger.Info("%s", info)
	return info, nil
}

// Plan returns the stream selection for info under the named profile.
func (e *Engine) Plan(info MediaInfo, profileName string) (*Profile, []string, error) {
	set, err := e.requireProfiles()
	if err != nil {
		return nil, nil, err
	}
	p, err := set.Lookup(profileName)
	if err != nil {
		return nil, nil, err
	}
	if !info.Valid {
		return nil, nil, coreerrors.NewInvalidMediaError(info.Path)
	}
	return p, mapping.BuildStreamArgs(info, p, e.reporter), nil
}

// Match evaluates the rules against info and derives the stream selection
// of the first matching rule's profile.
func (e *Engine) Match(info MediaInfo) (*Analysis, error) {
	set, err := e.requireProfiles()
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{Info: info}
	match, ok, err := set.Select(info, e.evaluator())
	if err != nil {
		return analysis, err
	}
	if !ok {
		e.logger.Info("no rule matched %s", info.Path)
		return analysis, nil
	}

	analysis.Matched = true
	analysis.Rule = match.Rule
	analysis.Profile = match.Profile
	analysis.StreamArgs = mapping.BuildStreamArgs(info, match.Profile, e.reporter)
	e.logger.Info("%s matched rule %q, profile %q", info.Path, match.Rule, match.Profile.Name)
	return analysis, nil
}

// Analyze probes path and matches it against the rules.
func (e *Engine) Analyze(ctx context.Context, path string) (*Analysis, error) {
	if _, err := e.requireProfiles(); err != nil {
		return nil, err
	}
	info, err := e.Probe(ctx, path)
	if err != nil {
		return &Analysis{Info: info}, err
	}
	return e.Match(info)
}

// OutputPath returns where a transcode of input under p is written.
func (e *Engine) OutputPath(input string, p *Profile) string {
	dir := e.config.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return util.ResolveOutputPath(input, dir, p.Extension)
}

// Transcode analyzes input, runs ffmpeg with the matched profile and
// re-probes the output to validate it. An empty output selects OutputPath.
// A failed validation is recorded in the result, not returned as an error.
func (e *Engine) Transcode(ctx context.Context, input, output string) (*TranscodeResult, error) {
	analysis, err := e.Analyze(ctx, input)
	if err != nil {
		return nil, err
	}
	if !analysis.Matched {
		return nil, coreerrors.NewProfileError(fmt.Sprintf("no rule matched %s", input), nil)
	}

	if output == "" {
		output = e.OutputPath(input, analysis.Profile)
	}
	if same, _ := util.SamePath(input, output); same {
		return nil, coreerrors.NewIOError(fmt.Sprintf("output %s would overwrite the input", output), nil)
	}
	if err := util.EnsureDirectory(filepath.Dir(output)); err != nil {
		return nil, coreerrors.NewIOError("failed to create output directory", err)
	}

	e.reporter.StreamPlan(reporter.StreamPlanSummary{
		InputFile: input,
		Rule:      analysis.Rule,
		Profile:   analysis.Profile.Name,
		Args:      analysis.StreamArgs,
	})

	args := ffmpeg.BuildTranscodeArgs(input, output,
		analysis.Profile.InputOptions, analysis.StreamArgs, analysis.Profile.OutputOptions)
	e.logger.Command(e.config.FFmpegPath, args)

	e.reporter.TranscodeStarted(input, output)
	start := time.Now()

	result := ffmpeg.RunTranscode(ctx, e.config.FFmpegPath, args, float64(analysis.Info.RuntimeSecs), func(p ffmpeg.Progress) {
		e.reporter.TranscodeProgress(reporter.ProgressSnapshot{
			Percent: p.Percent,
			Speed:   p.Speed,
			FPS:     p.FPS,
			ETA:     p.ETA,
			Bitrate: p.Bitrate,
		})
	})
	if !result.Success {
		e.logger.Error("transcode %s: %v", input, result.Error)
		return nil, result.Error
	}

	originalSize, _ := util.GetFileSize(input)
	outputSize, _ := util.GetFileSize(output)
	elapsed := time.Since(start)

	e.reporter.TranscodeComplete(reporter.TranscodeOutcome{
		InputFile:    input,
		OutputFile:   output,
		OriginalSize: originalSize,
		OutputSize:   outputSize,
		TotalTime:    elapsed,
	})
	e.logger.Info("transcoded %s -> %s in %s", input, output, elapsed.Round(time.Second))

	check := e.validate(ctx, output, validation.Expect(analysis.Info, analysis.Profile))

	return &TranscodeResult{
		OutputFile:       output,
		OriginalSize:     originalSize,
		OutputSize:       outputSize,
		Duration:         elapsed,
		ValidationPassed: check.IsValid(),
		ValidationSteps:  check.GetValidationSteps(),
	}, nil
}

// validate re-probes a finished transcode and checks it against exp.
func (e *Engine) validate(ctx context.Context, output string, exp validation.Expectation) *validation.Result {
	info, err := e.Probe(ctx, output)
	if err != nil {
		info = media.Invalid()
	}
	result := validation.Validate(info, exp)

	var steps []reporter.ValidationStep
	for _, step := range result.GetValidationSteps() {
		steps = append(steps, reporter.ValidationStep{
			Name:    step.Name,
			Passed:  step.Passed,
			Details: step.Details,
		})
	}
	e.reporter.ValidationComplete(reporter.ValidationSummary{
		Passed: result.IsValid(),
		Steps:  steps,
	})

	if failures := result.GetFailures(); len(failures) > 0 {
		e.logger.Warn("validation failed for %s: %s", output, strings.Join(failures, "; "))
	}
	return result
}

// Summarize converts info into the reporter's media summary.
func Summarize(info MediaInfo) reporter.MediaSummary {
	summary := reporter.MediaSummary{Path: info.Path, Valid: info.Valid}
	if !info.Valid {
		return summary
	}

	summary.Duration = util.FormatDurationFromSecs(int64(info.RuntimeSecs))
	summary.Resolution = info.Resolution()
	summary.VideoCodec = info.VideoCodec
	summary.ColorSpace = info.ColorSpace
	summary.FPS = info.FPS
	summary.SizeMB = info.FileSizeMB
	for _, a := range info.Audio {
		summary.Audio = append(summary.Audio, reporter.TrackRow{
			Index:    a.StreamIndex,
			Language: a.Language,
			Codec:    a.Codec(),
			Default:  a.Default,
		})
	}
	for _, s := range info.Subtitle {
		summary.Subtitles = append(summary.Subtitles, reporter.TrackRow{
			Index:    s.StreamIndex,
			Language: s.Language,
		})
	}
	return summary
}
