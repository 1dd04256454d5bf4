package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/probemap"
	"github.com/five82/probemap/internal/config"
	"github.com/five82/probemap/internal/logging"
	"github.com/five82/probemap/internal/reporter"
)

type globalFlags struct {
	profiles string
	ffmpeg   string
	verbose  bool
	json     bool
	logDir   string
	noLog    bool
	timeout  time.Duration
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg := config.NewConfig()
		cfg.ProfilePath = strings.TrimSpace(c.flags.profiles)
		cfg.FFmpegPath = strings.TrimSpace(c.flags.ffmpeg)
		cfg.Verbose = c.flags.verbose
		cfg.JSON = c.flags.json
		cfg.LogDir = strings.TrimSpace(c.flags.logDir)
		cfg.NoLog = c.flags.noLog
		cfg.ProbeTimeout = c.flags.timeout

		if err := cfg.Normalize(); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// session bundles what a command needs to run the engine.
type session struct {
	engine   *probemap.Engine
	reporter reporter.Reporter
	logger   *logging.Logger
}

func (s *session) Close() {
	_ = s.logger.Close()
}

// sessionOptions adjusts a session for one command.
type sessionOptions struct {
	needProfiles bool
	workers      int
	outputDir    string
}

func (c *commandContext) newSession(cmd *cobra.Command, opts sessionOptions) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	cfg = copyConfig(cfg)
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if opts.outputDir != "" {
		dir, err := config.ExpandPath(opts.outputDir)
		if err != nil {
			return nil, err
		}
		cfg.OutputDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.Setup(cfg.LogDir, cfg.Verbose, cfg.NoLog)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	rep := newLoggedReporter(newReporter(cmd, cfg), logger)
	engineOpts := []probemap.Option{
		probemap.WithConfig(cfg),
		probemap.WithReporter(rep),
		probemap.WithLogger(logger),
	}
	if opts.needProfiles {
		path, err := cfg.RequireProfiles()
		if err != nil {
			_ = logger.Close()
			return nil, fmt.Errorf("%w (use --profiles)", err)
		}
		engineOpts = append(engineOpts, probemap.WithProfilesFile(path))
	}

	engine, err := probemap.New(engineOpts...)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	return &session{engine: engine, reporter: rep, logger: logger}, nil
}

func copyConfig(cfg *config.Config) *config.Config {
	c := *cfg
	return &c
}

func newReporter(cmd *cobra.Command, cfg *config.Config) reporter.Reporter {
	if cfg.JSON {
		return reporter.NewJSONReporterWithWriter(cmd.OutOrStdout())
	}
	return reporter.NewTerminalReporter(reporter.TerminalOptions{
		Out:          cmd.OutOrStdout(),
		Err:          cmd.ErrOrStderr(),
		Color:        colorEnabled(),
		ShowProgress: isTerminal(os.Stderr),
	})
}

func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isTerminal(os.Stdout)
}

func isTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// loggedReporter mirrors diagnostics and errors into the run log.
type loggedReporter struct {
	reporter.Reporter
	logger *logging.Logger
}

func newLoggedReporter(rep reporter.Reporter, logger *logging.Logger) reporter.Reporter {
	if logger == nil {
		return rep
	}
	return &loggedReporter{Reporter: rep, logger: logger}
}

func (r *loggedReporter) Warning(message string) {
	r.logger.Warn("%s", message)
	r.Reporter.Warning(message)
}

func (r *loggedReporter) Verbose(message string) {
	r.logger.Debug("%s", strings.TrimSpace(message))
	r.Reporter.Verbose(message)
}

func (r *loggedReporter) Error(err reporter.ReporterError) {
	r.logger.Error("%s: %s", err.Title, err.Message)
	r.Reporter.Error(err)
}
