package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vidtools/internal/config"
	"vidtools/internal/history"
	"vidtools/internal/logging"
	"vidtools/internal/media/ffprobe"
	"vidtools/internal/ops"
	"vidtools/internal/presets"
	"vidtools/internal/runner"
	"vidtools/internal/services"
)

// globalFlags holds the persistent flags of the root command.
type globalFlags struct {
	configPath string
	dryRun     bool
	overwrite  bool
	logLevel   string
	logFormat  string
	noProgress bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if c.flags.overwrite {
			cfg.FFmpeg.Overwrite = true
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := strings.TrimSpace(c.flags.logFormat); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "", "", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	logger, err := c.ensureLogger()
	if err != nil || logger == nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) dryRun() bool {
	return c.flags.dryRun
}

// requireFFmpeg verifies that the configured ffmpeg binary resolves.
func (c *commandContext) requireFFmpeg() error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	binary := cfg.FFmpegBinary()
	if _, err := exec.LookPath(binary); err != nil {
		if binary == "ffmpeg" {
			return errors.New("ffmpeg not found in PATH; install ffmpeg first")
		}
		return fmt.Errorf("ffmpeg binary %q not found; install ffmpeg first or fix ffmpeg.ffmpeg_binary", binary)
	}
	return nil
}

func (c *commandContext) presetStore() (*presets.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return presets.NewStore(cfg.Paths.PresetFile, logging.NewComponentLogger(c.loggerValue(), "presets")), nil
}

func (c *commandContext) prober() ffprobe.Prober {
	return ffprobe.Prober{Binary: c.configValue().FFprobeBinary()}
}

// defaultReporter picks the progress display for a command: a bar on an
// interactive stderr, sampled log lines otherwise.
func (c *commandContext) defaultReporter(errOut io.Writer) func(string) runner.Reporter {
	if c.flags.noProgress {
		return nil
	}
	if shouldColorize(errOut) {
		return func(string) runner.Reporter { return runner.NewBarReporter(errOut) }
	}
	logger := c.loggerValue()
	return func(string) runner.Reporter { return runner.NewLogReporter(logger) }
}

// jobRequest describes one operation to plan and run.
type jobRequest struct {
	op     ops.Operation
	preset string
	// out receives the command line in dry-run mode.
	out      io.Writer
	reporter func(operation string) runner.Reporter
	// logger overrides the configured logger.
	logger *slog.Logger
}

// runJob plans req.op, runs it, and records the outcome in the job history.
func (c *commandContext) runJob(ctx context.Context, req jobRequest) (*ops.Job, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := req.logger
	if logger == nil {
		if logger, err = c.ensureLogger(); err != nil {
			return nil, err
		}
	}

	jobID := uuid.NewString()
	ctx = services.WithJobID(ctx, jobID)
	ctx = services.WithOperation(ctx, req.op.Name())
	if req.preset != "" {
		ctx = services.WithPreset(ctx, req.preset)
	}

	run := runner.New(cfg.FFmpegBinary(), logger)
	run.DryRun = c.flags.dryRun
	run.Out = req.out
	run.NewReporter = req.reporter

	env := ops.NewEnv(cfg, c.prober(), run, logger)
	job, err := req.op.Plan(ctx, env)
	if err != nil {
		return nil, err
	}

	rec := c.beginHistory(ctx, jobID, job, run.Command(job), req.preset, logger)
	err = run.Run(ctx, job)
	rec.finish(ctx, job, err)
	return job, err
}

// execute runs op for an operation command and reports the written output.
func (c *commandContext) execute(cmd *cobra.Command, op ops.Operation, preset string) error {
	job, err := c.runJob(commandCtx(cmd), jobRequest{
		op:       op,
		preset:   preset,
		out:      cmd.OutOrStdout(),
		reporter: c.defaultReporter(cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}
	if !c.dryRun() {
		fmt.Fprintln(cmd.OutOrStdout(), outputSummary(job.Output))
	}
	return nil
}

func outputSummary(output string) string {
	info, err := os.Stat(output)
	if err != nil || !info.Mode().IsRegular() {
		return "Done: " + output
	}
	return fmt.Sprintf("Wrote %s (%s)", output, humanize.Bytes(uint64(info.Size())))
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

type historyRecorder struct {
	store  *history.Store
	id     string
	logger *slog.Logger
}

// beginHistory records a running job. Recording problems are logged and never
// fail the operation; dry runs are not recorded.
func (c *commandContext) beginHistory(ctx context.Context, id string, job *ops.Job, command, preset string, logger *slog.Logger) *historyRecorder {
	cfg := c.configValue()
	if c.flags.dryRun || cfg == nil || !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		logger.Warn("job history unavailable", logging.Error(err))
		return nil
	}
	_, err = store.Begin(ctx, history.Entry{
		ID:        id,
		Operation: job.Operation,
		Command:   command,
		Inputs:    job.Inputs,
		Output:    job.Output,
		Preset:    preset,
	})
	if err != nil {
		logger.Warn("record job start failed", logging.Error(err))
		store.Close()
		return nil
	}
	return &historyRecorder{store: store, id: id, logger: logger}
}

func (r *historyRecorder) finish(ctx context.Context, job *ops.Job, runErr error) {
	if r == nil {
		return
	}
	defer r.store.Close()

	outcome := history.Outcome{Status: history.StatusSucceeded}
	switch {
	case runErr == nil:
		if info, err := os.Stat(job.Output); err == nil && info.Mode().IsRegular() {
			outcome.OutputBytes = info.Size()
		}
	case errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded):
		outcome.Status = history.StatusCancelled
		outcome.ErrorMessage = runErr.Error()
	default:
		outcome.Status = history.StatusFailed
		outcome.ErrorMessage = runErr.Error()
		if code, ok := runner.ExitCode(runErr); ok {
			outcome.ExitCode = &code
		}
	}
	if err := r.store.Finish(context.WithoutCancel(ctx), r.id, outcome); err != nil {
		r.logger.Warn("record job outcome failed", logging.Error(err))
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	return hasAnnotation(cmd, "skipConfigLoad")
}

func shouldSkipBinaryCheck(cmd *cobra.Command) bool {
	return hasAnnotation(cmd, "skipBinaryCheck")
}

func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations[key] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
