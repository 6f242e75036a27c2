package ops

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"vidtools/internal/config"
	"vidtools/internal/ffmpeg"
	"vidtools/internal/fileutil"
	"vidtools/internal/logging"
	"vidtools/internal/media/ffprobe"
	"vidtools/internal/services"
)

// Operation names.
const (
	OpResize        = "resize"
	OpConvert       = "convert"
	OpCut           = "cut"
	OpCrop          = "crop"
	OpRotate        = "rotate"
	OpSubtitles     = "subtitles"
	OpConcat        = "concat"
	OpMerge         = "merge"
	OpSanitize      = "sanitize"
	OpExtractAudio  = "extract-audio"
	OpExtractFrames = "extract-frames"
	OpInfo          = "info"
)

// Prober inspects media files.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// Capturer runs a short ffmpeg analysis pass and returns its stderr.
type Capturer interface {
	Capture(ctx context.Context, args []string) (string, error)
}

// Env carries the configuration and collaborators shared by every plan.
type Env struct {
	Overwrite         bool
	LogLevel          string
	Encoding          config.Encoding
	CropDetectSeconds int
	Prober            Prober
	Capturer          Capturer
	Logger            *slog.Logger
}

// NewEnv builds an Env from loaded configuration.
func NewEnv(cfg *config.Config, prober Prober, capturer Capturer, logger *slog.Logger) Env {
	env := Env{Prober: prober, Capturer: capturer, Logger: logger}
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	env.Overwrite = cfg.FFmpeg.Overwrite
	env.LogLevel = cfg.FFmpeg.LogLevel
	env.Encoding = cfg.Encoding
	env.CropDetectSeconds = cfg.FFmpeg.CropDetectSeconds
	return env
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.NewNop()
	}
	return e.Logger
}

func (e Env) command() *ffmpeg.Command {
	return ffmpeg.NewCommand(e.Overwrite, e.LogLevel)
}

// probe inspects path, returning ok=false (and logging) when no prober is
// configured or ffprobe fails.
func (e Env) probe(ctx context.Context, path string) (ffprobe.Result, bool) {
	if e.Prober == nil {
		return ffprobe.Result{}, false
	}
	result, err := e.Prober.Inspect(ctx, path)
	if err != nil {
		e.logger().Debug("ffprobe inspection failed", logging.String("input", path), logging.Error(err))
		return ffprobe.Result{}, false
	}
	return result, true
}

func (e Env) sourceDuration(ctx context.Context, path string) float64 {
	result, ok := e.probe(ctx, path)
	if !ok {
		return 0
	}
	return nonNegative(result.DurationSeconds())
}

// finite reports whether v is a real number; flag parsing accepts NaN and Inf.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// Job is a fully planned ffmpeg invocation.
type Job struct {
	Operation string
	Args      []string
	Inputs    []string
	Output    string
	// Duration is the expected output length in seconds; zero when unknown.
	Duration float64
	// TempFiles are files the planned command reads that Cleanup removes,
	// such as a concat list.
	TempFiles []string
	cleanup   []func()
}

// Cleanup releases temporary files created while planning. Safe to call
// more than once.
func (j *Job) Cleanup() {
	if j == nil {
		return
	}
	for i := len(j.cleanup) - 1; i >= 0; i-- {
		j.cleanup[i]()
	}
	j.cleanup = nil
}

// OnCleanup registers fn to run during Cleanup, in reverse order.
func (j *Job) OnCleanup(fn func()) {
	j.cleanup = append(j.cleanup, fn)
}

func newJob(op string, cmd *ffmpeg.Command, duration float64) *Job {
	return &Job{
		Operation: op,
		Args:      cmd.Args(),
		Inputs:    cmd.InputPaths(),
		Output:    cmd.OutputPath(),
		Duration:  duration,
	}
}

// Operation is implemented by every options struct.
type Operation interface {
	Name() string
	Plan(ctx context.Context, env Env) (*Job, error)
}

func invalid(op, format string, args ...any) error {
	return services.Validation(op, format, args...)
}

// checkInput verifies that path names an existing regular file.
func checkInput(op, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return invalid(op, "input path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, op, "", fmt.Sprintf("input %q does not exist", path), nil)
		}
		return services.Wrap(services.ErrValidation, op, "", fmt.Sprintf("stat input %q", path), err)
	}
	if !info.Mode().IsRegular() {
		return invalid(op, "input %q is not a regular file", path)
	}
	return nil
}

// checkOutput rejects an empty output and an output that would overwrite one
// of the inputs.
func checkOutput(op, output string, inputs ...string) error {
	output = strings.TrimSpace(output)
	if output == "" {
		return invalid(op, "output path is required")
	}
	for _, in := range inputs {
		if fileutil.SamePath(in, output) {
			return invalid(op, "output %q would overwrite its input", output)
		}
	}
	return nil
}

func checkCRF(op, name, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 || n > 63 {
		return invalid(op, "%s must be an integer between 0 and 63, got %q", name, value)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
