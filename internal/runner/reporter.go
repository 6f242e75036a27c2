package runner

import (
	"io"
	"log/slog"
	"math"

	"github.com/schollz/progressbar/v3"

	"vidtools/internal/logging"
)

// Reporter receives progress for a single job.
type Reporter interface {
	Start(operation string, total float64)
	Update(Progress)
	Finish(err error)
}

// ReporterFunc adapts a plain callback to Reporter. Start and Finish are
// no-ops.
type ReporterFunc func(Progress)

func (f ReporterFunc) Start(string, float64) {}
func (f ReporterFunc) Update(p Progress)     { f(p) }
func (f ReporterFunc) Finish(error)          {}

type nopReporter struct{}

func (nopReporter) Start(string, float64) {}
func (nopReporter) Update(Progress)       {}
func (nopReporter) Finish(error)          {}

// barReporter draws a terminal progress bar.
type barReporter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewBarReporter renders progress as a bar on out, which should be a
// terminal.
func NewBarReporter(out io.Writer) Reporter {
	return &barReporter{out: out}
}

func (r *barReporter) Start(operation string, total float64) {
	max := 100
	if total <= 0 {
		max = -1
	}
	r.bar = progressbar.NewOptions(max,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(operation),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *barReporter) Update(p Progress) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(p.Message())
	if p.Percent >= 0 {
		_ = r.bar.Set(int(math.Floor(p.Percent)))
		return
	}
	_ = r.bar.Add(1)
}

func (r *barReporter) Finish(err error) {
	if r.bar == nil {
		return
	}
	if err == nil {
		_ = r.bar.Finish()
	} else {
		_ = r.bar.Exit()
	}
	r.bar = nil
}

// logReporter emits sampled progress lines through slog, for non-interactive
// output.
type logReporter struct {
	logger    *slog.Logger
	sampler   *logging.ProgressSampler
	operation string
}

// NewLogReporter logs progress every ten percent.
func NewLogReporter(logger *slog.Logger) Reporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &logReporter{logger: logger, sampler: logging.NewProgressSampler(10)}
}

func (r *logReporter) Start(operation string, total float64) {
	r.operation = operation
	r.sampler.Reset()
}

func (r *logReporter) Update(p Progress) {
	if p.Percent < 0 || !r.sampler.ShouldLog(p.Percent) {
		return
	}
	attrs := []any{
		logging.String(logging.FieldOperation, r.operation),
		logging.Float64("percent", math.Round(p.Percent*10)/10),
		logging.Float64("position_seconds", math.Round(p.Current*100)/100),
	}
	if p.Speed > 0 {
		attrs = append(attrs, logging.Float64("speed", p.Speed))
	}
	if eta := FormatETA(p.ETA); eta != "" {
		attrs = append(attrs, logging.String("eta", eta))
	}
	r.logger.Info("ffmpeg progress", attrs...)
}

func (r *logReporter) Finish(error) {}
