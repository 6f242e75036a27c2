package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"vidtools/internal/ffmpeg"
	"vidtools/internal/logging"
	"vidtools/internal/ops"
	"vidtools/internal/services"
)

const defaultTailLines = 20

// ErrNotFound indicates the ffmpeg binary could not be located.
var ErrNotFound = errors.New("ffmpeg binary not found")

// ExitError reports a non-zero exit from the child process.
type ExitError struct {
	Binary string
	Code   int
	// Tail holds the last diagnostic lines written to stderr.
	Tail []string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Binary, e.Code)
	if n := len(e.Tail); n > 0 {
		msg += ": " + e.Tail[n-1]
	}
	return msg
}

// ExitCode extracts the child's exit status from err, if any.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// Runner executes planned jobs.
type Runner struct {
	Binary string
	Logger *slog.Logger
	// DryRun prints the command to Out instead of executing it.
	DryRun bool
	Out    io.Writer
	// NewReporter is called once per job; nil disables progress reporting.
	NewReporter func(operation string) Reporter
	TailLines   int
}

// New returns a Runner for binary.
func New(binary string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{Binary: binary, Logger: logger, TailLines: defaultTailLines}
}

func (r *Runner) binary() string {
	if strings.TrimSpace(r.Binary) == "" {
		return "ffmpeg"
	}
	return r.Binary
}

// Command renders job as a copy-pasteable shell line.
func (r *Runner) Command(job *ops.Job) string {
	return ffmpeg.QuoteCommand(r.binary(), job.Args)
}

// Run executes job, streaming progress until ffmpeg exits or ctx is done.
// Temporary files owned by the job are released before returning, except on
// a dry run, where they are kept so the printed command can be run by hand.
func (r *Runner) Run(ctx context.Context, job *ops.Job) error {
	if job == nil {
		return errors.New("runner: nil job")
	}

	logger := logging.WithContext(ctx, r.Logger).With(logging.String(logging.FieldOperation, job.Operation))
	command := r.Command(job)
	if r.DryRun {
		if r.Out != nil {
			fmt.Fprintln(r.Out, command)
		}
		for _, path := range job.TempFiles {
			logger.Info("kept temporary file for dry run", logging.String("path", path))
		}
		if len(job.TempFiles) == 0 {
			job.Cleanup()
		}
		return nil
	}
	defer job.Cleanup()

	logger.Info("running ffmpeg", logging.String("command", command))

	reporter := Reporter(nopReporter{})
	if r.NewReporter != nil {
		if rep := r.NewReporter(job.Operation); rep != nil {
			reporter = rep
		}
	}

	started := time.Now()
	reporter.Start(job.Operation, job.Duration)
	err := r.exec(ctx, job.Args, newTracker(job.Duration), reporter, logger)
	reporter.Finish(err)
	if err != nil {
		return err
	}
	logger.Info("ffmpeg finished",
		logging.String("output", job.Output),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
	)
	return nil
}

func (r *Runner) exec(ctx context.Context, args []string, tr *tracker, reporter Reporter, logger *slog.Logger) error {
	binary := r.binary()
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.WaitDelay = 5 * time.Second
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return startError(binary, err)
	}

	tail := newTail(r.tailLines())
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(scanLines)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" {
			continue
		}
		if p, ok := tr.observe(line); ok {
			reporter.Update(p)
			continue
		}
		if isStatusLine(line) {
			continue
		}
		tail.add(line)
		logger.Debug("ffmpeg output", logging.String("line", line))
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Keep the pipe flowing so ffmpeg cannot block on a full stderr.
		_, _ = io.Copy(io.Discard, stderr)
	}

	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &ExitError{Binary: binary, Code: exitErr.ExitCode(), Tail: tail.lines()}
		}
		return fmt.Errorf("wait for %s: %w", binary, waitErr)
	}
	if scanErr != nil {
		return fmt.Errorf("read %s output: %w", binary, scanErr)
	}
	return nil
}

// Capture runs a short analysis pass (for example cropdetect) and returns
// everything written to stderr. It satisfies ops.Capturer.
func (r *Runner) Capture(ctx context.Context, args []string) (string, error) {
	binary := r.binary()
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.WaitDelay = 5 * time.Second
	r.Logger.Debug("capturing ffmpeg output", logging.String("command", ffmpeg.QuoteCommand(binary, args)))
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			tail := newTail(r.tailLines())
			for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
				if line = strings.TrimSpace(line); line != "" && !isStatusLine(line) {
					tail.add(line)
				}
			}
			return string(out), &ExitError{Binary: binary, Code: exitErr.ExitCode(), Tail: tail.lines()}
		}
		return "", startError(binary, err)
	}
	return string(out), nil
}

func (r *Runner) tailLines() int {
	if r.TailLines <= 0 {
		return defaultTailLines
	}
	return r.TailLines
}

func startError(binary string, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return services.Wrap(services.ErrExternalTool, "runner", "start", fmt.Sprintf("%s not found in PATH", binary), ErrNotFound)
	}
	return services.Wrap(services.ErrExternalTool, "runner", "start", "start "+binary, err)
}

// tail is a fixed-size ring of recent lines.
type tail struct {
	buf  []string
	next int
	full bool
}

func newTail(size int) *tail {
	return &tail{buf: make([]string, size)}
}

func (t *tail) add(line string) {
	t.buf[t.next] = line
	t.next = (t.next + 1) % len(t.buf)
	if t.next == 0 {
		t.full = true
	}
}

func (t *tail) lines() []string {
	if !t.full {
		return append([]string(nil), t.buf[:t.next]...)
	}
	out := make([]string, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}
