package history

import "time"

// Status is the terminal or in-flight state of a job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Entry is one recorded ffmpeg invocation.
type Entry struct {
	ID        string
	Operation string
	Command   string
	Inputs    []string
	Output    string
	Preset    string
	Status    Status
	// ExitCode is ffmpeg's exit status; nil while running or when the
	// process never started.
	ExitCode     *int
	ErrorMessage string
	// OutputBytes is the size of the output file after a successful run.
	OutputBytes int64
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Elapsed returns the job's wall time, or zero while running.
func (e Entry) Elapsed() time.Duration {
	if e.FinishedAt.IsZero() || e.StartedAt.IsZero() {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// Outcome describes how a job ended.
type Outcome struct {
	Status       Status
	ExitCode     *int
	ErrorMessage string
	OutputBytes  int64
}
