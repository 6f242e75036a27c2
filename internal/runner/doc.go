// Package runner executes ffmpeg jobs planned by internal/ops.
//
// It streams the child's stderr, parses the Duration banner and the periodic
// "time=" status lines into Progress values, forwards them to a Reporter
// (terminal progress bar, sampled log lines, or a callback), keeps a short
// tail of diagnostic output, and reports a non-zero exit as *ExitError.
package runner
