// Package main hosts the vt CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into planned ffmpeg
// jobs: each operation command parses its flags into an ops options struct,
// plans it against the loaded configuration, and hands the resulting argument
// vector to the runner. Presets, batch conversion, job history, dependency
// checks, and the interactive terminal UI are surfaced here as well.
//
// Keep this package lean: argument construction lives in internal/ops and
// internal/ffmpeg, process handling in internal/runner.
package main
