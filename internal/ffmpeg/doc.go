// Package ffmpeg assembles argument vectors for the ffmpeg executable.
//
// It owns the ordered command skeleton (preamble, inputs, filter graphs,
// stream maps, codec options, output), the filter string helpers used by the
// operations (scale, crop, transpose, subtitles, cropdetect, noise, xfade,
// palette graphs), timecode parsing, the container format table, and concat
// list files. Nothing here executes a process; see internal/runner.
package ffmpeg
