// Package ops turns validated operation options into ffmpeg jobs.
//
// Each operation (resize, convert, cut, crop, rotate, subtitles, concat,
// merge, sanitize, extract-audio, extract-frames) has a typed options struct
// whose Plan method validates its inputs, consults ffprobe where dimensions
// or durations matter, and returns a Job: the argument vector plus the
// expected output duration used for progress reporting. Planning never runs
// the encode itself; sanitize's crop detection pass is the one exception and
// goes through the Env's Capturer.
package ops
