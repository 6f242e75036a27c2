// Package ffprobe runs `ffprobe -show_format -show_streams -of json` and
// decodes the result.
//
// vt uses it for `info`, for the duration that turns ffmpeg's time= progress
// into a percentage, and for the frame bounds crop and resize validate
// against. Result carries convenience accessors for the first video stream,
// stream counts and the container duration and bitrate.
package ffprobe
