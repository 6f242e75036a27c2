// Package testsupport provides shared fixtures for package tests: temp-dir
// configurations, stub ffmpeg/ffprobe executables, and store helpers.
package testsupport
