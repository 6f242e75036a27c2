// Package config loads, normalizes, and validates vidtools configuration data.
//
// It supplies defaults for the media engine binaries, encoder settings, and the
// preset/history locations, expands user paths (including tilde shortcuts),
// reads TOML files, and honours environment fallbacks such as VIDTOOLS_FFMPEG.
//
// Always obtain settings through this package so command handlers receive
// sanitized paths, canonical log formats, and clear validation errors.
package config
