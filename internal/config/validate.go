package config

import (
	"errors"
	"fmt"
	"slices"

	"vidtools/internal/ffmpeg"
)

var ffmpegLogLevels = []string{"quiet", "panic", "fatal", "error", "warning", "info", "verbose", "debug", "trace"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if !ffmpeg.ValidTransition(c.Encoding.MergeTransition) {
		return fmt.Errorf("encoding.merge_transition: unsupported value %q", c.Encoding.MergeTransition)
	}
	return c.validateLogging()
}

func (c *Config) validateFFmpeg() error {
	if !slices.Contains(ffmpegLogLevels, c.FFmpeg.LogLevel) {
		return fmt.Errorf("ffmpeg.loglevel: unsupported value %q", c.FFmpeg.LogLevel)
	}
	if c.FFmpeg.CropDetectSeconds < 0 {
		return errors.New("ffmpeg.cropdetect_seconds must be positive")
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if c.Encoding.CRF < 0 || c.Encoding.CRF > 63 {
		return errors.New("encoding.crf must be between 0 and 63")
	}
	if !ffmpeg.ValidEncoderPreset(c.Encoding.Preset) {
		return fmt.Errorf("encoding.preset: unsupported value %q", c.Encoding.Preset)
	}
	if !ffmpeg.ValidScaleAlgorithm(c.Encoding.ScaleAlgorithm) {
		return fmt.Errorf("encoding.scale_algorithm: unsupported value %q", c.Encoding.ScaleAlgorithm)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
