package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFFmpeg()
	c.normalizeEncoding()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	if c.History.Limit <= 0 {
		c.History.Limit = defaultHistoryLimit
	}
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("VIDTOOLS_PRESETS"); ok && strings.TrimSpace(value) != "" {
		c.Paths.PresetFile = value
	}
	if strings.TrimSpace(c.Paths.PresetFile) == "" {
		c.Paths.PresetFile = defaultPresetFile
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	var err error
	if c.Paths.PresetFile, err = expandPath(strings.TrimSpace(c.Paths.PresetFile)); err != nil {
		return fmt.Errorf("paths.preset_file: %w", err)
	}
	if c.Paths.HistoryDB, err = expandPath(strings.TrimSpace(c.Paths.HistoryDB)); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeFFmpeg() {
	if value, ok := os.LookupEnv("VIDTOOLS_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.Binary = value
	}
	if value, ok := os.LookupEnv("VIDTOOLS_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.ProbeBinary = value
	}
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	c.FFmpeg.ProbeBinary = strings.TrimSpace(c.FFmpeg.ProbeBinary)
	if c.FFmpeg.ProbeBinary == "" {
		c.FFmpeg.ProbeBinary = defaultFFprobeBinary
	}
	c.FFmpeg.LogLevel = strings.ToLower(strings.TrimSpace(c.FFmpeg.LogLevel))
	if c.FFmpeg.LogLevel == "" {
		c.FFmpeg.LogLevel = defaultFFmpegLogLevel
	}
	if c.FFmpeg.CropDetectSeconds == 0 {
		c.FFmpeg.CropDetectSeconds = defaultCropDetectSeconds
	}
}

func (c *Config) normalizeEncoding() {
	c.Encoding.Preset = strings.ToLower(strings.TrimSpace(c.Encoding.Preset))
	if c.Encoding.Preset == "" {
		c.Encoding.Preset = defaultEncoderPreset
	}
	c.Encoding.ScaleAlgorithm = strings.ToLower(strings.TrimSpace(c.Encoding.ScaleAlgorithm))
	if c.Encoding.ScaleAlgorithm == "" {
		c.Encoding.ScaleAlgorithm = defaultScaleAlgorithm
	}
	c.Encoding.MergeTransition = strings.ToLower(strings.TrimSpace(c.Encoding.MergeTransition))
	if c.Encoding.MergeTransition == "" {
		c.Encoding.MergeTransition = defaultMergeTransition
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
