package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"vidtools/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	defaultConfigFile = "~/.config/vidtools/config.toml"
	projectConfigFile = "vidtools.toml"
)

// ErrConfigExists is returned by CreateSample when the target exists and
// overwrite was not requested.
var ErrConfigExists = errors.New("config file already exists")

// Paths contains file locations for persistent state.
type Paths struct {
	PresetFile string `toml:"preset_file"`
	HistoryDB  string `toml:"history_db"`
}

// FFmpeg configures the external media engine.
type FFmpeg struct {
	Binary      string `toml:"ffmpeg_binary"`
	ProbeBinary string `toml:"ffprobe_binary"`
	// LogLevel is passed to ffmpeg via -loglevel. "info" keeps the Duration
	// banner and progress lines the runner parses.
	LogLevel          string `toml:"loglevel"`
	Overwrite         bool   `toml:"overwrite"`
	CropDetectSeconds int    `toml:"cropdetect_seconds"`
}

// Encoding holds defaults applied when an operation re-encodes video.
type Encoding struct {
	CRF             int    `toml:"crf"`
	Preset          string `toml:"preset"`
	ScaleAlgorithm  string `toml:"scale_algorithm"`
	MergeTransition string `toml:"merge_transition"`
}

type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// History controls the local job history database.
type History struct {
	Enabled bool `toml:"enabled"`
	Limit   int  `toml:"limit"`
}

// Config is the decoded config.toml plus defaults and env fallbacks.
type Config struct {
	Paths    Paths    `toml:"paths"`
	FFmpeg   FFmpeg   `toml:"ffmpeg"`
	Encoding Encoding `toml:"encoding"`
	Logging  Logging  `toml:"logging"`
	History  History  `toml:"history"`
}

// Source records where a Config came from. Exists is false when no file was
// found and defaults were used.
type Source struct {
	Path   string
	Exists bool
}

// DefaultConfigPath returns the absolute per-user config location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigFile)
}

// Load reads the config at path, or searches the per-user location and then
// ./vidtools.toml when path is empty. Missing files yield defaults. Unknown
// keys are rejected. The result is normalized and validated.
func Load(path string) (*Config, Source, error) {
	src, err := locate(path)
	if err != nil {
		return nil, Source{}, err
	}
	cfg := Default()
	if src.Exists {
		if err := decodeFile(src.Path, &cfg); err != nil {
			return nil, src, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, src, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, src, err
	}
	return &cfg, src, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func locate(path string) (Source, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return Source{}, err
		}
		switch _, err := os.Stat(expanded); {
		case err == nil:
			return Source{Path: expanded, Exists: true}, nil
		case errors.Is(err, fs.ErrNotExist):
			return Source{Path: expanded}, nil
		default:
			return Source{}, fmt.Errorf("stat config: %w", err)
		}
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return Source{}, err
	}
	projectPath, err := filepath.Abs(projectConfigFile)
	if err != nil {
		return Source{}, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if fileutil.IsRegularFile(candidate) {
			return Source{Path: candidate, Exists: true}, nil
		}
	}
	return Source{Path: userPath}, nil
}

// EnsureDirectories creates the parent directories of the preset file and,
// when history is on, the history database.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Paths.PresetFile)}
	if c.History.Enabled {
		dirs = append(dirs, filepath.Dir(c.Paths.HistoryDB))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for every operation.
func (c *Config) FFmpegBinary() string {
	return binaryOr(c, func(c *Config) string { return c.FFmpeg.Binary }, defaultFFmpegBinary)
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	return binaryOr(c, func(c *Config) string { return c.FFmpeg.ProbeBinary }, defaultFFprobeBinary)
}

func binaryOr(c *Config, get func(*Config) string, fallback string) string {
	if c == nil {
		return fallback
	}
	if v := strings.TrimSpace(get(c)); v != "" {
		return v
	}
	return fallback
}

// ExpandPath resolves a leading ~ to the home directory and makes the result
// absolute. Empty input stays empty.
func ExpandPath(p string) (string, error) {
	return expandPath(p)
}

func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimLeft(p[1:], `/\`))
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}

// CreateSample writes the commented sample config to path (the per-user
// location when empty) and returns the resolved destination.
func CreateSample(path string, overwrite bool) (string, error) {
	target, err := expandPath(strings.TrimSpace(path))
	if err != nil {
		return "", err
	}
	if target == "" {
		if target, err = DefaultConfigPath(); err != nil {
			return "", err
		}
	}
	if !overwrite {
		switch _, err := os.Stat(target); {
		case err == nil:
			return target, fmt.Errorf("%w at %s", ErrConfigExists, target)
		case !errors.Is(err, fs.ErrNotExist):
			return target, fmt.Errorf("check config path: %w", err)
		}
	}
	if err := fileutil.WriteFileAtomic(target, []byte(sampleConfig), 0o644); err != nil {
		return target, fmt.Errorf("write sample config: %w", err)
	}
	return target, nil
}
