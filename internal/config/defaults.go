package config

const (
	defaultPresetFile        = "~/.config/vidtools/presets.json"
	defaultHistoryDB         = "~/.local/share/vidtools/history.db"
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultFFmpegLogLevel    = "info"
	defaultCropDetectSeconds = 60
	defaultCRF               = 22
	defaultEncoderPreset     = "slow"
	defaultScaleAlgorithm    = "lanczos"
	defaultMergeTransition   = "fade"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultHistoryEnabled    = true
	defaultHistoryLimit      = 20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PresetFile: defaultPresetFile,
			HistoryDB:  defaultHistoryDB,
		},
		FFmpeg: FFmpeg{
			Binary:            defaultFFmpegBinary,
			ProbeBinary:       defaultFFprobeBinary,
			LogLevel:          defaultFFmpegLogLevel,
			CropDetectSeconds: defaultCropDetectSeconds,
		},
		Encoding: Encoding{
			CRF:             defaultCRF,
			Preset:          defaultEncoderPreset,
			ScaleAlgorithm:  defaultScaleAlgorithm,
			MergeTransition: defaultMergeTransition,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
			Limit:   defaultHistoryLimit,
		},
	}
}
