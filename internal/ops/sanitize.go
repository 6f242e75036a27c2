package ops

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vidtools/internal/ffmpeg"
	"vidtools/internal/logging"
	"vidtools/internal/services"
)

// SanitizeOptions crops away burned-in borders and banners, adds light noise,
// and strips metadata, chapters, and SEI user data.
type SanitizeOptions struct {
	Input  string
	Output string
	// Limit is the cropdetect black threshold.
	Limit int
	// Noise is the temporal noise strength (0-100, 0 disables).
	Noise int
	// ExtraBottom removes this many more pixels from the bottom of the
	// detected crop.
	ExtraBottom int
	// ManualCrop is used verbatim as the crop filter arguments and skips
	// detection.
	ManualCrop string
	CRF        string
	AAC        bool
	NoAudio    bool
}

func (o SanitizeOptions) Name() string { return OpSanitize }

// DetectArgs returns the argument vector of the crop detection pass.
func (o SanitizeOptions) DetectArgs(seconds int) []string {
	args := []string{"-hide_banner", "-nostdin", "-i", o.Input}
	if seconds > 0 {
		args = append(args, "-t", strconv.Itoa(seconds))
	}
	return append(args, "-vf", ffmpeg.CropDetect(o.Limit), "-an", "-f", "null", "-")
}

func (o SanitizeOptions) validate() error {
	if err := checkInput(OpSanitize, o.Input); err != nil {
		return err
	}
	if err := checkOutput(OpSanitize, o.Output, o.Input); err != nil {
		return err
	}
	if o.Noise < 0 || o.Noise > 100 {
		return invalid(OpSanitize, "noise must be between 0 and 100, got %d", o.Noise)
	}
	if o.Limit < 0 || o.Limit > 255 {
		return invalid(OpSanitize, "limit must be between 0 and 255, got %d", o.Limit)
	}
	if o.ExtraBottom < 0 {
		return invalid(OpSanitize, "extra bottom must not be negative")
	}
	if o.ExtraBottom > 0 && strings.TrimSpace(o.ManualCrop) != "" {
		return invalid(OpSanitize, "--extra-bottom only applies to detected crops; fold it into --manual-crop instead")
	}
	if o.AAC && o.NoAudio {
		return invalid(OpSanitize, "--aac and --no-audio are mutually exclusive")
	}
	return checkCRF(OpSanitize, "crf", o.CRF)
}

// cropFilter returns the crop filter, running detection unless a manual crop
// was given.
func (o SanitizeOptions) cropFilter(ctx context.Context, env Env) (string, error) {
	if manual := strings.TrimSpace(o.ManualCrop); manual != "" {
		return "crop=" + strings.TrimPrefix(manual, "crop="), nil
	}
	if env.Capturer == nil {
		return "", services.Wrap(services.ErrConfiguration, OpSanitize, "cropdetect", "no ffmpeg runner available for crop detection", nil)
	}
	output, err := env.Capturer.Capture(ctx, o.DetectArgs(env.CropDetectSeconds))
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, OpSanitize, "cropdetect", "", err)
	}
	rect, ok := ffmpeg.ParseCropDetect(output)
	if !ok {
		return "", services.Wrap(services.ErrExternalTool, OpSanitize, "cropdetect", "no crop suggestion in ffmpeg output", nil)
	}
	detected := rect
	if o.ExtraBottom > 0 {
		trim := o.ExtraBottom + o.ExtraBottom%2
		if rect.Height-trim <= 0 {
			return "", invalid(OpSanitize, "extra bottom %d leaves no picture (detected height %d)", o.ExtraBottom, rect.Height)
		}
		rect.Height -= trim
	}
	env.logger().Info("crop detected",
		logging.String("detected", detected.String()),
		logging.String("crop", rect.String()),
	)
	return rect.Filter(), nil
}

func (o SanitizeOptions) Plan(ctx context.Context, env Env) (*Job, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	crop, err := o.cropFilter(ctx, env)
	if err != nil {
		return nil, err
	}
	crf := firstNonEmpty(o.CRF, fmt.Sprint(env.Encoding.CRF))

	cmd := env.command().
		Input(o.Input).
		VideoFilter(crop, ffmpeg.Noise(o.Noise)).
		Map("0:v:0").
		Option("-map_metadata", "-1", "-map_chapters", "-1",
			"-fflags", "+bitexact", "-flags:v", "+bitexact", "-flags:a", "+bitexact",
			"-c:v", "libx264", "-crf", crf, "-preset", env.Encoding.Preset, "-pix_fmt", "yuv420p",
			"-bsf:v", "filter_units=remove_types=6")
	switch {
	case o.NoAudio:
		cmd.Option("-an")
	case o.AAC:
		cmd.Map("0:a?").Option("-c:a", "aac", "-b:a", "128k")
	default:
		cmd.Map("0:a?").Option("-c:a", "copy")
	}
	cmd.Output(o.Output)
	return newJob(OpSanitize, cmd, env.sourceDuration(ctx, o.Input)), nil
}
