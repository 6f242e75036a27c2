package presets

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"vidtools/internal/ffmpeg"
	"vidtools/internal/ops"
	"vidtools/internal/services"
)

// Preset is a saved bag of operation options. Field names follow the
// on-disk JSON keys.
type Preset struct {
	// Operation is the planner the preset targets; inferred from the other
	// fields when empty.
	Operation        string `json:"operation,omitempty"`
	Format           Text   `json:"format,omitempty"`
	VideoCodec       Text   `json:"vcodec,omitempty"`
	AudioCodec       Text   `json:"acodec,omitempty"`
	Quality          Text   `json:"quality,omitempty"`
	VideoBitrate     Text   `json:"vbitrate,omitempty"`
	AudioBitrate     Text   `json:"abitrate,omitempty"`
	EncoderPreset    Text   `json:"preset,omitempty"`
	ResizePercentage Number `json:"resize_percentage,omitempty"`
	Width            Int    `json:"width,omitempty"`
	Height           Int    `json:"height,omitempty"`
	Algorithm        Text   `json:"algorithm,omitempty"`
	X                Int    `json:"x,omitempty"`
	Y                Int    `json:"y,omitempty"`
	// Center crops from the middle of the frame instead of X/Y.
	Center   Flag `json:"center,omitempty"`
	Rotation Int  `json:"rotation,omitempty"`
	// Copy makes convert presets stream copy instead of re-encoding.
	Copy             Flag   `json:"copy,omitempty"`
	AudioFormat      Text   `json:"aformat,omitempty"`
	Rate             Number `json:"rate,omitempty"`
	ImageFormat      Text   `json:"iformat,omitempty"`
	// ExtraArgs are appended to convert jobs after shell-style splitting.
	ExtraArgs   Text   `json:"extra_args,omitempty"`
	Description string `json:"description,omitempty"`
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateName rejects names that would be awkward on the command line.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return services.Validation("preset", "invalid preset name %q (use letters, digits, '.', '_' or '-')", name)
	}
	return nil
}

// Kind returns the operation the preset targets.
func (p Preset) Kind() string {
	if op := strings.TrimSpace(p.Operation); op != "" {
		return strings.ReplaceAll(strings.ToLower(op), "_", "-")
	}
	switch {
	case p.Format != "":
		return ops.OpConvert
	case p.ResizePercentage > 0 || p.Width > 0 || p.Height > 0:
		return ops.OpResize
	case p.Rotation != 0:
		return ops.OpRotate
	case p.AudioFormat != "":
		return ops.OpExtractAudio
	case p.Rate > 0 || p.ImageFormat != "":
		return ops.OpExtractFrames
	default:
		return ""
	}
}

// Validate checks that the preset carries what its operation needs.
func (p Preset) Validate() error {
	kind := p.Kind()
	switch kind {
	case "":
		return services.Validation("preset", "preset does not describe an operation")
	case ops.OpResize:
		if p.ResizePercentage < 0 {
			return services.Validation("preset", "resize_percentage must be positive")
		}
		if p.ResizePercentage == 0 && p.Width <= 0 && p.Height <= 0 {
			return services.Validation("preset", "resize preset needs resize_percentage, width, or height")
		}
		if p.Algorithm != "" && !ffmpeg.ValidScaleAlgorithm(string(p.Algorithm)) {
			return services.Validation("preset", "unknown scaling algorithm %q", p.Algorithm)
		}
	case ops.OpConvert:
		if p.Format == "" {
			return services.Validation("preset", "convert preset needs a format")
		}
		if p.Quality != "" {
			if n, err := strconv.Atoi(string(p.Quality)); err != nil || n < 0 || n > 63 {
				return services.Validation("preset", "quality must be an integer between 0 and 63, got %q", p.Quality)
			}
		}
		if p.EncoderPreset != "" && !ffmpeg.ValidEncoderPreset(string(p.EncoderPreset)) {
			return services.Validation("preset", "unknown encoder preset %q", p.EncoderPreset)
		}
		if p.Algorithm != "" && !ffmpeg.ValidScaleAlgorithm(string(p.Algorithm)) {
			return services.Validation("preset", "unknown scaling algorithm %q", p.Algorithm)
		}
		if _, err := p.extraArgs(); err != nil {
			return err
		}
	case ops.OpCrop:
		if p.Width <= 0 || p.Height <= 0 {
			return services.Validation("preset", "crop preset needs positive width and height")
		}
		if p.X < 0 || p.Y < 0 {
			return services.Validation("preset", "crop offsets must not be negative")
		}
		if p.Center && (p.X != 0 || p.Y != 0) {
			return services.Validation("preset", "center cannot be combined with x or y")
		}
	case ops.OpRotate:
		if _, err := ffmpeg.Transpose(int(p.Rotation)); err != nil {
			return services.Validation("preset", "rotation must be one of 90, 180, 270, -90")
		}
	case ops.OpExtractAudio:
	case ops.OpExtractFrames:
		if p.Rate < 0 {
			return services.Validation("preset", "rate must be positive")
		}
	default:
		return services.Validation("preset", "presets are not supported for %q", kind)
	}
	if p.Center && kind != ops.OpCrop {
		return services.Validation("preset", "center is only supported for crop presets")
	}
	if p.Copy && kind != ops.OpConvert {
		return services.Validation("preset", "copy is only supported for convert presets")
	}
	if p.ExtraArgs != "" && kind != ops.OpConvert {
		return services.Validation("preset", "extra_args is only supported for convert presets")
	}
	return nil
}

func (p Preset) extraArgs() ([]string, error) {
	if p.ExtraArgs == "" {
		return nil, nil
	}
	args, err := shlex.Split(string(p.ExtraArgs))
	if err != nil {
		return nil, services.Validation("preset", "parse extra_args: %v", err)
	}
	return args, nil
}

// Build turns the preset into an operation planner for input and output.
func (p Preset) Build(input, output string) (ops.Operation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch p.Kind() {
	case ops.OpResize:
		return ops.ResizeOptions{
			Input:      input,
			Output:     output,
			Percentage: float64(p.ResizePercentage),
			Width:      positive(p.Width),
			Height:     positive(p.Height),
			Algorithm:  string(p.Algorithm),
		}, nil
	case ops.OpConvert:
		extra, _ := p.extraArgs()
		opts := ops.ConvertOptions{
			Input:        input,
			Output:       output,
			Format:       string(p.Format),
			VideoCodec:   string(p.VideoCodec),
			AudioCodec:   string(p.AudioCodec),
			VideoBitrate: string(p.VideoBitrate),
			AudioBitrate: string(p.AudioBitrate),
			Quality:      string(p.Quality),
			Preset:       string(p.EncoderPreset),
			Copy:         bool(p.Copy),
			ExtraArgs:    extra,
		}
		if p.ResizePercentage > 0 || p.Width > 0 || p.Height > 0 {
			scale, err := ops.ResizeOptions{
				Percentage: float64(p.ResizePercentage),
				Width:      positive(p.Width),
				Height:     positive(p.Height),
				Algorithm:  string(p.Algorithm),
			}.Filter("")
			if err != nil {
				return nil, err
			}
			opts.Filters = append(opts.Filters, scale)
		}
		return opts, nil
	case ops.OpCrop:
		return ops.CropOptions{
			Input:  input,
			Output: output,
			Width:  int(p.Width),
			Height: int(p.Height),
			X:      int(p.X),
			Y:      int(p.Y),
			Center: bool(p.Center),
		}, nil
	case ops.OpRotate:
		return ops.RotateOptions{Input: input, Output: output, Rotation: int(p.Rotation)}, nil
	case ops.OpExtractAudio:
		return ops.ExtractAudioOptions{Input: input, Output: output, Format: string(p.AudioFormat)}, nil
	case ops.OpExtractFrames:
		return ops.ExtractFramesOptions{
			Input:   input,
			Pattern: output,
			Rate:    float64(p.Rate),
			Format:  string(p.ImageFormat),
		}, nil
	}
	return nil, services.Validation("preset", "presets are not supported for %q", p.Kind())
}

// Describe builds a human-readable summary, used when a preset is saved
// without a description.
func (p Preset) Describe() string {
	var parts []string
	switch p.Kind() {
	case ops.OpResize:
		if p.ResizePercentage > 0 {
			parts = append(parts, fmt.Sprintf("Resize by %s%%", percent(p.ResizePercentage)))
		} else {
			parts = append(parts, fmt.Sprintf("Resize to %sx%s", dimension(p.Width), dimension(p.Height)))
		}
		parts = append(parts, "Algorithm: "+firstText(p.Algorithm, "lanczos"))
	case ops.OpConvert:
		parts = append(parts, "Convert to "+string(p.Format))
		if p.Copy {
			parts = append(parts, "Stream copy")
		}
		parts = appendField(parts, "Video codec", p.VideoCodec)
		parts = appendField(parts, "Audio codec", p.AudioCodec)
		parts = appendField(parts, "Video bitrate", p.VideoBitrate)
		parts = appendField(parts, "Audio bitrate", p.AudioBitrate)
		parts = appendField(parts, "Quality", p.Quality)
		parts = appendField(parts, "Preset", p.EncoderPreset)
		if p.ResizePercentage > 0 {
			parts = append(parts, fmt.Sprintf("Resize by %s%%", percent(p.ResizePercentage)))
		}
	case ops.OpCrop:
		if p.Center {
			parts = append(parts, fmt.Sprintf("Crop to %dx%d (centered)", p.Width, p.Height))
		} else {
			parts = append(parts, fmt.Sprintf("Crop to %dx%d at %d,%d", p.Width, p.Height, p.X, p.Y))
		}
	case ops.OpRotate:
		parts = append(parts, fmt.Sprintf("Rotate %d degrees", p.Rotation))
	case ops.OpExtractAudio:
		parts = append(parts, fmt.Sprintf("Extract audio (format: %s)", firstText(p.AudioFormat, "copy")))
	case ops.OpExtractFrames:
		rate := float64(p.Rate)
		if rate <= 0 {
			rate = 1
		}
		parts = append(parts, fmt.Sprintf("Extract frames (rate: %s, format: %s)", ffmpeg.FormatNumber(rate), firstText(p.ImageFormat, "image2")))
	}
	return strings.Join(parts, ", ")
}

func appendField(parts []string, label string, value Text) []string {
	if value == "" {
		return parts
	}
	return append(parts, label+": "+string(value))
}

func percent(factor Number) string {
	return ffmpeg.FormatNumber(math.Round(float64(factor)*10000) / 100)
}

func dimension(v Int) string {
	if v <= 0 {
		return "auto"
	}
	return strconv.Itoa(int(v))
}

func positive(v Int) int {
	if v < 0 {
		return 0
	}
	return int(v)
}

func firstText(v Text, fallback string) string {
	if v == "" {
		return fallback
	}
	return string(v)
}

// FromOperation captures the reusable options of a planner as a preset.
// Input and output paths are not stored.
func FromOperation(op ops.Operation) (Preset, error) {
	switch o := op.(type) {
	case ops.ResizeOptions:
		return Preset{
			Operation:        ops.OpResize,
			ResizePercentage: Number(o.Percentage),
			Width:            Int(o.Width),
			Height:           Int(o.Height),
			Algorithm:        Text(o.Algorithm),
		}, nil
	case ops.ConvertOptions:
		p := Preset{
			Operation:     ops.OpConvert,
			Format:        Text(firstText(Text(o.Format), ffmpeg.FormatFromPath(o.Output))),
			VideoCodec:    Text(o.VideoCodec),
			AudioCodec:    Text(o.AudioCodec),
			VideoBitrate:  Text(o.VideoBitrate),
			AudioBitrate:  Text(o.AudioBitrate),
			Quality:       Text(o.Quality),
			EncoderPreset: Text(o.Preset),
			Copy:          Flag(o.Copy),
		}
		if len(o.ExtraArgs) > 0 {
			p.ExtraArgs = Text(ffmpeg.QuoteArgs(o.ExtraArgs))
		}
		return p, nil
	case ops.CropOptions:
		p := Preset{Operation: ops.OpCrop, Width: Int(o.Width), Height: Int(o.Height), Center: Flag(o.Center)}
		if !o.Center {
			p.X, p.Y = Int(o.X), Int(o.Y)
		}
		return p, nil
	case ops.RotateOptions:
		return Preset{Operation: ops.OpRotate, Rotation: Int(o.Rotation)}, nil
	case ops.ExtractAudioOptions:
		return Preset{Operation: ops.OpExtractAudio, AudioFormat: Text(firstText(Text(o.Format), "copy"))}, nil
	case ops.ExtractFramesOptions:
		return Preset{Operation: ops.OpExtractFrames, Rate: Number(o.Rate), ImageFormat: Text(o.Format)}, nil
	case nil:
		return Preset{}, services.Validation("preset", "no operation given")
	default:
		return Preset{}, services.Validation("preset", "presets are not supported for %q", op.Name())
	}
}
