package ops

import (
	"context"
	"strings"

	"vidtools/internal/ffmpeg"
)

// ConvertOptions re-encodes (or remuxes) into another container.
type ConvertOptions struct {
	Input  string
	Output string
	// Format is the target container; empty derives it from Output.
	Format       string
	VideoCodec   string
	AudioCodec   string
	VideoBitrate string
	AudioBitrate string
	// Quality is a CRF value (or qscale for avi).
	Quality string
	// Preset is an x264/x265 speed preset.
	Preset string
	Copy   bool
	Range  ffmpeg.TimeRange
	// Filters are extra video filters applied before encoding (e.g. a
	// preset's scale).
	Filters   []string
	ExtraArgs []string
}

func (o ConvertOptions) Name() string { return OpConvert }

func (o ConvertOptions) validate() (ffmpeg.Format, ffmpeg.Resolved, error) {
	var none ffmpeg.Resolved
	if err := checkInput(OpConvert, o.Input); err != nil {
		return ffmpeg.Format{}, none, err
	}
	if err := checkOutput(OpConvert, o.Output, o.Input); err != nil {
		return ffmpeg.Format{}, none, err
	}
	name := firstNonEmpty(o.Format, ffmpeg.FormatFromPath(o.Output))
	if name == "" {
		return ffmpeg.Format{}, none, invalid(OpConvert, "format is required when the output has no extension")
	}
	format, ok := ffmpeg.LookupFormat(name)
	if !ok {
		return ffmpeg.Format{}, none, invalid(OpConvert, "unsupported format %q (supported: %s)", name, strings.Join(ffmpeg.SupportedFormats(), ", "))
	}
	if err := checkCRF(OpConvert, "quality", o.Quality); err != nil {
		return format, none, err
	}
	if o.Preset != "" && !ffmpeg.ValidEncoderPreset(o.Preset) {
		return format, none, invalid(OpConvert, "unknown encoder preset %q", o.Preset)
	}
	if o.Copy {
		if format.Kind == ffmpeg.KindImage {
			return format, none, invalid(OpConvert, "stream copy is not possible for %s output", format.Name)
		}
		if o.VideoCodec != "" || o.AudioCodec != "" || o.Quality != "" || len(o.Filters) > 0 {
			return format, none, invalid(OpConvert, "--copy cannot be combined with codec, quality, or filter options")
		}
	}
	rng, err := o.Range.Resolve()
	if err != nil {
		return format, none, invalid(OpConvert, "%v", err)
	}
	return format, rng, nil
}

func (o ConvertOptions) Plan(ctx context.Context, env Env) (*Job, error) {
	format, rng, err := o.validate()
	if err != nil {
		return nil, err
	}

	cmd := env.command().Input(o.Input)
	cmd.Option(rng.OutputArgs()...)

	switch {
	case o.Copy:
		cmd.Option("-c", "copy")
	case format.Kind == ffmpeg.KindImage:
		cmd.FilterComplex(ffmpeg.PaletteGraph(strings.Join(o.Filters, ","))).
			Map("[gif]").
			Option("-an", "-loop", "0")
	case format.Kind == ffmpeg.KindAudio:
		cmd.Option("-vn", "-c:a", firstNonEmpty(o.AudioCodec, format.AudioCodec))
		if bitrate := firstNonEmpty(o.AudioBitrate, format.AudioBitrate); bitrate != "" {
			cmd.Option("-b:a", bitrate)
		}
		if format.Name == "mp3" {
			cmd.Option("-ar", "44100")
		}
	case format.Name == "webm":
		vcodec := firstNonEmpty(o.VideoCodec, format.VideoCodec)
		cmd.VideoFilter(o.Filters...).Option("-c:v", vcodec)
		if ffmpeg.SupportsCRF(vcodec) {
			cmd.Option("-crf", firstNonEmpty(o.Quality, "30"))
		}
		cmd.Option("-b:v", firstNonEmpty(o.VideoBitrate, "0"),
			"-c:a", firstNonEmpty(o.AudioCodec, format.AudioCodec),
			"-b:a", firstNonEmpty(o.AudioBitrate, format.AudioBitrate))
	case format.Name == "avi":
		cmd.VideoFilter(o.Filters...).
			Option("-c:v", firstNonEmpty(o.VideoCodec, format.VideoCodec), "-qscale:v", firstNonEmpty(o.Quality, "5"),
				"-c:a", firstNonEmpty(o.AudioCodec, format.AudioCodec))
		if o.VideoBitrate != "" {
			cmd.Option("-b:v", o.VideoBitrate)
		}
		if o.AudioBitrate != "" {
			cmd.Option("-b:a", o.AudioBitrate)
		}
	default:
		cmd.VideoFilter(o.Filters...)
		if o.VideoCodec != "" {
			cmd.Option("-c:v", o.VideoCodec)
		}
		if o.VideoBitrate != "" {
			cmd.Option("-b:v", o.VideoBitrate)
		}
		if o.Quality != "" && ffmpeg.SupportsCRF(o.VideoCodec) {
			cmd.Option("-crf", o.Quality)
		}
		if o.Preset != "" && ffmpeg.SupportsX26xPreset(o.VideoCodec) {
			cmd.Option("-preset", o.Preset)
		}
		if o.AudioCodec != "" {
			cmd.Option("-c:a", o.AudioCodec)
		}
		if o.AudioBitrate != "" {
			cmd.Option("-b:a", o.AudioBitrate)
		}
	}

	if format.Faststart {
		cmd.Option("-movflags", "+faststart")
	}
	cmd.Option(o.ExtraArgs...)
	if ffmpeg.FormatFromPath(o.Output) != format.Name {
		cmd.Option("-f", format.Muxer)
	}
	cmd.Output(o.Output)

	return newJob(OpConvert, cmd, rng.Length(env.sourceDuration(ctx, o.Input))), nil
}
