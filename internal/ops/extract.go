package ops

import (
	"context"
	"strings"

	"vidtools/internal/ffmpeg"
)

// ExtractAudioOptions writes the audio track(s) without video.
type ExtractAudioOptions struct {
	Input  string
	Output string
	// Format is "copy" or an audio format/encoder name.
	Format string
	Range  ffmpeg.TimeRange
}

func (o ExtractAudioOptions) Name() string { return OpExtractAudio }

func (o ExtractAudioOptions) Plan(ctx context.Context, env Env) (*Job, error) {
	if err := checkInput(OpExtractAudio, o.Input); err != nil {
		return nil, err
	}
	if err := checkOutput(OpExtractAudio, o.Output, o.Input); err != nil {
		return nil, err
	}
	rng, err := o.Range.Resolve()
	if err != nil {
		return nil, invalid(OpExtractAudio, "%v", err)
	}
	cmd := env.command().
		Input(o.Input).
		Option(rng.OutputArgs()...).
		Option("-vn", "-c:a", ffmpeg.AudioEncoder(firstNonEmpty(o.Format, "copy"))).
		Output(o.Output)
	return newJob(OpExtractAudio, cmd, rng.Length(env.sourceDuration(ctx, o.Input))), nil
}

// ExtractFramesOptions writes still images at a fixed rate.
type ExtractFramesOptions struct {
	Input string
	// Pattern is the output path pattern, e.g. frames/frame_%04d.jpg.
	Pattern string
	Rate    float64
	// Format is the output muxer; image2 by default.
	Format string
	Range  ffmpeg.TimeRange
}

func (o ExtractFramesOptions) Name() string { return OpExtractFrames }

func (o ExtractFramesOptions) Plan(ctx context.Context, env Env) (*Job, error) {
	if err := checkInput(OpExtractFrames, o.Input); err != nil {
		return nil, err
	}
	if err := checkOutput(OpExtractFrames, o.Pattern, o.Input); err != nil {
		return nil, err
	}
	rate := o.Rate
	if rate == 0 {
		rate = 1
	}
	if !finite(rate) || rate < 0 {
		return nil, invalid(OpExtractFrames, "frame rate must be positive")
	}
	format := firstNonEmpty(o.Format, "image2")
	if format == "image2" && !strings.Contains(o.Pattern, "%") {
		return nil, invalid(OpExtractFrames, "output %q must contain a frame number pattern such as %%04d", o.Pattern)
	}
	rng, err := o.Range.Resolve()
	if err != nil {
		return nil, invalid(OpExtractFrames, "%v", err)
	}
	cmd := env.command().
		Input(o.Input).
		Option(rng.OutputArgs()...).
		VideoFilter(ffmpeg.FPS(rate)).
		Option("-f", format).
		Output(o.Pattern)
	return newJob(OpExtractFrames, cmd, rng.Length(env.sourceDuration(ctx, o.Input))), nil
}
