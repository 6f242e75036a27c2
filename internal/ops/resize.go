package ops

import (
	"context"

	"vidtools/internal/ffmpeg"
)

// ResizeOptions scales a video by a factor or to explicit dimensions.
type ResizeOptions struct {
	Input      string
	Output     string
	Percentage float64
	Width      int
	Height     int
	// Algorithm is the swscale flag; empty uses the configured default.
	Algorithm string
}

func (o ResizeOptions) Name() string { return OpResize }

// Filter validates the size arguments and returns the scale filter.
func (o ResizeOptions) Filter(defaultAlgorithm string) (string, error) {
	algorithm := firstNonEmpty(o.Algorithm, defaultAlgorithm, "lanczos")
	if !ffmpeg.ValidScaleAlgorithm(algorithm) {
		return "", invalid(OpResize, "unknown scaling algorithm %q", algorithm)
	}
	if !finite(o.Percentage) || o.Percentage < 0 || o.Width < 0 || o.Height < 0 {
		return "", invalid(OpResize, "percentage, width, and height must be positive")
	}
	switch {
	case o.Percentage > 0 && (o.Width > 0 || o.Height > 0):
		return "", invalid(OpResize, "percentage cannot be combined with width or height")
	case o.Percentage > 0:
		return ffmpeg.ScalePercent(o.Percentage, algorithm), nil
	case o.Width > 0 || o.Height > 0:
		return ffmpeg.ScaleTo(o.Width, o.Height, algorithm), nil
	default:
		return "", invalid(OpResize, "one of percentage, width, or height is required")
	}
}

func (o ResizeOptions) Plan(ctx context.Context, env Env) (*Job, error) {
	if err := checkInput(OpResize, o.Input); err != nil {
		return nil, err
	}
	if err := checkOutput(OpResize, o.Output, o.Input); err != nil {
		return nil, err
	}
	filter, err := o.Filter(env.Encoding.ScaleAlgorithm)
	if err != nil {
		return nil, err
	}
	cmd := env.command().
		Input(o.Input).
		VideoFilter(filter).
		Option("-c:a", "copy").
		Output(o.Output)
	return newJob(OpResize, cmd, env.sourceDuration(ctx, o.Input)), nil
}
