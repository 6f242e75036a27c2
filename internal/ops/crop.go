package ops

import (
	"context"

	"vidtools/internal/ffmpeg"
)

// CropOptions cuts a rectangle out of the frame.
type CropOptions struct {
	Input  string
	Output string
	Width  int
	Height int
	X      int
	Y      int
	// Center ignores X/Y and takes the rectangle from the middle of the frame.
	Center bool
}

func (o CropOptions) Name() string { return OpCrop }

func (o CropOptions) Plan(ctx context.Context, env Env) (*Job, error) {
	if err := checkInput(OpCrop, o.Input); err != nil {
		return nil, err
	}
	if err := checkOutput(OpCrop, o.Output, o.Input); err != nil {
		return nil, err
	}
	if o.Width <= 0 || o.Height <= 0 {
		return nil, invalid(OpCrop, "width and height must be positive")
	}
	if o.X < 0 || o.Y < 0 {
		return nil, invalid(OpCrop, "x and y must not be negative")
	}

	var duration float64
	rect := ffmpeg.CropRect{Width: o.Width, Height: o.Height, X: o.X, Y: o.Y}
	if result, ok := env.probe(ctx, o.Input); ok {
		duration = result.DurationSeconds()
		if w, h, ok := result.Dimensions(); ok {
			check := rect
			if o.Center {
				check.X, check.Y = (w-o.Width)/2, (h-o.Height)/2
			}
			if !check.Fits(w, h) {
				return nil, invalid(OpCrop, "crop %s exceeds source frame %dx%d", check, w, h)
			}
		}
	}

	filter := rect.Filter()
	if o.Center {
		filter = ffmpeg.CenteredCrop(o.Width, o.Height)
	}
	cmd := env.command().
		Input(o.Input).
		VideoFilter(filter).
		Option("-c:a", "copy").
		Output(o.Output)
	return newJob(OpCrop, cmd, nonNegative(duration)), nil
}
