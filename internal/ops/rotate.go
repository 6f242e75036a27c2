package ops

import (
	"context"

	"vidtools/internal/ffmpeg"
)

// RotateOptions rotates the picture clockwise by a multiple of 90 degrees.
type RotateOptions struct {
	Input    string
	Output   string
	Rotation int
}

func (o RotateOptions) Name() string { return OpRotate }

func (o RotateOptions) Plan(ctx context.Context, env Env) (*Job, error) {
	if err := checkInput(OpRotate, o.Input); err != nil {
		return nil, err
	}
	if err := checkOutput(OpRotate, o.Output, o.Input); err != nil {
		return nil, err
	}
	filter, err := ffmpeg.Transpose(o.Rotation)
	if err != nil {
		return nil, invalid(OpRotate, "%v", err)
	}
	cmd := env.command().
		Input(o.Input).
		VideoFilter(filter).
		Option("-metadata:s:v:0", "rotate=0", "-c:a", "copy").
		Output(o.Output)
	return newJob(OpRotate, cmd, env.sourceDuration(ctx, o.Input)), nil
}
