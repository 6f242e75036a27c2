package ops

import (
	"context"

	"vidtools/internal/ffmpeg"
)

// SubtitlesOptions burns a subtitle file into the picture.
type SubtitlesOptions struct {
	Input      string
	Output     string
	Subtitles  string
	ForceStyle string
}

func (o SubtitlesOptions) Name() string { return OpSubtitles }

func (o SubtitlesOptions) Plan(ctx context.Context, env Env) (*Job, error) {
	if err := checkInput(OpSubtitles, o.Input); err != nil {
		return nil, err
	}
	if err := checkInput(OpSubtitles, o.Subtitles); err != nil {
		return nil, err
	}
	if err := checkOutput(OpSubtitles, o.Output, o.Input, o.Subtitles); err != nil {
		return nil, err
	}
	cmd := env.command().
		Input(o.Input).
		VideoFilter(ffmpeg.Subtitles(o.Subtitles, o.ForceStyle)).
		Option("-c:a", "copy").
		Output(o.Output)
	return newJob(OpSubtitles, cmd, env.sourceDuration(ctx, o.Input)), nil
}
