package ops

import (
	"context"
	"strings"

	"vidtools/internal/ffmpeg"
)

// CutOptions trims a segment. Stream copy is the default; any codec or
// quality option switches to a frame-accurate re-encode.
type CutOptions struct {
	Input      string
	Output     string
	Range      ffmpeg.TimeRange
	Accurate   bool
	FastSeek   bool
	FixSync    bool
	VideoCodec string
	AudioCodec string
	CRF        string
}

func (o CutOptions) Name() string { return OpCut }

// Reencode reports whether the cut re-encodes instead of stream copying.
func (o CutOptions) Reencode() bool {
	return o.Accurate || o.FixSync || o.VideoCodec != "" || o.AudioCodec != "" || strings.TrimSpace(o.CRF) != ""
}

func (o CutOptions) Plan(ctx context.Context, env Env) (*Job, error) {
	if err := checkInput(OpCut, o.Input); err != nil {
		return nil, err
	}
	if err := checkOutput(OpCut, o.Output, o.Input); err != nil {
		return nil, err
	}
	if o.Range.Empty() {
		return nil, invalid(OpCut, "at least one of start, end, or duration is required")
	}
	if err := checkCRF(OpCut, "crf", o.CRF); err != nil {
		return nil, err
	}
	rng, err := o.Range.Resolve()
	if err != nil {
		return nil, invalid(OpCut, "%v", err)
	}

	cmd := env.command()
	if o.Reencode() {
		seekIn, seekOut := rng.SeekArgs()
		cmd.Input(o.Input, seekIn...).
			Option(seekOut...).
			Option("-c:v", firstNonEmpty(o.VideoCodec, "libx264"), "-crf", firstNonEmpty(o.CRF, "18"),
				"-c:a", firstNonEmpty(o.AudioCodec, "aac"))
		if o.FixSync {
			cmd.AudioFilter("aresample=async=1")
		}
	} else {
		if o.FastSeek {
			seekIn, seekOut := rng.SeekArgs()
			cmd.Input(o.Input, seekIn...).Option(seekOut...)
		} else {
			cmd.Input(o.Input).Option(rng.OutputArgs()...)
		}
		cmd.Map("0").Option("-c", "copy", "-avoid_negative_ts", "make_zero")
	}
	cmd.Output(o.Output)

	return newJob(OpCut, cmd, rng.Length(env.sourceDuration(ctx, o.Input))), nil
}
