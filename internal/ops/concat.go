package ops

import (
	"context"
	"fmt"
	"os"

	"vidtools/internal/ffmpeg"
	"vidtools/internal/logging"
	"vidtools/internal/services"
)

// ConcatOptions joins clips end to end. Copy mode uses the concat demuxer and
// requires matching codecs; Reencode normalizes every clip to the first one.
type ConcatOptions struct {
	Inputs   []string
	Output   string
	Reencode bool
}

func (o ConcatOptions) Name() string { return OpConcat }

func (o ConcatOptions) Plan(ctx context.Context, env Env) (*Job, error) {
	if len(o.Inputs) < 2 {
		return nil, invalid(OpConcat, "at least two inputs are required")
	}
	for _, in := range o.Inputs {
		if err := checkInput(OpConcat, in); err != nil {
			return nil, err
		}
	}
	if err := checkOutput(OpConcat, o.Output, o.Inputs...); err != nil {
		return nil, err
	}
	if o.Reencode {
		return o.planReencode(ctx, env)
	}
	return o.planCopy(ctx, env)
}

func (o ConcatOptions) planCopy(ctx context.Context, env Env) (*Job, error) {
	list, err := os.CreateTemp("", "vidtools-concat-*.txt")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, OpConcat, "list file", "create", err)
	}
	remove := func() { _ = os.Remove(list.Name()) }
	if err := ffmpeg.WriteConcatList(list, o.Inputs); err != nil {
		list.Close()
		remove()
		return nil, services.Wrap(services.ErrExternalTool, OpConcat, "list file", "write", err)
	}
	if err := list.Close(); err != nil {
		remove()
		return nil, services.Wrap(services.ErrExternalTool, OpConcat, "list file", "close", err)
	}
	env.logger().Debug("concat list written", logging.String("path", list.Name()), logging.Int("entries", len(o.Inputs)))

	cmd := env.command().
		Input(list.Name(), "-f", "concat", "-safe", "0").
		Option("-c", "copy").
		Output(o.Output)

	var total float64
	for _, in := range o.Inputs {
		total += env.sourceDuration(ctx, in)
	}
	job := newJob(OpConcat, cmd, total)
	job.Inputs = append([]string(nil), o.Inputs...)
	job.TempFiles = []string{list.Name()}
	job.OnCleanup(remove)
	return job, nil
}

func (o ConcatOptions) planReencode(ctx context.Context, env Env) (*Job, error) {
	first, ok := env.probe(ctx, o.Inputs[0])
	if !ok {
		return nil, services.Wrap(services.ErrExternalTool, OpConcat, "probe", fmt.Sprintf("cannot inspect %q", o.Inputs[0]), nil)
	}
	width, height, ok := first.Dimensions()
	if !ok {
		return nil, invalid(OpConcat, "%q has no video stream", o.Inputs[0])
	}

	withAudio := true
	var total float64
	for i, in := range o.Inputs {
		result := first
		if i > 0 {
			if result, ok = env.probe(ctx, in); !ok {
				return nil, services.Wrap(services.ErrExternalTool, OpConcat, "probe", fmt.Sprintf("cannot inspect %q", in), nil)
			}
		}
		if !result.HasAudio() {
			withAudio = false
		}
		total += nonNegative(result.DurationSeconds())
	}
	if !withAudio {
		env.logger().Info("dropping audio; not every input has an audio stream")
	}

	cmd := env.command()
	graph := ""
	for i, in := range o.Inputs {
		cmd.Input(in)
		graph += fmt.Sprintf("[%d:v:0]%s[v%d];", i, ffmpeg.FitPad(width, height), i)
		if withAudio {
			graph += fmt.Sprintf("[%d:a:0]aresample=48000,aformat=channel_layouts=stereo[a%d];", i, i)
		}
	}
	graph += ffmpeg.ConcatGraph(len(o.Inputs), withAudio)
	cmd.FilterComplex(graph).Map("[outv]")
	if withAudio {
		cmd.Map("[outa]").Option("-c:a", "aac", "-b:a", "192k")
	}
	cmd.Option("-c:v", "libx264", "-crf", fmt.Sprint(env.Encoding.CRF), "-preset", env.Encoding.Preset, "-pix_fmt", "yuv420p").
		Output(o.Output)
	return newJob(OpConcat, cmd, total), nil
}
