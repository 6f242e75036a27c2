package ops

import (
	"context"
	"fmt"
	"strings"

	"vidtools/internal/ffmpeg"
	"vidtools/internal/services"
)

// MergeOptions joins clips with xfade transitions and audio crossfades.
type MergeOptions struct {
	Clips      []string
	Output     string
	Transition string
	// Duration is the transition length in seconds.
	Duration float64
	CRF      string
	Preset   string
}

func (o MergeOptions) Name() string { return OpMerge }

// Offsets returns the xfade offsets for clips of the given lengths joined by
// transitions of length t: offset_k = sum(d_0..d_k) - (k+1)*t for the k-th
// transition (0-based).
func Offsets(durations []float64, t float64) []float64 {
	if len(durations) < 2 {
		return nil
	}
	offsets := make([]float64, 0, len(durations)-1)
	var sum float64
	for k := 0; k < len(durations)-1; k++ {
		sum += durations[k]
		offsets = append(offsets, sum-float64(k+1)*t)
	}
	return offsets
}

func (o MergeOptions) Plan(ctx context.Context, env Env) (*Job, error) {
	if len(o.Clips) < 2 {
		return nil, invalid(OpMerge, "at least two clips are required")
	}
	for _, clip := range o.Clips {
		if err := checkInput(OpMerge, clip); err != nil {
			return nil, err
		}
	}
	if err := checkOutput(OpMerge, o.Output, o.Clips...); err != nil {
		return nil, err
	}
	transition := firstNonEmpty(o.Transition, env.Encoding.MergeTransition, "fade")
	if !ffmpeg.ValidTransition(transition) {
		return nil, invalid(OpMerge, "unknown transition %q (supported: %s)", transition, strings.Join(ffmpeg.Transitions, ", "))
	}
	if !finite(o.Duration) || o.Duration <= 0 {
		return nil, invalid(OpMerge, "transition duration must be positive")
	}
	crf := firstNonEmpty(o.CRF, fmt.Sprint(env.Encoding.CRF))
	if err := checkCRF(OpMerge, "crf", crf); err != nil {
		return nil, err
	}
	preset := firstNonEmpty(o.Preset, env.Encoding.Preset)
	if !ffmpeg.ValidEncoderPreset(preset) {
		return nil, invalid(OpMerge, "unknown encoder preset %q", preset)
	}

	durations := make([]float64, len(o.Clips))
	withAudio := true
	var width, height int
	var fps string
	for i, clip := range o.Clips {
		result, ok := env.probe(ctx, clip)
		if !ok {
			return nil, services.Wrap(services.ErrExternalTool, OpMerge, "probe", fmt.Sprintf("cannot inspect %q", clip), nil)
		}
		durations[i] = nonNegative(result.DurationSeconds())
		if durations[i] <= o.Duration {
			return nil, invalid(OpMerge, "clip %q (%.2fs) is not longer than the %.2fs transition", clip, durations[i], o.Duration)
		}
		if !result.HasAudio() {
			withAudio = false
		}
		if i == 0 {
			w, h, ok := result.Dimensions()
			if !ok {
				return nil, invalid(OpMerge, "%q has no video stream", clip)
			}
			width, height = w, h
			if video, ok := result.PrimaryVideo(); ok {
				fps = video.FrameRateExpr()
			}
		}
	}
	if fps == "" {
		fps = "30"
	}

	cmd := env.command()
	var graph strings.Builder
	for i, clip := range o.Clips {
		cmd.Input(clip)
		fmt.Fprintf(&graph, "[%d:v:0]%s,fps=%s,format=yuv420p,settb=AVTB[v%d];", i, ffmpeg.FitPad(width, height), fps, i)
		if withAudio {
			fmt.Fprintf(&graph, "[%d:a:0]aresample=48000,aformat=channel_layouts=stereo[a%d];", i, i)
		}
	}

	offsets := Offsets(durations, o.Duration)
	prevV, prevA := "[v0]", "[a0]"
	for k, offset := range offsets {
		outV, outA := fmt.Sprintf("[vx%d]", k+1), fmt.Sprintf("[ax%d]", k+1)
		if k == len(offsets)-1 {
			outV, outA = "[outv]", "[outa]"
		}
		fmt.Fprintf(&graph, "%s[v%d]%s%s;", prevV, k+1, ffmpeg.XFade(transition, o.Duration, offset), outV)
		if withAudio {
			fmt.Fprintf(&graph, "%s[a%d]%s%s;", prevA, k+1, ffmpeg.ACrossFade(o.Duration), outA)
		}
		prevV, prevA = outV, outA
	}

	cmd.FilterComplex(strings.TrimSuffix(graph.String(), ";")).Map("[outv]")
	if withAudio {
		cmd.Map("[outa]").Option("-c:a", "aac", "-b:a", "192k")
	} else {
		cmd.Option("-an")
	}
	cmd.Option("-c:v", "libx264", "-crf", crf, "-preset", preset, "-pix_fmt", "yuv420p").
		Output(o.Output)

	var total float64
	for _, d := range durations {
		total += d
	}
	total -= float64(len(durations)-1) * o.Duration
	return newJob(OpMerge, cmd, total), nil
}
