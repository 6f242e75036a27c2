package main

import (
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vidtools/internal/ffmpeg"
	"vidtools/internal/ops"
	"vidtools/internal/services"
)

// buildFunc turns positional arguments into operation options. Missing
// positionals are left empty so `preset save` can reuse the same flags.
type buildFunc func(args []string) (ops.Operation, error)

// operationSpec declares one operation subcommand. bind registers the
// operation's flags and returns the builder reading them.
type operationSpec struct {
	name    string
	use     string
	short   string
	example string
	args    cobra.PositionalArgs
	bind    func(fs *pflag.FlagSet) buildFunc
	// presettable operations can be captured by `preset save`.
	presettable bool
}

func operationSpecs() []operationSpec {
	return []operationSpec{
		{
			name:        ops.OpResize,
			use:         "resize INPUT OUTPUT",
			short:       "Scale a video by factor or to a width/height",
			example:     "  vt resize in.mp4 out.mp4 -p 0.5\n  vt resize in.mp4 out.mp4 -W 1280",
			args:        usageArgs(cobra.ExactArgs(2)),
			bind:        bindResize,
			presettable: true,
		},
		{
			name:        ops.OpConvert,
			use:         "convert INPUT OUTPUT",
			short:       "Convert to another container or codec",
			example:     "  vt convert in.mov out.mp4 --crf 23\n  vt convert in.mp4 out.gif --start 5 --duration 3",
			args:        usageArgs(cobra.ExactArgs(2)),
			bind:        bindConvert,
			presettable: true,
		},
		{
			name:    ops.OpCut,
			use:     "cut INPUT OUTPUT",
			short:   "Trim a segment (stream copy unless re-encoding is requested)",
			example: "  vt cut in.mp4 out.mp4 -s 00:01:00 -e 00:02:30\n  vt cut in.mp4 out.mp4 -s 90 -t 20 --accurate",
			args:    usageArgs(cobra.ExactArgs(2)),
			bind:    bindCut,
		},
		{
			name:        ops.OpCrop,
			use:         "crop INPUT OUTPUT",
			short:       "Crop a rectangle out of the frame",
			example:     "  vt crop in.mp4 out.mp4 -W 640 -H 480 -x 100 --y 50\n  vt crop in.mp4 out.mp4 -W 720 -H 720 --center",
			args:        usageArgs(cobra.ExactArgs(2)),
			bind:        bindCrop,
			presettable: true,
		},
		{
			name:        ops.OpRotate,
			use:         "rotate INPUT OUTPUT",
			short:       "Rotate by 90, 180, or 270 degrees",
			example:     "  vt rotate in.mp4 out.mp4 -r 90",
			args:        usageArgs(cobra.ExactArgs(2)),
			bind:        bindRotate,
			presettable: true,
		},
		{
			name:    ops.OpSubtitles,
			use:     "subtitles INPUT OUTPUT",
			short:   "Burn a subtitle file into the picture",
			example: "  vt subtitles in.mp4 out.mp4 -s subs.srt --force-style 'FontSize=24'",
			args:    usageArgs(cobra.ExactArgs(2)),
			bind:    bindSubtitles,
		},
		{
			name:    ops.OpConcat,
			use:     "concat INPUT... -o OUTPUT",
			short:   "Join clips end to end",
			example: "  vt concat a.mp4 b.mp4 c.mp4 -o all.mp4\n  vt concat a.mp4 b.mov -o all.mp4 --reencode",
			args:    usageArgs(cobra.MinimumNArgs(2)),
			bind:    bindConcat,
		},
		{
			name:    ops.OpMerge,
			use:     "merge CLIP... -o OUTPUT",
			short:   "Join clips with crossfade transitions",
			example: "  vt merge a.mp4 b.mp4 -o merged.mp4 --transition wipeleft --duration 0.5",
			args:    usageArgs(cobra.MinimumNArgs(2)),
			bind:    bindMerge,
		},
		{
			name:    ops.OpSanitize,
			use:     "sanitize INPUT OUTPUT",
			short:   "Crop away borders, add light grain, and strip metadata",
			example: "  vt sanitize in.mp4 clean.mp4\n  vt sanitize in.mp4 clean.mp4 --manual-crop 1280:720:0:0 --no-audio",
			args:    usageArgs(cobra.ExactArgs(2)),
			bind:    bindSanitize,
		},
		{
			name:        ops.OpExtractAudio,
			use:         "extract-audio INPUT OUTPUT",
			short:       "Extract the audio track",
			example:     "  vt extract-audio in.mp4 out.m4a\n  vt extract-audio in.mp4 out.mp3 -f mp3",
			args:        usageArgs(cobra.ExactArgs(2)),
			bind:        bindExtractAudio,
			presettable: true,
		},
		{
			name:        ops.OpExtractFrames,
			use:         "extract-frames INPUT PATTERN",
			short:       "Export frames as images",
			example:     "  vt extract-frames in.mp4 'frames/frame_%04d.jpg' -r 2",
			args:        usageArgs(cobra.ExactArgs(2)),
			bind:        bindExtractFrames,
			presettable: true,
		},
	}
}

func lookupSpec(name string) (operationSpec, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, spec := range operationSpecs() {
		if spec.name == name {
			return spec, true
		}
	}
	return operationSpec{}, false
}

func newOperationCommand(ctx *commandContext, spec operationSpec) *cobra.Command {
	cmd := &cobra.Command{
		Use:     spec.use,
		Short:   spec.short,
		Example: spec.example,
		Args:    spec.args,
	}
	build := spec.bind(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		op, err := build(args)
		if err != nil {
			return err
		}
		return ctx.execute(cmd, op, "")
	}
	return cmd
}

func bindResize(fs *pflag.FlagSet) buildFunc {
	var opts ops.ResizeOptions
	fs.Float64VarP(&opts.Percentage, "percentage", "p", 0, "Scale factor (0.5 halves both dimensions)")
	fs.IntVarP(&opts.Width, "width", "W", 0, "Target width; height follows the aspect ratio when omitted")
	fs.IntVarP(&opts.Height, "height", "H", 0, "Target height; width follows the aspect ratio when omitted")
	fs.StringVarP(&opts.Algorithm, "algorithm", "a", "", "Scaling algorithm ("+strings.Join(ffmpeg.ScaleAlgorithms, ", ")+"); default from config")
	return func(args []string) (ops.Operation, error) {
		o := opts
		o.Input, o.Output = positional(args, 0), positional(args, 1)
		return o, nil
	}
}

func bindConvert(fs *pflag.FlagSet) buildFunc {
	var opts ops.ConvertOptions
	var extra string
	fs.StringVarP(&opts.Format, "format", "f", "", "Target container ("+strings.Join(ffmpeg.SupportedFormats(), ", ")+"); default from the output extension")
	fs.StringVar(&opts.VideoCodec, "vcodec", "", "Video encoder (e.g. libx264, libx265, libvpx-vp9)")
	fs.StringVar(&opts.AudioCodec, "acodec", "", "Audio encoder (e.g. aac, libopus, libmp3lame)")
	fs.StringVar(&opts.VideoBitrate, "vbitrate", "", "Video bitrate (e.g. 2M)")
	fs.StringVar(&opts.AudioBitrate, "abitrate", "", "Audio bitrate (e.g. 128k)")
	fs.StringVar(&opts.Quality, "crf", "", "Constant rate factor (0-63)")
	fs.StringVar(&opts.Quality, "quality", "", "Alias for --crf")
	fs.StringVar(&opts.Preset, "preset", "", "Encoder speed preset ("+strings.Join(ffmpeg.EncoderPresets, ", ")+")")
	fs.BoolVar(&opts.Copy, "copy", false, "Stream copy into the new container without re-encoding")
	fs.StringVar(&extra, "extra-args", "", "Additional ffmpeg output options, shell-quoted")
	addRangeFlags(fs, &opts.Range, false)
	return func(args []string) (ops.Operation, error) {
		o := opts
		o.Input, o.Output = positional(args, 0), positional(args, 1)
		if strings.TrimSpace(extra) != "" {
			parsed, err := shlex.Split(extra)
			if err != nil {
				return nil, services.Validation(ops.OpConvert, "parse --extra-args: %v", err)
			}
			o.ExtraArgs = parsed
		}
		return o, nil
	}
}

func bindCut(fs *pflag.FlagSet) buildFunc {
	var opts ops.CutOptions
	var copyMode bool
	addRangeFlags(fs, &opts.Range, true)
	fs.BoolVar(&copyMode, "copy", true, "Stream copy without re-encoding (default)")
	fs.BoolVar(&opts.Accurate, "accurate", false, "Re-encode for frame-accurate cut points")
	fs.BoolVar(&opts.Accurate, "precise", false, "Alias for --accurate")
	_ = fs.MarkHidden("precise")
	fs.BoolVar(&opts.FastSeek, "fast-seek", false, "Seek on the input side (faster, may start on a keyframe before --start)")
	fs.BoolVar(&opts.FixSync, "fix-sync", false, "Re-encode and resample audio to repair A/V drift")
	fs.StringVar(&opts.VideoCodec, "video-codec", "", "Video encoder when re-encoding (default libx264)")
	fs.StringVar(&opts.AudioCodec, "audio-codec", "", "Audio encoder when re-encoding (default aac)")
	fs.StringVar(&opts.CRF, "crf", "", "Constant rate factor when re-encoding (default 18)")
	return func(args []string) (ops.Operation, error) {
		o := opts
		o.Input, o.Output = positional(args, 0), positional(args, 1)
		if fs.Changed("copy") && copyMode && o.Reencode() {
			return nil, services.Validation(ops.OpCut, "--copy cannot be combined with re-encoding options")
		}
		return o, nil
	}
}

func bindCrop(fs *pflag.FlagSet) buildFunc {
	var opts ops.CropOptions
	fs.IntVarP(&opts.Width, "width", "W", 0, "Crop width (required)")
	fs.IntVarP(&opts.Height, "height", "H", 0, "Crop height (required)")
	fs.IntVarP(&opts.X, "x", "x", 0, "Left edge of the crop")
	fs.IntVar(&opts.Y, "y", 0, "Top edge of the crop")
	fs.BoolVar(&opts.Center, "center", false, "Crop from the center of the frame, ignoring -x/--y")
	return func(args []string) (ops.Operation, error) {
		o := opts
		o.Input, o.Output = positional(args, 0), positional(args, 1)
		return o, nil
	}
}

func bindRotate(fs *pflag.FlagSet) buildFunc {
	var opts ops.RotateOptions
	fs.IntVarP(&opts.Rotation, "rotation", "r", 0, "Clockwise rotation in degrees (90, 180, 270, -90)")
	return func(args []string) (ops.Operation, error) {
		o := opts
		o.Input, o.Output = positional(args, 0), positional(args, 1)
		return o, nil
	}
}

func bindSubtitles(fs *pflag.FlagSet) buildFunc {
	var opts ops.SubtitlesOptions
	fs.StringVarP(&opts.Subtitles, "subs", "s", "", "Subtitle file to burn in (required)")
	fs.StringVar(&opts.ForceStyle, "force-style", "", "ASS style overrides, e.g. 'FontSize=24,PrimaryColour=&H00FFFF&'")
	return func(args []string) (ops.Operation, error) {
		o := opts
		o.Input, o.Output = positional(args, 0), positional(args, 1)
		if strings.TrimSpace(o.Subtitles) == "" {
			return nil, services.Validation(ops.OpSubtitles, "--subs is required")
		}
		return o, nil
	}
}

func bindConcat(fs *pflag.FlagSet) buildFunc {
	var opts ops.ConcatOptions
	var copyMode bool
	fs.StringVarP(&opts.Output, "output", "o", "", "Output file (required)")
	fs.BoolVar(&copyMode, "copy", true, "Join by stream copy (default; inputs must share codecs)")
	fs.BoolVar(&opts.Reencode, "reencode", false, "Re-encode through the concat filter")
	return func(args []string) (ops.Operation, error) {
		o := opts
		o.Inputs = append([]string(nil), args...)
		if fs.Changed("copy") && copyMode && o.Reencode {
			return nil, services.Validation(ops.OpConcat, "--copy and --reencode are mutually exclusive")
		}
		return o, nil
	}
}

func bindMerge(fs *pflag.FlagSet) buildFunc {
	var opts ops.MergeOptions
	fs.StringVarP(&opts.Output, "output", "o", "", "Output file (required)")
	fs.StringVar(&opts.Transition, "transition", "", "Transition ("+strings.Join(ffmpeg.Transitions, ", ")+"); default from config")
	fs.Float64Var(&opts.Duration, "duration", 1.0, "Transition length in seconds")
	fs.StringVar(&opts.CRF, "crf", "", "Constant rate factor; default from config")
	fs.StringVar(&opts.Preset, "preset", "", "Encoder speed preset; default from config")
	return func(args []string) (ops.Operation, error) {
		o := opts
		o.Clips = append([]string(nil), args...)
		return o, nil
	}
}

func bindSanitize(fs *pflag.FlagSet) buildFunc {
	var opts ops.SanitizeOptions
	fs.IntVar(&opts.Limit, "limit", 24, "cropdetect black threshold (0-255)")
	fs.IntVar(&opts.Noise, "noise", 6, "Temporal noise strength (0-100, 0 disables)")
	fs.IntVar(&opts.ExtraBottom, "extra-bottom", 0, "Pixels to remove below the detected crop (not with --manual-crop)")
	fs.StringVar(&opts.ManualCrop, "manual-crop", "", "Crop expression W:H:X:Y used instead of detection")
	fs.StringVar(&opts.CRF, "crf", "", "Constant rate factor; default from config")
	fs.BoolVar(&opts.AAC, "aac", false, "Re-encode audio to AAC 128k instead of copying it")
	fs.BoolVar(&opts.NoAudio, "no-audio", false, "Drop audio")
	return func(args []string) (ops.Operation, error) {
		o := opts
		o.Input, o.Output = positional(args, 0), positional(args, 1)
		return o, nil
	}
}

func bindExtractAudio(fs *pflag.FlagSet) buildFunc {
	var opts ops.ExtractAudioOptions
	fs.StringVarP(&opts.Format, "format", "f", "copy", "Audio format or encoder (copy, mp3, aac, flac, opus, wav, ...)")
	addRangeFlags(fs, &opts.Range, false)
	return func(args []string) (ops.Operation, error) {
		o := opts
		o.Input, o.Output = positional(args, 0), positional(args, 1)
		return o, nil
	}
}

func bindExtractFrames(fs *pflag.FlagSet) buildFunc {
	var opts ops.ExtractFramesOptions
	fs.Float64VarP(&opts.Rate, "rate", "r", 1, "Frames per second to export")
	fs.StringVar(&opts.Format, "format", "image2", "Output muxer")
	addRangeFlags(fs, &opts.Range, false)
	return func(args []string) (ops.Operation, error) {
		o := opts
		o.Input, o.Pattern = positional(args, 0), positional(args, 1)
		return o, nil
	}
}

// addRangeFlags registers --start/--end/--duration on fs. With shorthands
// set it also adds -s/-e/-t and the hidden --from/--to/--length aliases.
func addRangeFlags(fs *pflag.FlagSet, rng *ffmpeg.TimeRange, shorthands bool) {
	if !shorthands {
		fs.StringVar(&rng.Start, "start", "", "Start time (seconds, MM:SS, or HH:MM:SS.mmm)")
		fs.StringVar(&rng.End, "end", "", "End time")
		fs.StringVar(&rng.Duration, "duration", "", "Length of the segment")
		return
	}
	fs.StringVarP(&rng.Start, "start", "s", "", "Start time (seconds, MM:SS, or HH:MM:SS.mmm)")
	fs.StringVarP(&rng.End, "end", "e", "", "End time (exclusive with --duration)")
	fs.StringVarP(&rng.Duration, "duration", "t", "", "Length of the segment")
	for alias, target := range map[string]*string{"from": &rng.Start, "to": &rng.End, "length": &rng.Duration} {
		fs.StringVar(target, alias, "", "")
		_ = fs.MarkHidden(alias)
	}
}

func positional(args []string, i int) string {
	if i < len(args) {
		return strings.TrimSpace(args[i])
	}
	return ""
}
