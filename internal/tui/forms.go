package tui

import (
	"fmt"
	"strconv"
	"strings"

	"vidtools/internal/ffmpeg"
	"vidtools/internal/ops"
)

// actionApplyPreset is the menu entry that applies a saved preset.
const actionApplyPreset = "apply-preset"

type field struct {
	key         string
	label       string
	placeholder string
	required    bool
}

type values map[string]string

func (v values) text(key string) string {
	return strings.TrimSpace(v[key])
}

func (v values) float(key string) (float64, error) {
	raw := v.text(key)
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, raw)
	}
	return f, nil
}

func (v values) int(key string) (int, error) {
	raw := v.text(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a whole number", key, raw)
	}
	return n, nil
}

func (v values) timeRange() ffmpeg.TimeRange {
	return ffmpeg.TimeRange{Start: v.text("start"), End: v.text("end"), Duration: v.text("duration")}
}

// request is what a submitted form asks the model to do.
type request struct {
	op ops.Operation
	// preset names a preset to apply to input and output.
	preset        string
	input, output string
	// info is set for the info action, which inspects instead of running.
	info string
}

// form describes the inputs of one menu action.
type form struct {
	action string
	desc   string
	fields []field
	build  func(v values) (request, error)
}

var (
	inputField  = field{key: "input", label: "Input file", placeholder: "clip.mp4", required: true}
	outputField = field{key: "output", label: "Output file", placeholder: "out.mp4", required: true}
	rangeFields = []field{
		{key: "start", label: "Start", placeholder: "00:00:10 (optional)"},
		{key: "end", label: "End", placeholder: "00:00:20 (optional)"},
		{key: "duration", label: "Duration", placeholder: "10 (optional, instead of end)"},
	}
)

func withRange(fields ...field) []field {
	return append(fields, rangeFields...)
}

func forms() []form {
	return []form{
		{
			action: ops.OpResize,
			desc:   "Scale by factor or to a width/height",
			fields: []field{
				inputField, outputField,
				{key: "percentage", label: "Scale factor", placeholder: "0.5 (or leave empty and set width/height)"},
				{key: "width", label: "Width", placeholder: "1280"},
				{key: "height", label: "Height", placeholder: "720"},
				{key: "algorithm", label: "Algorithm", placeholder: "lanczos"},
			},
			build: func(v values) (request, error) {
				pct, err := v.float("percentage")
				if err != nil {
					return request{}, err
				}
				w, err := v.int("width")
				if err != nil {
					return request{}, err
				}
				h, err := v.int("height")
				if err != nil {
					return request{}, err
				}
				return request{op: ops.ResizeOptions{
					Input: v.text("input"), Output: v.text("output"),
					Percentage: pct, Width: w, Height: h, Algorithm: v.text("algorithm"),
				}}, nil
			},
		},
		{
			action: ops.OpConvert,
			desc:   "Change container or codecs",
			fields: withRange(
				inputField, outputField,
				field{key: "format", label: "Format", placeholder: "from output extension"},
				field{key: "vcodec", label: "Video codec", placeholder: "libx264"},
				field{key: "acodec", label: "Audio codec", placeholder: "aac"},
				field{key: "crf", label: "CRF", placeholder: "23"},
			),
			build: func(v values) (request, error) {
				return request{op: ops.ConvertOptions{
					Input: v.text("input"), Output: v.text("output"),
					Format: v.text("format"), VideoCodec: v.text("vcodec"), AudioCodec: v.text("acodec"),
					Quality: v.text("crf"), Range: v.timeRange(),
				}}, nil
			},
		},
		{
			action: ops.OpCut,
			desc:   "Trim a segment by stream copy",
			fields: withRange(inputField, outputField),
			build: func(v values) (request, error) {
				return request{op: ops.CutOptions{Input: v.text("input"), Output: v.text("output"), Range: v.timeRange()}}, nil
			},
		},
		{
			action: ops.OpCrop,
			desc:   "Crop a rectangle",
			fields: []field{
				inputField, outputField,
				{key: "width", label: "Width", placeholder: "640", required: true},
				{key: "height", label: "Height", placeholder: "480", required: true},
				{key: "x", label: "X", placeholder: "0"},
				{key: "y", label: "Y", placeholder: "0"},
			},
			build: func(v values) (request, error) {
				opts := ops.CropOptions{Input: v.text("input"), Output: v.text("output")}
				var err error
				for key, dst := range map[string]*int{"width": &opts.Width, "height": &opts.Height, "x": &opts.X, "y": &opts.Y} {
					if *dst, err = v.int(key); err != nil {
						return request{}, err
					}
				}
				return request{op: opts}, nil
			},
		},
		{
			action: ops.OpRotate,
			desc:   "Rotate by 90, 180, or 270 degrees",
			fields: []field{inputField, outputField, {key: "rotation", label: "Degrees", placeholder: "90", required: true}},
			build: func(v values) (request, error) {
				deg, err := v.int("rotation")
				if err != nil {
					return request{}, err
				}
				return request{op: ops.RotateOptions{Input: v.text("input"), Output: v.text("output"), Rotation: deg}}, nil
			},
		},
		{
			action: ops.OpSubtitles,
			desc:   "Burn in a subtitle file",
			fields: []field{inputField, outputField, {key: "subs", label: "Subtitle file", placeholder: "subs.srt", required: true}},
			build: func(v values) (request, error) {
				return request{op: ops.SubtitlesOptions{Input: v.text("input"), Output: v.text("output"), Subtitles: v.text("subs")}}, nil
			},
		},
		{
			action: ops.OpExtractAudio,
			desc:   "Pull out the audio track",
			fields: withRange(inputField, field{key: "output", label: "Output file", placeholder: "audio.m4a", required: true},
				field{key: "format", label: "Format", placeholder: "copy"}),
			build: func(v values) (request, error) {
				return request{op: ops.ExtractAudioOptions{
					Input: v.text("input"), Output: v.text("output"), Format: firstNonEmpty(v.text("format"), "copy"), Range: v.timeRange(),
				}}, nil
			},
		},
		{
			action: ops.OpExtractFrames,
			desc:   "Export frames as images",
			fields: withRange(inputField, field{key: "pattern", label: "Output pattern", placeholder: "frame_%04d.jpg", required: true},
				field{key: "rate", label: "Frames per second", placeholder: "1"}),
			build: func(v values) (request, error) {
				rate, err := v.float("rate")
				if err != nil {
					return request{}, err
				}
				if rate == 0 {
					rate = 1
				}
				return request{op: ops.ExtractFramesOptions{
					Input: v.text("input"), Pattern: v.text("pattern"), Rate: rate, Format: "image2", Range: v.timeRange(),
				}}, nil
			},
		},
		{
			action: ops.OpInfo,
			desc:   "Inspect streams with ffprobe",
			fields: []field{inputField},
			build: func(v values) (request, error) {
				return request{info: v.text("input")}, nil
			},
		},
		{
			action: actionApplyPreset,
			desc:   "Run a saved or built-in preset",
			fields: []field{inputField, outputField, {key: "preset", label: "Preset", required: true}},
			build: func(v values) (request, error) {
				return request{preset: v.text("preset"), input: v.text("input"), output: v.text("output")}, nil
			},
		},
	}
}

func lookupForm(action string) (form, bool) {
	for _, f := range forms() {
		if f.action == action {
			return f, true
		}
	}
	return form{}, false
}

// missing returns the label of the first required field left empty.
func (f form) missing(v values) string {
	for _, fl := range f.fields {
		if fl.required && v.text(fl.key) == "" {
			return fl.label
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
