package presets

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/google/shlex"

	"vidtools/internal/ops"
	"vidtools/internal/services"
)

func TestPresetAcceptsMixedScalarTypes(t *testing.T) {
	data := `{
		"format": "mp4",
		"quality": 28,
		"vbitrate": null,
		"width": "640",
		"height": -1,
		"resize_percentage": "0.5",
		"rate": 2.5,
		"center": "yes",
		"copy": 1
	}`
	var p Preset
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Quality != "28" || p.VideoBitrate != "" || p.Width != 640 || p.Height != -1 {
		t.Fatalf("unexpected preset %+v", p)
	}
	if p.ResizePercentage != 0.5 || p.Rate != 2.5 {
		t.Fatalf("unexpected numbers %+v", p)
	}
	if !p.Center || !p.Copy {
		t.Fatalf("unexpected flags %+v", p)
	}
}

func TestPresetRejectsBadScalars(t *testing.T) {
	cases := []string{
		`{"width": 1.5}`,
		`{"width": "wide"}`,
		`{"quality": [1]}`,
		`{"rate": "NaN"}`,
		`{"resize_percentage": "Inf"}`,
		`{"center": "sideways"}`,
	}
	for _, data := range cases {
		var p Preset
		if err := json.Unmarshal([]byte(data), &p); err == nil {
			t.Errorf("expected error for %s", data)
		}
	}
}

func TestPresetKind(t *testing.T) {
	cases := []struct {
		name   string
		preset Preset
		want   string
	}{
		{"explicit", Preset{Operation: "Extract_Audio"}, ops.OpExtractAudio},
		{"format", Preset{Format: "mp4", ResizePercentage: 0.5}, ops.OpConvert},
		{"percentage", Preset{ResizePercentage: 0.5}, ops.OpResize},
		{"width", Preset{Width: 640}, ops.OpResize},
		{"rotation", Preset{Rotation: 90}, ops.OpRotate},
		{"aformat", Preset{AudioFormat: "mp3"}, ops.OpExtractAudio},
		{"rate", Preset{Rate: 1}, ops.OpExtractFrames},
		{"empty", Preset{Description: "nothing"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.preset.Kind(); got != tc.want {
				t.Fatalf("Kind() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPresetValidate(t *testing.T) {
	cases := []struct {
		name   string
		preset Preset
		ok     bool
	}{
		{"builtin compress", builtins["compress_web"], true},
		{"resize without size", Preset{Operation: ops.OpResize, Algorithm: "lanczos"}, false},
		{"resize bad algorithm", Preset{ResizePercentage: 0.5, Algorithm: "magic"}, false},
		{"convert without format", Preset{Operation: ops.OpConvert, VideoCodec: "libx264"}, false},
		{"convert bad quality", Preset{Format: "mp4", Quality: "high"}, false},
		{"convert bad extra args", Preset{Format: "mp4", ExtraArgs: `-metadata "title`}, false},
		{"crop missing height", Preset{Operation: ops.OpCrop, Width: 100}, false},
		{"crop ok", Preset{Operation: ops.OpCrop, Width: 100, Height: 50, X: 10}, true},
		{"crop center", Preset{Operation: ops.OpCrop, Width: 100, Height: 50, Center: true}, true},
		{"crop center with offset", Preset{Operation: ops.OpCrop, Width: 100, Height: 50, X: 4, Center: true}, false},
		{"center on resize", Preset{ResizePercentage: 0.5, Center: true}, false},
		{"convert copy", Preset{Format: "mkv", Copy: true}, true},
		{"copy on rotate", Preset{Rotation: 90, Copy: true}, false},
		{"rotate bad", Preset{Rotation: 45}, false},
		{"rotate ok", Preset{Rotation: -90}, true},
		{"extra args on resize", Preset{ResizePercentage: 0.5, ExtraArgs: "-an"}, false},
		{"unsupported op", Preset{Operation: ops.OpConcat}, false},
		{"nothing", Preset{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.preset.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, services.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
			}
		})
	}
}

func TestBuildConvertWithScaleAndExtraArgs(t *testing.T) {
	p := Preset{
		Format:           "mp4",
		VideoCodec:       "libx264",
		Quality:          "23",
		ResizePercentage: 0.5,
		ExtraArgs:        `-tune film -metadata "title=My Clip"`,
	}
	op, err := p.Build("in.mov", "out.mp4")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	conv, ok := op.(ops.ConvertOptions)
	if !ok {
		t.Fatalf("expected ConvertOptions, got %T", op)
	}
	if conv.Input != "in.mov" || conv.Output != "out.mp4" || conv.Quality != "23" {
		t.Fatalf("unexpected options %+v", conv)
	}
	wantExtra := []string{"-tune", "film", "-metadata", "title=My Clip"}
	if !reflect.DeepEqual(conv.ExtraArgs, wantExtra) {
		t.Fatalf("ExtraArgs = %q, want %q", conv.ExtraArgs, wantExtra)
	}
	if len(conv.Filters) != 1 || conv.Filters[0] != "scale=trunc(iw*0.5/2)*2:trunc(ih*0.5/2)*2:flags=lanczos" {
		t.Fatalf("Filters = %q", conv.Filters)
	}
}

func TestBuildResizeTreatsNegativeHeightAsAuto(t *testing.T) {
	op, err := Preset{Width: 1280, Height: -1}.Build("in.mp4", "out.mp4")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	resize := op.(ops.ResizeOptions)
	if resize.Width != 1280 || resize.Height != 0 {
		t.Fatalf("unexpected resize %+v", resize)
	}
}

func TestBuildExtractFramesUsesOutputAsPattern(t *testing.T) {
	op, err := Preset{Rate: 2, ImageFormat: "image2"}.Build("in.mp4", "frames/f_%03d.png")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	frames := op.(ops.ExtractFramesOptions)
	if frames.Pattern != "frames/f_%03d.png" || frames.Rate != 2 {
		t.Fatalf("unexpected options %+v", frames)
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		preset Preset
		want   string
	}{
		{Preset{ResizePercentage: 0.6}, "Resize by 60%, Algorithm: lanczos"},
		{Preset{Width: 1280, Algorithm: "bicubic"}, "Resize to 1280xauto, Algorithm: bicubic"},
		{Preset{Format: "webm", VideoCodec: "libvpx-vp9", Quality: "30"}, "Convert to webm, Video codec: libvpx-vp9, Quality: 30"},
		{Preset{Operation: ops.OpCrop, Width: 640, Height: 480, X: 8}, "Crop to 640x480 at 8,0"},
		{Preset{Operation: ops.OpCrop, Width: 720, Height: 720, Center: true}, "Crop to 720x720 (centered)"},
		{Preset{Format: "mkv", Copy: true}, "Convert to mkv, Stream copy"},
		{Preset{Rotation: 180}, "Rotate 180 degrees"},
		{Preset{Operation: ops.OpExtractAudio}, "Extract audio (format: copy)"},
		{Preset{Operation: ops.OpExtractFrames}, "Extract frames (rate: 1, format: image2)"},
	}
	for _, tc := range cases {
		if got := tc.preset.Describe(); got != tc.want {
			t.Errorf("Describe() = %q, want %q", got, tc.want)
		}
	}
}

func TestFromOperationRoundTripsExtraArgs(t *testing.T) {
	extra := []string{"-metadata", "title=It's here", "-movflags", "+faststart"}
	p, err := FromOperation(ops.ConvertOptions{Output: "clip.mkv", VideoCodec: "libx265", ExtraArgs: extra})
	if err != nil {
		t.Fatalf("FromOperation: %v", err)
	}
	if p.Operation != ops.OpConvert || p.Format != "mkv" {
		t.Fatalf("unexpected preset %+v", p)
	}
	got, err := shlex.Split(string(p.ExtraArgs))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if !reflect.DeepEqual(got, extra) {
		t.Fatalf("extra args = %q, want %q", got, extra)
	}
}

func TestFromOperationThenBuildKeepsFlags(t *testing.T) {
	cases := []struct {
		name string
		op   ops.Operation
		want ops.Operation
	}{
		{
			"centered crop",
			ops.CropOptions{Input: "a.mp4", Output: "b.mp4", Width: 720, Height: 720, Center: true},
			ops.CropOptions{Input: "in.mp4", Output: "out.mp4", Width: 720, Height: 720, Center: true},
		},
		{
			"offset crop",
			ops.CropOptions{Width: 640, Height: 360, X: 12, Y: 8},
			ops.CropOptions{Input: "in.mp4", Output: "out.mp4", Width: 640, Height: 360, X: 12, Y: 8},
		},
		{
			"stream copy convert",
			ops.ConvertOptions{Input: "a.mp4", Output: "b.mkv", Copy: true},
			ops.ConvertOptions{Input: "in.mp4", Output: "out.mp4", Format: "mkv", Copy: true},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := FromOperation(tc.op)
			if err != nil {
				t.Fatalf("FromOperation: %v", err)
			}
			data, err := json.Marshal(p)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var stored Preset
			if err := json.Unmarshal(data, &stored); err != nil {
				t.Fatalf("unmarshal %s: %v", data, err)
			}
			got, err := stored.Build("in.mp4", "out.mp4")
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Build() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestFromOperationRejectsUnsupported(t *testing.T) {
	_, err := FromOperation(ops.CutOptions{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"web", "hq_h264.v2", "a-b"} {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v", name, err)
		}
	}
	for _, name := range []string{"", "-flag", "has space", "a/b"} {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) should fail", name)
		}
	}
}
