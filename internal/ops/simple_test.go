package ops

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"vidtools/internal/media/ffprobe"
)

func TestResizePlans(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "in.mp4")
	out := filepath.Join(dir, "out.mp4")
	prober := &fakeProber{results: map[string]ffprobe.Result{in: video(1920, 1080, "42.5", true)}}
	env := testEnv(prober)

	tests := []struct {
		name   string
		opts   ResizeOptions
		filter string
	}{
		{"percentage", ResizeOptions{Percentage: 0.5}, "scale=trunc(iw*0.5/2)*2:trunc(ih*0.5/2)*2:flags=lanczos"},
		{"width", ResizeOptions{Width: 1280, Algorithm: "bicubic"}, "scale=1280:-2:flags=bicubic"},
		{"height", ResizeOptions{Height: 720}, "scale=-2:720:flags=lanczos"},
		{"both", ResizeOptions{Width: 640, Height: 480}, "scale=640:480:flags=lanczos"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.Input, tc.opts.Output = in, out
			job, err := tc.opts.Plan(context.Background(), env)
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			requireArgs(t, argsAfterPreamble(t, job), []string{"-i", in, "-vf", tc.filter, "-c:a", "copy", out})
			if job.Duration != 42.5 || job.Operation != OpResize || job.Output != out {
				t.Fatalf("unexpected job %+v", job)
			}
		})
	}
}

func TestResizeValidation(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "in.mp4")
	out := filepath.Join(dir, "out.mp4")
	env := testEnv(nil)
	cases := []struct {
		opts ResizeOptions
		want string
	}{
		{ResizeOptions{}, "one of percentage"},
		{ResizeOptions{Percentage: 0.5, Width: 100}, "cannot be combined"},
		{ResizeOptions{Width: -1}, "must be positive"},
		{ResizeOptions{Percentage: math.Inf(1)}, "must be positive"},
		{ResizeOptions{Percentage: math.NaN()}, "must be positive"},
		{ResizeOptions{Width: 100, Algorithm: "nearest"}, "unknown scaling algorithm"},
	}
	for _, tc := range cases {
		tc.opts.Input, tc.opts.Output = in, out
		_, err := tc.opts.Plan(context.Background(), env)
		requireValidation(t, err, tc.want)
	}
}

func TestCropPlans(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "in.mp4")
	out := filepath.Join(dir, "out.mp4")
	prober := &fakeProber{results: map[string]ffprobe.Result{in: video(1920, 1080, "10", true)}}
	env := testEnv(prober)

	job, err := CropOptions{Input: in, Output: out, Width: 1280, Height: 720, X: 100, Y: 50}.Plan(context.Background(), env)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	requireArgs(t, argsAfterPreamble(t, job), []string{"-i", in, "-vf", "crop=1280:720:100:50", "-c:a", "copy", out})

	job, err = CropOptions{Input: in, Output: out, Width: 1000, Height: 1000, Center: true}.Plan(context.Background(), env)
	if err != nil {
		t.Fatalf("Plan centered: %v", err)
	}
	requireArgs(t, argsAfterPreamble(t, job), []string{"-i", in, "-vf", "crop=1000:1000:(iw-1000)/2:(ih-1000)/2", "-c:a", "copy", out})

	_, err = CropOptions{Input: in, Output: out, Width: 1920, Height: 1080, X: 10}.Plan(context.Background(), env)
	requireValidation(t, err, "exceeds source frame 1920x1080")

	_, err = CropOptions{Input: in, Output: out, Width: 0, Height: 10}.Plan(context.Background(), env)
	requireValidation(t, err, "width and height must be positive")
}

func TestCropSkipsBoundsCheckWhenProbeFails(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "in.mp4")
	env := testEnv(&fakeProber{})
	job, err := CropOptions{Input: in, Output: filepath.Join(dir, "out.mp4"), Width: 5000, Height: 5000}.Plan(context.Background(), env)
	if err != nil {
		t.Fatalf("expected plan without probe data, got %v", err)
	}
	if job.Duration != 0 {
		t.Fatalf("expected unknown duration, got %v", job.Duration)
	}
}

func TestRotatePlans(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "in.mp4")
	out := filepath.Join(dir, "out.mp4")
	env := testEnv(nil)
	for deg, filter := range map[int]string{90: "transpose=1", 180: "transpose=1,transpose=1", 270: "transpose=2", -90: "transpose=2"} {
		job, err := RotateOptions{Input: in, Output: out, Rotation: deg}.Plan(context.Background(), env)
		if err != nil {
			t.Fatalf("Plan(%d): %v", deg, err)
		}
		requireArgs(t, argsAfterPreamble(t, job), []string{"-i", in, "-vf", filter, "-metadata:s:v:0", "rotate=0", "-c:a", "copy", out})
	}
	_, err := RotateOptions{Input: in, Output: out, Rotation: 45}.Plan(context.Background(), env)
	requireValidation(t, err, "rotation 45")
}

func TestSubtitlesPlans(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "in.mp4")
	subs := touch(t, dir, "subs.srt")
	out := filepath.Join(dir, "out.mp4")
	job, err := SubtitlesOptions{Input: in, Output: out, Subtitles: subs}.Plan(context.Background(), testEnv(nil))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	requireArgs(t, argsAfterPreamble(t, job), []string{"-i", in, "-vf", "subtitles=filename=" + subs, "-c:a", "copy", out})

	_, err = SubtitlesOptions{Input: in, Output: out, Subtitles: filepath.Join(dir, "none.srt")}.Plan(context.Background(), testEnv(nil))
	if err == nil {
		t.Fatal("expected missing subtitle file to fail")
	}
}

func TestExtractAudioPlans(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "in.mp4")
	out := filepath.Join(dir, "out.mp3")
	prober := &fakeProber{results: map[string]ffprobe.Result{in: video(640, 480, "100", true)}}
	opts := ExtractAudioOptions{Input: in, Output: out, Format: "mp3"}
	opts.Range.Start = "10"
	opts.Range.Duration = "30"
	job, err := opts.Plan(context.Background(), testEnv(prober))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	requireArgs(t, argsAfterPreamble(t, job), []string{"-i", in, "-ss", "00:00:10.000", "-t", "00:00:30.000", "-vn", "-c:a", "libmp3lame", out})
	if job.Duration != 30 {
		t.Fatalf("unexpected duration %v", job.Duration)
	}

	job, err = ExtractAudioOptions{Input: in, Output: filepath.Join(dir, "out.m4a")}.Plan(context.Background(), testEnv(nil))
	if err != nil {
		t.Fatalf("Plan copy: %v", err)
	}
	requireArgs(t, argsAfterPreamble(t, job), []string{"-i", in, "-vn", "-c:a", "copy", filepath.Join(dir, "out.m4a")})
}

func TestExtractFramesPlans(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "in.mp4")
	pattern := filepath.Join(dir, "frame_%04d.png")
	job, err := ExtractFramesOptions{Input: in, Pattern: pattern, Rate: 0.5}.Plan(context.Background(), testEnv(nil))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	requireArgs(t, argsAfterPreamble(t, job), []string{"-i", in, "-vf", "fps=0.5", "-f", "image2", pattern})

	_, err = ExtractFramesOptions{Input: in, Pattern: filepath.Join(dir, "frame.png")}.Plan(context.Background(), testEnv(nil))
	requireValidation(t, err, "frame number pattern")
	_, err = ExtractFramesOptions{Input: in, Pattern: pattern, Rate: -1}.Plan(context.Background(), testEnv(nil))
	requireValidation(t, err, "frame rate must be positive")
	for _, rate := range []float64{math.NaN(), math.Inf(1)} {
		_, err = ExtractFramesOptions{Input: in, Pattern: pattern, Rate: rate}.Plan(context.Background(), testEnv(nil))
		requireValidation(t, err, "frame rate must be positive")
	}
}

func TestInfoUsesProber(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "in.mp4")
	prober := &fakeProber{results: map[string]ffprobe.Result{in: video(320, 240, "3", false)}}
	result, err := Info(context.Background(), testEnv(prober), in)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if w, h, _ := result.Dimensions(); w != 320 || h != 240 {
		t.Fatalf("unexpected dimensions %dx%d", w, h)
	}
	if _, err := Info(context.Background(), testEnv(&fakeProber{}), in); err == nil {
		t.Fatal("expected probe failure to surface")
	}
}
