package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

const sampleProbe = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080,
     "avg_frame_rate": "30000/1001", "r_frame_rate": "30000/1001", "pix_fmt": "yuv420p", "duration": "12.500000"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "48000", "channels": 2},
    {"index": 2, "codec_name": "mjpeg", "codec_type": "video", "width": 600, "height": 600,
     "disposition": {"attached_pic": 1}}
  ],
  "format": {"filename": "clip.mp4", "nb_streams": 3, "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
             "duration": "12.512000", "size": "2048000", "bit_rate": "1309000"}
}`

func TestParseSampleProbe(t *testing.T) {
	result, err := Parse([]byte(sampleProbe))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	width, height, ok := result.Dimensions()
	if !ok || width != 1920 || height != 1080 {
		t.Fatalf("unexpected dimensions %dx%d ok=%v", width, height, ok)
	}
	if !result.HasAudio() {
		t.Fatal("expected audio stream")
	}
	video, _ := result.PrimaryVideo()
	if math.Abs(video.FrameRate()-29.97) > 0.01 {
		t.Fatalf("unexpected frame rate %v", video.FrameRate())
	}
	if video.FrameRateExpr() != "30000/1001" {
		t.Fatalf("unexpected frame rate expr %q", video.FrameRateExpr())
	}
	if video.DurationSeconds() != 12.5 {
		t.Fatalf("unexpected stream duration %v", video.DurationSeconds())
	}
	if string(result.RawJSON()) != sampleProbe {
		t.Fatal("expected raw JSON to be retained")
	}
}

func TestPrimaryVideoSkipsAttachedPicture(t *testing.T) {
	result := Result{Streams: []Stream{
		{CodecType: "video", CodecName: "png", Width: 500, Height: 500, Disposition: map[string]int{"attached_pic": 1}},
	}}
	if _, ok := result.PrimaryVideo(); ok {
		t.Fatal("expected cover art to be ignored")
	}
	if _, _, ok := result.Dimensions(); ok {
		t.Fatal("expected no dimensions without a real video stream")
	}
}

func TestParseRational(t *testing.T) {
	tests := map[string]float64{
		"25/1": 25,
		"0/0":  0,
		"24":   24,
		"":     0,
		"x/y":  0,
	}
	for input, want := range tests {
		if got := parseRational(input); got != want {
			t.Errorf("parseRational(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInspectStubBinary(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "ffprobe")
	body := "#!/bin/sh\ncat <<'JSON'\n" + sampleProbe + "\nJSON\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	result, err := Prober{Binary: script}.Inspect(context.Background(), "clip.mp4")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.VideoStreamCount() != 2 || result.AudioStreamCount() != 1 {
		t.Fatalf("unexpected stream counts: %d video %d audio", result.VideoStreamCount(), result.AudioStreamCount())
	}
}

func TestInspectMissingBinary(t *testing.T) {
	_, err := Inspect(context.Background(), filepath.Join(t.TempDir(), "nope"), "clip.mp4")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}
