package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"vidtools/internal/batch"
	"vidtools/internal/runner"
	"vidtools/internal/services"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusError, "not available", false)
	want := "  FFmpeg:" + strings.Repeat(" ", statusLabelWidth-len("FFmpeg:")) + " [ERROR] not available"
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusOK, "Ready", true)
	if !strings.HasPrefix(got, "\x1b[32m") {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "\x1b[0m") {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestBatchLineAndSummary(t *testing.T) {
	results := []batch.Result{
		{Item: batch.Item{Input: "a.mov", Output: "a.mp4"}, Elapsed: 1500 * time.Millisecond},
		{Item: batch.Item{Input: "b.mov", Output: "b.mp4"}, Err: errors.New("boom")},
		{Item: batch.Item{Input: "c.mov", Output: "c.mp4", Skip: "output exists"}},
	}
	if got := batchLine(results[0], false); got != "✓ a.mov -> a.mp4 (1.5s)" {
		t.Fatalf("success line = %q", got)
	}
	if got := batchLine(results[1], false); got != "✗ b.mov: boom" {
		t.Fatalf("failure line = %q", got)
	}
	if got := batchLine(results[2], false); got != "- c.mov: skipped (output exists)" {
		t.Fatalf("skip line = %q", got)
	}
	if got := batchSummary(results); got != "Converted 1 of 3 files, 1 failed, 1 skipped" {
		t.Fatalf("summary = %q", got)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", services.Validation("resize", "bad"), 2},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "", "bad", nil), 2},
		{"not found", services.Wrap(services.ErrNotFound, "preset", "", "missing", nil), 1},
		{"ffmpeg", fmt.Errorf("run: %w", &runner.ExitError{Binary: "ffmpeg", Code: 183}), 183},
		{"cancelled", context.Canceled, 1},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("%s: exitCode = %d, want %d", tc.name, got, tc.want)
		}
	}
}
