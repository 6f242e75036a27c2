package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"vidtools/internal/services"
	"vidtools/internal/testsupport"
)

func TestPlanNextToSource(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteMedia(t, filepath.Join(dir, "b.webm"), 1)
	testsupport.WriteMedia(t, filepath.Join(dir, "a.webm"), 1)
	testsupport.WriteMedia(t, filepath.Join(dir, "c.mp4"), 1)
	if err := os.Mkdir(filepath.Join(dir, "dir.webm"), 0o755); err != nil {
		t.Fatal(err)
	}

	items, err := Plan(Options{Pattern: filepath.Join(dir, "*.webm"), Format: ".MP4"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Output != filepath.Join(dir, "a.mp4") || items[1].Output != filepath.Join(dir, "b.mp4") {
		t.Fatalf("unexpected outputs %+v", items)
	}
}

func TestPlanOutputDirAndSkip(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteMedia(t, filepath.Join(dir, "clip.mp4"), 1)
	testsupport.WriteMedia(t, filepath.Join(dir, "other.mov"), 1)

	items, err := Plan(Options{Pattern: filepath.Join(dir, "*"), Format: "mp4"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if items[0].Skip == "" || items[1].Skip != "" {
		t.Fatalf("expected clip.mp4 to be skipped: %+v", items)
	}

	out := filepath.Join(dir, "converted")
	items, err = Plan(Options{Pattern: filepath.Join(dir, "*.mov"), Format: "mkv", OutputDir: out})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if items[0].Output != filepath.Join(out, "other.mkv") {
		t.Fatalf("unexpected output %q", items[0].Output)
	}
	if info, err := os.Stat(out); err != nil || !info.IsDir() {
		t.Fatalf("output directory not created: %v", err)
	}
}

func TestPlanErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Plan(Options{Pattern: filepath.Join(dir, "*.mp4"), Format: "mkv"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := Plan(Options{Pattern: "*.mp4"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := Plan(Options{Pattern: "[", Format: "mp4"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad pattern, got %v", err)
	}
}

func TestRunBoundsConcurrencyAndCollectsFailures(t *testing.T) {
	items := []Item{
		{Input: "a", Output: "a.mp4"},
		{Input: "b", Output: "b.mp4"},
		{Input: "c", Output: "c.mp4", Skip: "already in target format"},
		{Input: "d", Output: "d.mp4"},
		{Input: "e", Output: "e.mp4"},
	}
	var running, peak atomic.Int32
	convert := func(ctx context.Context, item Item) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
		if item.Input == "b" {
			return errors.New("ffmpeg exited with status 1")
		}
		return nil
	}
	var done atomic.Int32
	results, err := Run(context.Background(), items, 2, convert, func(Result) { done.Add(1) })
	if err == nil || !strings.Contains(err.Error(), "1 of 5 conversions failed") {
		t.Fatalf("expected failure summary, got %v", err)
	}
	if peak.Load() > 2 {
		t.Fatalf("concurrency exceeded: %d", peak.Load())
	}
	if done.Load() != 5 {
		t.Fatalf("onDone called %d times, want 5", done.Load())
	}
	if !results[0].Succeeded() || results[1].Succeeded() || results[2].Succeeded() || results[2].Err != nil {
		t.Fatalf("unexpected results %+v", results)
	}
	if results[1].Input != "b" || results[4].Input != "e" {
		t.Fatal("results should keep input order")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	items := []Item{{Input: "a"}, {Input: "b"}, {Input: "c"}}
	var calls atomic.Int32
	convert := func(ctx context.Context, item Item) error {
		calls.Add(1)
		cancel()
		<-ctx.Done()
		return ctx.Err()
	}
	_, err := Run(ctx, items, 1, convert, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one conversion before cancel, got %d", calls.Load())
	}
}
