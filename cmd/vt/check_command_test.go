package main

import (
	"strings"
	"testing"

	"vidtools/internal/deps"
)

func TestCheckReportsReady(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "== State ==")
	requireContains(t, out, "FFmpeg:")
	requireContains(t, out, "[OK] Ready")
}

func TestCheckFailsWhenFFprobeMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.FFmpeg.ProbeBinary = env.path("missing-ffprobe")
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, env, "check")
	requireExitCode(t, err, 2)
	requireContains(t, out, "FFprobe:")
	requireContains(t, err.Error(), "FFprobe")
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Requirement: deps.Requirement{Name: "FFmpeg"}, Available: true, Path: "/usr/bin/ffmpeg", Version: "7.1"},
		{Requirement: deps.Requirement{Name: "FFprobe"}},
		{Requirement: deps.Requirement{Name: "Desktop opener", Optional: true}, Detail: "xdg-open not found"},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[OK] Ready (/usr/bin/ffmpeg) version 7.1") {
		t.Fatalf("unexpected ready line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] not available") {
		t.Fatalf("unexpected error line %q", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN] xdg-open not found (optional)") {
		t.Fatalf("unexpected warn line %q", lines[2])
	}
}
