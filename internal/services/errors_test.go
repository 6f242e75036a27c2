package services_test

import (
	"errors"
	"strings"
	"testing"

	"vidtools/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "concat", "list file", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"concat", "list file", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "operation failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestExitStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"validation", services.Validation("crop", "width must be positive"), 2},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "", "bad", nil), 2},
		{"external", services.Wrap(services.ErrExternalTool, "resize", "ffmpeg", "", errors.New("exit 1")), 1},
		{"plain", errors.New("io"), 1},
	}
	for _, tc := range tests {
		if got := services.ExitStatus(tc.err); got != tc.want {
			t.Errorf("%s: ExitStatus = %d, want %d", tc.name, got, tc.want)
		}
	}
}
