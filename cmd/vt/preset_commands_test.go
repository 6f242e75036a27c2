package main

import (
	"encoding/json"
	"errors"
	"testing"

	"vidtools/internal/services"
)

func TestPresetListIncludesBuiltins(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "preset", "list")
	if err != nil {
		t.Fatalf("preset list: %v", err)
	}
	requireContains(t, out, "webm_social_media")
	requireContains(t, out, "built-in")

	out, _, err = runCLI(t, env, "preset", "list", "--json")
	if err != nil {
		t.Fatalf("preset list --json: %v", err)
	}
	var listing []presetListing
	if err := json.Unmarshal([]byte(out), &listing); err != nil {
		t.Fatalf("decode listing: %v\n%s", err, out)
	}
	found := false
	for _, p := range listing {
		if p.Name == "resize_half" {
			found = true
			if !p.Builtin || p.Operation != "resize" {
				t.Fatalf("unexpected resize_half listing %#v", p)
			}
		}
	}
	if !found {
		t.Fatalf("resize_half missing from %s", out)
	}
}

func TestPresetSaveShowApplyDelete(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "preset", "save", "tiny", "convert", "-f", "webm", "--crf", "40", "--abitrate", "64k", "--description", "Small WebM")
	if err != nil {
		t.Fatalf("preset save: %v", err)
	}
	requireContains(t, out, `Saved preset "tiny": Small WebM`)

	out, _, err = runCLI(t, env, "preset", "show", "tiny")
	if err != nil {
		t.Fatalf("preset show: %v", err)
	}
	requireContains(t, out, "Small WebM")
	requireContains(t, out, `"format": "webm"`)

	in := env.input(t, "in.mp4")
	out, _, err = runCLI(t, env, "preset", "apply", in, env.path("out.webm"), "tiny", "--dry-run")
	if err != nil {
		t.Fatalf("preset apply: %v", err)
	}
	requireContains(t, out, "-crf 40")
	requireContains(t, out, "-b:a 64k")

	out, _, err = runCLI(t, env, "preset", "delete", "tiny")
	if err != nil {
		t.Fatalf("preset delete: %v", err)
	}
	requireContains(t, out, `Deleted preset "tiny"`)

	_, _, err = runCLI(t, env, "preset", "show", "tiny")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestPresetSaveKeepsCenterAndCopy(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.input(t, "in.mp4")

	out, _, err := runCLI(t, env, "preset", "save", "square", "crop", "-W", "720", "-H", "720", "--center")
	if err != nil {
		t.Fatalf("preset save crop: %v", err)
	}
	requireContains(t, out, "Crop to 720x720 (centered)")
	out, _, err = runCLI(t, env, "preset", "apply", in, env.path("sq.mp4"), "square", "--dry-run")
	if err != nil {
		t.Fatalf("preset apply crop: %v", err)
	}
	requireContains(t, out, "crop=720:720:(iw-720)/2:(ih-720)/2")

	if _, _, err := runCLI(t, env, "preset", "save", "remux", "convert", "-f", "mkv", "--copy"); err != nil {
		t.Fatalf("preset save convert: %v", err)
	}
	out, _, err = runCLI(t, env, "preset", "apply", in, env.path("out.mkv"), "remux", "--dry-run")
	if err != nil {
		t.Fatalf("preset apply convert: %v", err)
	}
	requireContains(t, out, "-c copy")
}

func TestPresetSaveRefusesExistingWithoutForce(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, "preset", "save", "half", "resize", "-p", "0.5"); err != nil {
		t.Fatalf("first save: %v", err)
	}
	_, _, err := runCLI(t, env, "preset", "save", "half", "resize", "-p", "0.25")
	if err == nil {
		t.Fatal("expected error when preset exists")
	}
	if _, _, err := runCLI(t, env, "preset", "save", "half", "resize", "-p", "0.25", "--force"); err != nil {
		t.Fatalf("forced save: %v", err)
	}
	out, _, err := runCLI(t, env, "preset", "show", "half")
	if err != nil {
		t.Fatalf("preset show: %v", err)
	}
	requireContains(t, out, "0.25")
}

func TestPresetSaveValidation(t *testing.T) {
	env := setupCLITestEnv(t)

	cases := [][]string{
		{"preset", "save", "bad", "cut", "-s", "5"},
		{"preset", "save", "bad", "resize", "--nope"},
		{"preset", "save", "bad", "resize", "in.mp4"},
		{"preset", "save", "only-name"},
	}
	for _, args := range cases {
		_, _, err := runCLI(t, env, args...)
		requireExitCode(t, err, 2)
	}
}

func TestPresetDeleteBuiltinFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "preset", "delete", "resize_half")
	requireExitCode(t, err, 2)
}
