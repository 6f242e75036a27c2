package presets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"vidtools/internal/services"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "vidtools", "presets.json"), nil)
}

func TestLoadMissingFileReturnsBuiltins(t *testing.T) {
	store := newTestStore(t)
	all, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(all) != len(builtins) {
		t.Fatalf("expected %d built-ins, got %d", len(builtins), len(all))
	}
	if all["compress_web"].Quality != "28" {
		t.Fatalf("unexpected compress_web %+v", all["compress_web"])
	}
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	p := Preset{ResizePercentage: 0.6}
	if err := store.Save("shrink", p, false); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Get("shrink")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Operation != "resize" || got.Description != "Resize by 60%, Algorithm: lanczos" {
		t.Fatalf("unexpected saved preset %+v", got)
	}

	err = store.Save("shrink", Preset{ResizePercentage: 0.3}, false)
	if !errors.Is(err, ErrExists) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if err := store.Save("shrink", Preset{ResizePercentage: 0.3}, true); err != nil {
		t.Fatalf("forced Save: %v", err)
	}
	got, _ = store.Get("shrink")
	if got.ResizePercentage != 0.3 {
		t.Fatalf("forced save not applied: %+v", got)
	}
}

func TestSaveRejectsInvalidPreset(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save("bad", Preset{Operation: "resize"}, false); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("preset file should not be created, stat err=%v", err)
	}
}

func TestSaveBuiltinNameNeedsForce(t *testing.T) {
	store := newTestStore(t)
	override := Preset{Format: "mp4", Quality: "20"}
	if err := store.Save("compress_web", override, false); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if err := store.Save("compress_web", override, true); err != nil {
		t.Fatalf("forced Save: %v", err)
	}
	entries, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, e := range entries {
		if e.Name == "compress_web" {
			if !e.Builtin || !e.Overridden || e.Preset.Quality != "20" {
				t.Fatalf("unexpected entry %+v", e)
			}
			return
		}
	}
	t.Fatal("compress_web missing from listing")
}

func TestDeleteSemantics(t *testing.T) {
	store := newTestStore(t)
	if err := store.Delete("resize_half"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("deleting a built-in should be a validation error, got %v", err)
	}
	if err := store.Delete("nope"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := store.Save("resize_half", Preset{ResizePercentage: 0.25}, true); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete("resize_half"); err != nil {
		t.Fatalf("Delete override: %v", err)
	}
	got, err := store.Get("resize_half")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ResizePercentage != 0.5 {
		t.Fatalf("built-in should be restored, got %+v", got)
	}
}

func TestCorruptFileIsNotOverwritten(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	corrupt := []byte(`{"mine": {"format": "mp4"`)
	if err := os.WriteFile(store.Path(), corrupt, 0o644); err != nil {
		t.Fatal(err)
	}

	all, err := store.Load()
	if err != nil {
		t.Fatalf("Load should fall back to built-ins: %v", err)
	}
	if len(all) != len(builtins) {
		t.Fatalf("expected built-ins only, got %d", len(all))
	}

	err = store.Save("new", Preset{Format: "mkv"}, false)
	if !errors.Is(err, ErrCorrupt) || !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected corrupt-file configuration error, got %v", err)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(corrupt) {
		t.Fatalf("corrupt file was modified: %q", data)
	}
}

func TestGetUnknownListsAvailable(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get("missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "audio_only_mp3, compress_web") {
		t.Fatalf("error should list available presets: %v", err)
	}
}

func TestListIsSorted(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save("aaa", Preset{Rotation: 90}, false); err != nil {
		t.Fatal(err)
	}
	entries, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	want := []string{"aaa", "audio_only_mp3", "compress_web", "gif_optimized", "hq_h264_mp4", "mobile_friendly_mp4", "resize_half", "webm_social_media"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	if entries[0].Builtin {
		t.Fatal("user preset flagged as built-in")
	}
}

func TestMaterializeCopiesBuiltin(t *testing.T) {
	store := newTestStore(t)
	p, err := store.Materialize("gif_optimized")
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if p.Format != "gif" {
		t.Fatalf("unexpected preset %+v", p)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"gif_optimized"`) {
		t.Fatalf("built-in not written to user file: %s", data)
	}
	if _, err := store.Materialize("missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestVerifyReportsInvalidEntries(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	body := `{"ok": {"rotation": 90}, "broken": {"operation": "crop", "width": 10}}`
	if err := os.WriteFile(store.Path(), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	err := store.Verify()
	if err == nil || !strings.Contains(err.Error(), "broken") || strings.Contains(err.Error(), "ok:") {
		t.Fatalf("unexpected Verify result: %v", err)
	}
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", `code --wait "--new window"`)
	argv, err := EditorCommand("/tmp/presets.json")
	if err != nil {
		t.Fatalf("EditorCommand: %v", err)
	}
	want := []string{"code", "--wait", "--new window", "/tmp/presets.json"}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("argv = %q, want %q", argv, want)
	}

	t.Setenv("VISUAL", "nvim")
	argv, _ = EditorCommand("/tmp/presets.json")
	if argv[0] != "nvim" {
		t.Fatalf("VISUAL should win, got %q", argv)
	}
}

func TestOpenEditorRunsEditor(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "presets.json")
	if err := os.WriteFile(target, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "editor")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nprintf edited > \"$1\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", script)
	if err := OpenEditor(context.Background(), target, nil, nil, nil); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "edited" {
		t.Fatalf("editor did not run, file = %q", data)
	}
}
