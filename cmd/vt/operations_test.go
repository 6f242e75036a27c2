package main

import (
	"os"
	"strconv"
	"strings"
	"testing"
)

func TestResizeDryRunPrintsCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.input(t, "in.mp4")
	out := env.path("out.mp4")

	stdout, _, err := runCLI(t, env, "resize", in, out, "-p", "0.5", "--dry-run")
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	requireContains(t, stdout, env.cfg.FFmpegBinary())
	requireContains(t, stdout, "scale=trunc(iw*0.5/2)*2:trunc(ih*0.5/2)*2:flags=lanczos")
	requireContains(t, stdout, " -n ")
	if !strings.HasSuffix(strings.TrimSpace(stdout), out) {
		t.Fatalf("expected command to end with output path, got %q", stdout)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create the output, stat err = %v", err)
	}
}

func TestOverwriteFlagSwitchesToYes(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.input(t, "in.mp4")

	stdout, _, err := runCLI(t, env, "rotate", in, env.path("out.mp4"), "-r", "90", "--dry-run", "-y")
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	requireContains(t, stdout, " -y ")
	requireContains(t, stdout, "transpose=1")
}

func TestCutDryRunDefaultsToStreamCopy(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.input(t, "in.mp4")

	stdout, _, err := runCLI(t, env, "cut", in, env.path("cut.mp4"), "-s", "40", "-e", "66.5", "--dry-run")
	if err != nil {
		t.Fatalf("cut: %v", err)
	}
	requireContains(t, stdout, "-ss 00:00:40.000 -to 00:01:06.500 -map 0 -c copy")
}

func TestCutRejectsCopyWithReencode(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.input(t, "in.mp4")

	_, _, err := runCLI(t, env, "cut", in, env.path("cut.mp4"), "-s", "5", "--copy", "--accurate", "--dry-run")
	requireExitCode(t, err, 2)
}

func TestConvertExtraArgsAreSplit(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.input(t, "in.mov")

	stdout, _, err := runCLI(t, env, "convert", in, env.path("out.mkv"), "--extra-args", "-tune 'film'", "--dry-run")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, stdout, "-tune film")
}

func TestOperationValidationErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.input(t, "in.mp4")

	cases := []struct {
		name string
		args []string
		want int
	}{
		{"missing positional", []string{"resize", in}, 2},
		{"unknown flag", []string{"resize", in, env.path("o.mp4"), "--bogus"}, 2},
		{"bad rotation", []string{"rotate", in, env.path("o.mp4"), "-r", "45"}, 2},
		{"output equals input", []string{"resize", in, in, "-p", "0.5"}, 2},
		{"subtitles without subs", []string{"subtitles", in, env.path("o.mp4")}, 2},
		{"missing input", []string{"resize", env.path("nope.mp4"), env.path("o.mp4"), "-p", "0.5"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, env, append(tc.args, "--dry-run")...)
			requireExitCode(t, err, tc.want)
		})
	}
}

func TestRunWritesOutputAndSummary(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.input(t, "in.mp4")
	out := env.path("small.mp4")

	stdout, _, err := runCLI(t, env, "resize", in, out, "-W", "640", "--no-progress")
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	requireContains(t, stdout, "Wrote "+out)
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "encoded" {
		t.Fatalf("unexpected output content %q", data)
	}
}

func TestFFmpegExitStatusPropagates(t *testing.T) {
	env := setupCLITestEnv(t)
	writeFailingFFmpeg(t, env, 3)
	in := env.input(t, "in.mp4")

	_, _, err := runCLI(t, env, "rotate", in, env.path("out.mp4"), "-r", "180", "--no-progress")
	requireExitCode(t, err, 3)
	requireContains(t, err.Error(), "conversion failed")
}

func writeFailingFFmpeg(t *testing.T, env *cliTestEnv, code int) {
	t.Helper()
	script := "#!/bin/sh\necho 'conversion failed' >&2\nexit " + strconv.Itoa(code) + "\n"
	if err := os.WriteFile(env.cfg.FFmpegBinary(), []byte(script), 0o755); err != nil {
		t.Fatalf("rewrite ffmpeg stub: %v", err)
	}
}

func TestMissingFFmpegBinary(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.FFmpeg.Binary = env.path("no-such-ffmpeg")
	writeTestConfig(t, env.configPath, env.cfg)
	in := env.input(t, "in.mp4")

	_, _, err := runCLI(t, env, "rotate", in, env.path("out.mp4"), "-r", "90")
	if err == nil {
		t.Fatal("expected missing ffmpeg error")
	}
	requireContains(t, err.Error(), "install ffmpeg first")
}
