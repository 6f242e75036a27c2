package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vidtools/internal/config"
	"vidtools/internal/testsupport"
)

// stubFFmpeg writes a small file to its last argument, which is the output
// path for every operation. Probes such as -version only print a banner.
const stubFFmpeg = `for last; do :; done
case "$last" in
-*) echo "ffmpeg version 7.1-stub"; exit 0 ;;
esac
echo "  Duration: 00:00:10.00, start: 0.000000, bitrate: 800 kb/s" >&2
printf 'encoded' > "$last"
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("NO_COLOR", "1")
	t.Setenv("VIDTOOLS_FFMPEG", "")
	t.Setenv("VIDTOOLS_FFPROBE", "")
	t.Setenv("VIDTOOLS_PRESETS", "")

	defaults := []testsupport.ConfigOption{
		testsupport.WithFFmpegScript(stubFFmpeg),
		testsupport.WithFFprobeOutput(testsupport.ProbeJSON(1920, 1080, 10, true)),
	}
	cfg := testsupport.NewConfig(t, append(defaults, opts...)...)
	cfg.Logging.Level = "error"

	configPath := filepath.Join(homeDir, ".config", "vidtools", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    testsupport.BaseDir(cfg),
	}
}

// input creates a small regular file under the test directory.
func (e *cliTestEnv) input(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.baseDir, "media", name)
	testsupport.WriteMedia(t, path, 1024)
	return path
}

func (e *cliTestEnv) path(name string) string {
	return filepath.Join(e.baseDir, "media", name)
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	var flags []string
	if env != nil {
		flags = append(flags, "--config", env.configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireExitCode(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with exit code %d, got nil", want)
	}
	if got := exitCode(err); got != want {
		t.Fatalf("exit code = %d, want %d (err: %v)", got, want, err)
	}
}
