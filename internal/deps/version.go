package deps

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

var versionPattern = regexp.MustCompile(`(?i)\bversion\s+(\S+)`)

// probeVersion runs path with args and extracts the version token from the
// first line of output ("ffmpeg version 7.1 Copyright ..." yields "7.1").
func probeVersion(ctx context.Context, path string, args []string) string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, args...).CombinedOutput()
	if err != nil && len(out) == 0 {
		return ""
	}
	return ParseVersion(string(out))
}

// ParseVersion extracts the version token from a -version banner.
func ParseVersion(banner string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(banner), "\n")
	if m := versionPattern.FindStringSubmatch(first); m != nil {
		return m[1]
	}
	return ""
}
