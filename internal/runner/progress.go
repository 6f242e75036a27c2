package runner

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Progress is a snapshot of a running encode.
type Progress struct {
	// Percent is 0-100, or -1 when the total duration is unknown.
	Percent float64
	// Current is the output timestamp reached, in seconds.
	Current float64
	// Total is the expected output duration in seconds (0 if unknown).
	Total float64
	Speed float64
	Frame int64
	FPS   float64
	ETA   time.Duration
}

var (
	durationPattern = regexp.MustCompile(`Duration:\s*(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)
	timePattern     = regexp.MustCompile(`time=\s*(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)
	speedPattern    = regexp.MustCompile(`speed=\s*([\d.]+)x`)
	framePattern    = regexp.MustCompile(`frame=\s*(\d+)`)
	fpsPattern      = regexp.MustCompile(`fps=\s*([\d.]+)`)
)

// ParseDuration extracts the seconds from an input "Duration:" banner line.
func ParseDuration(line string) (float64, bool) {
	m := durationPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return hms(m[1], m[2], m[3]), true
}

// ParseStatus extracts the fields of an ffmpeg status line
// ("frame=  120 fps= 30 ... time=00:00:04.00 ... speed=1.2x").
func ParseStatus(line string) (Progress, bool) {
	m := timePattern.FindStringSubmatch(line)
	if m == nil {
		return Progress{}, false
	}
	p := Progress{Percent: -1, Current: hms(m[1], m[2], m[3])}
	if s := speedPattern.FindStringSubmatch(line); s != nil {
		p.Speed, _ = strconv.ParseFloat(s[1], 64)
	}
	if f := framePattern.FindStringSubmatch(line); f != nil {
		p.Frame, _ = strconv.ParseInt(f[1], 10, 64)
	}
	if f := fpsPattern.FindStringSubmatch(line); f != nil {
		p.FPS, _ = strconv.ParseFloat(f[1], 64)
	}
	return p, true
}

func hms(h, m, s string) float64 {
	hours, _ := strconv.ParseFloat(h, 64)
	minutes, _ := strconv.ParseFloat(m, 64)
	seconds, _ := strconv.ParseFloat(s, 64)
	return hours*3600 + minutes*60 + seconds
}

// tracker turns raw stderr lines into Progress values.
type tracker struct {
	total    float64
	fromJob  bool
	lastSeen Progress
}

func newTracker(total float64) *tracker {
	return &tracker{total: total, fromJob: total > 0}
}

// observe consumes a line and reports whether it produced a progress update.
func (t *tracker) observe(line string) (Progress, bool) {
	if !t.fromJob && t.total == 0 {
		if d, ok := ParseDuration(line); ok && d > 0 {
			t.total = d
			return Progress{}, false
		}
	}
	p, ok := ParseStatus(line)
	if !ok {
		return Progress{}, false
	}
	p.Total = t.total
	if t.total > 0 {
		p.Percent = clamp(p.Current / t.total * 100)
		if p.Speed > 0 && p.Current < t.total {
			p.ETA = time.Duration((t.total - p.Current) / p.Speed * float64(time.Second))
		}
	}
	t.lastSeen = p
	return p, true
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// isStatusLine reports whether line is periodic status output rather than a
// diagnostic worth keeping.
func isStatusLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "frame=") || strings.HasPrefix(trimmed, "size=") ||
		(strings.Contains(trimmed, "time=") && strings.Contains(trimmed, "bitrate="))
}

// scanLines splits on \n, \r\n, or a bare \r so status lines that ffmpeg
// rewrites in place arrive one by one.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance++
		} else if data[i] == '\r' && i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = scanLines

// FormatETA renders a duration compactly ("1h2m3s", "45s").
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	d = d.Round(time.Second)
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || (hours == 0 && minutes == 0) {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, "")
}

// Message renders a one-line summary ("42.0% 00:01:03 (ETA 1m20s, @ 2.1x)").
func (p Progress) Message() string {
	var b strings.Builder
	if p.Percent >= 0 {
		fmt.Fprintf(&b, "%.1f%% ", p.Percent)
	}
	b.WriteString(formatClock(p.Current))
	if p.Total > 0 {
		b.WriteString(" / ")
		b.WriteString(formatClock(p.Total))
	}
	extras := make([]string, 0, 2)
	if eta := FormatETA(p.ETA); eta != "" {
		extras = append(extras, "ETA "+eta)
	}
	if p.Speed > 0 {
		extras = append(extras, fmt.Sprintf("@ %.1fx", p.Speed))
	}
	if len(extras) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(extras, ", "))
	}
	return b.String()
}

func formatClock(seconds float64) string {
	total := int64(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
