package ffmpeg

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTimecode converts HH:MM:SS(.fff), MM:SS(.fff), or plain seconds into
// seconds. Negative values and out-of-range minute/second fields are rejected.
func ParseTimecode(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("timecode: empty value")
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("timecode %q: too many fields", value)
	}

	var total float64
	for i, part := range parts {
		last := i == len(parts)-1
		if part == "" {
			return 0, fmt.Errorf("timecode %q: empty field", value)
		}
		n, err := strconv.ParseFloat(part, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
			return 0, fmt.Errorf("timecode %q: invalid field %q", value, part)
		}
		if !last && n != math.Trunc(n) {
			return 0, fmt.Errorf("timecode %q: only seconds may be fractional", value)
		}
		if len(parts) > 1 && i > 0 && n >= 60 {
			return 0, fmt.Errorf("timecode %q: field %q out of range", value, part)
		}
		total = total*60 + n
	}
	return total, nil
}

// FormatTimecode renders seconds as HH:MM:SS.mmm.
func FormatTimecode(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// TimeRange is an optional start plus either an absolute end or a duration.
// Zero-valued fields are unset.
type TimeRange struct {
	Start    string
	End      string
	Duration string
}

// Empty reports whether no bound is set.
func (r TimeRange) Empty() bool {
	return strings.TrimSpace(r.Start) == "" && strings.TrimSpace(r.End) == "" && strings.TrimSpace(r.Duration) == ""
}

// Resolved is a validated TimeRange in seconds. HasEnd and HasDuration are
// mutually exclusive.
type Resolved struct {
	Start       float64
	End         float64
	Duration    float64
	HasStart    bool
	HasEnd      bool
	HasDuration bool
}

// Resolve parses and validates the range.
func (r TimeRange) Resolve() (Resolved, error) {
	var out Resolved
	var err error
	if strings.TrimSpace(r.End) != "" && strings.TrimSpace(r.Duration) != "" {
		return out, fmt.Errorf("end and duration are mutually exclusive")
	}
	if strings.TrimSpace(r.Start) != "" {
		if out.Start, err = ParseTimecode(r.Start); err != nil {
			return out, fmt.Errorf("start: %w", err)
		}
		out.HasStart = true
	}
	if strings.TrimSpace(r.End) != "" {
		if out.End, err = ParseTimecode(r.End); err != nil {
			return out, fmt.Errorf("end: %w", err)
		}
		if out.End <= out.Start {
			return out, fmt.Errorf("end %s must be after start %s", FormatTimecode(out.End), FormatTimecode(out.Start))
		}
		out.HasEnd = true
	}
	if strings.TrimSpace(r.Duration) != "" {
		if out.Duration, err = ParseTimecode(r.Duration); err != nil {
			return out, fmt.Errorf("duration: %w", err)
		}
		if out.Duration <= 0 {
			return out, fmt.Errorf("duration must be positive")
		}
		out.HasDuration = true
	}
	return out, nil
}

// Length returns the selected span given the source length (0 if unknown).
func (r Resolved) Length(source float64) float64 {
	switch {
	case r.HasDuration:
		if source > 0 && r.Start+r.Duration > source {
			return math.Max(source-r.Start, 0)
		}
		return r.Duration
	case r.HasEnd:
		end := r.End
		if source > 0 && end > source {
			end = source
		}
		return math.Max(end-r.Start, 0)
	case source > 0:
		return math.Max(source-r.Start, 0)
	default:
		return 0
	}
}

// OutputArgs renders the range as output options placed after -i.
func (r Resolved) OutputArgs() []string {
	var args []string
	if r.HasStart {
		args = append(args, "-ss", FormatTimecode(r.Start))
	}
	switch {
	case r.HasEnd:
		args = append(args, "-to", FormatTimecode(r.End))
	case r.HasDuration:
		args = append(args, "-t", FormatTimecode(r.Duration))
	}
	return args
}

// SeekArgs renders the range for input seeking: -ss goes before -i and the
// returned duration goes after it, converting an absolute end.
func (r Resolved) SeekArgs() (input []string, output []string) {
	if r.HasStart {
		input = append(input, "-ss", FormatTimecode(r.Start))
	}
	switch {
	case r.HasEnd:
		output = append(output, "-t", FormatTimecode(r.End-r.Start))
	case r.HasDuration:
		output = append(output, "-t", FormatTimecode(r.Duration))
	}
	return input, output
}
