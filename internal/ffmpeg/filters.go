package ffmpeg

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ScaleAlgorithms lists the swscale flags accepted by the scale filter.
var ScaleAlgorithms = []string{
	"neighbor", "fast_bilinear", "bilinear", "bicubic", "experimental",
	"area", "bicubiclina", "gauss", "sinc", "lanczos", "spline",
}

// Transitions lists the xfade transitions offered by merge.
var Transitions = []string{
	"fade", "fadeblack", "fadegrays",
	"wipeleft", "wiperight", "wipeup", "wipedown",
	"slideleft", "slideright", "slideup", "slidedown",
	"circlecrop", "rectcrop", "distance", "radial",
}

// ValidScaleAlgorithm reports whether name is a known swscale flag.
func ValidScaleAlgorithm(name string) bool {
	return slices.Contains(ScaleAlgorithms, name)
}

// ValidTransition reports whether name is an offered xfade transition.
func ValidTransition(name string) bool {
	return slices.Contains(Transitions, name)
}

// ScalePercent scales both axes by factor, rounding down to even dimensions
// so yuv420p encoders accept the result.
func ScalePercent(factor float64, algorithm string) string {
	f := FormatNumber(factor)
	return fmt.Sprintf("scale=trunc(iw*%s/2)*2:trunc(ih*%s/2)*2:flags=%s", f, f, algorithm)
}

// ScaleTo scales to width x height. A zero axis keeps the aspect ratio (-2).
func ScaleTo(width, height int, algorithm string) string {
	return fmt.Sprintf("scale=%s:%s:flags=%s", axis(width), axis(height), algorithm)
}

func axis(v int) string {
	if v <= 0 {
		return "-2"
	}
	return strconv.Itoa(v)
}

// FitPad scales into width x height keeping aspect ratio and pads the rest.
func FitPad(width, height int) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		width, height, width, height,
	)
}

// CropRect is a crop rectangle in pixels.
type CropRect struct {
	Width  int
	Height int
	X      int
	Y      int
}

// String renders the rectangle as w:h:x:y.
func (r CropRect) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", r.Width, r.Height, r.X, r.Y)
}

// Filter renders the crop filter.
func (r CropRect) Filter() string {
	return "crop=" + r.String()
}

// Fits reports whether the rectangle lies inside a width x height frame.
func (r CropRect) Fits(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.Width > 0 && r.Height > 0 &&
		r.X+r.Width <= width && r.Y+r.Height <= height
}

// CenteredCrop crops width x height from the middle of the frame.
func CenteredCrop(width, height int) string {
	return fmt.Sprintf("crop=%d:%d:(iw-%d)/2:(ih-%d)/2", width, height, width, height)
}

var cropPattern = regexp.MustCompile(`crop=(\d+):(\d+):(\d+):(\d+)`)

// ParseCropRect parses "w:h:x:y" (optionally prefixed with "crop=").
func ParseCropRect(value string) (CropRect, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "crop=")
	parts := strings.Split(value, ":")
	if len(parts) != 4 {
		return CropRect{}, fmt.Errorf("crop %q: expected w:h:x:y", value)
	}
	nums := make([]int, 4)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return CropRect{}, fmt.Errorf("crop %q: invalid number %q", value, part)
		}
		nums[i] = n
	}
	if nums[0] == 0 || nums[1] == 0 {
		return CropRect{}, fmt.Errorf("crop %q: width and height must be positive", value)
	}
	return CropRect{Width: nums[0], Height: nums[1], X: nums[2], Y: nums[3]}, nil
}

// CropDetect renders the cropdetect filter used by the detection pass.
func CropDetect(limit int) string {
	return fmt.Sprintf("cropdetect=limit=%d:round=2:reset=0", limit)
}

// ParseCropDetect returns the last crop suggestion in cropdetect log output.
func ParseCropDetect(output string) (CropRect, bool) {
	matches := cropPattern.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return CropRect{}, false
	}
	last := matches[len(matches)-1]
	w, _ := strconv.Atoi(last[1])
	h, _ := strconv.Atoi(last[2])
	x, _ := strconv.Atoi(last[3])
	y, _ := strconv.Atoi(last[4])
	if w <= 0 || h <= 0 {
		return CropRect{}, false
	}
	return CropRect{Width: w, Height: h, X: x, Y: y}, true
}

// Noise renders temporal noise across all planes. Zero strength returns "".
func Noise(strength int) string {
	if strength <= 0 {
		return ""
	}
	return fmt.Sprintf("noise=alls=%d:allf=t", strength)
}

// Rotations lists the accepted clockwise rotations in degrees.
var Rotations = []int{90, 180, 270, -90}

// Transpose maps a clockwise rotation to a transpose chain.
func Transpose(degrees int) (string, error) {
	switch degrees {
	case 90:
		return "transpose=1", nil
	case 180:
		return "transpose=1,transpose=1", nil
	case 270, -90:
		return "transpose=2", nil
	default:
		return "", fmt.Errorf("rotation %d: must be one of 90, 180, 270, -90", degrees)
	}
}

// Subtitles renders the subtitles burn-in filter for path.
func Subtitles(path, forceStyle string) string {
	filter := "subtitles=filename=" + EscapeFilterArg(path)
	if strings.TrimSpace(forceStyle) != "" {
		filter += ":force_style=" + EscapeFilterArg(forceStyle)
	}
	return filter
}

// FPS renders the fps filter.
func FPS(rate float64) string {
	return "fps=" + FormatNumber(rate)
}

// XFade renders an xfade transition between two labelled video streams.
func XFade(transition string, duration, offset float64) string {
	return fmt.Sprintf("xfade=transition=%s:duration=%s:offset=%s", transition, FormatNumber(duration), FormatNumber(offset))
}

// ACrossFade renders an audio crossfade of duration seconds.
func ACrossFade(duration float64) string {
	return "acrossfade=d=" + FormatNumber(duration)
}

// PaletteGraph builds a two-pass-in-one GIF graph for input 0. prefix is an
// optional filter chain (fps/scale) applied before the palette split. The
// result is labelled [gif].
func PaletteGraph(prefix string) string {
	head := "[0:v]"
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		head += prefix + ","
	}
	return head + "split[pa][pb];[pa]palettegen=stats_mode=diff[pal];" +
		"[pb][pal]paletteuse=dither=bayer:bayer_scale=5:diff_mode=rectangle[gif]"
}

// EscapeFilterArg escapes a value for use as a filter option inside a filter
// graph: first option-level escaping, then graph-level escaping.
func EscapeFilterArg(value string) string {
	option := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`).Replace(value)
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`).Replace(option)
}

// FormatNumber renders a float without trailing zeros ("0.5", "2", "1.25").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
