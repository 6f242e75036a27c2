package ffmpeg

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// Kind classifies what a container carries.
type Kind int

const (
	KindVideo Kind = iota
	KindAudio
	KindImage
)

// Format describes per-container defaults used by convert.
type Format struct {
	Name         string
	Muxer        string
	Kind         Kind
	VideoCodec   string
	AudioCodec   string
	AudioBitrate string
	Faststart    bool
}

var formats = map[string]Format{
	"mp4":  {Name: "mp4", Muxer: "mp4", Kind: KindVideo, Faststart: true},
	"m4v":  {Name: "m4v", Muxer: "mp4", Kind: KindVideo, Faststart: true},
	"mov":  {Name: "mov", Muxer: "mov", Kind: KindVideo, Faststart: true},
	"mkv":  {Name: "mkv", Muxer: "matroska", Kind: KindVideo},
	"ts":   {Name: "ts", Muxer: "mpegts", Kind: KindVideo},
	"webm": {Name: "webm", Muxer: "webm", Kind: KindVideo, VideoCodec: "libvpx-vp9", AudioCodec: "libopus", AudioBitrate: "128k"},
	"avi":  {Name: "avi", Muxer: "avi", Kind: KindVideo, VideoCodec: "libxvid", AudioCodec: "libmp3lame"},
	"gif":  {Name: "gif", Muxer: "gif", Kind: KindImage},
	"mp3":  {Name: "mp3", Muxer: "mp3", Kind: KindAudio, AudioCodec: "libmp3lame", AudioBitrate: "128k"},
	"m4a":  {Name: "m4a", Muxer: "ipod", Kind: KindAudio, AudioCodec: "aac", AudioBitrate: "192k"},
	"aac":  {Name: "aac", Muxer: "adts", Kind: KindAudio, AudioCodec: "aac", AudioBitrate: "192k"},
	"flac": {Name: "flac", Muxer: "flac", Kind: KindAudio, AudioCodec: "flac"},
	"wav":  {Name: "wav", Muxer: "wav", Kind: KindAudio, AudioCodec: "pcm_s16le"},
	"ogg":  {Name: "ogg", Muxer: "ogg", Kind: KindAudio, AudioCodec: "libvorbis", AudioBitrate: "192k"},
	"opus": {Name: "opus", Muxer: "opus", Kind: KindAudio, AudioCodec: "libopus", AudioBitrate: "128k"},
}

// LookupFormat returns the table entry for name (case-insensitive, leading
// dot ignored).
func LookupFormat(name string) (Format, bool) {
	f, ok := formats[normalizeFormat(name)]
	return f, ok
}

// FormatFromPath derives the container from an output path's extension.
func FormatFromPath(path string) string {
	return normalizeFormat(filepath.Ext(path))
}

// SupportedFormats lists the known container names in sorted order.
func SupportedFormats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeFormat(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
}

var crfCodecs = []string{"libx264", "libx265", "libvpx", "libvpx-vp9", "libaom-av1", "libsvtav1", "h264", "hevc"}

// SupportsCRF reports whether codec accepts -crf. An empty codec means the
// container default (libx264 for mp4/mkv) and qualifies.
func SupportsCRF(codec string) bool {
	codec = strings.ToLower(strings.TrimSpace(codec))
	return codec == "" || slices.Contains(crfCodecs, codec)
}

// SupportsX26xPreset reports whether codec takes an x264/x265 -preset.
func SupportsX26xPreset(codec string) bool {
	switch strings.ToLower(strings.TrimSpace(codec)) {
	case "", "libx264", "libx265", "h264", "hevc":
		return true
	default:
		return false
	}
}

// EncoderPresets lists the x264/x265 speed presets.
var EncoderPresets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow", "placebo",
}

// ValidEncoderPreset reports whether name is an x264/x265 speed preset.
func ValidEncoderPreset(name string) bool {
	return slices.Contains(EncoderPresets, name)
}

var audioEncoders = map[string]string{
	"copy":   "copy",
	"mp3":    "libmp3lame",
	"aac":    "aac",
	"m4a":    "aac",
	"flac":   "flac",
	"opus":   "libopus",
	"ogg":    "libvorbis",
	"vorbis": "libvorbis",
	"wav":    "pcm_s16le",
	"ac3":    "ac3",
}

// AudioEncoder maps an audio format name to its encoder. Unknown names are
// assumed to already be encoder names.
func AudioEncoder(format string) string {
	format = normalizeFormat(format)
	if enc, ok := audioEncoders[format]; ok {
		return enc
	}
	return format
}
