package presets

// builtins are always available and can be shadowed, but not removed, by
// entries in the user file.
var builtins = map[string]Preset{
	"compress_web": {
		Format:       "mp4",
		VideoCodec:   "libx264",
		AudioCodec:   "aac",
		Quality:      "28",
		AudioBitrate: "128k",
		Description:  "Compress video for web sharing (good balance of size and quality).",
	},
	"audio_only_mp3": {
		Format:       "mp3",
		AudioCodec:   "libmp3lame",
		AudioBitrate: "192k",
		Description:  "Extract audio to MP3 format (high quality).",
	},
	"gif_optimized": {
		Format:      "gif",
		Description: "Create optimized GIF (better quality, smaller size, may be slower).",
	},
	"resize_half": {
		ResizePercentage: 0.5,
		Description:      "Resize video to 50% of original resolution.",
	},
	"hq_h264_mp4": {
		Format:       "mp4",
		VideoCodec:   "libx264",
		AudioCodec:   "aac",
		Quality:      "22",
		AudioBitrate: "192k",
		Description:  "High quality H.264 MP4 (larger file size).",
	},
	"mobile_friendly_mp4": {
		Format:       "mp4",
		VideoCodec:   "libx264",
		AudioCodec:   "aac",
		Quality:      "32",
		AudioBitrate: "96k",
		Description:  "Mobile-friendly MP4 (smaller file size, decent quality).",
	},
	"webm_social_media": {
		Format:       "webm",
		VideoCodec:   "libvpx-vp9",
		AudioCodec:   "libopus",
		Quality:      "30",
		AudioBitrate: "128k",
		Description:  "WebM for social sharing and YouTube.",
	},
}

// Builtin returns the built-in preset called name.
func Builtin(name string) (Preset, bool) {
	p, ok := builtins[name]
	return p, ok
}

// IsBuiltin reports whether name is one of the built-in presets.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}
