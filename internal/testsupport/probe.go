package testsupport

import "fmt"

// ProbeJSON renders ffprobe -show_format -show_streams output for a clip with
// one H.264 video stream and, optionally, one AAC audio stream.
func ProbeJSON(width, height int, duration float64, withAudio bool) string {
	audio := ""
	if withAudio {
		audio = `,
    {"index": 1, "codec_type": "audio", "codec_name": "aac", "sample_rate": "48000", "channels": 2, "channel_layout": "stereo", "duration": "` + fmt.Sprintf("%.3f", duration) + `"}`
	}
	return fmt.Sprintf(`{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264", "width": %d, "height": %d, "pix_fmt": "yuv420p", "r_frame_rate": "30/1", "avg_frame_rate": "30/1", "duration": "%.3f"}%s
  ],
  "format": {"filename": "clip.mp4", "format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "%.3f", "size": "1048576", "bit_rate": "800000", "nb_streams": %d}
}`, width, height, duration, audio, duration, streamCount(withAudio))
}

func streamCount(withAudio bool) int {
	if withAudio {
		return 2
	}
	return 1
}
