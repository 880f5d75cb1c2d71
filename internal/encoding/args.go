package encoding

import (
	"strconv"
)

// EncodeArgs returns the ffmpeg arguments that encode a frame sequence into a
// silent H.264 MP4.
func EncodeArgs(fps int, framePattern, out string, crf int) []string {
	return []string{
		"-y",
		"-framerate", strconv.Itoa(fps),
		"-i", framePattern,
		"-c:v", "libx264",
		"-profile:v", "high",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-crf", strconv.Itoa(crf),
		out,
	}
}

// MuxArgs returns the ffmpeg arguments that add the soundtrack to a silent
// video without re-encoding the picture.
func MuxArgs(silent, audio, out, bitrate string) []string {
	return []string{
		"-y",
		"-i", silent,
		"-i", audio,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", bitrate,
		"-shortest",
		"-movflags", "+faststart",
		out,
	}
}
