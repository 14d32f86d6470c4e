package ffmpeg

import (
	"fmt"
	"strconv"
)

// BuildArgs assembles the argument list for an encoding run. The input is
// always raw interleaved rgb24 frames on stdin at the render resolution.
func BuildArgs(p Params) []string {
	args := []string{
		"-y", "-hide_banner",
		"-f", "rawvideo",
		"-vcodec", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", p.RenderWidth, p.RenderHeight),
		"-r", strconv.Itoa(p.FPS),
		"-i", "pipe:0",
	}

	if p.Upscale() {
		args = append(args, "-vf",
			fmt.Sprintf("scale=%d:%d:flags=lanczos", p.OutputWidth, p.OutputHeight))
	}

	args = append(args, encoderArgs(p.Encoder.Name)...)

	bitrate := fmt.Sprintf("%dM", p.BitrateMbps)
	maxrate := fmt.Sprintf("%dM", int(float64(p.BitrateMbps)*1.2))
	bufsize := fmt.Sprintf("%dM", p.BitrateMbps*2)
	args = append(args,
		"-b:v", bitrate,
		"-maxrate", maxrate,
		"-bufsize", bufsize,
		"-pix_fmt", "yuv420p",
	)

	// faststart only makes sense for mp4 playback over the network
	if p.Container == "mp4" {
		args = append(args, "-movflags", "+faststart")
	}

	return append(args, p.OutputPath)
}

// encoderArgs returns the codec selection with the quality/speed tradeoff
// appropriate for a full-length encode (unlike the minimal presets the
// prober uses for its one-frame test).
func encoderArgs(name string) []string {
	switch name {
	case "h264_nvenc":
		return []string{"-c:v", "h264_nvenc", "-preset", "p4", "-rc", "vbr"}
	case "h264_amf":
		return []string{"-c:v", "h264_amf", "-quality", "balanced"}
	case "h264_qsv":
		return []string{"-c:v", "h264_qsv", "-preset", "medium"}
	default:
		return []string{"-c:v", "libx264", "-preset", "medium"}
	}
}
