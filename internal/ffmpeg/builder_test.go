package ffmpeg

import (
	"strings"
	"testing"

	"github.com/rzstudio/abstractgen/internal/encoders"
)

func baseParams() Params {
	return Params{
		RenderWidth:  1920,
		RenderHeight: 1080,
		OutputWidth:  1920,
		OutputHeight: 1080,
		FPS:          30,
		BitrateMbps:  20,
		Encoder:      encoders.Software,
		Container:    "mp4",
		OutputPath:   "/tmp/out.mp4",
	}
}

func argString(p Params) string {
	return strings.Join(BuildArgs(p), " ")
}

func TestBuildArgsRawInput(t *testing.T) {
	got := argString(baseParams())

	for _, want := range []string{
		"-f rawvideo",
		"-pix_fmt rgb24",
		"-s 1920x1080",
		"-r 30",
		"-i pipe:0",
		"-pix_fmt yuv420p",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("args missing %q: %s", want, got)
		}
	}
	args := BuildArgs(baseParams())
	if args[len(args)-1] != "/tmp/out.mp4" {
		t.Errorf("output path must be last, got %q", args[len(args)-1])
	}
}

func TestBuildArgsBitrateDerivation(t *testing.T) {
	got := argString(baseParams())

	for _, want := range []string{"-b:v 20M", "-maxrate 24M", "-bufsize 40M"} {
		if !strings.Contains(got, want) {
			t.Errorf("args missing %q: %s", want, got)
		}
	}
}

func TestBuildArgsUpscaleFilter(t *testing.T) {
	p := baseParams()
	p.OutputWidth, p.OutputHeight = 3840, 2160

	got := argString(p)
	if !strings.Contains(got, "-vf scale=3840:2160:flags=lanczos") {
		t.Errorf("expected lanczos upscale filter: %s", got)
	}
}

func TestBuildArgsNoFilterWhenSameSize(t *testing.T) {
	got := argString(baseParams())
	if strings.Contains(got, "-vf") {
		t.Errorf("no filter expected when render equals output: %s", got)
	}
}

func TestBuildArgsContainerFlags(t *testing.T) {
	p := baseParams()
	if !strings.Contains(argString(p), "-movflags +faststart") {
		t.Error("mp4 output should carry +faststart")
	}

	p.Container = "mov"
	p.OutputPath = "/tmp/out.mov"
	if strings.Contains(argString(p), "faststart") {
		t.Error("mov output should not carry +faststart")
	}
}

func TestBuildArgsEncoderSelection(t *testing.T) {
	tests := []struct {
		encoder string
		want    []string
	}{
		{"h264_nvenc", []string{"-c:v h264_nvenc", "-preset p4", "-rc vbr"}},
		{"h264_amf", []string{"-c:v h264_amf", "-quality balanced"}},
		{"h264_qsv", []string{"-c:v h264_qsv", "-preset medium"}},
		{"libx264", []string{"-c:v libx264", "-preset medium"}},
	}

	for _, tt := range tests {
		t.Run(tt.encoder, func(t *testing.T) {
			p := baseParams()
			p.Encoder = encoders.Capability{Name: tt.encoder}
			got := argString(p)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("args missing %q: %s", want, got)
				}
			}
		})
	}
}
