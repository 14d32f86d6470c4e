package pipeline

import (
	"strings"
	"testing"

	"github.com/rzstudio/abstractgen/internal/encoders"
)

var testColors = []string{"#1a2b3c", "#4d5e6f", "#708192", "#a3b4c5"}

func validJob() Job {
	return Job{
		OutputPath: "/tmp/video",
		Pattern:    "plasma_field",
		Overlay:    "none",
		Colors:     testColors,
		Width:      1920,
		Height:     1080,
		FPS:        30,
		Duration:   5,
		Format:     "mp4",
		Bitrate:    20,
	}
}

func TestJobNormalizeDefaults(t *testing.T) {
	j, err := Job{OutputPath: "/tmp/v", Colors: testColors}.Normalize()
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if j.Width != 1920 || j.Height != 1080 {
		t.Errorf("default resolution = %dx%d", j.Width, j.Height)
	}
	if j.FPS != 30 || j.Duration != 10 || j.Bitrate != 20 {
		t.Errorf("defaults = fps %d, duration %d, bitrate %d", j.FPS, j.Duration, j.Bitrate)
	}
	if j.Format != "mp4" {
		t.Errorf("default format = %q", j.Format)
	}
}

func TestJobNormalizeExtension(t *testing.T) {
	tests := []struct {
		path   string
		format string
		want   string
	}{
		{"/tmp/video", "mp4", "/tmp/video.mp4"},
		{"/tmp/video.mp4", "mp4", "/tmp/video.mp4"},
		{"/tmp/video.avi", "mp4", "/tmp/video.mp4"},
		{"/tmp/video", "mov", "/tmp/video.mov"},
		{"/tmp/video.MP4", "mp4", "/tmp/video.MP4"},
	}

	for _, tt := range tests {
		j := validJob()
		j.OutputPath = tt.path
		j.Format = tt.format
		got, err := j.Normalize()
		if err != nil {
			t.Fatalf("Normalize(%q, %q) failed: %v", tt.path, tt.format, err)
		}
		if got.OutputPath != tt.want {
			t.Errorf("Normalize(%q, %q) path = %q, want %q", tt.path, tt.format, got.OutputPath, tt.want)
		}
	}
}

func TestJobValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Job)
	}{
		{"missing output", func(j *Job) { j.OutputPath = "" }},
		{"negative width", func(j *Job) { j.Width = -1 }},
		{"bad format", func(j *Job) { j.Format = "avi" }},
		{"wrong color count", func(j *Job) { j.Colors = testColors[:2] }},
		{"unparseable color", func(j *Job) { j.Colors = []string{"red", "#000000", "#000000", "#000000"} }},
		{"negative bitrate", func(j *Job) { j.Bitrate = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := validJob()
			tt.mutate(&j)
			if _, err := j.Normalize(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestJobTotalFrames(t *testing.T) {
	j := validJob()
	if got := j.TotalFrames(); got != 150 {
		t.Errorf("TotalFrames = %d, want 150", got)
	}
	j.FPS, j.Duration = 60, 10
	if got := j.TotalFrames(); got != 600 {
		t.Errorf("TotalFrames = %d, want 600", got)
	}
}

func TestJobRenderSizeCap(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{1920, 1080, 1920, 1080},
		{1280, 720, 1280, 720},
		{3840, 2160, 1920, 1080},
		{2560, 1440, 1920, 1080},
		{3839, 2160, 1920, 1080}, // width rounds up to even
	}

	for _, tt := range tests {
		j := validJob()
		j.Width, j.Height = tt.w, tt.h
		gotW, gotH := j.RenderSize()
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("RenderSize(%dx%d) = %dx%d, want %dx%d", tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
		}
		if gotW%2 != 0 {
			t.Errorf("RenderSize(%dx%d) width %d is odd", tt.w, tt.h, gotW)
		}
	}
}

func TestJobEncodeParams(t *testing.T) {
	j := validJob()
	j.Width, j.Height = 3840, 2160
	j, err := j.Normalize()
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	p := j.EncodeParams(encoders.Software, "/opt/ffmpeg")
	if p.RenderWidth != 1920 || p.RenderHeight != 1080 {
		t.Errorf("render size = %dx%d", p.RenderWidth, p.RenderHeight)
	}
	if p.OutputWidth != 3840 || p.OutputHeight != 2160 {
		t.Errorf("output size = %dx%d", p.OutputWidth, p.OutputHeight)
	}
	if !p.Upscale() {
		t.Error("expected upscale")
	}
	if p.FFmpegPath != "/opt/ffmpeg" {
		t.Errorf("ffmpeg path = %q", p.FFmpegPath)
	}
	if !strings.HasSuffix(p.OutputPath, ".mp4") {
		t.Errorf("output path = %q", p.OutputPath)
	}
}
