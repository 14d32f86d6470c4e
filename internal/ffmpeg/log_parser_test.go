package ffmpeg

import (
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantLevel string
		wantMsg   string
	}{
		{
			name:      "plain level prefix",
			line:      "[error] muxer does not support non seekable output",
			wantLevel: "error",
			wantMsg:   "muxer does not support non seekable output",
		},
		{
			name:      "component then level",
			line:      "[libx264 @ 0x55d] [info] frame I:1 Avg QP:20.00",
			wantLevel: "info",
			wantMsg:   "[libx264 @ 0x55d] frame I:1 Avg QP:20.00",
		},
		{
			name:      "component without level",
			line:      "[rawvideo @ 0x7f] Estimating duration from bitrate",
			wantLevel: "info",
			wantMsg:   "[rawvideo @ 0x7f] Estimating duration from bitrate",
		},
		{
			name:      "no bracket",
			line:      "frame= 150 fps= 48",
			wantLevel: "info",
			wantMsg:   "frame= 150 fps= 48",
		},
		{
			name:      "warning",
			line:      "[warning] deprecated pixel format used",
			wantLevel: "warning",
			wantMsg:   "deprecated pixel format used",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, msg := ParseLogLevel(tt.line)
			if level != tt.wantLevel {
				t.Errorf("level = %q, want %q", level, tt.wantLevel)
			}
			if msg != tt.wantMsg {
				t.Errorf("msg = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestLevelToSlog(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"fatal", slog.LevelError},
		{"error", slog.LevelError},
		{"warning", slog.LevelWarn},
		{"info", slog.LevelInfo},
		{"verbose", slog.LevelDebug},
		{"trace", slog.LevelDebug},
	}

	for _, tt := range tests {
		if got := LevelToSlog(tt.level); got != tt.want {
			t.Errorf("LevelToSlog(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
