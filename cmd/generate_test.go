package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGeneratePreviewWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "preview.png")

	c := CreateGenerateCmd()
	c.SetArgs([]string{
		"--preview", out,
		"--width", "320", "--height", "180",
		"--colors", "#101820,#2d3a4f,#5c7a99,#a3c6e8",
	})
	if err := c.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("preview output is not a PNG")
	}
}

func TestWritePreviewRejectsBadPalette(t *testing.T) {
	out := filepath.Join(t.TempDir(), "preview.png")
	if err := writePreview(out, "plasma_field", "none", []string{"#123456"}, 320, 180); err == nil {
		t.Fatal("expected palette size error")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("file created despite invalid palette")
	}
}
