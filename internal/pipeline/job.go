package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rzstudio/abstractgen/internal/encoders"
	"github.com/rzstudio/abstractgen/internal/ffmpeg"
	"github.com/rzstudio/abstractgen/internal/palette"
	"github.com/rzstudio/abstractgen/internal/render"
)

// maxRenderHeight caps the internal render resolution. Synthesized patterns
// are mathematical, so rendering at 1080p and upscaling is visually
// identical to rendering at full size and roughly 4x faster for 4K output.
const maxRenderHeight = 1080

// Job declares one video to generate.
type Job struct {
	OutputPath string   `toml:"output_path" json:"output_path"`
	Pattern    string   `toml:"pattern" json:"pattern"`
	Overlay    string   `toml:"overlay" json:"overlay"`
	Colors     []string `toml:"colors" json:"colors"`
	Width      int      `toml:"width" json:"width"`
	Height     int      `toml:"height" json:"height"`
	FPS        int      `toml:"fps" json:"fps"`
	Duration   int      `toml:"duration" json:"duration"` // seconds
	Format     string   `toml:"format" json:"format"`     // "mp4" or "mov"
	Bitrate    int      `toml:"bitrate" json:"bitrate"`   // Mbps
}

// Normalize fills defaults and fixes the output extension to match the
// container, then validates. The returned Job is ready to run.
func (j Job) Normalize() (Job, error) {
	if j.Pattern == "" {
		j.Pattern = render.DefaultPattern
	}
	if j.Overlay == "" {
		j.Overlay = "none"
	}
	if j.Width == 0 && j.Height == 0 {
		j.Width, j.Height = 1920, 1080
	}
	if j.FPS == 0 {
		j.FPS = 30
	}
	if j.Duration == 0 {
		j.Duration = 10
	}
	if j.Format == "" {
		j.Format = "mp4"
	}
	if j.Bitrate == 0 {
		j.Bitrate = 20
	}

	if err := j.validate(); err != nil {
		return Job{}, err
	}

	ext := "." + j.Format
	if !strings.HasSuffix(strings.ToLower(j.OutputPath), ext) {
		base := j.OutputPath
		if cur := filepath.Ext(filepath.Base(base)); cur != "" {
			base = strings.TrimSuffix(base, cur)
		}
		j.OutputPath = base + ext
	}

	return j, nil
}

func (j Job) validate() error {
	if j.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if j.Width <= 0 || j.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", j.Width, j.Height)
	}
	if j.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", j.FPS)
	}
	if j.Duration <= 0 {
		return fmt.Errorf("invalid duration %ds", j.Duration)
	}
	if j.Format != "mp4" && j.Format != "mov" {
		return fmt.Errorf("unsupported format %q", j.Format)
	}
	if j.Bitrate <= 0 {
		return fmt.Errorf("invalid bitrate %dM", j.Bitrate)
	}
	if len(j.Colors) != palette.PaletteSize {
		return fmt.Errorf("expected %d colors, got %d", palette.PaletteSize, len(j.Colors))
	}
	if _, err := palette.ParsePalette(j.Colors); err != nil {
		return err
	}
	return nil
}

// TotalFrames is the number of frames the job produces.
func (j Job) TotalFrames() int {
	return j.FPS * j.Duration
}

// RenderSize returns the internal render resolution. Heights beyond the cap
// render at the cap with the width scaled to preserve aspect ratio, rounded
// up to an even number as H.264 requires.
func (j Job) RenderSize() (w, h int) {
	if j.Height <= maxRenderHeight {
		return j.Width, j.Height
	}
	h = maxRenderHeight
	w = j.Width * maxRenderHeight / j.Height
	w += w % 2
	return w, h
}

// EncodeParams maps the job onto an encoder invocation.
func (j Job) EncodeParams(cap encoders.Capability, ffmpegPath string) ffmpeg.Params {
	rw, rh := j.RenderSize()
	return ffmpeg.Params{
		FFmpegPath:   ffmpegPath,
		RenderWidth:  rw,
		RenderHeight: rh,
		OutputWidth:  j.Width,
		OutputHeight: j.Height,
		FPS:          j.FPS,
		BitrateMbps:  j.Bitrate,
		Encoder:      cap,
		Container:    j.Format,
		OutputPath:   j.OutputPath,
	}
}
