package render

import (
	"bytes"
	"testing"

	"github.com/rzstudio/abstractgen/internal/palette"
)

var testPalette = [palette.PaletteSize]palette.Color{
	{R: 255, G: 0, B: 0},
	{R: 0, G: 255, B: 0},
	{R: 0, G: 0, B: 255},
	{R: 255, G: 255, B: 255},
}

func TestRenderFrameSize(t *testing.T) {
	r := NewRenderer(64, 36, testPalette)
	for _, pattern := range Patterns {
		frame := r.RenderFrame(pattern, 1.25)
		if len(frame) != 64*36*BytesPerPixel {
			t.Errorf("pattern %q: frame size = %d, want %d", pattern, len(frame), 64*36*BytesPerPixel)
		}
	}
}

func TestRenderFrameDeterministic(t *testing.T) {
	a := NewRenderer(48, 32, testPalette)
	b := NewRenderer(48, 32, testPalette)
	for _, pattern := range Patterns {
		fa := a.RenderFrame(pattern, 2.5)
		fb := b.RenderFrame(pattern, 2.5)
		if !bytes.Equal(fa, fb) {
			t.Errorf("pattern %q: same t produced different frames", pattern)
		}
	}
}

func TestRenderFrameVariesWithTime(t *testing.T) {
	r := NewRenderer(48, 32, testPalette)
	f0 := r.RenderFrame("plasma_field", 0)
	f1 := r.RenderFrame("plasma_field", 3.7)
	if bytes.Equal(f0, f1) {
		t.Error("frames at different t are identical")
	}
}

func TestUnknownPatternFallsBack(t *testing.T) {
	r := NewRenderer(32, 32, testPalette)
	unknown := r.RenderFrame("no-such-pattern", 1.0)
	fallback := r.RenderFrame(DefaultPattern, 1.0)
	if !bytes.Equal(unknown, fallback) {
		t.Error("unknown pattern did not fall back to the default")
	}
}

func TestOverlayPreservesSize(t *testing.T) {
	r := NewRenderer(40, 30, testPalette)
	o := NewOverlay(40, 30)
	for _, effect := range Overlays {
		frame := o.Apply(r.RenderFrame("plasma_field", 1.0), effect, 1.0)
		if len(frame) != 40*30*BytesPerPixel {
			t.Errorf("effect %q: frame size = %d", effect, len(frame))
		}
	}
}

func TestOverlayNoneIsIdentity(t *testing.T) {
	r := NewRenderer(40, 30, testPalette)
	o := NewOverlay(40, 30)
	original := r.RenderFrame("wave_interference", 0.5)
	copied := bytes.Clone(original)
	if !bytes.Equal(o.Apply(copied, "none", 0.5), original) {
		t.Error(`"none" overlay modified the frame`)
	}
}

func TestPreviewSize(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{1920, 1080, 480, 270},
		{1080, 1920, 270, 480},
		{320, 240, 320, 240},
		{480, 480, 480, 480},
		{3840, 2160, 480, 270},
	}
	for _, tt := range tests {
		w, h := PreviewSize(tt.w, tt.h)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("PreviewSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestPreviewFrame(t *testing.T) {
	frame, w, h := Preview("plasma_field", "vignette_pulse", testPalette, 1920, 1080, 1.0)
	if w != 480 || h != 270 {
		t.Fatalf("preview size = %dx%d, want 480x270", w, h)
	}
	if len(frame) != w*h*BytesPerPixel {
		t.Errorf("frame size = %d, want %d", len(frame), w*h*BytesPerPixel)
	}
}

func TestVignetteDarkensCorners(t *testing.T) {
	o := NewOverlay(32, 32)
	frame := make([]byte, 32*32*BytesPerPixel)
	for i := range frame {
		frame[i] = 200
	}
	out := o.Apply(frame, "vignette_pulse", 0)

	corner := out[0]
	center := out[(16*32+16)*BytesPerPixel]
	if corner >= center {
		t.Errorf("corner %d not darker than center %d", corner, center)
	}
}
