package render

import (
	"github.com/rzstudio/abstractgen/internal/palette"
)

// PreviewMaxDim caps the long edge of preview frames.
const PreviewMaxDim = 480

// PreviewSize scales width x height down so the long edge fits PreviewMaxDim,
// preserving aspect. Sizes already within the cap pass through unchanged.
func PreviewSize(width, height int) (int, int) {
	long := max(width, height)
	if long <= PreviewMaxDim {
		return width, height
	}
	w := width * PreviewMaxDim / long
	h := height * PreviewMaxDim / long
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Preview synthesizes a single frame at preview size for quick pattern
// inspection without a full encode. Returns the RGB24 buffer and its
// dimensions.
func Preview(pattern, overlay string, colors [palette.PaletteSize]palette.Color, width, height int, t float64) ([]byte, int, int) {
	w, h := PreviewSize(width, height)
	r := NewRenderer(w, h, colors)
	o := NewOverlay(w, h)
	frame := o.Apply(r.RenderFrame(pattern, t), overlay, t)
	return frame, w, h
}
