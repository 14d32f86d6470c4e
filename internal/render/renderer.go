package render

import (
	"math"

	"github.com/rzstudio/abstractgen/internal/palette"
)

// Patterns lists the supported background pattern identifiers.
var Patterns = []string{
	"gradient_flow",
	"plasma_field",
	"wave_interference",
	"spiral_vortex",
	"diamond_grid",
	"stripe_cascade",
	"ripple_pond",
	"chromatic_pulse",
}

// DefaultPattern is used when an unknown pattern identifier is requested.
const DefaultPattern = "gradient_flow"

// BytesPerPixel is the size of one interleaved RGB pixel.
const BytesPerPixel = 3

// Renderer synthesizes RGB24 frames for one resolution and palette.
//
// A Renderer precomputes resolution-dependent coordinate tables that are
// mutated-free but not built for sharing; give each goroutine its own
// instance.
type Renderer struct {
	w, h   int
	colors [palette.PaletteSize]palette.Color

	// precomputed per-axis normalized coordinates
	xs, ys []float64
	cx, cy float64

	patterns map[string]func(dst []byte, t float64)
}

// NewRenderer creates a renderer for the given frame size and 4-color palette.
func NewRenderer(width, height int, colors [palette.PaletteSize]palette.Color) *Renderer {
	r := &Renderer{
		w:      width,
		h:      height,
		colors: colors,
		xs:     make([]float64, width),
		ys:     make([]float64, height),
		cx:     float64(width) / 2.0,
		cy:     float64(height) / 2.0,
	}
	for x := 0; x < width; x++ {
		r.xs[x] = float64(x)
	}
	for y := 0; y < height; y++ {
		r.ys[y] = float64(y)
	}
	r.patterns = map[string]func([]byte, float64){
		"gradient_flow":     r.gradientFlow,
		"plasma_field":      r.plasmaField,
		"wave_interference": r.waveInterference,
		"spiral_vortex":     r.spiralVortex,
		"diamond_grid":      r.diamondGrid,
		"stripe_cascade":    r.stripeCascade,
		"ripple_pond":       r.ripplePond,
		"chromatic_pulse":   r.chromaticPulse,
	}
	return r
}

// FrameSize returns the byte length of one rendered frame.
func (r *Renderer) FrameSize() int {
	return r.w * r.h * BytesPerPixel
}

// RenderFrame synthesizes the frame for pattern at time t (seconds).
// Unknown patterns fall back to DefaultPattern. The returned buffer is
// freshly allocated and owned by the caller.
func (r *Renderer) RenderFrame(pattern string, t float64) []byte {
	dst := make([]byte, r.FrameSize())
	fn, ok := r.patterns[pattern]
	if !ok {
		fn = r.patterns[DefaultPattern]
	}
	fn(dst, t)
	return dst
}

// blend maps a 0..1 scalar through the 4-color palette: the value selects a
// pair of adjacent palette colors and interpolates between them.
func (r *Renderer) blend(v float64) (uint8, uint8, uint8) {
	scaled := v * 3.99
	if scaled < 0 {
		scaled = 0
	} else if scaled > 3.99 {
		scaled = 3.99
	}
	idx := int(scaled)
	frac := scaled - float64(idx)
	c1 := r.colors[idx%palette.PaletteSize]
	c2 := r.colors[(idx+1)%palette.PaletteSize]
	return lerp8(c1.R, c2.R, frac), lerp8(c1.G, c2.G, frac), lerp8(c1.B, c2.B, frac)
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(float64(a)*(1-f) + float64(b)*f)
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func (r *Renderer) gradientFlow(dst []byte, t float64) {
	angle := t * 0.5
	dx := math.Cos(angle)
	dy := math.Sin(angle)

	// Normalize the projected gradient over the frame extents
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, corner := range [][2]float64{
		{0, 0}, {float64(r.w - 1), 0}, {0, float64(r.h - 1)}, {float64(r.w - 1), float64(r.h - 1)},
	} {
		v := corner[0]*dx + corner[1]*dy
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	span := maxV - minV + 1e-6

	i := 0
	for y := 0; y < r.h; y++ {
		gy := r.ys[y] * dy
		for x := 0; x < r.w; x++ {
			grad := (r.xs[x]*dx + gy - minV) / span
			phase := math.Mod(grad+t*0.3, 1.0)
			dst[i], dst[i+1], dst[i+2] = r.blend(phase)
			i += BytesPerPixel
		}
	}
}

func (r *Renderer) plasmaField(dst []byte, t float64) {
	i := 0
	for y := 0; y < r.h; y++ {
		ny := r.ys[y] / float64(r.h) * 6
		v2 := math.Sin(ny + t*0.7)
		for x := 0; x < r.w; x++ {
			nx := r.xs[x] / float64(r.w) * 6
			v1 := math.Sin(nx + t)
			v3 := math.Sin(nx + ny + t*1.3)
			v4 := math.Sin(math.Hypot(nx-3, ny-3) + t)
			val := ((v1+v2+v3+v4)/4.0 + 1) / 2.0
			dst[i], dst[i+1], dst[i+2] = r.blend(val)
			i += BytesPerPixel
		}
	}
}

func (r *Renderer) waveInterference(dst []byte, t float64) {
	i := 0
	for y := 0; y < r.h; y++ {
		ny := r.ys[y] / float64(r.h) * 8
		sy := math.Sin(ny*2 + t*2)
		for x := 0; x < r.w; x++ {
			nx := r.xs[x] / float64(r.w) * 8
			val := (math.Sin(nx*2+t*3) + sy +
				math.Sin(nx+ny+t*1.5) + math.Sin(math.Hypot(nx, ny)*3+t*2)) / 4.0
			dst[i], dst[i+1], dst[i+2] = r.blend((val + 1) / 2.0)
			i += BytesPerPixel
		}
	}
}

func (r *Renderer) spiralVortex(dst []byte, t float64) {
	glowScale := float64(r.w) * 100
	i := 0
	for y := 0; y < r.h; y++ {
		dy := r.ys[y] - r.cy
		for x := 0; x < r.w; x++ {
			dx := r.xs[x] - r.cx
			dist := math.Hypot(dx, dy)
			angle := math.Atan2(dy, dx)

			spiral := frac((angle + dist*0.02 - t*2) / (2 * math.Pi))
			cr, cg, cb := r.blend(spiral)

			glow := math.Exp(-dist*dist/glowScale) * 60
			dst[i] = clamp8(float64(cr) + glow)
			dst[i+1] = clamp8(float64(cg) + glow)
			dst[i+2] = clamp8(float64(cb) + glow)
			i += BytesPerPixel
		}
	}
}

func (r *Renderer) diamondGrid(dst []byte, t float64) {
	const size = 80.0
	offset := t * 40

	i := 0
	for y := 0; y < r.h; y++ {
		py := r.ys[y] + offset*0.7
		dy := math.Mod(py, size) - size/2
		gy := int(py / size)
		for x := 0; x < r.w; x++ {
			px := r.xs[x] + offset
			dx := math.Mod(px, size) - size/2
			diamond := (math.Abs(dx) + math.Abs(dy)) / (size * 0.5)
			if diamond > 1 {
				diamond = 1
			}
			gx := int(px / size)
			colorIdx := (gx + gy) % palette.PaletteSize

			c1 := r.colors[colorIdx]
			c2 := r.colors[(colorIdx+1)%palette.PaletteSize]
			dst[i] = lerp8(c1.R, c2.R, diamond)
			dst[i+1] = lerp8(c1.G, c2.G, diamond)
			dst[i+2] = lerp8(c1.B, c2.B, diamond)
			i += BytesPerPixel
		}
	}
}

func (r *Renderer) stripeCascade(dst []byte, t float64) {
	const stripeW = 60.0
	i := 0
	for y := 0; y < r.h; y++ {
		base := r.ys[y]*0.7 + t*100
		for x := 0; x < r.w; x++ {
			diag := r.xs[x]*0.7 + base
			stripeIdx := int(diag/stripeW) % palette.PaletteSize
			f := frac(diag / stripeW)

			edge := math.Min(f*5, 1)
			if f > 0.8 {
				edge = math.Min((1-f)*5, 1)
			}

			c1 := r.colors[stripeIdx]
			c2 := r.colors[(stripeIdx+1)%palette.PaletteSize]
			dst[i] = lerp8(c2.R, c1.R, edge)
			dst[i+1] = lerp8(c2.G, c1.G, edge)
			dst[i+2] = lerp8(c2.B, c1.B, edge)
			i += BytesPerPixel
		}
	}
}

func (r *Renderer) ripplePond(dst []byte, t float64) {
	sources := [4][3]float64{
		{r.cx, r.cy, 0},
		{float64(r.w) * 0.25, float64(r.h) * 0.3, 1.5},
		{float64(r.w) * 0.75, float64(r.h) * 0.7, 3.0},
		{float64(r.w) * 0.6, float64(r.h) * 0.2, 4.5},
	}

	i := 0
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			var val float64
			for _, s := range sources {
				d := math.Hypot(r.xs[x]-s[0], r.ys[y]-s[1])
				val += math.Sin(d*0.05-t*4+s[2]) * math.Exp(-d*0.003)
			}
			dst[i], dst[i+1], dst[i+2] = r.blend((val/4 + 1) / 2.0)
			i += BytesPerPixel
		}
	}
}

func (r *Renderer) chromaticPulse(dst []byte, t float64) {
	norm := float64(max(r.w, r.h))
	i := 0
	for y := 0; y < r.h; y++ {
		dy := (r.ys[y] - r.cy) / norm
		for x := 0; x < r.w; x++ {
			dx := (r.xs[x] - r.cx) / norm
			dist := math.Hypot(dx, dy)

			rings := math.Sin(dist*30-t*3)*0.5 + 0.5
			phase := math.Mod(dist*8+t*0.5, 4) / 4.0

			cr, cg, cb := r.blend(phase)
			gain := 0.6 + rings*0.4
			dst[i] = clamp8(float64(cr)*gain + 15)
			dst[i+1] = clamp8(float64(cg)*gain + 15)
			dst[i+2] = clamp8(float64(cb)*gain + 15)
			i += BytesPerPixel
		}
	}
}

func frac(v float64) float64 {
	return v - math.Floor(v)
}
