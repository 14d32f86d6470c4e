package render

import (
	"math"
	"math/rand"
)

// Overlays lists the supported overlay effect identifiers. "none" disables
// overlay processing.
var Overlays = []string{
	"none",
	"film_grain",
	"vignette_pulse",
	"scan_line",
	"color_wash",
	"chromatic_aberration",
	"border_frame",
}

// Overlay applies a post-processing effect on top of rendered frames. Like
// Renderer, an instance belongs to exactly one goroutine.
type Overlay struct {
	w, h int
}

// NewOverlay creates an overlay applier for the given frame size.
func NewOverlay(width, height int) *Overlay {
	return &Overlay{w: width, h: height}
}

// Apply runs the named effect over the frame in place and returns it.
// Unknown effects (and "none") leave the frame untouched.
func (o *Overlay) Apply(frame []byte, effect string, t float64) []byte {
	switch effect {
	case "film_grain":
		return o.filmGrain(frame, t)
	case "vignette_pulse":
		return o.vignettePulse(frame, t)
	case "scan_line":
		return o.scanLine(frame, t)
	case "color_wash":
		return o.colorWash(frame, t)
	case "chromatic_aberration":
		return o.chromaticAberration(frame, t)
	case "border_frame":
		return o.borderFrame(frame, t)
	default:
		return frame
	}
}

// filmGrain adds per-pixel noise. The generator is seeded from t so the
// grain is deterministic per frame time.
func (o *Overlay) filmGrain(frame []byte, t float64) []byte {
	rng := rand.New(rand.NewSource(int64(t * 1000)))
	for i := range frame {
		frame[i] = clamp8(float64(frame[i]) + float64(rng.Intn(31)-15))
	}
	return frame
}

func (o *Overlay) vignettePulse(frame []byte, t float64) []byte {
	cx := float64(o.w) / 2
	cy := float64(o.h) / 2
	maxDist := math.Hypot(cx, cy)
	strength := 0.5 + 0.3*math.Sin(t*1.5)

	i := 0
	for y := 0; y < o.h; y++ {
		dy := float64(y) - cy
		for x := 0; x < o.w; x++ {
			dx := float64(x) - cx
			d := math.Hypot(dx, dy) / maxDist
			vig := 1 - math.Min(d*d*strength*2, 1)
			frame[i] = uint8(float64(frame[i]) * vig)
			frame[i+1] = uint8(float64(frame[i+1]) * vig)
			frame[i+2] = uint8(float64(frame[i+2]) * vig)
			i += BytesPerPixel
		}
	}
	return frame
}

// scanLine darkens every fourth row, the phase scrolling with time.
func (o *Overlay) scanLine(frame []byte, t float64) []byte {
	offset := int(t*60) % 4
	stride := o.w * BytesPerPixel
	for y := offset; y < o.h; y += 4 {
		row := frame[y*stride : (y+1)*stride]
		for i := range row {
			row[i] = uint8(float64(row[i]) * 0.7)
		}
	}
	return frame
}

func (o *Overlay) colorWash(frame []byte, t float64) []byte {
	alpha := 0.25 + 0.1*math.Sin(t*0.5)
	stride := o.w * BytesPerPixel

	// The wash only varies horizontally, so compute one row of offsets
	washR := make([]float64, o.w)
	washG := make([]float64, o.w)
	washB := make([]float64, o.w)
	for x := 0; x < o.w; x++ {
		phase := math.Mod(float64(x)/float64(o.w)+t*0.15, 1.0) * 2 * math.Pi
		washR[x] = (math.Sin(phase+4)*25 + 0) * alpha
		washG[x] = (math.Sin(phase+2) * 20) * alpha
		washB[x] = (math.Sin(phase)*30 + 10) * alpha
	}

	for y := 0; y < o.h; y++ {
		i := y * stride
		for x := 0; x < o.w; x++ {
			frame[i] = clamp8(float64(frame[i]) + washR[x])
			frame[i+1] = clamp8(float64(frame[i+1]) + washG[x])
			frame[i+2] = clamp8(float64(frame[i+2]) + washB[x])
			i += BytesPerPixel
		}
	}
	return frame
}

// chromaticAberration shifts the red channel right and blue channel left by
// a few oscillating pixels.
func (o *Overlay) chromaticAberration(frame []byte, t float64) []byte {
	shift := int(3 + 2*math.Sin(t*2))
	if shift <= 0 || shift >= o.w {
		return frame
	}
	stride := o.w * BytesPerPixel
	for y := 0; y < o.h; y++ {
		row := frame[y*stride : (y+1)*stride]
		// red right: walk backwards so the source pixel is still intact
		for x := o.w - 1; x >= shift; x-- {
			row[x*BytesPerPixel] = row[(x-shift)*BytesPerPixel]
		}
		// blue left
		for x := 0; x < o.w-shift; x++ {
			row[x*BytesPerPixel+2] = row[(x+shift)*BytesPerPixel+2]
		}
	}
	return frame
}

func (o *Overlay) borderFrame(frame []byte, t float64) []byte {
	border := max(5, int(float64(min(o.w, o.h))*0.02))
	alpha := 0.6 + 0.2*math.Sin(t*1.5)

	blendWhite := func(i int) {
		frame[i] = clamp8(float64(frame[i])*(1-alpha) + alpha*255)
	}

	stride := o.w * BytesPerPixel
	for y := 0; y < o.h; y++ {
		onEdgeRow := y < border || y >= o.h-border
		for x := 0; x < o.w; x++ {
			if !onEdgeRow && x >= border && x < o.w-border {
				x = o.w - border - 1 // skip interior span
				continue
			}
			i := y*stride + x*BytesPerPixel
			blendWhite(i)
			blendWhite(i + 1)
			blendWhite(i + 2)
		}
	}
	return frame
}
