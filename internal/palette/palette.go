// Package palette provides the 4-color palettes consumed by the frame
// renderer: hex parsing and color-harmony generation.
package palette

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// PaletteSize is the number of colors every render palette carries.
const PaletteSize = 4

// ParseHex converts a "#rrggbb" (or "rrggbb") string to a Color.
func ParseHex(hex string) (Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return Color{R: r, G: g, B: b}, nil
}

// ParsePalette converts exactly four hex strings into a render palette.
func ParsePalette(hex []string) ([PaletteSize]Color, error) {
	var out [PaletteSize]Color
	if len(hex) != PaletteSize {
		return out, fmt.Errorf("palette needs exactly %d colors, got %d", PaletteSize, len(hex))
	}
	for i, h := range hex {
		c, err := ParseHex(h)
		if err != nil {
			return out, err
		}
		out[i] = c
	}
	return out, nil
}

// Hex returns the "#rrggbb" form of the color.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HarmonyTypes lists the supported harmony identifiers.
var HarmonyTypes = []string{
	"random",
	"analogous",
	"complementary",
	"triadic",
	"split_complementary",
	"tetradic",
	"warm",
	"cool",
	"pastel",
	"neon",
	"dark_rich",
}

// Harmony generates four harmonious hex colors based on color theory.
// Unknown harmony names fall back to "random". The rng parameter allows
// deterministic generation in tests; pass nil for a default source.
func Harmony(harmony string, rng *rand.Rand) []string {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	baseHue := rng.Float64()

	var hues [PaletteSize]float64
	switch harmony {
	case "analogous":
		hues = spread(baseHue, 0.08)
	case "complementary":
		hues = [PaletteSize]float64{baseHue, frac(baseHue + 0.05), frac(baseHue + 0.5), frac(baseHue + 0.55)}
	case "triadic":
		hues = [PaletteSize]float64{baseHue, frac(baseHue + 0.33), frac(baseHue + 0.66), frac(baseHue + 0.15)}
	case "split_complementary":
		hues = [PaletteSize]float64{baseHue, frac(baseHue + 0.42), frac(baseHue + 0.58), frac(baseHue + 0.08)}
	case "tetradic":
		hues = [PaletteSize]float64{baseHue, frac(baseHue + 0.25), frac(baseHue + 0.5), frac(baseHue + 0.75)}
	case "warm":
		hues = spread(rng.Float64()*0.12, 0.04)
	case "cool":
		hues = spread(0.5+rng.Float64()*0.22, 0.04)
	case "pastel":
		return fixedLightness(rng, 0.82, 0.45)
	case "neon":
		return fixedLightness(rng, 0.55, 1.0)
	case "dark_rich":
		out := make([]string, PaletteSize)
		for i := range out {
			sat := 0.7 + rng.Float64()*0.3
			out[i] = hslColor(rng.Float64(), 0.3, sat).Hex()
		}
		return out
	default: // random
		for i := range hues {
			hues[i] = rng.Float64()
		}
	}

	out := make([]string, PaletteSize)
	for i, h := range hues {
		sat := 0.6 + rng.Float64()*0.4
		light := 0.35 + rng.Float64()*0.3
		out[i] = hslColor(h, light, sat).Hex()
	}
	return out
}

func spread(base, step float64) [PaletteSize]float64 {
	return [PaletteSize]float64{
		frac(base), frac(base + step), frac(base + 2*step), frac(base + 3*step),
	}
}

func fixedLightness(rng *rand.Rand, light, sat float64) []string {
	out := make([]string, PaletteSize)
	for i := range out {
		out[i] = hslColor(rng.Float64(), light, sat).Hex()
	}
	return out
}

func frac(v float64) float64 {
	return v - math.Floor(v)
}

// hslColor converts hue/lightness/saturation (all 0..1) to an RGB color.
func hslColor(h, l, s float64) Color {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return Color{R: v, G: v, B: v}
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r := hueToRGB(p, q, h+1.0/3.0)
	g := hueToRGB(p, q, h)
	b := hueToRGB(p, q, h-1.0/3.0)
	return Color{
		R: uint8(math.Round(r * 255)),
		G: uint8(math.Round(g * 255)),
		B: uint8(math.Round(b * 255)),
	}
}

func hueToRGB(p, q, t float64) float64 {
	t = frac(t)
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
