package palette

import (
	"math/rand"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{"#ff8000", Color{255, 128, 0}, false},
		{"00ff00", Color{0, 255, 0}, false},
		{" #0000ff ", Color{0, 0, 255}, false},
		{"#fff", Color{}, true},
		{"#zzzzzz", Color{}, true},
		{"", Color{}, true},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseHexRoundTrip(t *testing.T) {
	c := Color{R: 18, G: 52, B: 86}
	parsed, err := ParseHex(c.Hex())
	if err != nil {
		t.Fatalf("ParseHex(%q): %v", c.Hex(), err)
	}
	if parsed != c {
		t.Errorf("round trip = %v, want %v", parsed, c)
	}
}

func TestParsePalette(t *testing.T) {
	_, err := ParsePalette([]string{"#ff0000", "#00ff00", "#0000ff"})
	if err == nil {
		t.Error("expected error for 3-color palette")
	}

	got, err := ParsePalette([]string{"#ff0000", "#00ff00", "#0000ff", "#ffffff"})
	if err != nil {
		t.Fatalf("ParsePalette: %v", err)
	}
	if got[3] != (Color{255, 255, 255}) {
		t.Errorf("colors[3] = %v, want white", got[3])
	}
}

func TestHarmonyAlwaysFourValidColors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, harmony := range append(HarmonyTypes, "unknown-harmony") {
		colors := Harmony(harmony, rng)
		if len(colors) != PaletteSize {
			t.Fatalf("Harmony(%q) returned %d colors", harmony, len(colors))
		}
		for _, hex := range colors {
			if _, err := ParseHex(hex); err != nil {
				t.Errorf("Harmony(%q) produced invalid color %q: %v", harmony, hex, err)
			}
		}
	}
}

func TestHarmonyDeterministicWithSeed(t *testing.T) {
	a := Harmony("triadic", rand.New(rand.NewSource(7)))
	b := Harmony("triadic", rand.New(rand.NewSource(7)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged: %v vs %v", a, b)
		}
	}
}
