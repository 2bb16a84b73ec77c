package view

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Palette is a fixed, finite list of hex colors.
type Palette []string

// DefaultPalette is Tableau 10.
var DefaultPalette = Palette{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// ColorFor returns the color for key by its position in keys, cycling
// through the palette. Keys not in the list use the first color.
func (p Palette) ColorFor(key GroupKey, keys []GroupKey) string {
	if len(p) == 0 {
		p = DefaultPalette
	}
	i := KeyIndex(keys, key)
	if i < 0 {
		i = 0
	}
	return p[i%len(p)]
}

// Colors returns the color of every key in keys, in order.
func (p Palette) Colors(keys []GroupKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = p.ColorFor(k, keys)
	}
	return out
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Blend mixes base and peak linearly in RGB. t is clamped to [0,1]; t=0 is
// base and t=1 is peak. Unparseable inputs return base unchanged.
func Blend(base, peak string, t float64) string {
	a, err := ParseHex(base)
	if err != nil {
		return base
	}
	b, err := ParseHex(peak)
	if err != nil {
		return base
	}
	t = clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return Hex(color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff})
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
