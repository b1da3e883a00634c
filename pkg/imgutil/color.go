package imgutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses a CSS hex color (#rgb, #rgba, #rrggbb, #rrggbbaa) or the
// keyword "transparent".
func ParseHexColor(s string) (color.NRGBA, error) {
	raw := strings.TrimSpace(strings.ToLower(s))
	if raw == "transparent" {
		return color.NRGBA{}, nil
	}
	hex := strings.TrimPrefix(raw, "#")

	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parsing hex color %q: %w", s, err)
	}

	if len(hex) == 6 {
		return color.NRGBA{
			R: uint8(value >> 16),
			G: uint8(value >> 8),
			B: uint8(value),
			A: 0xff,
		}, nil
	}
	return color.NRGBA{
		R: uint8(value >> 24),
		G: uint8(value >> 16),
		B: uint8(value >> 8),
		A: uint8(value),
	}, nil
}

// Opaque returns c with its alpha forced to fully opaque. A fully transparent
// color becomes white.
func Opaque(c color.NRGBA) color.NRGBA {
	if c.A == 0 {
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	c.A = 0xff
	return c
}
