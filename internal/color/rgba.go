// Package color converts the integer color encoding of the fixtures into
// css rgba() strings and picks readable text colors.
package color

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	Black       = "rgba(0,0,0,1)"
	White       = "rgba(255,255,255,1)"
	Transparent = "transparent"
)

// RGBA is an 8-bit-per-channel color with a float alpha in [0, 1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// FromInt decodes a 32-bit ARGB color. Values whose alpha byte is zero are
// read as opaque 0xRRGGBB, which is how most fixtures store them.
func FromInt(v int64) RGBA {
	u := uint32(v)
	a := uint8(u >> 24)
	c := RGBA{R: uint8(u >> 16), G: uint8(u >> 8), B: uint8(u)}
	if a == 0 {
		c.A = 1
	} else {
		c.A = float64(a) / 255
	}
	return c
}

// IntToRGBA is FromInt rendered as a css string.
func IntToRGBA(v int64) string {
	return FromInt(v).String()
}

func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(round2(c.A), 'f', -1, 64))
}

// Hex renders the color as #rrggbb, dropping alpha.
func (c RGBA) Hex() string {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return cf.Hex()
}

// Parse reads "rgba(r,g,b,a)" or "rgb(r,g,b)", with comma or space
// separators. Missing alpha means opaque.
func Parse(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return RGBA{}, fmt.Errorf("parsing color %q: missing parentheses", s)
	}
	body := s[open+1 : end]
	sep := " "
	if strings.Contains(body, ",") {
		sep = ","
	}
	var parts []string
	for _, p := range strings.Split(body, sep) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 3 {
		return RGBA{}, fmt.Errorf("parsing color %q: need at least 3 channels", s)
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 || n > 255 {
			return RGBA{}, fmt.Errorf("parsing color %q: bad channel %q", s, parts[i])
		}
		ch[i] = uint8(n)
	}
	c := RGBA{R: ch[0], G: ch[1], B: ch[2], A: 1}
	if len(parts) > 3 {
		a, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return RGBA{}, fmt.Errorf("parsing color %q: bad alpha %q", s, parts[3])
		}
		c.A = a
	}
	return c, nil
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
