package color

import "math"

// minBrightnessDiff is the W3C AERT threshold for readable text.
const minBrightnessDiff = 150

// Brightness is the W3C perceived brightness in [0, 255].
func (c RGBA) Brightness() float64 {
	return (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
}

// HasGoodContrast reports whether the brightness difference between a and b
// exceeds the readability threshold.
func HasGoodContrast(a, b RGBA) bool {
	return math.Abs(a.Brightness()-b.Brightness()) > minBrightnessDiff
}

// Foreground picks black or white text for the css background bg. Colors
// that fail to parse get white text.
func Foreground(bg string) string {
	c, err := Parse(bg)
	if err != nil {
		return White
	}
	if HasGoodContrast(c, RGBA{A: 1}) {
		return Black
	}
	return White
}
