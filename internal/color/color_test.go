package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromInt(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want string
	}{
		{"opaque argb", 0xFF336699, "rgba(51,102,153,1)"},
		{"signed argb", -16776961, "rgba(0,0,255,1)"},
		{"rgb without alpha", 0x00FF8000, "rgba(255,128,0,1)"},
		{"half alpha", 0x80FFFFFF, "rgba(255,255,255,0.5)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntToRGBA(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	c, err := Parse("rgba(10, 20, 30, 0.4)")
	require.NoError(t, err)
	assert.Equal(t, RGBA{R: 10, G: 20, B: 30, A: 0.4}, c)

	c, err = Parse("rgb(255 255 255)")
	require.NoError(t, err)
	assert.Equal(t, RGBA{R: 255, G: 255, B: 255, A: 1}, c)

	_, err = Parse("transparent")
	assert.Error(t, err)

	_, err = Parse("rgb(300,0,0)")
	assert.Error(t, err)
}

func TestForeground(t *testing.T) {
	assert.Equal(t, Black, Foreground("rgba(255,255,255,1)"))
	assert.Equal(t, Black, Foreground("rgba(255,215,0,1)"))
	assert.Equal(t, White, Foreground("rgba(0,0,128,1)"))
	assert.Equal(t, White, Foreground("rgba(128,128,128,1)"))
	assert.Equal(t, White, Foreground("not a color"))
}

func TestHasGoodContrast_ThresholdIsExclusive(t *testing.T) {
	// Brightness of (150,150,150) is exactly 150.
	grey := RGBA{R: 150, G: 150, B: 150, A: 1}
	assert.False(t, HasGoodContrast(grey, RGBA{A: 1}))
	assert.True(t, HasGoodContrast(RGBA{R: 151, G: 151, B: 151, A: 1}, RGBA{A: 1}))
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#336699", FromInt(0xFF336699).Hex())
}
