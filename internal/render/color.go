package render

import (
	"math"

	"github.com/gogpu/gg"
)

const (
	rainbowSaturation = 1.0
	rainbowLightness  = 0.5
)

// RainbowColor maps a pointer position to a fully saturated hue. The hue
// sweeps the whole color wheel as y+x runs across [0, scale) and wraps
// outside it, so 0 and scale give the same color.
func RainbowColor(y, x, scale float64) gg.RGBA {
	return gg.HSL(rainbowHue(y, x, scale), rainbowSaturation, rainbowLightness)
}

func rainbowHue(y, x, scale float64) float64 {
	if !(scale > 0) {
		return 0
	}
	t := math.Mod(y+x, scale)
	if t < 0 {
		t += scale
	}
	return 360 * t / scale
}

// ColorRange is the rainbow period for a canvas: twice the harmonic-style
// mean w*h/(w+h), so one sweep roughly spans the canvas diagonal.
func ColorRange(width, height float64) float64 {
	if width+height == 0 {
		return 0
	}
	return 2 * width * height / (width + height)
}
