package colors

import "github.com/hubastard/labelgl/engine/transform"

type Color [4]float32

var (
	White    = Color{1, 1, 1, 1}
	Red      = Color{1, 0, 0, 1}
	Green    = Color{0, 1, 0, 1}
	Blue     = Color{0, 0, 1, 1}
	Black    = Color{0, 0, 0, 1}
	Magenta  = Color{1, 0, 1, 1}
	Cyan     = Color{0, 1, 1, 1}
	Yellow   = Color{1, 1, 0, 1}
	Gray     = Color{0.5, 0.5, 0.5, 1}
	DarkGray = Color{0.08, 0.10, 0.12, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// RGBA8 returns the channels as bytes, clamped to [0, 1] and rounded.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return channel(c[0]), channel(c[1]), channel(c[2]), channel(c[3])
}

// Pack returns c as r | g<<8 | b<<16 | a<<24.
func (c Color) Pack() uint32 {
	return transform.RGBA(c.RGBA8())
}

// FromPacked is the inverse of Pack.
func FromPacked(v uint32) Color {
	r, g, b, a := transform.Bytes(v)
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// Hex builds an opaque color from 0xRRGGBB.
func Hex(rgb uint32) Color {
	return Color{
		float32(rgb>>16&0xff) / 255,
		float32(rgb>>8&0xff) / 255,
		float32(rgb&0xff) / 255,
		1,
	}
}

func channel(v float32) uint8 {
	v = min(max(v, 0), 1)
	return uint8(v*255 + 0.5)
}
