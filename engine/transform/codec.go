package transform

import "math"

// Each label transform is stored as two RGBA8 texels:
//
//	| tx | ty | rot | alpha |   primary
//	| dx | dy | drot | -    |   precision
//
// Primary bytes hold the floor of the value scaled to [0..255], precision
// bytes hold the remaining fraction re-quantized to [0..255]. The vertex
// shader rebuilds a component as
//
//	extent*primary/255 + precision*(extent/255)/255
//
// which leaves an absolute error of at most extent/255/255.
const (
	byteScale = 255.0
	twoPi     = 2 * math.Pi
)

// Transform is the per-label placement re-applied every frame.
type Transform struct {
	X, Y     float32 // screen-space pixels
	Rotation float32 // radians
	Alpha    float32 // [0..1]
}

// RGBA packs four bytes little-endian, r in the lowest byte.
func RGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// Bytes unpacks a word produced by RGBA.
func Bytes(w uint32) (r, g, b, a uint8) {
	return uint8(w), uint8(w >> 8), uint8(w >> 16), uint8(w >> 24)
}

// Encode quantizes t against the screen size and returns the primary and
// precision words. Translations outside the screen wrap: the primary byte
// cycles every 256/255 of the screen extent.
func Encode(t Transform, screenW, screenH float32) (primary, precision uint32) {
	tx, dx := quantize(scale(t.X, screenW))
	ty, dy := quantize(scale(t.Y, screenH))
	r, dr := quantize(normalizeAngle(t.Rotation) / twoPi * byteScale)
	a := alphaByte(t.Alpha)

	return RGBA(tx, ty, r, a), RGBA(dx, dy, dr, 0)
}

// Decode reverses Encode the way the vertex shader does.
func Decode(primary, precision uint32, screenW, screenH float32) Transform {
	tx, ty, r, a := Bytes(primary)
	dx, dy, dr, _ := Bytes(precision)

	return Transform{
		X:        float32(reconstruct(tx, dx) * float64(screenW)),
		Y:        float32(reconstruct(ty, dy) * float64(screenH)),
		Rotation: float32(reconstruct(r, dr) * twoPi),
		Alpha:    float32(a) / byteScale,
	}
}

// Precision returns the fractional part of v re-quantized to [0..255].
func Precision(v float64) uint8 {
	frac := v - math.Floor(v)
	return uint8(math.Floor(frac*byteScale + 0.5))
}

func scale(v, extent float32) float64 {
	if extent == 0 {
		return 0
	}
	return float64(v) * byteScale / float64(extent)
}

func quantize(v float64) (hi, lo uint8) {
	f := math.Floor(v)
	// wrap instead of saturating so off-screen labels keep moving smoothly
	hi = uint8(int64(f) & 0xff)
	lo = Precision(v)
	return hi, lo
}

// reconstruct returns the normalized [0..1) value of a primary/precision pair.
func reconstruct(hi, lo uint8) float64 {
	return float64(hi)/byteScale + float64(lo)/byteScale/byteScale
}

func normalizeAngle(r float32) float64 {
	m := math.Mod(float64(r), twoPi)
	if m < 0 {
		m += twoPi
	}
	return m
}

func alphaByte(a float32) uint8 {
	switch {
	case a <= 0:
		return 0
	case a >= 1:
		return 255
	}
	return uint8(math.Floor(float64(a)*byteScale + 0.5))
}
