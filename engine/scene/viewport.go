package scene

// Viewport is the screen area labels are placed in, in pixels with the
// origin at the top left and y pointing down.
type Viewport struct {
	Width, Height float32
}

// Projection maps viewport pixels to clip space.
func (v Viewport) Projection() [16]float32 {
	return ortho(0, v.Width, v.Height, 0, -1, 1)
}

// Scaled returns the viewport in framebuffer pixels for a display with
// the given pixel ratio.
func (v Viewport) Scaled(ratio float32) Viewport {
	return Viewport{Width: v.Width * ratio, Height: v.Height * ratio}
}

// ---- tiny mat helpers (column-major, GLSL-style) ----

func ortho(l, r, b, t, n, f float32) [16]float32 {
	rl := 1 / (r - l)
	tb := 1 / (t - b)
	fn := 1 / (f - n)
	return [16]float32{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(r + l) * rl, -(t + b) * tb, -(f + n) * fn, 1,
	}
}
