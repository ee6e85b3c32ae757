package transform

import (
	"math"
	"testing"
)

func TestRGBAPacking(t *testing.T) {
	w := RGBA(0x11, 0x22, 0x33, 0x44)
	if w != 0x44332211 {
		t.Fatalf("RGBA = %#x, want 0x44332211", w)
	}
	r, g, b, a := Bytes(w)
	if r != 0x11 || g != 0x22 || b != 0x33 || a != 0x44 {
		t.Errorf("Bytes(%#x) = %#x %#x %#x %#x", w, r, g, b, a)
	}
}

func TestPrecision(t *testing.T) {
	tests := []struct {
		v    float64
		want uint8
	}{
		{0, 0},
		{31.875, 223},
		{10.5, 128},
		{7.999, 255},
		{200.001, 0},
	}
	for _, tt := range tests {
		if got := Precision(tt.v); got != tt.want {
			t.Errorf("Precision(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestEncodeTranslation(t *testing.T) {
	p, q := Encode(Transform{X: 100, Y: 200, Rotation: 0, Alpha: 1}, 800, 600)
	tx, ty, r, a := Bytes(p)
	dx, dy, dr, unused := Bytes(q)

	// 255*100/800 = 31.875, 255*200/600 = 85
	if tx != 31 || dx != 223 {
		t.Errorf("x bytes = (%d, %d), want (31, 223)", tx, dx)
	}
	if d := math.Abs(float64(tx) + float64(dx)/255 - 31.875); d > 0.5/255 {
		t.Errorf("x reconstructs to %v off by %v", float64(tx)+float64(dx)/255, d)
	}
	if ty != 85 || dy != 0 {
		t.Errorf("y bytes = (%d, %d), want (85, 0)", ty, dy)
	}
	if r != 0 || dr != 0 {
		t.Errorf("rotation bytes = (%d, %d), want (0, 0)", r, dr)
	}
	if a != 255 {
		t.Errorf("alpha byte = %d, want 255", a)
	}
	if unused != 0 {
		t.Errorf("unused precision byte = %d, want 0", unused)
	}
}

func TestRoundTripTranslation(t *testing.T) {
	const w, h = 800, 600
	tol := float64(w) / 255 / 255
	for x := float32(0); x < w; x += 0.37 {
		p, q := Encode(Transform{X: x, Y: x * h / w, Alpha: 1}, w, h)
		got := Decode(p, q, w, h)
		if d := math.Abs(float64(got.X - x)); d > tol {
			t.Fatalf("x=%v decoded to %v, error %v > %v", x, got.X, d, tol)
		}
		if d := math.Abs(float64(got.Y - x*h/w)); d > float64(h)/255/255 {
			t.Fatalf("y=%v decoded to %v, error %v", x*h/w, got.Y, d)
		}
	}
}

func TestRotationWraps(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float64
	}{
		{"zero", 0, 0},
		{"half turn", math.Pi, math.Pi},
		{"negative quarter", -math.Pi / 2, 3 * math.Pi / 2},
		{"full turn plus", 2*math.Pi + 1, 1},
		{"several negative turns", -4*math.Pi - 1, 2*math.Pi - 1},
	}
	tol := 2 * math.Pi / 255 / 255
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, q := Encode(Transform{Rotation: tt.in, Alpha: 1}, 800, 600)
			got := float64(Decode(p, q, 800, 600).Rotation)
			if d := math.Abs(got - tt.want); d > tol+1e-6 {
				t.Errorf("rotation %v decoded to %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAlphaClamped(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{0.5, 128},
		{1, 255},
		{3, 255},
	}
	for _, tt := range tests {
		p, _ := Encode(Transform{Alpha: tt.in}, 800, 600)
		if _, _, _, a := Bytes(p); a != tt.want {
			t.Errorf("alpha %v encoded to %d, want %d", tt.in, a, tt.want)
		}
	}
}

func TestOffscreenTranslationWraps(t *testing.T) {
	const w, h = 800, 600
	tol := float64(w) / 255 / 255
	for _, x := range []float32{-100, 900, 1700.5} {
		p, q := Encode(Transform{X: x, Alpha: 1}, w, h)
		got := float64(Decode(p, q, w, h).X)
		// one full byte cycle spans 256/255 of the screen
		period := float64(w) * 256 / 255
		want := math.Mod(float64(x), period)
		if want < 0 {
			want += period
		}
		if d := math.Abs(got - want); d > tol+1e-3 {
			t.Errorf("x=%v decoded to %v, want %v", x, got, want)
		}
	}
}

func TestEncodeZeroScreen(t *testing.T) {
	p, q := Encode(Transform{X: 10, Y: 10, Alpha: 1}, 0, 0)
	if tx, ty, _, _ := Bytes(p); tx != 0 || ty != 0 {
		t.Errorf("translation bytes with no screen = (%d, %d), want zeros", tx, ty)
	}
	if q != 0 {
		t.Errorf("precision word = %#x, want 0", q)
	}
}
