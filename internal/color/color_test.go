package color

import (
	"math"
	"testing"
)

func TestRGBToXY_Black(t *testing.T) {
	x, y, bri := RGBToXY(0, 0, 0)
	if x != 0 || y != 0 || bri != 0 {
		t.Errorf("RGBToXY(0,0,0) = (%v,%v,%v), want (0,0,0)", x, y, bri)
	}
}

func TestRGBToXY_White(t *testing.T) {
	x, y, bri := RGBToXY(1, 1, 1)
	if x <= 0 || x >= 1 || y <= 0 || y >= 1 {
		t.Errorf("white chromaticity out of range: (%v,%v)", x, y)
	}
	// Brightness is the Y component of the matrix applied to full white.
	wantBri := 0.283881 + 0.668433 + 0.047685
	if math.Abs(bri-wantBri) > 1e-9 {
		t.Errorf("brightness = %v, want %v", bri, wantBri)
	}
}

func TestRGBToXY_Primaries(t *testing.T) {
	// Red should land at higher x than blue, blue at lower y than green.
	rx, ry, _ := RGBToXY(1, 0, 0)
	_, gy, _ := RGBToXY(0, 1, 0)
	bx, by, _ := RGBToXY(0, 0, 1)
	if rx <= bx {
		t.Errorf("red x (%v) should exceed blue x (%v)", rx, bx)
	}
	if by >= gy {
		t.Errorf("blue y (%v) should be below green y (%v)", by, gy)
	}
	if ry <= 0 {
		t.Errorf("red y = %v, want > 0", ry)
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		a, b uint8
		t    float64
		want uint8
	}{
		{0, 255, 0, 0},
		{0, 255, 1, 255},
		{0, 255, 0.5, 127}, // truncates toward zero
		{255, 0, 0.5, 127},
		{10, 20, 0.25, 12},
		{100, 100, 0.7, 100},
		{0, 255, -1, 0},  // clamped
		{0, 255, 2, 255}, // clamped
	}
	for _, tt := range tests {
		if got := Lerp(tt.a, tt.b, tt.t); got != tt.want {
			t.Errorf("Lerp(%d,%d,%v) = %d, want %d", tt.a, tt.b, tt.t, got, tt.want)
		}
	}
}

func TestLerpRGB(t *testing.T) {
	a := RGB{R: 255, G: 0, B: 0}
	b := RGB{R: 0, G: 0, B: 255}
	mid := LerpRGB(a, b, 0.5)
	want := RGB{R: 127, G: 0, B: 127}
	if mid != want {
		t.Errorf("LerpRGB midpoint = %+v, want %+v", mid, want)
	}
	if LerpRGB(a, b, 0) != a {
		t.Error("t=0 should return a")
	}
	if LerpRGB(a, b, 1) != b {
		t.Error("t=1 should return b")
	}
}

func TestScale(t *testing.T) {
	c := RGB{R: 200, G: 100, B: 50}
	if c.Scale(0) != Black {
		t.Error("Scale(0) should be black")
	}
	if c.Scale(1) != c {
		t.Error("Scale(1) should be identity")
	}
	half := c.Scale(0.5)
	if half.R != 100 || half.G != 50 || half.B != 25 {
		t.Errorf("Scale(0.5) = %+v", half)
	}
	if c.Scale(5) != c {
		t.Error("Scale above 1 should clamp")
	}
}
