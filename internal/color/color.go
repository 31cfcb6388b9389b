// Package color converts between device RGB and the bridge's xy+brightness
// color space.
package color

// RGB is an 8-bit per channel device color.
type RGB struct {
	R, G, B uint8
}

// Black is the all-off color.
var Black = RGB{}

// Scale multiplies each component by v, clamped to [0,1].
func (c RGB) Scale(v float64) RGB {
	if v <= 0 {
		return Black
	}
	if v > 1 {
		v = 1
	}
	return RGB{
		R: uint8(float64(c.R) * v),
		G: uint8(float64(c.G) * v),
		B: uint8(float64(c.B) * v),
	}
}

// RGBToXY converts linear RGB components in [0,1] to CIE xy chromaticity and
// brightness using the Wide RGB D65 matrix from the Hue developer
// documentation. All-black input returns (0,0,0).
func RGBToXY(r, g, b float64) (x, y, bri float64) {
	X := r*0.664511 + g*0.154324 + b*0.162028
	Y := r*0.283881 + g*0.668433 + b*0.047685
	Z := r*0.000088 + g*0.072310 + b*0.986039

	sum := X + Y + Z
	if sum == 0 {
		return 0, 0, 0
	}
	return X / sum, Y / sum, Y
}

// Lerp linearly interpolates between a and b. The result truncates toward
// zero, so Lerp(0, 255, 0.5) == 127.
func Lerp(a, b uint8, t float64) uint8 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// LerpRGB interpolates each component independently with Lerp.
func LerpRGB(a, b RGB, t float64) RGB {
	return RGB{
		R: Lerp(a.R, b.R, t),
		G: Lerp(a.G, b.G, t),
		B: Lerp(a.B, b.B, t),
	}
}
