package effects

import (
	"math"

	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/spatial"
)

// LightSource renders a virtual point light: nodes are lit with linear
// distance falloff from the source position, dark beyond Radius.
type LightSource struct {
	Color   color.RGB
	X, Y, Z float64
	Radius  float64
}

// NewLightSource creates a point-light effect at the given position. A
// non-positive radius defaults to 1.
func NewLightSource(c color.RGB, x, y, z, radius float64) *LightSource {
	if radius <= 0 {
		radius = 1
	}
	return &LightSource{Color: c, X: x, Y: y, Z: z, Radius: radius}
}

// Update lights each node proportionally to its distance from the source.
func (e *LightSource) Update(_ audio.Spectrum, nodes []spatial.LightNode) map[uint8]color.RGB {
	out := make(map[uint8]color.RGB, len(nodes))
	for _, n := range nodes {
		dx, dy, dz := n.X-e.X, n.Y-e.Y, n.Z-e.Z
		d := math.Sqrt(dx*dx + dy*dy + dz*dz)
		out[n.Channel] = e.Color.Scale(1 - d/e.Radius)
	}
	return out
}
