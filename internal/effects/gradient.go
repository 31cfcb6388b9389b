package effects

import (
	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/spatial"
)

// SpatialGradient blends between two colors along the room's x axis: a node
// at x=-1 gets Left, a node at x=+1 gets Right, everything between is
// interpolated per component.
type SpatialGradient struct {
	Left  color.RGB
	Right color.RGB
}

// NewSpatialGradient creates an x-axis gradient effect.
func NewSpatialGradient(left, right color.RGB) *SpatialGradient {
	return &SpatialGradient{Left: left, Right: right}
}

// Update blends each node by its x coordinate.
func (e *SpatialGradient) Update(_ audio.Spectrum, nodes []spatial.LightNode) map[uint8]color.RGB {
	out := make(map[uint8]color.RGB, len(nodes))
	for _, n := range nodes {
		t := (n.X + 1) / 2
		out[n.Channel] = color.LerpRGB(e.Left, e.Right, t)
	}
	return out
}
