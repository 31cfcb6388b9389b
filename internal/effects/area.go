package effects

import (
	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/spatial"
)

// Area paints every channel with one uniform color.
type Area struct {
	Color color.RGB
}

// NewArea creates a uniform-color effect.
func NewArea(c color.RGB) *Area {
	return &Area{Color: c}
}

// Update assigns the area color to all nodes.
func (e *Area) Update(_ audio.Spectrum, nodes []spatial.LightNode) map[uint8]color.RGB {
	out := make(map[uint8]color.RGB, len(nodes))
	for _, n := range nodes {
		out[n.Channel] = e.Color
	}
	return out
}
