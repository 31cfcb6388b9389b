package effects

import (
	"math"
	"sort"

	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/spatial"
)

// MultiBand splits the room into three sections along the x axis and maps
// bass, mids and highs to red, green and blue respectively. When nodes carry
// no position data the split falls back to channel id modulo three.
type MultiBand struct{}

// NewMultiBand creates a band-split effect.
func NewMultiBand() *MultiBand {
	return &MultiBand{}
}

var bandColors = [3]color.RGB{
	{R: 255}, // bass
	{G: 255}, // mids
	{B: 255}, // highs
}

// Update assigns each node its section's band color scaled by band level.
func (e *MultiBand) Update(spec audio.Spectrum, nodes []spatial.LightNode) map[uint8]color.RGB {
	out := make(map[uint8]color.RGB, len(nodes))
	if len(nodes) == 0 {
		return out
	}

	levels := [3]float64{spec.Bass, spec.Mids, spec.Highs}

	if !hasPositions(nodes) {
		for _, n := range nodes {
			section := int(n.Channel) % 3
			out[n.Channel] = bandColors[section].Scale(levels[section])
		}
		return out
	}

	sorted := make([]spatial.LightNode, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	for i, n := range sorted {
		var section int
		if len(sorted) < 3 {
			section = i
		} else {
			section = i * 3 / len(sorted)
		}
		out[n.Channel] = bandColors[section].Scale(levels[section])
	}
	return out
}

func hasPositions(nodes []spatial.LightNode) bool {
	for _, n := range nodes {
		if math.Abs(n.X) > 0.001 || math.Abs(n.Y) > 0.001 || math.Abs(n.Z) > 0.001 {
			return true
		}
	}
	return false
}
