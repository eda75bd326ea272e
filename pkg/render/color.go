package render

import (
	"github.com/sanonone/fibermap/pkg/zone"
)

// Palette lists 0xRRGGBB colors indexed by zone.
type Palette []uint32

// DefaultPalette is the electrode color table.
var DefaultPalette = Palette{
	0x32a852, // green
	0xa83232, // red
	0xa2a832, // yellow
	0x3ea832, // green
	0xf472b6, // pink
	0x0ea5e9, // sky
	0x1e40af, // blue
	0xf97316, // orange
	0x7e22ce, // purple
	0x64748b, // slate
	0xfafafa, // white
	0x451a03, // brown
	0x0a0a0a, // black
}

// DefaultBaseColor is used for fibers outside every zone.
const DefaultBaseColor uint32 = 0x5b21b6

// Color returns the color of zone z. Indices past the end wrap around.
func (p Palette) Color(z int) uint32 {
	if len(p) == 0 || z < 0 {
		return DefaultBaseColor
	}
	return p[z%len(p)]
}

// Colors returns one color per fiber: the palette color of its assigned zone,
// or base when the fiber touches no zone.
func Colors(a zone.Assignment, p Palette, base uint32) []uint32 {
	out := make([]uint32, len(a))
	for i, z := range a {
		if z == zone.NoZone {
			out[i] = base
			continue
		}
		out[i] = p.Color(z)
	}
	return out
}

// RGB splits c into normalized channels.
func RGB(c uint32) [3]float32 {
	return [3]float32{
		float32((c>>16)&0xFF) / 255,
		float32((c>>8)&0xFF) / 255,
		float32(c&0xFF) / 255,
	}
}
