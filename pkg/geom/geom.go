// Package geom provides the 3-D vector kernels used to place fibers and to test
// them against influence zones.
//
// Computation happens in float64 on gonum's spatial/r3 vectors; results are
// narrowed back to float32 vertices only when a transformed vertex is stored.
package geom

import (
	"github.com/sanonone/fibermap/pkg/fiber"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec widens a vertex to an r3 vector.
func Vec(v fiber.Vertex) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// FromVec narrows an r3 vector to a vertex.
func FromVec(p r3.Vec) fiber.Vertex {
	return fiber.Vertex{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
}

// SquaredDistance returns |a - b|² in float64.
// Products of widened float32 values are exact in float64, so the only rounding
// is in the final two additions.
func SquaredDistance(a, b fiber.Vertex) float64 {
	dx := float64(a.X) - float64(b.X)
	dy := float64(a.Y) - float64(b.Y)
	dz := float64(a.Z) - float64(b.Z)
	return dx*dx + dy*dy + dz*dz
}

// Add returns a + b.
func Add(a, b fiber.Vertex) fiber.Vertex {
	return FromVec(r3.Add(Vec(a), Vec(b)))
}
