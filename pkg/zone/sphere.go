// Package zone computes which fibers pass through electrode influence zones.
//
// An influence zone is a closed ball around an electrode. A fiber belongs to a
// zone when at least one of its vertices lies inside the ball; scanning stops at
// the first such vertex (first-touch), so each (fiber, zone) pair is reported
// at most once.
package zone

import (
	"errors"

	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/sanonone/fibermap/pkg/geom"
)

// ErrInvalidArgument signals a caller contract violation, e.g. mismatched
// model and zone-collection counts.
var ErrInvalidArgument = errors.New("invalid zone argument")

// Sphere is the influence volume of one electrode.
type Sphere struct {
	Center fiber.Vertex `json:"center"`
	Radius float32      `json:"radius"`
}

// ContainsPoint reports whether p lies in the closed ball s.
// Boundary points are contained. A negative radius contains nothing.
func ContainsPoint(s Sphere, p fiber.Vertex) bool {
	if s.Radius < 0 {
		return false
	}
	r := float64(s.Radius)
	return geom.SquaredDistance(p, s.Center) <= r*r
}

// intersectsBounds reports whether s can contain any point of b.
// It never returns false for a box holding a vertex that ContainsPoint accepts.
func intersectsBounds(s Sphere, b fiber.Bounds) bool {
	if !b.Valid || s.Radius < 0 {
		return false
	}
	c := fiber.Vertex{
		X: clamp(s.Center.X, b.Min.X, b.Max.X),
		Y: clamp(s.Center.Y, b.Min.Y, b.Max.Y),
		Z: clamp(s.Center.Z, b.Min.Z, b.Max.Z),
	}
	r := float64(s.Radius)
	return geom.SquaredDistance(c, s.Center) <= r*r
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
