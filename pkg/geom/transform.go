package geom

import (
	"github.com/sanonone/fibermap/pkg/fiber"
	"gonum.org/v1/gonum/spatial/r3"
)

// Euler holds rotation angles in radians using the intrinsic XYZ convention:
// the combined matrix is Rx·Ry·Rz.
type Euler struct {
	X, Y, Z float64
}

// Transform is a rigid placement: rotate about the origin, then translate.
type Transform struct {
	Rotation    Euler
	Translation fiber.Vertex
}

// Identity reports whether t leaves every vertex unchanged.
func (t Transform) Identity() bool {
	return t == Transform{}
}

// Then returns a transform that applies t and then translates by offset.
func (t Transform) Then(offset fiber.Vertex) Transform {
	out := t
	out.Translation = Add(t.Translation, offset)
	return out
}

// rotator composes the Euler rotations into a single call.
type rotator struct {
	rx, ry, rz r3.Rotation
	active     [3]bool
}

func (t Transform) rotation() rotator {
	return rotator{
		rx:     r3.NewRotation(t.Rotation.X, r3.Vec{X: 1}),
		ry:     r3.NewRotation(t.Rotation.Y, r3.Vec{Y: 1}),
		rz:     r3.NewRotation(t.Rotation.Z, r3.Vec{Z: 1}),
		active: [3]bool{t.Rotation.X != 0, t.Rotation.Y != 0, t.Rotation.Z != 0},
	}
}

// rotate computes Rx·Ry·Rz·p, so the Z rotation touches the vector first.
func (r rotator) rotate(p r3.Vec) r3.Vec {
	if r.active[2] {
		p = r.rz.Rotate(p)
	}
	if r.active[1] {
		p = r.ry.Rotate(p)
	}
	if r.active[0] {
		p = r.rx.Rotate(p)
	}
	return p
}

// Apply transforms a single vertex.
func (t Transform) Apply(v fiber.Vertex) fiber.Vertex {
	p := t.rotation().rotate(Vec(v))
	return FromVec(r3.Add(p, Vec(t.Translation)))
}

// ApplySet returns a transformed copy of fs. The input is not modified.
func (t Transform) ApplySet(fs fiber.FiberSet) fiber.FiberSet {
	out := make(fiber.FiberSet, len(fs))
	if t.Identity() {
		for i, f := range fs {
			nf := make(fiber.Fiber, len(f))
			copy(nf, f)
			out[i] = nf
		}
		return out
	}

	rot := t.rotation()
	shift := Vec(t.Translation)
	for i, f := range fs {
		nf := make(fiber.Fiber, len(f))
		for j, v := range f {
			nf[j] = FromVec(r3.Add(rot.rotate(Vec(v)), shift))
		}
		out[i] = nf
	}
	return out
}
