package zone

import (
	"fmt"
	"math"

	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/sanonone/fibermap/pkg/geom"
)

// Electrode is a named scalp position with its influence radius.
type Electrode struct {
	Name     string       `json:"name"`
	Position fiber.Vertex `json:"position"`
	Radius   float32      `json:"radius"`
}

// Layout describes the electrodes and how many side-by-side model instances
// are analyzed. Model i is shifted by i×Gap along X, fibers and electrodes alike.
// A Layout is configuration: nothing in this package mutates it.
type Layout struct {
	Electrodes []Electrode
	Models     int
	Gap        float32
	// Placement moves raw fiber coordinates into the electrode frame.
	Placement geom.Transform
}

// Validate checks the layout before any analysis.
func (l Layout) Validate() error {
	if l.Models < 1 {
		return fmt.Errorf("%w: models must be >= 1, got %d", ErrInvalidArgument, l.Models)
	}
	for i, e := range l.Electrodes {
		if e.Radius < 0 || !finite(e.Radius) {
			return fmt.Errorf("%w: electrode %d (%s) needs a finite non-negative radius, got %g", ErrInvalidArgument, i, e.Name, e.Radius)
		}
	}
	return nil
}

// Offset returns the translation of model m.
func (l Layout) Offset(m int) fiber.Vertex {
	return fiber.Vertex{X: float32(m) * l.Gap}
}

// Spheres returns the influence zones of model m, in electrode order.
func (l Layout) Spheres(m int) []Sphere {
	off := l.Offset(m)
	out := make([]Sphere, len(l.Electrodes))
	for i, e := range l.Electrodes {
		out[i] = Sphere{Center: geom.Add(e.Position, off), Radius: e.Radius}
	}
	return out
}

// Place returns the copy of fs positioned for model m.
func (l Layout) Place(fs fiber.FiberSet, m int) fiber.FiberSet {
	return l.Placement.Then(l.Offset(m)).ApplySet(fs)
}

// ModelInputs builds the per-model (fibers, zones) pairs for ComputeModels.
func (l Layout) ModelInputs(fs fiber.FiberSet) ([]fiber.FiberSet, [][]Sphere) {
	fibers := make([]fiber.FiberSet, l.Models)
	zones := make([][]Sphere, l.Models)
	for m := 0; m < l.Models; m++ {
		fibers[m] = l.Place(fs, m)
		zones[m] = l.Spheres(m)
	}
	return fibers, zones
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
