package fiber

import "math"

// Bounds is an axis-aligned bounding box. The zero value is empty.
type Bounds struct {
	Min   Vertex `json:"min"`
	Max   Vertex `json:"max"`
	Valid bool   `json:"valid"`
}

// Extend grows b to include v. A vertex with a NaN coordinate is ignored:
// it lies nowhere, and min/max would otherwise turn the whole box into NaN.
func (b *Bounds) Extend(v Vertex) {
	if v.IsNaN() {
		return
	}
	if !b.Valid {
		b.Min, b.Max, b.Valid = v, v, true
		return
	}
	b.Min.X = min(b.Min.X, v.X)
	b.Min.Y = min(b.Min.Y, v.Y)
	b.Min.Z = min(b.Min.Z, v.Z)
	b.Max.X = max(b.Max.X, v.X)
	b.Max.Y = max(b.Max.Y, v.Y)
	b.Max.Z = max(b.Max.Z, v.Z)
}

// Stats summarizes a FiberSet.
type Stats struct {
	Fibers       int     `json:"fibers"`
	Vertices     int     `json:"vertices"`
	EmptyFibers  int     `json:"empty_fibers"`
	MinVertices  int     `json:"min_vertices"`
	MaxVertices  int     `json:"max_vertices"`
	MeanVertices float64 `json:"mean_vertices"`
	EncodedSize  int     `json:"encoded_size"`
	Bounds       Bounds  `json:"bounds"`
}

// ComputeStats walks fs once.
func ComputeStats(fs FiberSet) Stats {
	s := Stats{
		Fibers:      len(fs),
		EncodedSize: EncodedSize(fs),
	}
	for i, f := range fs {
		n := len(f)
		s.Vertices += n
		if n == 0 {
			s.EmptyFibers++
		}
		if i == 0 || n < s.MinVertices {
			s.MinVertices = n
		}
		if n > s.MaxVertices {
			s.MaxVertices = n
		}
		for _, v := range f {
			s.Bounds.Extend(v)
		}
	}
	if s.Fibers > 0 {
		s.MeanVertices = float64(s.Vertices) / float64(s.Fibers)
	}
	return s
}

// IsNaN reports whether any coordinate of v is NaN.
func (v Vertex) IsNaN() bool {
	return math.IsNaN(float64(v.X)) || math.IsNaN(float64(v.Y)) || math.IsNaN(float64(v.Z))
}
