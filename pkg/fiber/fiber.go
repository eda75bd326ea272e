// Package fiber defines the tractography geometry model and its binary
// persistence format ("Fibers.bin").
//
// A FiberSet is an ordered collection of polylines. The on-disk layout is
// little-endian with fixed-width fields and no padding:
//
//	int32 N
//	repeated N times:
//	    int32 M
//	    repeated M times: float32 x, float32 y, float32 z
//
// There is no magic number, version tag or checksum. Fiber order is part of the
// format: downstream code references fibers by index.
package fiber

// Vertex is a point in the producer's coordinate space.
type Vertex struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Fiber is an ordered polyline. Order is the traced path, not a point cloud.
type Fiber []Vertex

// FiberSet holds every track loaded from one source.
type FiberSet []Fiber

// VertexCount returns the total number of vertices across all fibers.
func (fs FiberSet) VertexCount() int {
	n := 0
	for _, f := range fs {
		n += len(f)
	}
	return n
}
