package fiber

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Field widths of the Fibers.bin layout.
const (
	// CountSize is the width of the fiber count and of each vertex count (int32).
	CountSize = 4
	// VertexSize is the width of one encoded vertex: 3 x float32.
	VertexSize = 12
)

// EncodedSize returns the exact number of bytes Encode produces for fs:
// 4 + Σ(4 + 12×M_i).
func EncodedSize(fs FiberSet) int {
	size := CountSize
	for _, f := range fs {
		size += CountSize + len(f)*VertexSize
	}
	return size
}

// Encode serializes fs into a freshly allocated buffer of EncodedSize(fs) bytes.
// The buffer is sized once up front and never grows during the write.
func Encode(fs FiberSet) ([]byte, error) {
	if len(fs) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d fibers exceed int32 range", ErrInvalidArgument, len(fs))
	}
	for i, f := range fs {
		if len(f) > math.MaxInt32 {
			return nil, fmt.Errorf("%w: fiber %d has %d vertices, exceeds int32 range", ErrInvalidArgument, i, len(f))
		}
	}

	buf := make([]byte, EncodedSize(fs))
	offset := 0

	binary.LittleEndian.PutUint32(buf[offset:], uint32(int32(len(fs))))
	offset += CountSize

	for _, f := range fs {
		binary.LittleEndian.PutUint32(buf[offset:], uint32(int32(len(f))))
		offset += CountSize

		for _, v := range f {
			binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v.X))
			binary.LittleEndian.PutUint32(buf[offset+4:], math.Float32bits(v.Y))
			binary.LittleEndian.PutUint32(buf[offset+8:], math.Float32bits(v.Z))
			offset += VertexSize
		}
	}

	return buf, nil
}

// Decode rebuilds a FiberSet from data.
// Every read is bounds-checked against the remaining buffer; truncation and
// negative counts return an error wrapping ErrMalformedInput and a nil set.
// Bytes after the last fiber are ignored.
func Decode(data []byte) (FiberSet, error) {
	r := reader{data: data}

	n, err := r.count("fiber count")
	if err != nil {
		return nil, err
	}

	// Each fiber needs at least its own count field. Checking this before the
	// allocation keeps a corrupt header from reserving a huge slice.
	if n > r.remaining()/CountSize {
		return nil, malformed(r.offset, "fiber count %d exceeds remaining %d bytes", n, r.remaining())
	}

	fs := make(FiberSet, n)
	for i := 0; i < n; i++ {
		m, err := r.count(fmt.Sprintf("vertex count of fiber %d", i))
		if err != nil {
			return nil, err
		}
		if m > r.remaining()/VertexSize {
			return nil, malformed(r.offset, "fiber %d declares %d vertices, only %d bytes remain", i, m, r.remaining())
		}

		f := make(Fiber, m)
		for j := 0; j < m; j++ {
			f[j], err = r.vertex()
			if err != nil {
				return nil, err
			}
		}
		fs[i] = f
	}

	return fs, nil
}

// reader walks a byte slice and checks bounds on every field.
type reader struct {
	data   []byte
	offset int
}

func (r *reader) remaining() int {
	return len(r.data) - r.offset
}

func (r *reader) uint32(what string) (uint32, error) {
	if r.remaining() < 4 {
		return 0, malformed(r.offset, "truncated reading %s: need 4 bytes, have %d", what, r.remaining())
	}
	v := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return v, nil
}

func (r *reader) count(what string) (int, error) {
	start := r.offset
	raw, err := r.uint32(what)
	if err != nil {
		return 0, err
	}
	n := int32(raw)
	if n < 0 {
		return 0, malformed(start, "negative %s: %d", what, n)
	}
	return int(n), nil
}

func (r *reader) vertex() (Vertex, error) {
	if r.remaining() < VertexSize {
		return Vertex{}, malformed(r.offset, "truncated vertex: need %d bytes, have %d", VertexSize, r.remaining())
	}
	b := r.data[r.offset:]
	v := Vertex{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
	}
	r.offset += VertexSize
	return v, nil
}
