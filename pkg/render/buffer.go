// Package render prepares fiber geometry and zone colors in the flat layouts a
// GPU line renderer uploads directly.
package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/x448/float16"
)

// PositionBuffer is a FiberSet flattened to an xyz stream.
// Fiber i spans vertices [Offsets[i], Offsets[i+1]).
type PositionBuffer struct {
	Positions []float32 `json:"positions"`
	Offsets   []int     `json:"offsets"`
}

// Positions flattens fs, preserving fiber and vertex order.
func Positions(fs fiber.FiberSet) PositionBuffer {
	pb := PositionBuffer{
		Positions: make([]float32, 0, 3*fs.VertexCount()),
		Offsets:   make([]int, 0, len(fs)+1),
	}
	n := 0
	for _, f := range fs {
		pb.Offsets = append(pb.Offsets, n)
		for _, v := range f {
			pb.Positions = append(pb.Positions, v.X, v.Y, v.Z)
		}
		n += len(f)
	}
	pb.Offsets = append(pb.Offsets, n)
	return pb
}

// Fibers returns the number of fibers in the buffer.
func (pb PositionBuffer) Fibers() int {
	return len(pb.Offsets) - 1
}

// Vertices returns the xyz slice of fiber i.
func (pb PositionBuffer) Vertices(i int) []float32 {
	return pb.Positions[3*pb.Offsets[i] : 3*pb.Offsets[i+1]]
}

// Half packs the positions as IEEE 754 half-precision bits.
// Values outside the float16 range saturate to ±Inf.
func (pb PositionBuffer) Half() []uint16 {
	out := make([]uint16, len(pb.Positions))
	for i, v := range pb.Positions {
		out[i] = float16.Fromfloat32(v).Bits()
	}
	return out
}

// FromHalf widens a half-precision stream back to float32.
func FromHalf(h []uint16) []float32 {
	out := make([]float32, len(h))
	for i, b := range h {
		out[i] = float16.Frombits(b).Float32()
	}
	return out
}

// Encoding of a position stream on the wire.
type Encoding string

const (
	// Float32 sends each coordinate as 4 little-endian bytes.
	Float32 Encoding = "float32"
	// Half sends each coordinate as 2 little-endian bytes of IEEE half precision.
	Half Encoding = "half"
)

// ParseEncoding accepts "float32" and "half"; empty means Float32.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case "", Float32:
		return Float32, nil
	case Half:
		return Half, nil
	default:
		return "", fmt.Errorf("unknown position encoding %q", s)
	}
}

// Bytes serializes the position stream with enc.
func (pb PositionBuffer) Bytes(enc Encoding) []byte {
	if enc == Half {
		half := pb.Half()
		out := make([]byte, 2*len(half))
		for i, h := range half {
			binary.LittleEndian.PutUint16(out[2*i:], h)
		}
		return out
	}
	out := make([]byte, 4*len(pb.Positions))
	for i, v := range pb.Positions {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

// DecodePositions is the inverse of Bytes, widening half streams to float32.
func DecodePositions(data []byte, enc Encoding) ([]float32, error) {
	if enc == Half {
		if len(data)%2 != 0 {
			return nil, fmt.Errorf("half position stream has odd length %d", len(data))
		}
		half := make([]uint16, len(data)/2)
		for i := range half {
			half[i] = binary.LittleEndian.Uint16(data[2*i:])
		}
		return FromHalf(half), nil
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("float32 position stream length %d is not a multiple of 4", len(data))
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return out, nil
}
