package fiber

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func randomFiberSet(r *rand.Rand, fibers, maxVerts int) FiberSet {
	fs := make(FiberSet, fibers)
	for i := range fs {
		f := make(Fiber, r.Intn(maxVerts+1))
		for j := range f {
			f[j] = Vertex{
				X: r.Float32()*400 - 200,
				Y: r.Float32()*400 - 200,
				Z: r.Float32()*400 - 200,
			}
		}
		fs[i] = f
	}
	return fs
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	cases := map[string]FiberSet{
		"empty set":      {},
		"one empty":      {{}},
		"single vertex":  {{{1, 2, 3}}},
		"mixed empties":  {{}, {{1, 1, 1}, {2, 2, 2}}, {}},
		"special floats": {{{float32(math.Inf(1)), -0, math.MaxFloat32}, {math.SmallestNonzeroFloat32, -1e-30, 7}}},
		"random":         randomFiberSet(r, 200, 40),
	}

	for name, fs := range cases {
		t.Run(name, func(t *testing.T) {
			buf, err := Encode(fs)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := Decode(buf)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(fs, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTripPreservesNaNBits(t *testing.T) {
	nan := math.Float32frombits(0x7fc00001)
	buf, err := Encode(FiberSet{{{nan, 0, 0}}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if bits := math.Float32bits(got[0][0].X); bits != 0x7fc00001 {
		t.Errorf("NaN payload not preserved: got %#x", bits)
	}
}

func TestEncodedSize(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		fs := randomFiberSet(r, r.Intn(50), 30)
		want := 4
		for _, f := range fs {
			want += 4 + 12*len(f)
		}
		buf, err := Encode(fs)
		if err != nil {
			t.Fatal(err)
		}
		if len(buf) != want || EncodedSize(fs) != want {
			t.Errorf("size: got len %d, EncodedSize %d, want %d", len(buf), EncodedSize(fs), want)
		}
		if cap(buf) != want {
			t.Errorf("buffer capacity %d, want exactly %d", cap(buf), want)
		}
	}
}

func TestEmptySet(t *testing.T) {
	buf, err := Encode(FiberSet{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{0, 0, 0, 0}) {
		t.Fatalf("got %v, want 4 zero bytes", buf)
	}
	fs, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if fs == nil || len(fs) != 0 {
		t.Errorf("got %#v, want empty non-nil set", fs)
	}
}

func TestEncodeLayout(t *testing.T) {
	buf, err := Encode(FiberSet{{{1, 2, 3}}, {}})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		2, 0, 0, 0, // N
		1, 0, 0, 0, // M fiber 0
		0x00, 0x00, 0x80, 0x3f, // 1.0
		0x00, 0x00, 0x00, 0x40, // 2.0
		0x00, 0x00, 0x40, 0x40, // 3.0
		0, 0, 0, 0, // M fiber 1
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("layout mismatch:\n got %x\nwant %x", buf, want)
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	fs := FiberSet{{{1, 2, 3}, {4, 5, 6}}}
	buf, _ := Encode(fs)
	buf = append(buf, 0xde, 0xad, 0xbe, 0xef, 0x01)

	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("trailing bytes must be tolerated, got %v", err)
	}
	if diff := cmp.Diff(fs, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func le32(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func TestDecodeMalformed(t *testing.T) {
	valid, _ := Encode(FiberSet{{{1, 2, 3}, {4, 5, 6}}, {{7, 8, 9}}})

	cases := []struct {
		name       string
		data       []byte
		wantOffset int
	}{
		{"nil buffer", nil, 0},
		{"short header", []byte{1, 0}, 0},
		{"negative fiber count", le32(-1), 0},
		{"missing fiber", le32(1), 4},
		{"negative vertex count", append(le32(1), le32(-5)...), 4},
		{"vertex count past end", append(le32(1), le32(3)...), 8},
		{"huge fiber count", le32(math.MaxInt32), 4},
		{"huge vertex count", append(le32(1), le32(math.MaxInt32)...), 8},
		{"cut in vertex", valid[:len(valid)-3], 36},
		{"cut before second count", valid[:32], 32},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs, err := Decode(tc.data)
			if err == nil {
				t.Fatalf("expected error, got %d fibers", len(fs))
			}
			if fs != nil {
				t.Errorf("partial result returned: %#v", fs)
			}
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("error %v is not ErrMalformedInput", err)
			}
			if errors.Is(err, ErrIO) {
				t.Errorf("malformed input must be distinguishable from ErrIO")
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *DecodeError", err)
			}
			if de.Offset != tc.wantOffset {
				t.Errorf("offset: got %d, want %d", de.Offset, tc.wantOffset)
			}
		})
	}
}

func TestDecodeEveryTruncation(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	buf, _ := Encode(randomFiberSet(r, 10, 5))
	for n := 0; n < len(buf); n++ {
		if _, err := Decode(buf[:n]); !errors.Is(err, ErrMalformedInput) {
			t.Fatalf("prefix of %d/%d bytes: got %v, want ErrMalformedInput", n, len(buf), err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	fs := randomFiberSet(rand.New(rand.NewSource(1)), 1000, 60)
	b.SetBytes(int64(EncodedSize(fs)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Encode(fs)
	}
}

func BenchmarkDecode(b *testing.B) {
	fs := randomFiberSet(rand.New(rand.NewSource(1)), 1000, 60)
	buf, _ := Encode(fs)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Decode(buf)
	}
}
