package zone

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sanonone/fibermap/pkg/fiber"
)

func randomFibers(r *rand.Rand, n, maxVerts int, extent float32) fiber.FiberSet {
	fs := make(fiber.FiberSet, n)
	for i := range fs {
		// Random walk so fibers look like tracts rather than point clouds.
		f := make(fiber.Fiber, r.Intn(maxVerts+1))
		p := fiber.Vertex{
			X: (r.Float32()*2 - 1) * extent,
			Y: (r.Float32()*2 - 1) * extent,
			Z: (r.Float32()*2 - 1) * extent,
		}
		for j := range f {
			p.X += r.Float32()*4 - 2
			p.Y += r.Float32()*4 - 2
			p.Z += r.Float32()*4 - 2
			f[j] = p
		}
		fs[i] = f
	}
	return fs
}

func randomZones(r *rand.Rand, n int, extent float32) []Sphere {
	zones := make([]Sphere, n)
	for i := range zones {
		zones[i] = Sphere{
			Center: fiber.Vertex{
				X: (r.Float32()*2 - 1) * extent,
				Y: (r.Float32()*2 - 1) * extent,
				Z: (r.Float32()*2 - 1) * extent,
			},
			Radius: 5 + r.Float32()*25,
		}
	}
	return zones
}

func TestParallelMatchesSequential(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	ctx := context.Background()

	for _, workers := range []int{1, 2, 3, 8, 0} {
		for _, nFibers := range []int{0, 1, 63, 64, 65, 500} {
			t.Run(fmt.Sprintf("w%d_f%d", workers, nFibers), func(t *testing.T) {
				fibers := randomFibers(r, nFibers, 40, 100)
				zones := randomZones(r, 20, 100)

				want := ComputeMembership(fibers, zones)
				got, err := ComputeMembershipParallel(ctx, fibers, zones, workers)
				if err != nil {
					t.Fatal(err)
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("parallel differs from sequential (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestParallelBoundaryPrefilter(t *testing.T) {
	// A single vertex on the surface: its bounding box is degenerate and the
	// box test must still accept it.
	fibers := fiber.FiberSet{{{X: 3, Y: 4, Z: 0}}}
	zones := []Sphere{{Radius: 5}}
	got, err := ComputeMembershipParallel(context.Background(), fibers, zones, 4)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Table{{Fiber: 0, Zone: 0}}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParallelIgnoresNaNVertices(t *testing.T) {
	nan := float32(math.NaN())
	fibers := fiber.FiberSet{
		{{X: nan}, {X: 0}},
		{{X: 0.5, Y: nan}, {X: 2, Y: 2}, {Z: 0.5}},
		{{X: nan, Y: nan, Z: nan}},
		{{X: 40}, {Y: nan}, {X: 41}},
	}
	zones := []Sphere{{Radius: 1}, {Center: fiber.Vertex{X: 40}, Radius: 0.5}}

	want := Table{{Fiber: 0, Zone: 0}, {Fiber: 1, Zone: 0}, {Fiber: 3, Zone: 1}}
	if diff := cmp.Diff(want, ComputeMembership(fibers, zones)); diff != "" {
		t.Fatalf("sequential (-want +got):\n%s", diff)
	}
	for _, workers := range []int{1, 2, 4} {
		got, err := ComputeMembershipParallel(context.Background(), fibers, zones, workers)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("workers=%d (-want +got):\n%s", workers, diff)
		}
	}
}

func TestParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fibers := randomFibers(rand.New(rand.NewSource(1)), 10, 5, 10)
	_, err := ComputeMembershipParallel(ctx, fibers, []Sphere{{Radius: 1}}, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestComputeModels(t *testing.T) {
	ctx := context.Background()

	t.Run("mismatched lengths", func(t *testing.T) {
		fibers := []fiber.FiberSet{{}, {}}
		zones := [][]Sphere{{}}
		tables, err := ComputeModels(ctx, fibers, zones, 0)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("got %v, want ErrInvalidArgument", err)
		}
		if tables != nil {
			t.Errorf("got %d tables, want none", len(tables))
		}
	})

	t.Run("no cross-model leakage", func(t *testing.T) {
		// Model 1 has a zone at X=0 where only model 0 has a fiber.
		fibers := []fiber.FiberSet{
			{{{X: 0}}, {{X: 300}}},
			{{{X: 300}}},
		}
		zones := [][]Sphere{
			{{Center: fiber.Vertex{X: 0}, Radius: 1}},
			{{Center: fiber.Vertex{X: 300}, Radius: 1}, {Center: fiber.Vertex{X: 0}, Radius: 1}},
		}
		tables, err := ComputeModels(ctx, fibers, zones, 4)
		if err != nil {
			t.Fatal(err)
		}
		want := []Table{
			{{Fiber: 0, Zone: 0}},
			{{Fiber: 0, Zone: 0}},
		}
		if diff := cmp.Diff(want, tables); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		for m, table := range tables {
			for _, e := range table {
				if e.Zone >= len(zones[m]) || e.Fiber >= len(fibers[m]) {
					t.Errorf("model %d entry %+v references another model", m, e)
				}
			}
		}
	})

	t.Run("matches per-model sequential", func(t *testing.T) {
		r := rand.New(rand.NewSource(5))
		var fibers []fiber.FiberSet
		var zones [][]Sphere
		for m := 0; m < 4; m++ {
			fibers = append(fibers, randomFibers(r, 150, 30, 80))
			zones = append(zones, randomZones(r, 10, 80))
		}
		tables, err := ComputeModels(ctx, fibers, zones, 3)
		if err != nil {
			t.Fatal(err)
		}
		for m := range fibers {
			if diff := cmp.Diff(ComputeMembership(fibers[m], zones[m]), tables[m]); diff != "" {
				t.Errorf("model %d (-want +got):\n%s", m, diff)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		tables, err := ComputeModels(ctx, nil, nil, 0)
		if err != nil || len(tables) != 0 {
			t.Errorf("got %v, %v", tables, err)
		}
	})
}

func BenchmarkComputeMembership(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	fibers := randomFibers(r, 2000, 60, 100)
	zones := randomZones(r, 32, 100)

	b.Run("Sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			ComputeMembership(fibers, zones)
		}
	})
	b.Run("Parallel", func(b *testing.B) {
		ctx := context.Background()
		for i := 0; i < b.N; i++ {
			ComputeMembershipParallel(ctx, fibers, zones, 0)
		}
	})
}
