package zone

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/sanonone/fibermap/pkg/geom"
)

func testLayout() Layout {
	return Layout{
		Electrodes: []Electrode{
			{Name: "Fp1", Position: fiber.Vertex{X: 0}, Radius: 1},
			{Name: "Cz", Position: fiber.Vertex{X: 10, Y: 10, Z: 10}, Radius: 1},
		},
		Models: 3,
		Gap:    300,
	}
}

func TestLayoutSpheres(t *testing.T) {
	l := testLayout()
	got := l.Spheres(2)
	want := []Sphere{
		{Center: fiber.Vertex{X: 600}, Radius: 1},
		{Center: fiber.Vertex{X: 610, Y: 10, Z: 10}, Radius: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if l.Electrodes[0].Position.X != 0 {
		t.Error("Spheres mutated the layout")
	}
}

func TestLayoutValidate(t *testing.T) {
	l := testLayout()
	if err := l.Validate(); err != nil {
		t.Fatal(err)
	}
	l.Models = 0
	if err := l.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("models=0: got %v", err)
	}
	l = testLayout()
	l.Electrodes[1].Radius = -2
	if err := l.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative radius: got %v", err)
	}
	for _, r := range []float64{math.NaN(), math.Inf(1)} {
		l = testLayout()
		l.Electrodes[0].Radius = float32(r)
		if err := l.Validate(); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("radius %v: got %v", r, err)
		}
	}
}

func TestLayoutPlacement(t *testing.T) {
	l := testLayout()
	l.Placement = geom.Transform{
		Rotation:    geom.Euler{X: math.Pi},
		Translation: fiber.Vertex{Y: 1},
	}
	fs := fiber.FiberSet{{{X: 1, Y: 1, Z: 0}}}
	placed := l.Place(fs, 1)
	got := placed[0][0]
	// Rx(π): (1,1,0) -> (1,-1,0); +(0,1,0) -> (1,0,0); + model offset 300.
	if math.Abs(float64(got.X-301)) > 1e-4 || math.Abs(float64(got.Y)) > 1e-4 || math.Abs(float64(got.Z)) > 1e-4 {
		t.Errorf("got %+v, want (301, 0, 0)", got)
	}
	if fs[0][0] != (fiber.Vertex{X: 1, Y: 1, Z: 0}) {
		t.Error("Place mutated its input")
	}
}

func TestAnalyze(t *testing.T) {
	l := testLayout()
	fs := fiber.FiberSet{
		{{X: 0}, {X: 5}},
		{{X: 10, Y: 10, Z: 10}, {X: 0.5}},
		{},
	}

	rep, err := Analyze(context.Background(), l, fs, Options{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Policy != LowestZoneWins {
		t.Errorf("policy: got %q", rep.Policy)
	}
	if len(rep.Models) != 3 || rep.Fibers != 3 {
		t.Fatalf("got %d models, %d fibers", len(rep.Models), rep.Fibers)
	}

	wantTable := Table{{Fiber: 0, Zone: 0}, {Fiber: 1, Zone: 0}, {Fiber: 1, Zone: 1}}
	wantAssign := Assignment{0, 0, NoZone}
	for m, res := range rep.Models {
		if res.Model != m {
			t.Errorf("model index: got %d, want %d", res.Model, m)
		}
		// Every model is shifted consistently, so membership is identical.
		if diff := cmp.Diff(wantTable, res.Table); diff != "" {
			t.Errorf("model %d table (-want +got):\n%s", m, diff)
		}
		if diff := cmp.Diff(wantAssign, res.Assignment); diff != "" {
			t.Errorf("model %d assignment (-want +got):\n%s", m, diff)
		}
	}

	rep2, err := Analyze(context.Background(), l, fs, Options{Policy: HighestZoneWins})
	if err != nil {
		t.Fatal(err)
	}
	if rep2.Models[0].Assignment[1] != 1 {
		t.Errorf("highest policy: fiber 1 assigned to %d, want 1", rep2.Models[0].Assignment[1])
	}
	if rep.RunID == rep2.RunID {
		t.Error("run IDs must differ between calls")
	}

	if _, err := Analyze(context.Background(), l, fs, Options{Policy: "nope"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad policy: got %v", err)
	}
}
