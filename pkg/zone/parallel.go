package zone

import (
	"context"
	"fmt"

	"github.com/klauspost/cpuid/v2"
	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/tidwall/btree"
	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest fiber range handed to one worker.
const minChunk = 64

// DefaultWorkers returns the worker count used when callers pass 0.
func DefaultWorkers() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return 1
}

// entryLess orders entries zone-major, the order ComputeMembership emits.
func entryLess(a, b Entry) bool {
	if a.Zone != b.Zone {
		return a.Zone < b.Zone
	}
	return a.Fiber < b.Fiber
}

// ComputeMembershipParallel returns the same Table as ComputeMembership,
// splitting the fibers into ranges processed concurrently.
//
// Each fiber's bounding box is computed once and zones whose sphere misses the
// box are skipped without scanning vertices. Results are merged through an
// ordered tree, so the output order does not depend on scheduling.
func ComputeMembershipParallel(ctx context.Context, fibers fiber.FiberSet, zones []Sphere, workers int) (Table, error) {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(fibers) == 0 || len(zones) == 0 {
		return Table{}, nil
	}

	chunk := (len(fibers) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}
	nChunks := (len(fibers) + chunk - 1) / chunk
	partial := make([][]Entry, nChunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for c := 0; c < nChunks; c++ {
		lo := c * chunk
		hi := min(lo+chunk, len(fibers))
		g.Go(func() error {
			var out []Entry
			for f := lo; f < hi; f++ {
				if f%minChunk == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				fb := fibers[f]
				var box fiber.Bounds
				for _, v := range fb {
					box.Extend(v)
				}
				for z, s := range zones {
					if intersectsBounds(s, box) && touches(fb, s) {
						out = append(out, Entry{Fiber: f, Zone: z})
					}
				}
			}
			partial[c] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tr := btree.NewBTreeG[Entry](entryLess)
	for _, part := range partial {
		for _, e := range part {
			tr.Set(e)
		}
	}

	table := make(Table, 0, tr.Len())
	tr.Scan(func(e Entry) bool {
		table = append(table, e)
		return true
	})
	return table, nil
}

// ComputeModels runs the analysis independently for every model instance.
// fibers[i] is tested only against zones[i]; the result keeps the model index
// as its outer grouping. Mismatched lengths fail before any work is done.
func ComputeModels(ctx context.Context, fibers []fiber.FiberSet, zones [][]Sphere, workers int) ([]Table, error) {
	if len(fibers) != len(zones) {
		return nil, fmt.Errorf("%w: %d fiber sets for %d zone collections", ErrInvalidArgument, len(fibers), len(zones))
	}
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	tables := make([]Table, len(fibers))
	g, gctx := errgroup.WithContext(ctx)
	// Models share the worker budget with the per-model fan-out.
	perModel := max(1, workers/max(1, len(fibers)))

	for m := range fibers {
		g.Go(func() error {
			t, err := ComputeMembershipParallel(gctx, fibers[m], zones[m], perModel)
			if err != nil {
				return fmt.Errorf("model %d: %w", m, err)
			}
			tables[m] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
