package zone

import (
	"github.com/sanonone/fibermap/pkg/fiber"
)

// Entry asserts that fiber Fiber has at least one vertex inside zone Zone.
type Entry struct {
	Fiber int `json:"fiber"`
	Zone  int `json:"zone"`
}

// Table is a membership table ordered zone-major: zones in input order and,
// within a zone, fibers in input order. It holds no duplicate pairs.
type Table []Entry

// ComputeMembership builds the membership table of fibers against zones.
// Outer loop over zones, inner loop over fibers, first-touch per pair.
// A fiber without vertices never matches.
func ComputeMembership(fibers fiber.FiberSet, zones []Sphere) Table {
	table := Table{}
	for z, s := range zones {
		for f, fb := range fibers {
			if touches(fb, s) {
				table = append(table, Entry{Fiber: f, Zone: z})
			}
		}
	}
	return table
}

// touches scans fb in order and stops at the first contained vertex.
func touches(fb fiber.Fiber, s Sphere) bool {
	for _, v := range fb {
		if ContainsPoint(s, v) {
			return true
		}
	}
	return false
}

// Fibers returns the fibers touching zone z, in table order.
func (t Table) Fibers(z int) []int {
	var out []int
	for _, e := range t {
		if e.Zone == z {
			out = append(out, e.Fiber)
		}
	}
	return out
}

// Zones returns the zones touched by fiber f, ascending.
func (t Table) Zones(f int) []int {
	var out []int
	for _, e := range t {
		if e.Fiber == f {
			out = append(out, e.Zone)
		}
	}
	return out
}

// ByZone groups the table into zoneCount fiber lists. Entries whose zone is out
// of range are ignored.
func (t Table) ByZone(zoneCount int) [][]int {
	out := make([][]int, zoneCount)
	for _, e := range t {
		if e.Zone >= 0 && e.Zone < zoneCount {
			out[e.Zone] = append(out[e.Zone], e.Fiber)
		}
	}
	return out
}
