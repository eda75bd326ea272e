package zone

import (
	"fmt"
)

// Policy selects the winning zone for a fiber that touches several zones.
type Policy string

const (
	// LowestZoneWins assigns the fiber to the first zone in input order.
	LowestZoneWins Policy = "lowest"
	// HighestZoneWins assigns the fiber to the last zone in input order.
	HighestZoneWins Policy = "highest"
)

// NoZone marks a fiber that touches no zone.
const NoZone = -1

// Assignment maps each fiber index to its winning zone, or NoZone.
type Assignment []int

// ParsePolicy accepts "lowest" and "highest"; empty means LowestZoneWins.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", LowestZoneWins:
		return LowestZoneWins, nil
	case HighestZoneWins:
		return HighestZoneWins, nil
	default:
		return "", fmt.Errorf("%w: unknown tie-break policy %q", ErrInvalidArgument, s)
	}
}

// Resolve collapses a table to one zone per fiber using policy.
// fiberCount sizes the result; an entry referencing a fiber outside
// [0, fiberCount) is a contract violation.
func Resolve(t Table, fiberCount int, policy Policy) (Assignment, error) {
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	if policy == "" {
		policy = LowestZoneWins
	}

	assign := make(Assignment, fiberCount)
	for i := range assign {
		assign[i] = NoZone
	}

	for _, e := range t {
		if e.Fiber < 0 || e.Fiber >= fiberCount {
			return nil, fmt.Errorf("%w: entry references fiber %d of %d", ErrInvalidArgument, e.Fiber, fiberCount)
		}
		cur := assign[e.Fiber]
		switch {
		case cur == NoZone:
			assign[e.Fiber] = e.Zone
		case policy == LowestZoneWins && e.Zone < cur:
			assign[e.Fiber] = e.Zone
		case policy == HighestZoneWins && e.Zone > cur:
			assign[e.Fiber] = e.Zone
		}
	}
	return assign, nil
}

// Count returns how many fibers are assigned to some zone.
func (a Assignment) Count() int {
	n := 0
	for _, z := range a {
		if z != NoZone {
			n++
		}
	}
	return n
}
