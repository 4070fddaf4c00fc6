// Package distribute assigns the flat room program to floor indices.
//
// Upstream sources sometimes hand over a program where every room is
// hinted onto floor 0 even though the design has several floors. That
// collapse is detected here and repaired by zone priority: public and
// entrance-critical rooms stay on the ground floor, private rooms move
// up, and service rooms are split to balance the per-floor area load.
package distribute

import (
	"fmt"
	"sort"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/spec"
)

// balanceTolerance is the accepted fractional deviation of a floor's
// room-area sum from the per-floor target before a warning is raised.
const balanceTolerance = 0.30

// AssignedRoom is a program room with its confirmed floor index.
type AssignedRoom struct {
	spec.RoomSpec
	Floor int
}

// Result is the outcome of a distribution run.
type Result struct {
	Rooms []AssignedRoom

	// Redistributed is true when the floor-0 collapse repair ran.
	Redistributed bool

	// Warnings carries advisory findings (load imbalance).
	Warnings []string
}

// Distribute assigns each room in the program to a floor. It returns a
// structured failure, never a partial result: if any floor would end
// up empty while the program is non-empty, the distribution is a hard
// compliance error.
func Distribute(rooms []spec.RoomSpec, floorCount int, siteArea float64) (*Result, error) {
	if floorCount <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidProgram, "floor count must be positive, got %d", floorCount)
	}
	if len(rooms) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidProgram, "room program is empty")
	}
	if len(rooms) < floorCount {
		return nil, errors.New(errors.ErrCodeEmptyFloor,
			"%d rooms cannot populate %d floors", len(rooms), floorCount)
	}

	res := &Result{}

	switch {
	case allHinted(rooms, floorCount) && !collapsedOnGround(rooms, floorCount):
		// Trust the upstream assignment as-is.
		for _, r := range rooms {
			res.Rooms = append(res.Rooms, AssignedRoom{RoomSpec: r, Floor: *r.Floor})
		}
	default:
		res.Redistributed = collapsedOnGround(rooms, floorCount)
		res.Rooms = redistribute(rooms, floorCount, res.Redistributed)
	}

	counts := make([]int, floorCount)
	loads := make([]float64, floorCount)
	for _, r := range res.Rooms {
		counts[r.Floor]++
		loads[r.Floor] += r.TargetArea
	}
	for i, n := range counts {
		if n == 0 {
			return nil, errors.New(errors.ErrCodeEmptyFloor,
				"floor %d has no rooms after distribution", i)
		}
	}

	res.Warnings = append(res.Warnings, balanceWarnings(loads, siteArea, floorCount)...)
	return res, nil
}

// allHinted reports whether every room carries a floor hint usable
// with the given floor count.
func allHinted(rooms []spec.RoomSpec, floorCount int) bool {
	for _, r := range rooms {
		if r.Floor == nil || *r.Floor < 0 || *r.Floor >= floorCount {
			return false
		}
	}
	return true
}

// collapsedOnGround reports the upstream bug this package exists to
// repair: several floors requested, but every room hinted to floor 0.
func collapsedOnGround(rooms []spec.RoomSpec, floorCount int) bool {
	if floorCount < 2 {
		return false
	}
	for _, r := range rooms {
		if r.Floor == nil || *r.Floor != 0 {
			return false
		}
	}
	return true
}

// redistribute performs the priority assignment. When ignoreHints is
// true (floor-0 collapse) every hint is discarded; otherwise valid
// hints are kept and only unhinted rooms are placed.
func redistribute(rooms []spec.RoomSpec, floorCount int, ignoreHints bool) []AssignedRoom {
	out := make([]AssignedRoom, len(rooms))
	loads := make([]float64, floorCount)

	// Stable order: zone priority, then descending area, then name.
	// Keeping the original index makes the output order match input.
	idx := make([]int, len(rooms))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := rooms[idx[a]], rooms[idx[b]]
		if ra.Zone.Priority() != rb.Zone.Priority() {
			return ra.Zone.Priority() < rb.Zone.Priority()
		}
		if ra.TargetArea != rb.TargetArea {
			return ra.TargetArea > rb.TargetArea
		}
		return ra.Name < rb.Name
	})

	for _, i := range idx {
		r := rooms[i]
		floor := -1

		if !ignoreHints && r.Floor != nil && *r.Floor >= 0 && *r.Floor < floorCount {
			floor = *r.Floor
		} else {
			switch r.Zone {
			case spec.ZonePublic:
				floor = 0
			case spec.ZonePrivate:
				if floorCount > 1 {
					floor = leastLoaded(loads[1:]) + 1
				} else {
					floor = 0
				}
			default: // service: split wherever the load is lightest
				floor = leastLoaded(loads)
			}
		}

		out[i] = AssignedRoom{RoomSpec: r, Floor: floor}
		loads[floor] += r.TargetArea
	}

	return out
}

// leastLoaded returns the index of the smallest load, preferring the
// lowest floor on ties.
func leastLoaded(loads []float64) int {
	best := 0
	for i, l := range loads {
		if l < loads[best] {
			best = i
		}
	}
	return best
}

// balanceWarnings compares each floor's area load against the
// per-floor share of the footprint and reports drift beyond the
// balance tolerance.
func balanceWarnings(loads []float64, siteArea float64, floorCount int) []string {
	if siteArea <= 0 {
		return nil
	}
	target := siteArea / float64(floorCount)
	var warns []string
	for i, l := range loads {
		dev := (l - target) / target
		if dev > balanceTolerance || dev < -balanceTolerance {
			warns = append(warns, fmt.Sprintf(
				"floor %d area load %.1f m² deviates %+.0f%% from the %.1f m² per-floor target",
				i, l, dev*100, target))
		}
	}
	return warns
}
