// Package pack converts per-room target areas and zone priorities into
// non-overlapping axis-aligned room polygons within a floor footprint.
//
// # Algorithm
//
// Rooms are strip-packed: sorted by zone priority (public before
// private before service), then placed left-to-right into horizontal
// strips spanning the footprint width. Adjacency hints refine that
// order: a room naming an already-placed room is pulled forward so the
// pair lands in the same or a neighbouring strip. Each room's
// width/length pair is derived from its target area and a
// program-specific aspect ratio (hallways long and thin, bathrooms
// near-square) rather than forced to a square. A minimum circulation
// width is preserved between rooms and between strips.
//
// # Capacity Handling
//
// When the requested area exceeds footprint capacity by more than the
// configured expansion cap the packing fails with an envelope-expansion
// error rather than silently compressing rooms below usable size. A
// smaller excess triggers an automatic footprint expansion with an
// "Auto-corrected" warning; high-but-feasible density attaches a
// "highly dense" warning without failing.
package pack

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/spec"
)

const (
	// circulationAllowance is the gross-up factor applied to the net
	// requested room area to account for circulation between strips.
	circulationAllowance = 1.25

	// minRoomDim is the smallest usable room dimension in metres.
	// Clamping below this is treated as infeasible, not tolerated.
	minRoomDim = 0.8

	// aspectJitter is the maximum seeded variation applied to room
	// aspect ratios for organic plan variety.
	aspectJitter = 0.08
)

// PackedRoom is one placed room.
type PackedRoom struct {
	ID      string
	Spec    spec.RoomSpec
	Polygon geom.Polygon
}

// Result is the outcome of packing one floor.
type Result struct {
	Rooms []PackedRoom

	// Width and Depth are the footprint dimensions actually used,
	// after any automatic expansion.
	Width, Depth float64

	// ExpansionScale is the area factor applied by auto-expansion
	// (1 when no expansion was needed).
	ExpansionScale float64

	Warnings []string
}

// Pack places the given rooms into a width × depth footprint. The
// floor index only namespaces room IDs; geometry is floor-local. The
// same inputs and seed always produce the same placement.
func Pack(rooms []spec.RoomSpec, floor int, width, depth float64, cfg spec.Config, seed int64) (*Result, error) {
	if width <= 0 || depth <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidFootprint,
			"footprint must have positive dimensions, got %.2f x %.2f", width, depth)
	}
	if len(rooms) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidProgram, "no rooms to pack on floor %d", floor)
	}

	res := &Result{Width: width, Depth: depth, ExpansionScale: 1}

	var total float64
	for _, r := range rooms {
		if r.TargetArea <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidProgram,
				"room %q has non-positive target area", r.Name)
		}
		total += r.TargetArea
	}

	required := total * circulationAllowance
	capacity := width * depth
	scale := required / capacity

	if scale > cfg.ExpansionCap {
		return nil, errors.New(errors.ErrCodeEnvelopeExpansion,
			"requested %.1f m² (with circulation) exceeds the %.1f m² footprint by %.2fx; envelope expansion beyond %.2fx cap required",
			required, capacity, scale, cfg.ExpansionCap)
	}
	if scale > 1+geom.Epsilon {
		f := math.Sqrt(scale)
		res.Width = width * f
		res.Depth = depth * f
		res.ExpansionScale = scale
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"Auto-corrected footprint: expanded %.1fx%.1f m to %.1fx%.1f m to fit the room program",
			width, depth, res.Width, res.Depth))
	} else if scale > cfg.DenseRatio {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"highly dense floor plan: %.0f%% of footprint capacity requested", scale*100))
	}

	ordered := sortRooms(rooms)
	rng := rand.New(rand.NewSource(seed + int64(floor)*7919))

	circ := cfg.CirculationWidth
	x, y, stripDepth := 0.0, 0.0, 0.0

	for _, r := range ordered {
		rw, rd := roomDims(r, rng)
		if rd > res.Depth {
			rd = res.Depth
			rw = r.TargetArea / rd
		}

		// Start a new strip when the room no longer fits this one.
		if x > geom.Epsilon && x+rw > res.Width+geom.Epsilon {
			y += stripDepth + circ
			x, stripDepth = 0, 0
		}
		if rw > res.Width {
			rw = res.Width
			rd = r.TargetArea / rw
		}

		// Clamp against the far edge of the footprint.
		if y+rd > res.Depth {
			remaining := res.Depth - y
			if remaining < minRoomDim {
				return nil, errors.New(errors.ErrCodeInfeasiblePacking,
					"room %q does not fit: %.2f m of footprint depth remaining", r.Name, remaining)
			}
			rd = remaining
			if w := r.TargetArea / rd; x+w <= res.Width+geom.Epsilon {
				rw = w
			} else {
				rw = res.Width - x
			}
		}
		if rw < minRoomDim || rd < minRoomDim {
			return nil, errors.New(errors.ErrCodeInfeasiblePacking,
				"room %q collapses below the %.1f m minimum usable dimension", r.Name, minRoomDim)
		}

		res.Rooms = append(res.Rooms, PackedRoom{
			ID:      roomID(floor, r.Name),
			Spec:    r,
			Polygon: geom.Rect(x, y, rw, rd),
		})

		x += rw + circ
		if rd > stripDepth {
			stripDepth = rd
		}
	}

	return res, nil
}

// sortRooms orders rooms by zone priority, then by descending target
// area, then by name for a stable total order, then pulls hinted
// neighbours together.
func sortRooms(rooms []spec.RoomSpec) []spec.RoomSpec {
	out := make([]spec.RoomSpec, len(rooms))
	copy(out, rooms)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Zone.Priority() != out[b].Zone.Priority() {
			return out[a].Zone.Priority() < out[b].Zone.Priority()
		}
		if out[a].TargetArea != out[b].TargetArea {
			return out[a].TargetArea > out[b].TargetArea
		}
		return out[a].Name < out[b].Name
	})
	return pullHinted(out)
}

// pullHinted greedily reorders sorted rooms so adjacency-hinted pairs
// become consecutive where possible: the first remaining room hinted to
// any already-taken room is taken next, otherwise the base order
// stands. Hints are symmetric and matched case-insensitively.
func pullHinted(rooms []spec.RoomSpec) []spec.RoomSpec {
	hinted := false
	for _, r := range rooms {
		if len(r.Adjacent) > 0 {
			hinted = true
			break
		}
	}
	if !hinted {
		return rooms
	}

	out := make([]spec.RoomSpec, 0, len(rooms))
	rest := append([]spec.RoomSpec(nil), rooms...)
	for len(rest) > 0 {
		next := 0
		for i, r := range rest {
			if hintedToAny(out, r) {
				next = i
				break
			}
		}
		out = append(out, rest[next])
		rest = append(rest[:next], rest[next+1:]...)
	}
	return out
}

func hintedToAny(taken []spec.RoomSpec, r spec.RoomSpec) bool {
	for _, t := range taken {
		if hintsNeighbour(t, r) || hintsNeighbour(r, t) {
			return true
		}
	}
	return false
}

func hintsNeighbour(a, b spec.RoomSpec) bool {
	for _, n := range a.Adjacent {
		if strings.EqualFold(n, b.Name) {
			return true
		}
	}
	return false
}

// roomDims derives a (width, depth) pair from the room's target area
// and aspect ratio, with a small seeded jitter for variety. Width runs
// along the strip; depth across it.
func roomDims(r spec.RoomSpec, rng *rand.Rand) (w, d float64) {
	ar := r.AspectRatio
	if ar <= 0 {
		ar = defaultAspect(r)
	}
	ar *= 1 + (rng.Float64()*2-1)*aspectJitter

	// aspect = length/width; the long side runs along the strip.
	d = math.Sqrt(r.TargetArea / ar)
	w = r.TargetArea / d
	return w, d
}

// defaultAspect returns the program aspect ratio (length/width) for a
// room that does not pin one.
func defaultAspect(r spec.RoomSpec) float64 {
	n := strings.ToLower(r.Name)
	switch {
	case strings.Contains(n, "hall"), strings.Contains(n, "corridor"):
		return 3.5
	case strings.Contains(n, "bath"), strings.Contains(n, "wc"), strings.Contains(n, "toilet"):
		return 1.5
	case strings.Contains(n, "living"):
		return 1.4
	}
	switch r.Zone {
	case spec.ZoneService:
		return 1.6
	default:
		return 1.2
	}
}

// roomID derives a stable room identifier from the floor and name.
// SHA-1 UUIDs keep IDs deterministic across runs of the same program.
func roomID(floor int, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("room/%d/%s", floor, name))).String()
}
