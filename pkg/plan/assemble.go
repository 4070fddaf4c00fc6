// Package plan assembles packed room layouts into full floors: the
// exterior wall shell, interior partition walls, and door and window
// openings sized from the specification's window-to-wall ratio.
//
// The sub-packages hold the individual synthesis stages (distribute,
// pack, stairs, facade); this package owns the floor assembly that
// stitches their outputs into model.Floor values.
package plan

import (
	"fmt"
	"math"
	"sort"

	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/plan/pack"
)

// Wall construction constants, in metres.
const (
	exteriorThickness = 0.30
	interiorThickness = 0.12

	doorWidth  = 0.90
	doorHeight = 2.10

	entranceDoorWidth = 1.00

	windowWidth  = 1.20
	windowHeight = 1.20
	windowSill   = 0.90
)

// FloorInput carries everything the assembler needs for one floor.
type FloorInput struct {
	Index        int
	Height       float64
	Packed       *pack.Result
	Entrance     geom.Orientation
	WindowRatio  float64 // window-to-wall area ratio for exterior walls
	EntranceDoor bool    // place the building entrance door (ground floor)
	Stairs       []model.Stair
}

// BuildFloor assembles a model.Floor from a packed layout: the four
// exterior walls with their facade tags, deduplicated interior
// partitions from room edges, window openings satisfying the
// window-to-wall ratio, and doors for the entrance and each room.
func BuildFloor(in FloorInput) model.Floor {
	w, d := in.Packed.Width, in.Packed.Depth

	f := model.Floor{
		Index:  in.Index,
		Height: in.Height,
		Stairs: in.Stairs,
	}

	// Exterior shell. Wall order fixes the facade wall indices:
	// 0 south, 1 east, 2 north, 3 west, wound counter-clockwise.
	f.Walls = []model.Wall{
		{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: w, Y: 0}, Thickness: exteriorThickness, External: true, LoadBearing: true, Facing: geom.South},
		{Start: geom.Point{X: w, Y: 0}, End: geom.Point{X: w, Y: d}, Thickness: exteriorThickness, External: true, LoadBearing: true, Facing: geom.East},
		{Start: geom.Point{X: w, Y: d}, End: geom.Point{X: 0, Y: d}, Thickness: exteriorThickness, External: true, LoadBearing: true, Facing: geom.North},
		{Start: geom.Point{X: 0, Y: d}, End: geom.Point{X: 0, Y: 0}, Thickness: exteriorThickness, External: true, LoadBearing: true, Facing: geom.West},
	}

	f.Rooms = make([]model.Room, len(in.Packed.Rooms))
	for i, pr := range in.Packed.Rooms {
		f.Rooms[i] = model.Room{
			ID:         pr.ID,
			Name:       pr.Spec.Name,
			Zone:       pr.Spec.Zone,
			TargetArea: pr.Spec.TargetArea,
			Polygon:    pr.Polygon,
		}
	}

	interiorWalls(&f, w, d)
	windows(&f, in.WindowRatio)
	doors(&f, in.Entrance, in.EntranceDoor)

	return f
}

// interiorWalls adds a partition for every room edge that does not lie
// on the exterior shell, deduplicating edges shared by two rooms.
func interiorWalls(f *model.Floor, w, d float64) {
	seen := make(map[string]bool)
	for _, r := range f.Rooms {
		for _, e := range r.Polygon.Edges() {
			if onBoundary(e, w, d) {
				continue
			}
			key := edgeKey(e)
			if seen[key] {
				continue
			}
			seen[key] = true
			f.Walls = append(f.Walls, model.Wall{
				Start:     e.A,
				End:       e.B,
				Thickness: interiorThickness,
			})
		}
	}
}

// onBoundary reports whether both endpoints of e lie on the footprint
// shell, meaning the exterior wall already covers it.
func onBoundary(e geom.Segment, w, d float64) bool {
	on := func(p geom.Point) bool {
		return math.Abs(p.X) < geom.Epsilon || math.Abs(p.X-w) < geom.Epsilon ||
			math.Abs(p.Y) < geom.Epsilon || math.Abs(p.Y-d) < geom.Epsilon
	}
	if !on(e.A) || !on(e.B) {
		return false
	}
	// Both on the shell only counts if they are on the same side.
	sameX := math.Abs(e.A.X-e.B.X) < geom.Epsilon && (math.Abs(e.A.X) < geom.Epsilon || math.Abs(e.A.X-w) < geom.Epsilon)
	sameY := math.Abs(e.A.Y-e.B.Y) < geom.Epsilon && (math.Abs(e.A.Y) < geom.Epsilon || math.Abs(e.A.Y-d) < geom.Epsilon)
	return sameX || sameY
}

// edgeKey canonicalizes an undirected edge for deduplication.
func edgeKey(e geom.Segment) string {
	a, b := e.A, e.B
	if a.X > b.X || (a.X == b.X && a.Y > b.Y) {
		a, b = b, a
	}
	return fmt.Sprintf("%.3f,%.3f-%.3f,%.3f", a.X, a.Y, b.X, b.Y)
}

// windows places evenly spaced window openings along each exterior
// wall until the window-to-wall area ratio is met, then assigns every
// window to the room whose centroid is nearest.
func windows(f *model.Floor, ratio float64) {
	if ratio <= 0 || len(f.Rooms) == 0 {
		return
	}
	for wi, wall := range f.Walls {
		if !wall.External {
			continue
		}
		wallArea := wall.Length() * f.Height
		count := int(math.Round(wallArea * ratio / (windowWidth * windowHeight)))
		if count < 1 {
			count = 1
		}
		// Keep windows clear of the wall ends.
		if maxFit := int(wall.Length() / (windowWidth * 1.5)); count > maxFit {
			count = maxFit
		}
		for k := 0; k < count; k++ {
			pos := (float64(k) + 0.5) / float64(count)
			oi := len(f.Openings)
			f.Openings = append(f.Openings, model.Opening{
				Type:       model.OpeningWindow,
				Wall:       wi,
				Position:   pos,
				Width:      windowWidth,
				Height:     windowHeight,
				SillHeight: windowSill,
			})
			ri := nearestRoom(f, wall.Segment().PointAt(pos))
			f.Rooms[ri].Windows = append(f.Rooms[ri].Windows, oi)
		}
	}
}

// doors places the building entrance on the entrance facade and one
// interior door per room on its first partition wall.
func doors(f *model.Floor, entrance geom.Orientation, entranceDoor bool) {
	if entranceDoor {
		for wi, wall := range f.Walls {
			if wall.External && wall.Facing == entrance {
				f.Openings = append(f.Openings, model.Opening{
					Type:     model.OpeningDoor,
					Wall:     wi,
					Position: 0.5,
					Width:    entranceDoorWidth,
					Height:   doorHeight,
				})
				break
			}
		}
	}

	// Interior partitions start after the four shell walls.
	for ri := range f.Rooms {
		wi := roomPartition(f, ri)
		if wi < 0 {
			continue // room bounded entirely by the shell
		}
		oi := len(f.Openings)
		f.Openings = append(f.Openings, model.Opening{
			Type:     model.OpeningDoor,
			Wall:     wi,
			Position: 0.5,
			Width:    doorWidth,
			Height:   doorHeight,
		})
		f.Rooms[ri].Doors = append(f.Rooms[ri].Doors, oi)
	}
}

// roomPartition finds the longest interior wall bounding the room,
// where the door has the best chance of clearing furniture zones.
func roomPartition(f *model.Floor, ri int) int {
	edges := f.Rooms[ri].Polygon.Edges()
	best, bestLen := -1, 0.0
	for wi := 4; wi < len(f.Walls); wi++ {
		wallKey := edgeKey(f.Walls[wi].Segment())
		for _, e := range edges {
			if edgeKey(e) == wallKey && e.Length() > bestLen {
				best, bestLen = wi, e.Length()
			}
		}
	}
	return best
}

// nearestRoom returns the index of the room whose centroid is closest
// to p, breaking ties by room ID for determinism.
func nearestRoom(f *model.Floor, p geom.Point) int {
	type cand struct {
		idx  int
		dist float64
		id   string
	}
	cands := make([]cand, len(f.Rooms))
	for i, r := range f.Rooms {
		cands[i] = cand{i, r.Polygon.Centroid().Dist(p), r.ID}
	}
	sort.Slice(cands, func(a, b int) bool {
		if cands[a].dist != cands[b].dist {
			return cands[a].dist < cands[b].dist
		}
		return cands[a].id < cands[b].id
	})
	return cands[0].idx
}
