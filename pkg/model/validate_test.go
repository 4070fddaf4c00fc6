package model

import (
	"testing"

	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/spec"
)

// fixture returns a coherent 2-floor, 2-room-per-floor model.
func fixture() *BuildingModel {
	room := func(name string, zone spec.Zone, x float64) Room {
		return Room{
			ID:         name,
			Name:       name,
			Zone:       zone,
			TargetArea: 12,
			Polygon:    geom.Rect(x, 0, 4, 3),
		}
	}
	floor := func(idx int) Floor {
		return Floor{
			Index:  idx,
			Height: 2.8,
			Rooms:  []Room{room("A", spec.ZonePublic, 0), room("B", spec.ZonePrivate, 5)},
			Walls: []Wall{
				{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}, External: true, Facing: geom.South},
			},
			Openings: []Opening{
				{Type: OpeningWindow, Wall: 0, Position: 0.3, Width: 1.2, Height: 1.2, SillHeight: 0.9},
			},
		}
	}

	m := &BuildingModel{
		Floors:   []Floor{floor(0), floor(1)},
		Entrance: geom.South,
		Stairs: []Stair{{
			Type: StairStraight, Width: 0.9, RiserCount: 16,
			RiserHeight: 0.175, TreadDepth: 0.28,
			FromFloor: 0, ToFloor: 1,
			Footprint: geom.Rect(0, 5, 1, 4),
		}},
		FacadeSummary: map[geom.Orientation]FacadeCounts{
			geom.South: {WindowCount: 2, DoorCount: 1},
		},
	}
	return m
}

func TestValidatePassesOnCoherentModel(t *testing.T) {
	res := fixture().Validate()
	if !res.Valid {
		t.Fatalf("Valid = false, errors: %v", res.Errors)
	}
	if res.Metrics.Floors != 2 {
		t.Errorf("Metrics.Floors = %d, want 2", res.Metrics.Floors)
	}
	if res.Metrics.Rooms != 4 {
		t.Errorf("Metrics.Rooms = %d, want 4", res.Metrics.Rooms)
	}
	if res.Metrics.Stairs < 1 {
		t.Errorf("Metrics.Stairs = %d, want >= 1", res.Metrics.Stairs)
	}
}

func TestValidateMissingStair(t *testing.T) {
	m := fixture()
	m.Stairs = nil

	res := m.Validate()
	if res.Valid {
		t.Fatal("Valid = true for stairless 2-floor model")
	}
	found := false
	for _, e := range res.Errors {
		if e.Check == "stair_coverage" {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want a stair_coverage error", res.Errors)
	}
	// Metrics still reported on failure.
	if res.Metrics.Floors != 2 {
		t.Errorf("Metrics.Floors = %d on failure, want 2", res.Metrics.Floors)
	}
}

func TestValidateFloorIndexGap(t *testing.T) {
	m := fixture()
	m.Floors[1].Index = 3

	res := m.Validate()
	if res.Valid {
		t.Fatal("Valid = true with a floor index gap")
	}
}

func TestValidateDegenerateRoom(t *testing.T) {
	m := fixture()
	m.Floors[0].Rooms[0].Polygon = geom.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}}

	res := m.Validate()
	if res.Valid {
		t.Fatal("Valid = true with a 2-vertex room")
	}
	found := false
	for _, e := range res.Errors {
		if e.Check == "room_geometry" {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want a room_geometry error", res.Errors)
	}
}

func TestValidateEntranceDoor(t *testing.T) {
	m := fixture()
	m.FacadeSummary[geom.South] = FacadeCounts{WindowCount: 2, DoorCount: 0}

	res := m.Validate()
	if res.Valid {
		t.Fatal("Valid = true with no entrance door")
	}
}

func TestValidateCarriesModelWarnings(t *testing.T) {
	m := fixture()
	m.Warnings = []ValidationWarning{{Check: "density", Message: "highly dense"}}

	res := m.Validate()
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want the model warning carried through", res.Warnings)
	}
	if !res.Valid {
		t.Error("warnings must not fail validation")
	}
}

func TestWindowTotal(t *testing.T) {
	if got := fixture().WindowTotal(); got != 2 {
		t.Errorf("WindowTotal() = %d, want 2", got)
	}
}

func TestLock(t *testing.T) {
	m := fixture()
	m.Fingerprint = "abc123"

	lock := m.Lock()
	if lock.Fingerprint != "abc123" {
		t.Errorf("lock fingerprint = %q, want abc123", lock.Fingerprint)
	}
	if len(lock.Rooms) != 4 {
		t.Fatalf("locked rooms = %d, want 4", len(lock.Rooms))
	}
	if lock.Rooms[0].Floor != 0 || lock.Rooms[2].Floor != 1 {
		t.Errorf("locked floor assignment wrong: %+v", lock.Rooms)
	}
}

func TestRoomByName(t *testing.T) {
	m := fixture()
	r, f := m.RoomByName("B")
	if r == nil || f != 0 {
		t.Fatalf("RoomByName(B) = %v floor %d, want room on floor 0", r, f)
	}
	if r2, f2 := m.RoomByName("nope"); r2 != nil || f2 != -1 {
		t.Error("RoomByName(nope) found a room")
	}
}

func TestValidateWarnsOnStairShaftOverlap(t *testing.T) {
	m := fixture()
	// Push room A on the ground floor into the shaft at (0,5)-(1,9).
	m.Floors[0].Rooms[0].Polygon = geom.Rect(0, 4, 4, 3)

	res := m.Validate()
	if !res.Valid {
		t.Fatalf("shaft overlap must warn, not fail; errors: %v", res.Errors)
	}
	found := false
	for _, w := range res.Warnings {
		if w.Check == "stair_clearance" {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want a stair_clearance warning", res.Warnings)
	}
}

func TestValidateShaftEdgeContactIsClear(t *testing.T) {
	m := fixture()
	// Room A ends exactly where the shaft begins; touching edges are
	// not an intrusion.
	m.Floors[0].Rooms[0].Polygon = geom.Rect(1, 5, 4, 3)

	res := m.Validate()
	for _, w := range res.Warnings {
		if w.Check == "stair_clearance" {
			t.Errorf("warning %v for a room merely touching the shaft", w)
		}
	}
}
