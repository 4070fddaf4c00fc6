package plan

import (
	"testing"

	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/plan/pack"
	"github.com/parti-studio/parti/pkg/spec"
)

// twoRoomFloor splits a 10x8 footprint down the middle.
func twoRoomFloor() FloorInput {
	return FloorInput{
		Index:  0,
		Height: 2.8,
		Packed: &pack.Result{
			Width: 10,
			Depth: 8,
			Rooms: []pack.PackedRoom{
				{
					ID:      "room-0-0",
					Spec:    spec.RoomSpec{Name: "Living Room", Zone: spec.ZonePublic, TargetArea: 40},
					Polygon: geom.Rect(0, 0, 5, 8),
				},
				{
					ID:      "room-0-1",
					Spec:    spec.RoomSpec{Name: "Bedroom", Zone: spec.ZonePrivate, TargetArea: 40},
					Polygon: geom.Rect(5, 0, 5, 8),
				},
			},
		},
		Entrance:     geom.South,
		WindowRatio:  0.15,
		EntranceDoor: true,
	}
}

func TestBuildFloorShell(t *testing.T) {
	f := BuildFloor(twoRoomFloor())

	if f.Index != 0 || f.Height != 2.8 {
		t.Errorf("floor index/height = %d/%.1f, want 0/2.8", f.Index, f.Height)
	}
	if len(f.Walls) < 4 {
		t.Fatalf("floor has %d walls, want at least the 4 shell walls", len(f.Walls))
	}

	wantFacing := []geom.Orientation{geom.South, geom.East, geom.North, geom.West}
	for i, want := range wantFacing {
		w := f.Walls[i]
		if !w.External || !w.LoadBearing {
			t.Errorf("shell wall %d external=%v loadBearing=%v, want both true", i, w.External, w.LoadBearing)
		}
		if w.Facing != want {
			t.Errorf("shell wall %d facing %q, want %q", i, w.Facing, want)
		}
	}
}

func TestBuildFloorSharedPartitionDeduplicated(t *testing.T) {
	f := BuildFloor(twoRoomFloor())

	// The two rooms share the x=5 edge; it must appear exactly once.
	var partitions int
	for _, w := range f.Walls[4:] {
		if w.External {
			t.Errorf("interior wall %v marked external", w)
		}
		partitions++
	}
	if partitions != 1 {
		t.Errorf("floor has %d interior walls, want 1 shared partition", partitions)
	}
}

func TestBuildFloorEntranceDoor(t *testing.T) {
	f := BuildFloor(twoRoomFloor())

	var entrances int
	for _, o := range f.Openings {
		if o.Type != model.OpeningDoor {
			continue
		}
		if f.Walls[o.Wall].External {
			entrances++
			if f.Walls[o.Wall].Facing != geom.South {
				t.Errorf("entrance door on %q facade, want %q", f.Walls[o.Wall].Facing, geom.South)
			}
			if o.Width != entranceDoorWidth {
				t.Errorf("entrance door width %.2f, want %.2f", o.Width, entranceDoorWidth)
			}
		}
	}
	if entrances != 1 {
		t.Errorf("floor has %d entrance doors, want 1", entrances)
	}
}

func TestBuildFloorUpperFloorHasNoEntrance(t *testing.T) {
	in := twoRoomFloor()
	in.Index = 1
	in.EntranceDoor = false
	f := BuildFloor(in)

	for _, o := range f.Openings {
		if o.Type == model.OpeningDoor && f.Walls[o.Wall].External {
			t.Errorf("upper floor has an exterior door on wall %d", o.Wall)
		}
	}
}

func TestBuildFloorWindows(t *testing.T) {
	f := BuildFloor(twoRoomFloor())

	var windows int
	for _, o := range f.Openings {
		if o.Type != model.OpeningWindow {
			continue
		}
		windows++
		if !f.Walls[o.Wall].External {
			t.Errorf("window on interior wall %d", o.Wall)
		}
		if o.Position <= 0 || o.Position >= 1 {
			t.Errorf("window position %.2f outside (0, 1)", o.Position)
		}
		if o.SillHeight != windowSill {
			t.Errorf("window sill %.2f, want %.2f", o.SillHeight, windowSill)
		}
	}
	if windows == 0 {
		t.Fatal("floor has no windows despite a positive window ratio")
	}

	// Every window must be assigned to a room.
	assigned := 0
	for _, r := range f.Rooms {
		assigned += len(r.Windows)
	}
	if assigned != windows {
		t.Errorf("%d of %d windows assigned to rooms", assigned, windows)
	}
}

func TestBuildFloorZeroRatioSkipsWindows(t *testing.T) {
	in := twoRoomFloor()
	in.WindowRatio = 0
	f := BuildFloor(in)

	for _, o := range f.Openings {
		if o.Type == model.OpeningWindow {
			t.Fatal("floor has windows despite a zero window ratio")
		}
	}
}

func TestBuildFloorRoomDoors(t *testing.T) {
	f := BuildFloor(twoRoomFloor())

	// Each room borders the single shared partition, so each can carry
	// an interior door on it.
	for _, r := range f.Rooms {
		if len(r.Doors) != 1 {
			t.Errorf("room %q has %d doors, want 1", r.Name, len(r.Doors))
			continue
		}
		o := f.Openings[r.Doors[0]]
		if f.Walls[o.Wall].External {
			t.Errorf("room %q door placed on an exterior wall", r.Name)
		}
	}
}

func TestBuildFloorCopiesRoomSpecs(t *testing.T) {
	f := BuildFloor(twoRoomFloor())

	if len(f.Rooms) != 2 {
		t.Fatalf("floor has %d rooms, want 2", len(f.Rooms))
	}
	r := f.Rooms[0]
	if r.ID != "room-0-0" || r.Name != "Living Room" || r.Zone != spec.ZonePublic {
		t.Errorf("room 0 = %q/%q/%q, want room-0-0/Living Room/public", r.ID, r.Name, r.Zone)
	}
	if r.TargetArea != 40 {
		t.Errorf("room 0 target area %.1f, want 40", r.TargetArea)
	}
	if got := r.Polygon.Area(); got != 40 {
		t.Errorf("room 0 polygon area %.1f, want 40", got)
	}
}
