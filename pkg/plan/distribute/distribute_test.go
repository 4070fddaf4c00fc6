package distribute

import (
	"testing"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/spec"
)

func intp(i int) *int { return &i }

func TestDistributeKeepsUsableHints(t *testing.T) {
	rooms := []spec.RoomSpec{
		{Name: "Living Room", Zone: spec.ZonePublic, TargetArea: 28, Floor: intp(0)},
		{Name: "Bedroom 1", Zone: spec.ZonePrivate, TargetArea: 16, Floor: intp(1)},
		{Name: "Bedroom 2", Zone: spec.ZonePrivate, TargetArea: 12, Floor: intp(1)},
	}

	res, err := Distribute(rooms, 2, 100)
	if err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}
	if res.Redistributed {
		t.Error("Redistributed = true, want false for consistent hints")
	}
	want := []int{0, 1, 1}
	for i, r := range res.Rooms {
		if r.Floor != want[i] {
			t.Errorf("room %q floor = %d, want %d", r.Name, r.Floor, want[i])
		}
	}
}

func TestDistributeRepairsGroundCollapse(t *testing.T) {
	// Upstream placed everything on floor 0 of a 2-floor building.
	rooms := []spec.RoomSpec{
		{Name: "Living Room", Zone: spec.ZonePublic, TargetArea: 28, Floor: intp(0)},
		{Name: "Kitchen", Zone: spec.ZonePublic, TargetArea: 14, Floor: intp(0)},
		{Name: "Bedroom 1", Zone: spec.ZonePrivate, TargetArea: 16, Floor: intp(0)},
		{Name: "Bedroom 2", Zone: spec.ZonePrivate, TargetArea: 12, Floor: intp(0)},
		{Name: "Bathroom", Zone: spec.ZoneService, TargetArea: 6, Floor: intp(0)},
		{Name: "Hallway", Zone: spec.ZoneService, TargetArea: 8, Floor: intp(0)},
	}

	res, err := Distribute(rooms, 2, 80)
	if err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}
	if !res.Redistributed {
		t.Fatal("Redistributed = false, want true")
	}

	byName := map[string]int{}
	for _, r := range res.Rooms {
		byName[r.Name] = r.Floor
	}
	// Public rooms stay grounded.
	if byName["Living Room"] != 0 || byName["Kitchen"] != 0 {
		t.Errorf("public rooms moved off the ground floor: %v", byName)
	}
	// Private rooms move to the upper floor.
	if byName["Bedroom 1"] != 1 || byName["Bedroom 2"] != 1 {
		t.Errorf("private rooms not moved up: %v", byName)
	}
	// Every floor ends up populated.
	counts := map[int]int{}
	for _, f := range byName {
		counts[f]++
	}
	if counts[0] == 0 || counts[1] == 0 {
		t.Errorf("floor counts = %v, want both floors populated", counts)
	}
}

func TestDistributeEmptyFloorIsHardError(t *testing.T) {
	rooms := []spec.RoomSpec{
		{Name: "Studio", Zone: spec.ZonePublic, TargetArea: 40},
	}

	_, err := Distribute(rooms, 3, 120)
	if !errors.Is(err, errors.ErrCodeEmptyFloor) {
		t.Errorf("error = %v, want EMPTY_FLOOR", err)
	}
}

func TestDistributeEmptyProgram(t *testing.T) {
	_, err := Distribute(nil, 1, 100)
	if !errors.Is(err, errors.ErrCodeInvalidProgram) {
		t.Errorf("error = %v, want INVALID_PROGRAM", err)
	}
}

func TestDistributeSingleFloor(t *testing.T) {
	rooms := []spec.RoomSpec{
		{Name: "Living Room", Zone: spec.ZonePublic, TargetArea: 28},
		{Name: "Bedroom", Zone: spec.ZonePrivate, TargetArea: 14},
	}

	res, err := Distribute(rooms, 1, 60)
	if err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}
	for _, r := range res.Rooms {
		if r.Floor != 0 {
			t.Errorf("room %q floor = %d, want 0", r.Name, r.Floor)
		}
	}
}

func TestDistributeBalanceWarning(t *testing.T) {
	// 10 m² on a site whose per-floor target is 100 m² → huge deviation.
	rooms := []spec.RoomSpec{
		{Name: "Living Room", Zone: spec.ZonePublic, TargetArea: 10},
	}
	res, err := Distribute(rooms, 1, 100)
	if err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected an area-balance warning, got none")
	}
}

func TestDistributeDeterministic(t *testing.T) {
	rooms := []spec.RoomSpec{
		{Name: "Living Room", Zone: spec.ZonePublic, TargetArea: 28, Floor: intp(0)},
		{Name: "Kitchen", Zone: spec.ZonePublic, TargetArea: 14, Floor: intp(0)},
		{Name: "Bedroom 1", Zone: spec.ZonePrivate, TargetArea: 16, Floor: intp(0)},
		{Name: "Bedroom 2", Zone: spec.ZonePrivate, TargetArea: 12, Floor: intp(0)},
		{Name: "Bathroom", Zone: spec.ZoneService, TargetArea: 6, Floor: intp(0)},
	}

	first, err := Distribute(rooms, 2, 80)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Distribute(rooms, 2, 80)
		if err != nil {
			t.Fatal(err)
		}
		for j := range first.Rooms {
			if first.Rooms[j].Floor != again.Rooms[j].Floor {
				t.Fatalf("run %d: room %q floor %d != %d",
					i, first.Rooms[j].Name, again.Rooms[j].Floor, first.Rooms[j].Floor)
			}
		}
	}
}
