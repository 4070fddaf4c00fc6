package facade

import (
	"testing"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/spec"
)

// twoFloorFixture builds two floors with a known opening census:
// 2 windows south + 1 window east + 1 door south per floor spread.
func twoFloorFixture() []model.Floor {
	shell := func() []model.Wall {
		return []model.Wall{
			{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}, External: true, Facing: geom.South},
			{Start: geom.Point{X: 10, Y: 0}, End: geom.Point{X: 10, Y: 8}, External: true, Facing: geom.East},
			{Start: geom.Point{X: 10, Y: 8}, End: geom.Point{X: 0, Y: 8}, External: true, Facing: geom.North},
			{Start: geom.Point{X: 0, Y: 8}, End: geom.Point{X: 0, Y: 0}, External: true, Facing: geom.West},
		}
	}

	ground := model.Floor{
		Index: 0, Height: 3,
		Walls: shell(),
		Openings: []model.Opening{
			{Type: model.OpeningDoor, Wall: 0, Position: 0.5, Width: 1.0, Height: 2.1},
			{Type: model.OpeningWindow, Wall: 0, Position: 0.2, Width: 1.2, Height: 1.2, SillHeight: 0.9},
			{Type: model.OpeningWindow, Wall: 1, Position: 0.5, Width: 1.2, Height: 1.2, SillHeight: 0.9},
		},
	}
	upper := model.Floor{
		Index: 1, Height: 3,
		Walls: shell(),
		Openings: []model.Opening{
			{Type: model.OpeningWindow, Wall: 0, Position: 0.7, Width: 1.2, Height: 1.2, SillHeight: 0.9},
		},
	}
	return []model.Floor{ground, upper}
}

func TestBuildSummaryMatchesOpenings(t *testing.T) {
	floors := twoFloorFixture()
	_, summary, err := Build(floors, spec.Roof{Type: spec.RoofFlat}, 10, 8)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var summaryWindows int
	for _, c := range summary {
		summaryWindows += c.WindowCount
	}
	var floorWindows int
	for _, f := range floors {
		floorWindows += f.OpeningCount(model.OpeningWindow)
	}
	if summaryWindows != floorWindows {
		t.Errorf("summary windows = %d, floor windows = %d, want equal", summaryWindows, floorWindows)
	}

	if summary[geom.South].DoorCount != 1 {
		t.Errorf("south doors = %d, want 1", summary[geom.South].DoorCount)
	}
	if summary[geom.South].WindowCount != 2 {
		t.Errorf("south windows = %d, want 2", summary[geom.South].WindowCount)
	}
	if summary[geom.East].WindowCount != 1 {
		t.Errorf("east windows = %d, want 1", summary[geom.East].WindowCount)
	}
	if summary[geom.North].WindowCount != 0 || summary[geom.West].WindowCount != 0 {
		t.Errorf("north/west windows = %d/%d, want 0/0",
			summary[geom.North].WindowCount, summary[geom.West].WindowCount)
	}
}

func TestBuildProjectsCumulativeElevation(t *testing.T) {
	floors := twoFloorFixture()
	els, _, err := Build(floors, spec.Roof{Type: spec.RoofFlat}, 10, 8)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var south *Elevation
	for i := range els {
		if els[i].Orientation == geom.South {
			south = &els[i]
		}
	}
	if south == nil {
		t.Fatal("no south elevation produced")
	}

	// Upper-floor window sits at base 3 m + sill 0.9 m.
	var found bool
	for _, op := range south.Openings {
		if op.Floor == 1 && op.Type == model.OpeningWindow {
			found = true
			if op.Z != 3.9 {
				t.Errorf("upper window Z = %v, want 3.9", op.Z)
			}
		}
	}
	if !found {
		t.Error("upper-floor window missing from south elevation")
	}

	// Ground door starts at grade.
	for _, op := range south.Openings {
		if op.Type == model.OpeningDoor && op.Z != 0 {
			t.Errorf("door Z = %v, want 0", op.Z)
		}
	}
}

func TestBuildRoofProfiles(t *testing.T) {
	floors := twoFloorFixture()

	// Ridge runs east–west: east/west are gable ends (triangle),
	// north/south only show the eave line.
	els, _, err := Build(floors, spec.Roof{Type: spec.RoofGable, PitchDeg: 30, Ridge: spec.AxisEastWest}, 10, 8)
	if err != nil {
		t.Fatal(err)
	}
	byOrient := map[geom.Orientation]Elevation{}
	for _, el := range els {
		byOrient[el.Orientation] = el
	}

	if n := len(byOrient[geom.East].RoofProfile); n != 3 {
		t.Errorf("east gable end roof profile has %d points, want 3", n)
	}
	if n := len(byOrient[geom.South].RoofProfile); n != 2 {
		t.Errorf("south gable side roof profile has %d points, want 2 (eave line)", n)
	}
	if h := byOrient[geom.East].Bounds.Height; h <= 6 {
		t.Errorf("gable end height = %v, want > 6 (eave + ridge rise)", h)
	}
	if h := byOrient[geom.South].Bounds.Height; h != 6 {
		t.Errorf("gable side height = %v, want 6 (eave only)", h)
	}

	// Hip degrades to a trapezoid everywhere.
	els, _, err = Build(floors, spec.Roof{Type: spec.RoofHip, PitchDeg: 25}, 10, 8)
	if err != nil {
		t.Fatal(err)
	}
	for _, el := range els {
		if len(el.RoofProfile) != 4 {
			t.Errorf("%s hip roof profile has %d points, want 4", el.Orientation, len(el.RoofProfile))
		}
	}
}

func TestBuildFacadeWidths(t *testing.T) {
	els, _, err := Build(twoFloorFixture(), spec.Roof{Type: spec.RoofFlat}, 10, 8)
	if err != nil {
		t.Fatal(err)
	}
	for _, el := range els {
		want := 10.0
		if el.Orientation == geom.East || el.Orientation == geom.West {
			want = 8.0
		}
		if el.Bounds.Width != want {
			t.Errorf("%s width = %v, want %v", el.Orientation, el.Bounds.Width, want)
		}
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	if _, _, err := Build(nil, spec.Roof{Type: spec.RoofFlat}, 0, 8); !errors.Is(err, errors.ErrCodeFacadeProjection) {
		t.Errorf("zero width error = %v, want FACADE_PROJECTION", err)
	}

	floors := twoFloorFixture()
	floors[0].Openings[0].Wall = 99
	if _, _, err := Build(floors, spec.Roof{Type: spec.RoofFlat}, 10, 8); !errors.Is(err, errors.ErrCodeFacadeProjection) {
		t.Errorf("dangling wall ref error = %v, want FACADE_PROJECTION", err)
	}
}
