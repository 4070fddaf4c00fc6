package plan

import (
	"bytes"
	"strings"
	"testing"

	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/spec"
)

func testFloor() model.Floor {
	return model.Floor{
		Index:  0,
		Height: 2.8,
		Rooms: []model.Room{
			{ID: "a", Name: "living", Zone: spec.ZonePublic, Polygon: geom.Rect(0, 0, 5, 4)},
			{ID: "b", Name: "kitchen", Zone: spec.ZonePublic, Polygon: geom.Rect(5, 0, 5, 4)},
		},
		Walls: []model.Wall{
			{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}, Thickness: 0.3, External: true, Facing: geom.South},
			{Start: geom.Point{X: 10, Y: 0}, End: geom.Point{X: 10, Y: 8}, Thickness: 0.3, External: true, Facing: geom.East},
			{Start: geom.Point{X: 10, Y: 8}, End: geom.Point{X: 0, Y: 8}, Thickness: 0.3, External: true, Facing: geom.North},
			{Start: geom.Point{X: 0, Y: 8}, End: geom.Point{X: 0, Y: 0}, Thickness: 0.3, External: true, Facing: geom.West},
			{Start: geom.Point{X: 5, Y: 0}, End: geom.Point{X: 5, Y: 4}, Thickness: 0.12},
		},
		Openings: []model.Opening{
			{Type: model.OpeningDoor, Wall: 0, Position: 0.5, Width: 1.0, Height: 2.1},
			{Type: model.OpeningWindow, Wall: 1, Position: 0.4, Width: 1.2, Height: 1.2, SillHeight: 0.9},
		},
		Stairs: []model.Stair{
			{Type: model.StairStraight, Footprint: geom.Rect(0, 4, 1, 3.5), TreadDepth: 0.28, Width: 0.9},
		},
	}
}

func TestRenderSVGStructure(t *testing.T) {
	svg := string(RenderSVG(testFloor(), Options{Labels: true}))

	if !strings.HasPrefix(svg, "<svg xmlns=") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatal("output is not a closed svg document")
	}
	// Two rooms and one stair footprint.
	if got := strings.Count(svg, "<polygon"); got != 3 {
		t.Errorf("polygons = %d, want 3", got)
	}
	if !strings.Contains(svg, ">living</text>") || !strings.Contains(svg, ">kitchen</text>") {
		t.Error("room labels missing")
	}
	if !strings.Contains(svg, windowStroke) {
		t.Error("window marker missing")
	}
	if !strings.Contains(svg, doorStroke) {
		t.Error("door marker missing")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	a := RenderSVG(testFloor(), Options{Labels: true})
	for i := 0; i < 3; i++ {
		if b := RenderSVG(testFloor(), Options{Labels: true}); !bytes.Equal(a, b) {
			t.Fatal("identical input produced different bytes")
		}
	}

	// Room declaration order must not change the drawing.
	swapped := testFloor()
	swapped.Rooms[0], swapped.Rooms[1] = swapped.Rooms[1], swapped.Rooms[0]
	if !bytes.Equal(a, RenderSVG(swapped, Options{Labels: true})) {
		t.Error("room order changed the rendered bytes")
	}
}

func TestRenderSVGNoLabels(t *testing.T) {
	svg := string(RenderSVG(testFloor(), Options{}))
	if strings.Contains(svg, "<text") {
		t.Error("labels rendered without Options.Labels")
	}
}

func TestRenderSVGScale(t *testing.T) {
	small := RenderSVG(testFloor(), Options{Scale: 10})
	large := RenderSVG(testFloor(), Options{Scale: 80})
	if bytes.Equal(small, large) {
		t.Error("scale had no effect")
	}
}
