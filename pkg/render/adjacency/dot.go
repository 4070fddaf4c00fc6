// Package adjacency renders the room adjacency graph of a floor.
//
// Two rooms are adjacent when their polygons share a wall segment of
// positive length. The graph is emitted as Graphviz DOT and can be
// rendered to SVG with [RenderSVG].
package adjacency

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/spec"
)

// Options configures adjacency diagram rendering.
type Options struct {
	// Detailed includes zone and area in node labels.
	// When false, only the room name is shown.
	Detailed bool
}

// zoneFill maps room zones to node fill colors.
var zoneFill = map[spec.Zone]string{
	spec.ZonePublic:  "#e8f0da",
	spec.ZonePrivate: "#dae6f0",
	spec.ZoneService: "#f0e4da",
}

// ToDOT converts a floor's room adjacency graph to Graphviz DOT.
// Rooms render in model order and edges in first-contact order, so the
// output is deterministic for identical input.
func ToDOT(f model.Floor, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, r := range f.Rooms {
		label := fmtLabel(r, opts.Detailed)
		fill := zoneFill[r.Zone]
		if fill == "" {
			fill = "white"
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", r.Name, label, fill)
	}

	buf.WriteString("\n")
	for i := 0; i < len(f.Rooms); i++ {
		for j := i + 1; j < len(f.Rooms); j++ {
			if Adjacent(f.Rooms[i].Polygon, f.Rooms[j].Polygon) {
				fmt.Fprintf(&buf, "  %q -- %q;\n", f.Rooms[i].Name, f.Rooms[j].Name)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(r model.Room, detailed bool) string {
	if !detailed {
		return r.Name
	}
	return fmt.Sprintf("%s\n%s, %.1f m²", r.Name, r.Zone, r.Polygon.Area())
}

// Adjacent reports whether two room polygons share a boundary segment
// of positive length.
func Adjacent(a, b geom.Polygon) bool {
	for _, ea := range a.Edges() {
		for _, eb := range b.Edges() {
			if sharedLength(ea, eb) > geom.Epsilon {
				return true
			}
		}
	}
	return false
}

// sharedLength returns the overlap length of two collinear segments,
// or 0 when they are not collinear.
func sharedLength(a, b geom.Segment) float64 {
	da := a.B.Sub(a.A)
	db := b.B.Sub(b.A)
	// Parallel and on the same line.
	if math.Abs(da.X*db.Y-da.Y*db.X) > geom.Epsilon {
		return 0
	}
	ab := b.A.Sub(a.A)
	if math.Abs(da.X*ab.Y-da.Y*ab.X) > geom.Epsilon {
		return 0
	}

	// Project onto the dominant axis of a.
	proj := func(p geom.Point) float64 {
		if math.Abs(da.X) >= math.Abs(da.Y) {
			return p.X
		}
		return p.Y
	}
	lo1, hi1 := minmax(proj(a.A), proj(a.B))
	lo2, hi2 := minmax(proj(b.A), proj(b.B))

	overlap := math.Min(hi1, hi2) - math.Max(lo1, lo2)
	if overlap < 0 {
		return 0
	}
	return overlap
}

func minmax(a, b float64) (float64, float64) {
	if a < b {
		return a, b
	}
	return b, a
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// EdgeCount returns the number of adjacency edges in a DOT document.
// Useful for tests and quick reporting without reparsing geometry.
func EdgeCount(dot string) int {
	return strings.Count(dot, " -- ")
}
