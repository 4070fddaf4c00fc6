// Package plan renders floors as deterministic SVG plan drawings.
//
// Output is stable byte-for-byte for identical input: rooms render in
// model order, floats format with fixed precision, and nothing depends
// on map iteration. That stability is what makes the artifacts safe to
// content-hash for canonical control.
package plan

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/model"
)

// Plan drawing palette.
const (
	paperFill    = "#fdfcf8"
	roomFill     = "#f3eee2"
	roomStroke   = "#4a4339"
	wallStroke   = "#262220"
	windowStroke = "#4a7fae"
	doorStroke   = "#9a6b3f"
	stairStroke  = "#7a7265"
)

// Options configures floor plan rendering.
type Options struct {
	// Scale is the pixel size of one metre. Zero means 40.
	Scale float64

	// Labels draws room names at their centroids.
	Labels bool
}

type svgRenderer struct {
	scale  float64
	margin float64
	buf    bytes.Buffer
}

// RenderSVG renders one floor as an SVG plan drawing.
func RenderSVG(f model.Floor, opts Options) []byte {
	scale := opts.Scale
	if scale <= 0 {
		scale = 40
	}
	r := &svgRenderer{scale: scale, margin: scale} // 1 m paper margin

	w, d := envelope(f)
	fw := w*scale + 2*r.margin
	fh := d*scale + 2*r.margin

	fmt.Fprintf(&r.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		fw, fh, fw, fh)
	fmt.Fprintf(&r.buf, `  <rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", fw, fh, paperFill)

	r.renderRooms(f, d, opts.Labels)
	r.renderStairs(f, d)
	r.renderWalls(f, d)
	r.renderOpenings(f, d)

	r.buf.WriteString("</svg>\n")
	return r.buf.Bytes()
}

// envelope recovers the footprint from the exterior shell, falling
// back to the room bounds for shell-less floors.
func envelope(f model.Floor) (float64, float64) {
	if len(f.Walls) >= 2 && f.Walls[0].External && f.Walls[1].External {
		return f.Walls[0].Length(), f.Walls[1].Length()
	}
	var w, d float64
	for _, room := range f.Rooms {
		_, max := room.Polygon.Bounds()
		if max.X > w {
			w = max.X
		}
		if max.Y > d {
			d = max.Y
		}
	}
	return w, d
}

// pt maps a model point to paper coordinates. Plan Y grows north, SVG
// Y grows down, so the vertical axis flips about the floor depth.
func (r *svgRenderer) pt(p geom.Point, depth float64) (float64, float64) {
	return r.margin + p.X*r.scale, r.margin + (depth-p.Y)*r.scale
}

func (r *svgRenderer) renderRooms(f model.Floor, depth float64, labels bool) {
	rooms := slices.Clone(f.Rooms)
	slices.SortFunc(rooms, func(a, b model.Room) int {
		return cmp.Compare(a.ID, b.ID)
	})

	for _, room := range rooms {
		r.buf.WriteString(`  <polygon points="`)
		for i, p := range room.Polygon {
			if i > 0 {
				r.buf.WriteByte(' ')
			}
			x, y := r.pt(p, depth)
			fmt.Fprintf(&r.buf, "%.1f,%.1f", x, y)
		}
		fmt.Fprintf(&r.buf, `" fill="%s" stroke="%s" stroke-width="1"/>`+"\n", roomFill, roomStroke)

		if labels {
			c := room.Polygon.Centroid()
			x, y := r.pt(c, depth)
			fmt.Fprintf(&r.buf,
				`  <text x="%.1f" y="%.1f" font-size="%.0f" text-anchor="middle" fill="%s">%s</text>`+"\n",
				x, y, r.scale*0.3, roomStroke, room.Name)
		}
	}
}

func (r *svgRenderer) renderWalls(f model.Floor, depth float64) {
	for _, w := range f.Walls {
		x1, y1 := r.pt(w.Start, depth)
		x2, y2 := r.pt(w.End, depth)
		width := w.Thickness * r.scale
		if width <= 0 {
			width = 1
		}
		fmt.Fprintf(&r.buf,
			`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
			x1, y1, x2, y2, wallStroke, width)
	}
}

func (r *svgRenderer) renderOpenings(f model.Floor, depth float64) {
	for _, op := range f.Openings {
		if op.Wall < 0 || op.Wall >= len(f.Walls) {
			continue
		}
		wall := f.Walls[op.Wall]
		seg := wall.Segment()
		half := op.Width / 2 / seg.Length()

		a := seg.PointAt(clamp01(op.Position - half))
		b := seg.PointAt(clamp01(op.Position + half))
		x1, y1 := r.pt(a, depth)
		x2, y2 := r.pt(b, depth)

		stroke := windowStroke
		if op.Type == model.OpeningDoor {
			stroke = doorStroke
		}
		fmt.Fprintf(&r.buf,
			`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
			x1, y1, x2, y2, stroke, (wall.Thickness+0.04)*r.scale)
	}
}

func (r *svgRenderer) renderStairs(f model.Floor, depth float64) {
	for _, s := range f.Stairs {
		if len(s.Footprint) < 3 {
			continue
		}
		r.buf.WriteString(`  <polygon points="`)
		for i, p := range s.Footprint {
			if i > 0 {
				r.buf.WriteByte(' ')
			}
			x, y := r.pt(p, depth)
			fmt.Fprintf(&r.buf, "%.1f,%.1f", x, y)
		}
		fmt.Fprintf(&r.buf, `" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="4 2"/>`+"\n", stairStroke)

		// Tread lines across the shaft, normal to the run.
		min, max := s.Footprint.Bounds()
		if s.TreadDepth > 0 {
			for y := min.Y + s.TreadDepth; y < max.Y-geom.Epsilon; y += s.TreadDepth {
				x1, y1 := r.pt(geom.Point{X: min.X, Y: y}, depth)
				x2, y2 := r.pt(geom.Point{X: max.X, Y: y}, depth)
				fmt.Fprintf(&r.buf,
					`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="0.5"/>`+"\n",
					x1, y1, x2, y2, stairStroke)
			}
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
