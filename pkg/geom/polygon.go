package geom

import "math"

// Polygon is a closed 2D ring given as an open vertex list: the edge
// from the last vertex back to the first is implied. Vertices may wind
// in either direction; functions that care about orientation normalize
// internally.
type Polygon []Point

// Rect returns an axis-aligned rectangular polygon with its lower-left
// corner at (x, y).
func Rect(x, y, w, h float64) Polygon {
	return Polygon{
		{x, y},
		{x + w, y},
		{x + w, y + h},
		{x, y + h},
	}
}

// Valid reports whether the polygon is a usable ring: at least three
// vertices, no self-intersection, and positive area.
func (p Polygon) Valid() bool {
	return len(p) >= 3 && !p.SelfIntersects() && p.Area() > Epsilon
}

// Area returns the enclosed area via the shoelace formula, always
// non-negative regardless of winding.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i, a := range p {
		b := p[(i+1)%len(p)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the total edge length including the closing edge.
func (p Polygon) Perimeter() float64 {
	if len(p) < 2 {
		return 0
	}
	var sum float64
	for i, a := range p {
		sum += a.Dist(p[(i+1)%len(p)])
	}
	return sum
}

// Centroid returns the area centroid. For degenerate polygons (area
// below Epsilon) it falls back to the vertex average.
func (p Polygon) Centroid() Point {
	if len(p) == 0 {
		return Point{}
	}
	var cx, cy, a float64
	for i, v := range p {
		w := p[(i+1)%len(p)]
		f := v.X*w.Y - w.X*v.Y
		cx += (v.X + w.X) * f
		cy += (v.Y + w.Y) * f
		a += f
	}
	if math.Abs(a) < Epsilon {
		var sx, sy float64
		for _, v := range p {
			sx += v.X
			sy += v.Y
		}
		n := float64(len(p))
		return Point{sx / n, sy / n}
	}
	return Point{cx / (3 * a), cy / (3 * a)}
}

// Edges returns the polygon's edges in order, including the closing edge.
func (p Polygon) Edges() []Segment {
	if len(p) < 2 {
		return nil
	}
	out := make([]Segment, len(p))
	for i, a := range p {
		out[i] = Segment{A: a, B: p[(i+1)%len(p)]}
	}
	return out
}

// SelfIntersects reports whether any two non-adjacent edges cross.
// Adjacent edges sharing a vertex are not counted.
func (p Polygon) SelfIntersects() bool {
	edges := p.Edges()
	n := len(edges)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // closing edge is adjacent to the first
			}
			if edges[i].Intersects(edges[j]) {
				return true
			}
		}
	}
	return false
}

// Contains reports whether pt lies strictly inside the polygon, using
// ray casting. Points on the boundary are not considered inside.
func (p Polygon) Contains(pt Point) bool {
	if len(p) < 3 {
		return false
	}
	inside := false
	for i, a := range p {
		b := p[(i+1)%len(p)]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Bounds returns the axis-aligned bounding box as (min, max) corners.
func (p Polygon) Bounds() (Point, Point) {
	if len(p) == 0 {
		return Point{}, Point{}
	}
	lo, hi := p[0], p[0]
	for _, v := range p[1:] {
		lo.X = math.Min(lo.X, v.X)
		lo.Y = math.Min(lo.Y, v.Y)
		hi.X = math.Max(hi.X, v.X)
		hi.Y = math.Max(hi.Y, v.Y)
	}
	return lo, hi
}

// Translate returns a copy of the polygon shifted by d.
func (p Polygon) Translate(d Point) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = v.Add(d)
	}
	return out
}

// Scale returns a copy of the polygon scaled by f about its centroid.
func (p Polygon) Scale(f float64) Polygon {
	c := p.Centroid()
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = c.Add(v.Sub(c).Scale(f))
	}
	return out
}
