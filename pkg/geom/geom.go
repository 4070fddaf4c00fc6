// Package geom provides the pure 2D primitives the planning engine is
// built on: points, segments, and closed polygons with the usual area,
// perimeter, centroid, containment, and bearing math.
//
// All coordinates are in metres in a right-handed plan coordinate
// system (x east, y north). Polygons are represented as open vertex
// rings: the closing edge from the last vertex back to the first is
// implied and must not be repeated.
//
// Everything in this package is allocation-light, deterministic, and
// safe for concurrent use; no function mutates its input.
package geom

import "math"

// Epsilon is the tolerance used for floating-point comparisons
// throughout the planning engine.
const Epsilon = 1e-9

// Point is a 2D point in metres.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{p.X + d.X, p.Y + d.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by f about the origin.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Eq reports whether p and q coincide within Epsilon.
func (p Point) Eq(q Point) bool {
	return math.Abs(p.X-q.X) < Epsilon && math.Abs(p.Y-q.Y) < Epsilon
}

// Segment is a directed line segment between two points.
type Segment struct {
	A Point `json:"a" bson:"a"`
	B Point `json:"b" bson:"b"`
}

// Length returns the segment length.
func (s Segment) Length() float64 { return s.A.Dist(s.B) }

// Midpoint returns the segment midpoint.
func (s Segment) Midpoint() Point {
	return Point{(s.A.X + s.B.X) / 2, (s.A.Y + s.B.Y) / 2}
}

// Angle returns the segment direction in radians, measured
// counter-clockwise from the positive x axis, in (-π, π].
func (s Segment) Angle() float64 {
	return math.Atan2(s.B.Y-s.A.Y, s.B.X-s.A.X)
}

// PointAt returns the point at parameter t along the segment,
// where t=0 is A and t=1 is B. t outside [0,1] extrapolates.
func (s Segment) PointAt(t float64) Point {
	return Point{s.A.X + (s.B.X-s.A.X)*t, s.A.Y + (s.B.Y-s.A.Y)*t}
}

// Intersects reports whether s and o properly cross. Shared endpoints
// do not count as an intersection; collinear overlap does.
func (s Segment) Intersects(o Segment) bool {
	d1 := cross(o.A, o.B, s.A)
	d2 := cross(o.A, o.B, s.B)
	d3 := cross(s.A, s.B, o.A)
	d4 := cross(s.A, s.B, o.B)

	if ((d1 > Epsilon && d2 < -Epsilon) || (d1 < -Epsilon && d2 > Epsilon)) &&
		((d3 > Epsilon && d4 < -Epsilon) || (d3 < -Epsilon && d4 > Epsilon)) {
		return true
	}

	// Collinear overlap check.
	if math.Abs(d1) < Epsilon && math.Abs(d2) < Epsilon {
		return overlap1D(s.A.X, s.B.X, o.A.X, o.B.X) && overlap1D(s.A.Y, s.B.Y, o.A.Y, o.B.Y)
	}
	return false
}

// cross returns the z component of (b-a) × (c-a).
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// overlap1D reports whether intervals [a1,a2] and [b1,b2] overlap with
// positive length (touching at a single point does not count).
func overlap1D(a1, a2, b1, b2 float64) bool {
	if a1 > a2 {
		a1, a2 = a2, a1
	}
	if b1 > b2 {
		b1, b2 = b2, b1
	}
	return math.Min(a2, b2)-math.Max(a1, b1) > Epsilon
}
