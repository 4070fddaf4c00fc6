package geom

import "math"

// Bearing returns the compass bearing from a to b in degrees,
// measured clockwise from north, in [0, 360).
func Bearing(a, b Point) float64 {
	deg := math.Atan2(b.X-a.X, b.Y-a.Y) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Offset returns the point reached by travelling dist metres from p on
// the given compass bearing (degrees clockwise from north).
func Offset(p Point, bearingDeg, dist float64) Point {
	rad := bearingDeg * math.Pi / 180
	return Point{
		X: p.X + dist*math.Sin(rad),
		Y: p.Y + dist*math.Cos(rad),
	}
}

// SnapAngle rounds deg to the nearest multiple of step degrees.
// The result is normalized into [0, 360). A step of zero or less
// returns deg unchanged (normalized).
func SnapAngle(deg, step float64) float64 {
	if step > 0 {
		deg = math.Round(deg/step) * step
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
