package geom

// Orientation is one of the four cardinal facade orientations.
type Orientation string

// Cardinal orientations. These name the direction a facade faces.
const (
	North Orientation = "N"
	South Orientation = "S"
	East  Orientation = "E"
	West  Orientation = "W"
)

// Orientations lists the four cardinal orientations in a fixed order.
// Iterate this instead of a map to keep output deterministic.
var Orientations = []Orientation{North, South, East, West}

// Valid reports whether o is one of the four cardinal orientations.
func (o Orientation) Valid() bool {
	switch o {
	case North, South, East, West:
		return true
	}
	return false
}

// Opposite returns the facing orientation.
func (o Orientation) Opposite() Orientation {
	switch o {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return o
}

// OrientationFromBearing maps a compass bearing in degrees to the
// nearest cardinal orientation. Diagonal bearings round to the nearest
// axis, ties going clockwise (45° → East).
func OrientationFromBearing(deg float64) Orientation {
	deg = SnapAngle(deg, 90)
	switch deg {
	case 90:
		return East
	case 180:
		return South
	case 270:
		return West
	default:
		return North
	}
}
