// Package facade projects each floor's external walls and openings
// onto the four cardinal facades and merges them with the roof
// profile.
//
// Elevations are expressed in facade-local coordinates: x runs along
// the facade as seen from outside the building, z runs up from grade.
// The facade summary is tallied from the projected openings array and
// never recomputed independently, so the window-count cross-check
// against the model holds by construction.
package facade

import (
	"math"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/spec"
)

// Bounds is the overall facade envelope.
type Bounds struct {
	Width  float64 `json:"width" bson:"width"`   // m along the facade
	Height float64 `json:"height" bson:"height"` // m to the roof's highest point on this facade
}

// Opening is a door or window rectangle in facade-local coordinates.
// X and Z locate the lower-left corner.
type Opening struct {
	Type   model.OpeningType `json:"type" bson:"type"`
	X      float64           `json:"x" bson:"x"`
	Z      float64           `json:"z" bson:"z"`
	Width  float64           `json:"width" bson:"width"`
	Height float64           `json:"height" bson:"height"`
	Floor  int               `json:"floor" bson:"floor"`
}

// Elevation is the projection of the building onto one cardinal facade.
type Elevation struct {
	Orientation geom.Orientation `json:"orientation" bson:"orientation"`
	Bounds      Bounds           `json:"bounds" bson:"bounds"`
	Profile     geom.Polygon     `json:"profile" bson:"profile"`           // wall outline up to the eave
	RoofProfile geom.Polygon     `json:"roof_profile" bson:"roof_profile"` // silhouette above the eave
	Openings    []Opening        `json:"openings" bson:"openings"`
}

// Build projects the floors onto all four facades. Width and depth are
// the building's plan extents (east–west and north–south). It returns
// one elevation per orientation in a fixed N, S, E, W order together
// with the summary tallied from the projected openings.
func Build(floors []model.Floor, roof spec.Roof, width, depth float64) ([]Elevation, map[geom.Orientation]model.FacadeCounts, error) {
	if width <= 0 || depth <= 0 {
		return nil, nil, errors.New(errors.ErrCodeFacadeProjection,
			"building extents must be positive, got %.2f x %.2f", width, depth)
	}

	var eave float64
	for _, f := range floors {
		if f.Height <= 0 {
			return nil, nil, errors.New(errors.ErrCodeFacadeProjection,
				"floor %d has non-positive height", f.Index)
		}
		eave += f.Height
	}

	out := make([]Elevation, 0, len(geom.Orientations))
	summary := make(map[geom.Orientation]model.FacadeCounts, len(geom.Orientations))

	for _, o := range geom.Orientations {
		fw := facadeWidth(o, width, depth)
		roofProfile, roofPeak := roofSilhouette(o, roof, fw, width, depth, eave)

		el := Elevation{
			Orientation: o,
			Bounds:      Bounds{Width: fw, Height: eave + roofPeak},
			Profile:     geom.Rect(0, 0, fw, eave),
			RoofProfile: roofProfile,
		}

		if err := project(&el, floors, o, width, depth); err != nil {
			return nil, nil, err
		}

		counts := model.FacadeCounts{}
		for _, op := range el.Openings {
			switch op.Type {
			case model.OpeningWindow:
				counts.WindowCount++
			case model.OpeningDoor:
				counts.DoorCount++
			}
		}
		summary[o] = counts
		out = append(out, el)
	}

	return out, summary, nil
}

// facadeWidth returns the plan extent visible from the orientation.
func facadeWidth(o geom.Orientation, width, depth float64) float64 {
	if o == geom.East || o == geom.West {
		return depth
	}
	return width
}

// project walks every floor's external walls tagged with the facade's
// orientation and maps each owning wall's openings into facade-local
// coordinates using the wall geometry and the floor's cumulative
// elevation.
func project(el *Elevation, floors []model.Floor, o geom.Orientation, width, depth float64) error {
	var base float64
	for _, f := range floors {
		for _, op := range f.Openings {
			if op.Wall < 0 || op.Wall >= len(f.Walls) {
				return errors.New(errors.ErrCodeFacadeProjection,
					"floor %d opening references wall %d of %d", f.Index, op.Wall, len(f.Walls))
			}
			wall := f.Walls[op.Wall]
			if !wall.External || wall.Facing != o {
				continue
			}

			centre := wall.Segment().PointAt(op.Position)
			el.Openings = append(el.Openings, Opening{
				Type:   op.Type,
				X:      localX(o, centre, width, depth) - op.Width/2,
				Z:      base + op.SillHeight,
				Width:  op.Width,
				Height: op.Height,
				Floor:  f.Index,
			})
		}
		base += f.Height
	}
	return nil
}

// localX maps a plan point to the facade-local x axis as seen from
// outside: south and east facades read left-to-right in plan axis
// direction, north and west mirror.
func localX(o geom.Orientation, p geom.Point, width, depth float64) float64 {
	switch o {
	case geom.South:
		return p.X
	case geom.North:
		return width - p.X
	case geom.East:
		return p.Y
	default: // West
		return depth - p.Y
	}
}

// roofSilhouette returns the roof outline above the eave for the
// facade and the silhouette's peak height above the eave.
//
// Gable ends show the full triangle; gable sides only the eave line.
// Hip roofs degrade to a trapezoid on every facade and flat roofs to
// the bare eave line.
func roofSilhouette(o geom.Orientation, roof spec.Roof, fw, width, depth, eave float64) (geom.Polygon, float64) {
	pitch := roof.PitchDeg * math.Pi / 180

	switch roof.Type {
	case spec.RoofGable:
		span := depth
		ends := []geom.Orientation{geom.East, geom.West}
		if roof.Ridge == spec.AxisNorthSouth {
			span = width
			ends = []geom.Orientation{geom.North, geom.South}
		}
		rise := span / 2 * math.Tan(pitch)
		if o == ends[0] || o == ends[1] {
			return geom.Polygon{{X: 0, Y: eave}, {X: fw, Y: eave}, {X: fw / 2, Y: eave + rise}}, rise
		}
		return geom.Polygon{{X: 0, Y: eave}, {X: fw, Y: eave}}, 0

	case spec.RoofHip:
		span := math.Min(width, depth)
		rise := span / 2 * math.Tan(pitch)
		inset := math.Min(span/2, fw/4)
		return geom.Polygon{
			{X: 0, Y: eave},
			{X: fw, Y: eave},
			{X: fw - inset, Y: eave + rise},
			{X: inset, Y: eave + rise},
		}, rise

	case spec.RoofShed:
		rise := facadeWidth(o.Opposite(), width, depth) * math.Tan(pitch) / 4
		return geom.Polygon{
			{X: 0, Y: eave},
			{X: fw, Y: eave},
			{X: fw, Y: eave + rise},
		}, rise

	default: // flat
		return geom.Polygon{{X: 0, Y: eave}, {X: fw, Y: eave}}, 0
	}
}
