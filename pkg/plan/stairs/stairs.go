// Package stairs derives regulatory stair flights and shaft footprints
// connecting adjacent floor pairs.
//
// Riser height and tread depth are chosen from the standard comfort
// range (riser 170–190 mm, tread 250–300 mm) such that the floor
// height divides into a whole number of risers. Stair width honors the
// occupancy tier: 0.90 m minimum for residential, 1.00 m for public.
// Shafts are stacked at the same plan position on every floor to
// preserve a continuous vertical void.
package stairs

import (
	"math"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/spec"
)

// Regulatory and comfort constants, in metres.
const (
	MinWidthResidential = 0.90
	MinWidthPublic      = 1.00

	minRiser = 0.170
	maxRiser = 0.190
	minTread = 0.250
	maxTread = 0.300

	landingDepth = 1.0 // mid-landing depth for L and U flights
)

// Generate produces one stair flight per adjacent floor pair. The
// footprint dimensions are width × depth of the floor plate the shaft
// must fit inside. A single-floor building yields no stairs.
func Generate(floorHeights []float64, width, depth float64, occupancy spec.OccupancyClass) ([]model.Stair, error) {
	if len(floorHeights) < 2 {
		return nil, nil
	}

	flightWidth := MinWidthResidential
	if occupancy == spec.OccupancyPublic {
		flightWidth = MinWidthPublic
	}

	stairType := pickType(len(floorHeights))

	var out []model.Stair
	var shaft geom.Polygon
	for lo := 0; lo < len(floorHeights)-1; lo++ {
		rise := floorHeights[lo]
		if rise <= 0 {
			return nil, errors.New(errors.ErrCodeStairGeneration,
				"floor %d has non-positive height %.2f", lo, rise)
		}

		risers, riser, err := solveRisers(rise)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStairGeneration, err,
				"floor %d to %d", lo, lo+1)
		}
		tread := pickTread(riser)

		fp, err := shaftFootprint(stairType, flightWidth, tread, risers, width, depth)
		if err != nil && stairType == model.StairStraight {
			// A full straight run can outgrow a shallow plate; fold
			// the flight into an L before giving up.
			stairType = model.StairL
			fp, err = shaftFootprint(stairType, flightWidth, tread, risers, width, depth)
		}
		if err != nil {
			return nil, err
		}
		// The shaft of the first pair fixes the (x,y) for all floors.
		if shaft == nil {
			shaft = fp
		}

		out = append(out, model.Stair{
			Type:        stairType,
			Footprint:   shaft,
			Width:       flightWidth,
			RiserCount:  risers,
			RiserHeight: riser,
			TreadDepth:  tread,
			FromFloor:   lo,
			ToFloor:     lo + 1,
			Regulations: occupancy,
		})
	}
	return out, nil
}

// pickType selects the flight geometry: tall buildings take a U flight
// to halve the run depth at the cost of a mid-landing; two-floor
// buildings use a straight run.
func pickType(floorCount int) model.StairType {
	if floorCount >= 3 {
		return model.StairU
	}
	return model.StairStraight
}

// solveRisers finds a whole riser count whose riser height lands in
// the comfort range for the given rise.
func solveRisers(rise float64) (count int, riser float64, err error) {
	lo := int(math.Ceil(rise / maxRiser))
	hi := int(math.Floor(rise / minRiser))
	if lo > hi {
		return 0, 0, errors.New(errors.ErrCodeStairGeneration,
			"no whole riser count fits a %.2f m rise within the %.0f–%.0f mm comfort range",
			rise, minRiser*1000, maxRiser*1000)
	}
	// Prefer the count whose riser is closest to the middle of the range.
	ideal := (minRiser + maxRiser) / 2
	count = lo
	best := math.Abs(rise/float64(lo) - ideal)
	for n := lo + 1; n <= hi; n++ {
		if d := math.Abs(rise/float64(n) - ideal); d < best {
			best, count = d, n
		}
	}
	return count, rise / float64(count), nil
}

// pickTread pairs a tread depth with the chosen riser using the 2R+T
// comfort rule (≈ 0.63 m), clamped to the regulatory range.
func pickTread(riser float64) float64 {
	t := 0.63 - 2*riser
	return math.Min(maxTread, math.Max(minTread, t))
}

// shaftFootprint places the stair shaft against the footprint's
// north-west corner and verifies it fits the plate.
func shaftFootprint(st model.StairType, flightWidth, tread float64, risers int, width, depth float64) (geom.Polygon, error) {
	run := tread * float64(risers-1)

	var w, d float64
	switch st {
	case model.StairU:
		// Two parallel flights plus a mid-landing.
		w = flightWidth * 2
		d = run/2 + landingDepth
	case model.StairL:
		w = run/2 + flightWidth
		d = run/2 + landingDepth
	case model.StairSpiral:
		w = flightWidth*2 + 0.2
		d = w
	default: // straight
		w = flightWidth
		d = run
	}

	if w > width || d > depth {
		return nil, errors.New(errors.ErrCodeStairGeneration,
			"%s stair shaft %.2fx%.2f m does not fit the %.2fx%.2f m floor plate", st, w, d, width, depth)
	}

	// North-west corner keeps the shaft clear of the entrance facade.
	return geom.Rect(0, depth-d, w, d), nil
}
