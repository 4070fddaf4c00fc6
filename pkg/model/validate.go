package model

import (
	"fmt"

	"github.com/parti-studio/parti/pkg/geom"
)

// ValidationError is a blocking model defect.
type ValidationError struct {
	Check   string `json:"check" bson:"check"`
	Message string `json:"message" bson:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Check, e.Message)
}

// ValidationWarning is an advisory finding attached to an otherwise
// usable model.
type ValidationWarning struct {
	Check   string `json:"check" bson:"check"`
	Message string `json:"message" bson:"message"`
}

// Metrics are the aggregate counts reported by every validation run,
// pass or fail, so regression tests can assert against them.
type Metrics struct {
	Floors int `json:"floors" bson:"floors"`
	Rooms  int `json:"rooms" bson:"rooms"`
	Walls  int `json:"walls" bson:"walls"`
	Stairs int `json:"stairs" bson:"stairs"`
}

// ValidationResult is the outcome of a model validation pass.
type ValidationResult struct {
	Valid    bool                `json:"valid" bson:"valid"`
	Errors   []ValidationError   `json:"errors,omitempty" bson:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty" bson:"warnings,omitempty"`
	Metrics  Metrics             `json:"metrics" bson:"metrics"`
}

// Validate runs the model-level consistency checks and returns the
// collected errors, warnings, and metrics. Metrics are populated even
// when validation fails.
func (m *BuildingModel) Validate() ValidationResult {
	res := ValidationResult{
		Warnings: append([]ValidationWarning(nil), m.Warnings...),
		Metrics:  m.metrics(),
	}

	res.Errors = append(res.Errors, m.checkFloorIndices()...)
	res.Errors = append(res.Errors, m.checkStairCoverage()...)
	res.Errors = append(res.Errors, m.checkRoomGeometry()...)
	res.Errors = append(res.Errors, m.checkEntranceDoor()...)
	res.Warnings = append(res.Warnings, m.checkStairClearance()...)

	res.Valid = len(res.Errors) == 0
	return res
}

func (m *BuildingModel) metrics() Metrics {
	met := Metrics{Floors: len(m.Floors), Stairs: len(m.Stairs)}
	for _, f := range m.Floors {
		met.Rooms += len(f.Rooms)
		met.Walls += len(f.Walls)
	}
	return met
}

// checkFloorIndices verifies floor indices are distinct and contiguous
// from the ground up.
func (m *BuildingModel) checkFloorIndices() []ValidationError {
	var errs []ValidationError
	seen := make(map[int]bool, len(m.Floors))
	for _, f := range m.Floors {
		if seen[f.Index] {
			errs = append(errs, ValidationError{
				Check:   "floor_indices",
				Message: fmt.Sprintf("duplicate floor index %d", f.Index),
			})
		}
		seen[f.Index] = true
	}
	for i := 0; i < len(m.Floors); i++ {
		if !seen[i] {
			errs = append(errs, ValidationError{
				Check:   "floor_indices",
				Message: fmt.Sprintf("floor index %d missing; %d floors present", i, len(m.Floors)),
			})
		}
	}
	return errs
}

// checkStairCoverage verifies that every adjacent floor pair of a
// multi-floor model is connected by at least one stair.
func (m *BuildingModel) checkStairCoverage() []ValidationError {
	if len(m.Floors) < 2 {
		return nil
	}
	connected := make(map[int]bool) // lo floor of a connected pair
	for _, s := range m.Stairs {
		lo, hi := s.FromFloor, s.ToFloor
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi == lo+1 {
			connected[lo] = true
		}
	}
	var errs []ValidationError
	for i := 0; i < len(m.Floors)-1; i++ {
		if !connected[i] {
			errs = append(errs, ValidationError{
				Check:   "stair_coverage",
				Message: fmt.Sprintf("no stair connects floors %d and %d", i, i+1),
			})
		}
	}
	return errs
}

// checkRoomGeometry verifies every room has a closed, simple polygon
// with positive area.
func (m *BuildingModel) checkRoomGeometry() []ValidationError {
	var errs []ValidationError
	for _, f := range m.Floors {
		for _, r := range f.Rooms {
			if len(r.Polygon) < 3 {
				errs = append(errs, ValidationError{
					Check:   "room_geometry",
					Message: fmt.Sprintf("room %q on floor %d has %d vertices", r.Name, f.Index, len(r.Polygon)),
				})
				continue
			}
			if r.Polygon.SelfIntersects() {
				errs = append(errs, ValidationError{
					Check:   "room_geometry",
					Message: fmt.Sprintf("room %q on floor %d has a self-intersecting polygon", r.Name, f.Index),
				})
			}
			if r.Area() <= geom.Epsilon {
				errs = append(errs, ValidationError{
					Check:   "room_geometry",
					Message: fmt.Sprintf("room %q on floor %d has non-positive area", r.Name, f.Index),
				})
			}
		}
	}
	return errs
}

// checkStairClearance warns when a room intrudes into a stair shaft on
// either floor the stair serves. Rooms pack from the south edge while
// shafts pin to the north-west corner, so only dense floors collide.
func (m *BuildingModel) checkStairClearance() []ValidationWarning {
	var warns []ValidationWarning
	for _, s := range m.Stairs {
		if len(s.Footprint) < 3 {
			continue
		}
		sLo, sHi := s.Footprint.Bounds()
		for _, f := range m.Floors {
			if f.Index != s.FromFloor && f.Index != s.ToFloor {
				continue
			}
			for _, r := range f.Rooms {
				if len(r.Polygon) < 3 {
					continue
				}
				rLo, rHi := r.Polygon.Bounds()
				// Interior overlap only; shared edges are fine.
				if rLo.X < sHi.X-geom.Epsilon && sLo.X < rHi.X-geom.Epsilon &&
					rLo.Y < sHi.Y-geom.Epsilon && sLo.Y < rHi.Y-geom.Epsilon {
					warns = append(warns, ValidationWarning{
						Check: "stair_clearance",
						Message: fmt.Sprintf("room %q on floor %d overlaps the stair shaft serving floors %d-%d",
							r.Name, f.Index, s.FromFloor, s.ToFloor),
					})
				}
			}
		}
	}
	return warns
}

// checkEntranceDoor verifies the entrance-facing facade carries at
// least one door.
func (m *BuildingModel) checkEntranceDoor() []ValidationError {
	if !m.Entrance.Valid() {
		return nil
	}
	if counts, ok := m.FacadeSummary[m.Entrance]; ok && counts.DoorCount > 0 {
		return nil
	}
	return []ValidationError{{
		Check:   "entrance_door",
		Message: fmt.Sprintf("entrance facade %s has no door", m.Entrance),
	}}
}
