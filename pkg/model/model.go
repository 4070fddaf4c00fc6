// Package model defines the derived building geometry aggregate: rooms,
// walls, openings, floors, stairs, and the facade summary, together
// with the model-level validation pass.
//
// A BuildingModel is derived wholly and deterministically from a
// DesignSpecification plus a packing seed. It is never patched in
// place; any massing or program change regenerates the model from
// scratch. Nothing in this package mutates a model after construction.
package model

import (
	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/spec"
)

// OpeningType distinguishes doors from windows.
type OpeningType string

// Opening types.
const (
	OpeningDoor   OpeningType = "door"
	OpeningWindow OpeningType = "window"
)

// Opening is a door or window cut into a wall. Position is the
// fractional distance of the opening centre along the owning wall,
// from its start point.
type Opening struct {
	Type       OpeningType `json:"type" bson:"type"`
	Wall       int         `json:"wall" bson:"wall"`         // index into the floor's wall list
	Position   float64     `json:"position" bson:"position"` // 0–1 along the wall
	Width      float64     `json:"width" bson:"width"`       // m
	Height     float64     `json:"height" bson:"height"`     // m
	SillHeight float64     `json:"sill_height,omitempty" bson:"sill_height,omitempty"` // m, windows only
}

// Wall is a straight wall segment on one floor.
type Wall struct {
	Start       geom.Point       `json:"start" bson:"start"`
	End         geom.Point       `json:"end" bson:"end"`
	Thickness   float64          `json:"thickness" bson:"thickness"` // m
	External    bool             `json:"external" bson:"external"`
	LoadBearing bool             `json:"load_bearing" bson:"load_bearing"`
	Facing      geom.Orientation `json:"facing,omitempty" bson:"facing,omitempty"` // external walls only
}

// Segment returns the wall centreline as a geometry segment.
func (w Wall) Segment() geom.Segment { return geom.Segment{A: w.Start, B: w.End} }

// Length returns the wall centreline length.
func (w Wall) Length() float64 { return w.Start.Dist(w.End) }

// Room is a packed room with its assigned polygon and the openings
// that serve it. Doors and Windows are indices into the owning floor's
// opening list; the floor list is the single authoritative set so
// facade tallies never double count.
type Room struct {
	ID         string       `json:"id" bson:"id"`
	Name       string       `json:"name" bson:"name"`
	Zone       spec.Zone    `json:"zone" bson:"zone"`
	TargetArea float64      `json:"target_area" bson:"target_area"` // m², requested
	Polygon    geom.Polygon `json:"polygon" bson:"polygon"`
	Doors      []int        `json:"doors,omitempty" bson:"doors,omitempty"`
	Windows    []int        `json:"windows,omitempty" bson:"windows,omitempty"`
}

// Area returns the room's actual packed area.
func (r Room) Area() float64 { return r.Polygon.Area() }

// StairType identifies the flight geometry.
type StairType string

// Stair flight types.
const (
	StairStraight StairType = "straight"
	StairL        StairType = "l_shaped"
	StairU        StairType = "u_shaped"
	StairSpiral   StairType = "spiral"
)

// Stair is one flight connecting a pair of adjacent floors. The shaft
// footprint is stacked at the same plan position on both floors to
// preserve a continuous vertical void.
type Stair struct {
	Type        StairType    `json:"type" bson:"type"`
	Footprint   geom.Polygon `json:"footprint" bson:"footprint"`
	Width       float64      `json:"width" bson:"width"`             // m, clear flight width
	RiserCount  int          `json:"riser_count" bson:"riser_count"`
	RiserHeight float64      `json:"riser_height" bson:"riser_height"` // m
	TreadDepth  float64      `json:"tread_depth" bson:"tread_depth"`   // m
	FromFloor   int          `json:"from_floor" bson:"from_floor"`
	ToFloor     int          `json:"to_floor" bson:"to_floor"`
	Regulations spec.OccupancyClass `json:"regulations" bson:"regulations"`
}

// Floor is one storey of the building. Index 0 is the ground floor.
type Floor struct {
	Index    int       `json:"index" bson:"index"`
	Height   float64   `json:"height" bson:"height"` // m, storey height
	Rooms    []Room    `json:"rooms" bson:"rooms"`
	Walls    []Wall    `json:"walls" bson:"walls"`
	Openings []Opening `json:"openings" bson:"openings"`
	Stairs   []Stair   `json:"stairs,omitempty" bson:"stairs,omitempty"` // flights originating on this floor
}

// OpeningCount returns the number of openings of the given type.
func (f Floor) OpeningCount(t OpeningType) int {
	n := 0
	for _, o := range f.Openings {
		if o.Type == t {
			n++
		}
	}
	return n
}

// FacadeCounts summarizes the openings visible on one facade.
type FacadeCounts struct {
	WindowCount int `json:"window_count" bson:"window_count"`
	DoorCount   int `json:"door_count" bson:"door_count"`
}

// BuildingModel is the aggregate geometry derived from one
// specification and seed.
type BuildingModel struct {
	Fingerprint   string                             `json:"fingerprint" bson:"fingerprint"`
	Seed          int64                              `json:"seed" bson:"seed"`
	Floors        []Floor                            `json:"floors" bson:"floors"`
	Stairs        []Stair                            `json:"stairs,omitempty" bson:"stairs,omitempty"`
	FacadeSummary map[geom.Orientation]FacadeCounts  `json:"facade_summary" bson:"facade_summary"`
	Entrance      geom.Orientation                   `json:"entrance" bson:"entrance"`
	Warnings      []ValidationWarning                `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// FloorByIndex returns the floor with the given index, or nil.
func (m *BuildingModel) FloorByIndex(i int) *Floor {
	for f := range m.Floors {
		if m.Floors[f].Index == i {
			return &m.Floors[f]
		}
	}
	return nil
}

// WindowTotal returns the total window openings across all floors.
func (m *BuildingModel) WindowTotal() int {
	n := 0
	for _, f := range m.Floors {
		n += f.OpeningCount(OpeningWindow)
	}
	return n
}

// RoomByName returns the first room with the given name and its floor
// index, or nil if no room matches.
func (m *BuildingModel) RoomByName(name string) (*Room, int) {
	for f := range m.Floors {
		for r := range m.Floors[f].Rooms {
			if m.Floors[f].Rooms[r].Name == name {
				return &m.Floors[f].Rooms[r], m.Floors[f].Index
			}
		}
	}
	return nil, -1
}

// LockedRoom is one frozen room assignment inside a ProgramLock.
type LockedRoom struct {
	Name       string    `json:"name" bson:"name"`
	Zone       spec.Zone `json:"zone" bson:"zone"`
	TargetArea float64   `json:"target_area" bson:"target_area"`
	Floor      int       `json:"floor" bson:"floor"`
}

// ProgramLock freezes the accepted room list and floor assignment for
// one design version. Compliance checks treat it as ground truth for
// the lifetime of that version.
type ProgramLock struct {
	Fingerprint string       `json:"fingerprint" bson:"fingerprint"`
	Rooms       []LockedRoom `json:"rooms" bson:"rooms"`
}

// Lock derives the program lock from the model's packed floors.
func (m *BuildingModel) Lock() ProgramLock {
	lock := ProgramLock{Fingerprint: m.Fingerprint}
	for _, f := range m.Floors {
		for _, r := range f.Rooms {
			lock.Rooms = append(lock.Rooms, LockedRoom{
				Name:       r.Name,
				Zone:       r.Zone,
				TargetArea: r.TargetArea,
				Floor:      f.Index,
			})
		}
	}
	return lock
}
