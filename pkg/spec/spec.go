// Package spec defines the immutable design specification consumed by
// the geometry pipeline, the engine configuration, and the single
// boundary adapter that normalizes loose wire input into the canonical
// internal shape.
//
// # Immutability
//
// A DesignSpecification is created once per generation request and
// never mutated; a design change produces a new specification value.
// Nothing downstream of the adapter branches on input shape — the
// geometry core only ever sees the canonical types in this package.
//
// # Room Source Resolution
//
// Incoming requests can carry the room program in several places
// (explicit list, wizard context, style DNA, or nothing at all).
// [ResolveRooms] performs that resolution exactly once at ingestion and
// returns a tagged result, so the rest of the engine never duck-types
// across object shapes.
package spec

import (
	"time"

	"github.com/parti-studio/parti/pkg/geom"
)

// Zone classifies a room's program role for packing priority and floor
// distribution.
type Zone string

// Room zones, in packing priority order.
const (
	ZonePublic  Zone = "public"
	ZonePrivate Zone = "private"
	ZoneService Zone = "service"
)

// Valid reports whether z is a known zone.
func (z Zone) Valid() bool {
	switch z {
	case ZonePublic, ZonePrivate, ZoneService:
		return true
	}
	return false
}

// Priority returns the packing priority of the zone: lower packs first.
func (z Zone) Priority() int {
	switch z {
	case ZonePublic:
		return 0
	case ZonePrivate:
		return 1
	default:
		return 2
	}
}

// BuildingType identifies the overall program of the building.
type BuildingType string

// Supported building types.
const (
	TypeResidential BuildingType = "residential"
	TypeCommercial  BuildingType = "commercial"
	TypeMixedUse    BuildingType = "mixed_use"
)

// OccupancyClass determines which regulatory tier applies to stairs.
type OccupancyClass string

// Occupancy classes.
const (
	OccupancyResidential OccupancyClass = "residential"
	OccupancyPublic      OccupancyClass = "public"
)

// RoofType identifies the roof massing.
type RoofType string

// Supported roof types.
const (
	RoofGable RoofType = "gable"
	RoofHip   RoofType = "hip"
	RoofFlat  RoofType = "flat"
	RoofShed  RoofType = "shed"
)

// Axis identifies the ridge orientation of a pitched roof.
type Axis string

// Ridge axes. AxisEastWest means the ridge runs east–west, so the
// north and south facades are the gable sides and east/west the ends.
const (
	AxisEastWest   Axis = "ew"
	AxisNorthSouth Axis = "ns"
)

// RoomSpec is one requested room in the program, before geometry is
// assigned.
type RoomSpec struct {
	Name        string   `json:"name" toml:"name" bson:"name"`
	Zone        Zone     `json:"zone" toml:"zone" bson:"zone"`
	TargetArea  float64  `json:"target_area" toml:"target_area" bson:"target_area"` // m²
	Floor       *int     `json:"floor,omitempty" toml:"floor" bson:"floor,omitempty"`
	Adjacent    []string `json:"adjacent,omitempty" toml:"adjacent" bson:"adjacent,omitempty"`
	AspectRatio float64  `json:"aspect_ratio,omitempty" toml:"aspect_ratio" bson:"aspect_ratio,omitempty"` // length/width; 0 = program default
}

// Setbacks are the minimum distances from the site boundary to the
// buildable footprint, in metres.
type Setbacks struct {
	Front float64 `json:"front" toml:"front" bson:"front"`
	Back  float64 `json:"back" toml:"back" bson:"back"`
	Left  float64 `json:"left" toml:"left" bson:"left"`
	Right float64 `json:"right" toml:"right" bson:"right"`
}

// Site describes the parcel the building sits on.
type Site struct {
	Boundary geom.Polygon     `json:"boundary" toml:"boundary" bson:"boundary"`
	Area     float64          `json:"area" toml:"area" bson:"area"` // m²; 0 = derive from Boundary
	Entrance geom.Orientation `json:"entrance" toml:"entrance" bson:"entrance"`
	Setbacks Setbacks         `json:"setbacks" toml:"setbacks" bson:"setbacks"`
}

// Program is the room program of the building.
type Program struct {
	BuildingType BuildingType `json:"building_type" toml:"building_type" bson:"building_type"`
	FloorCount   int          `json:"floor_count" toml:"floor_count" bson:"floor_count"`
	Rooms        []RoomSpec   `json:"rooms" toml:"rooms" bson:"rooms"`
}

// Roof describes the roof massing.
type Roof struct {
	Type     RoofType `json:"type" toml:"type" bson:"type"`
	PitchDeg float64  `json:"pitch_deg" toml:"pitch_deg" bson:"pitch_deg"`
	Ridge    Axis     `json:"ridge" toml:"ridge" bson:"ridge"`
}

// Massing describes the building envelope.
type Massing struct {
	FootprintWidth float64 `json:"footprint_width" toml:"footprint_width" bson:"footprint_width"` // m, east–west
	FootprintDepth float64 `json:"footprint_depth" toml:"footprint_depth" bson:"footprint_depth"` // m, north–south
	FloorHeight    float64 `json:"floor_height" toml:"floor_height" bson:"floor_height"`          // m, storey height
	Roof           Roof    `json:"roof" toml:"roof" bson:"roof"`
}

// Constraints are the numeric design constraints carried by the
// specification itself (as opposed to engine configuration).
type Constraints struct {
	CirculationWidth float64 `json:"circulation_width" toml:"circulation_width" bson:"circulation_width"` // m
	WindowWallRatio  float64 `json:"window_wall_ratio" toml:"window_wall_ratio" bson:"window_wall_ratio"` // 0–1
}

// DesignSpecification is the immutable input to the geometry pipeline.
//
// GeneratedAt is volatile bookkeeping and is excluded from the design
// fingerprint; everything else is structural.
type DesignSpecification struct {
	Site        Site        `json:"site" bson:"site"`
	Program     Program     `json:"program" bson:"program"`
	Massing     Massing     `json:"massing" bson:"massing"`
	StyleRef    string      `json:"style_ref,omitempty" bson:"style_ref,omitempty"`
	Constraints Constraints `json:"constraints" bson:"constraints"`
	GeneratedAt time.Time   `json:"generated_at,omitempty" bson:"generated_at,omitempty"`
}

// SiteArea returns the declared site area, falling back to the boundary
// polygon's area when the declared value is absent.
func (s *DesignSpecification) SiteArea() float64 {
	if s.Site.Area > 0 {
		return s.Site.Area
	}
	return s.Site.Boundary.Area()
}

// Occupancy returns the occupancy class implied by the building type.
func (s *DesignSpecification) Occupancy() OccupancyClass {
	if s.Program.BuildingType == TypeResidential {
		return OccupancyResidential
	}
	return OccupancyPublic
}
