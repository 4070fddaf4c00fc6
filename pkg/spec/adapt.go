package spec

import (
	"math"
	"strings"
	"time"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/geom"
)

// RawSpecification is the loose wire shape accepted at the system
// boundary. Older clients flatten fields that the canonical shape
// nests, and the room program may arrive in any of three places.
// Adapt is the only code in the engine that looks at this type.
type RawSpecification struct {
	// Canonical nested fields.
	Site        *Site        `json:"site,omitempty" toml:"site"`
	Program     *Program     `json:"program,omitempty" toml:"program"`
	Massing     *Massing     `json:"massing,omitempty" toml:"massing"`
	StyleRef    string       `json:"style_ref,omitempty" toml:"style_ref"`
	Constraints *Constraints `json:"constraints,omitempty" toml:"constraints"`

	// Legacy flattened fields, still sent by old wizard versions.
	BuildingType   string     `json:"building_type,omitempty" toml:"building_type"`
	FloorCount     int        `json:"floor_count,omitempty" toml:"floor_count"`
	Rooms          []RoomSpec `json:"rooms,omitempty" toml:"rooms"`
	SiteArea       float64    `json:"site_area,omitempty" toml:"site_area"`
	EntranceSide   string     `json:"entrance_side,omitempty" toml:"entrance_side"`
	FootprintWidth float64    `json:"footprint_width,omitempty" toml:"footprint_width"`
	FootprintDepth float64    `json:"footprint_depth,omitempty" toml:"footprint_depth"`

	// Alternative room sources resolved by ResolveRooms.
	ContextRooms []RoomSpec `json:"context_rooms,omitempty" toml:"context_rooms"`
	DNARooms     []RoomSpec `json:"dna_rooms,omitempty" toml:"dna_rooms"`

	GeneratedAt time.Time `json:"generated_at,omitempty" toml:"-"`
}

// Adapt normalizes a raw wire specification into the canonical
// immutable DesignSpecification, resolving the room source exactly
// once and applying defaults for optional massing values. It is the
// single shape-normalization point in the engine; everything past it
// sees one canonical type.
func Adapt(raw RawSpecification) (*DesignSpecification, RoomSourceKind, error) {
	out := DesignSpecification{
		StyleRef:    raw.StyleRef,
		GeneratedAt: raw.GeneratedAt,
	}

	if raw.Site != nil {
		out.Site = *raw.Site
	} else {
		out.Site = Site{Area: raw.SiteArea, Entrance: parseEntrance(raw.EntranceSide)}
	}
	if out.Site.Entrance == "" {
		out.Site.Entrance = geom.South
	}
	if !out.Site.Entrance.Valid() {
		return nil, "", errors.New(errors.ErrCodeInvalidSite, "unknown entrance side %q", out.Site.Entrance)
	}
	if len(out.Site.Boundary) > 0 && !out.Site.Boundary.Valid() {
		return nil, "", errors.New(errors.ErrCodeInvalidSite, "site boundary is not a valid simple polygon")
	}

	if raw.Program != nil {
		out.Program = *raw.Program
	} else {
		out.Program = Program{
			BuildingType: BuildingType(raw.BuildingType),
			FloorCount:   raw.FloorCount,
		}
	}
	if out.Program.BuildingType == "" {
		out.Program.BuildingType = TypeResidential
	}
	if out.Program.FloorCount <= 0 {
		out.Program.FloorCount = 1
	}

	explicit := out.Program.Rooms
	if len(explicit) == 0 {
		explicit = raw.Rooms
	}
	src := ResolveRooms(explicit, raw.ContextRooms, raw.DNARooms, out.Program.BuildingType)
	out.Program.Rooms = src.Rooms

	for i, r := range out.Program.Rooms {
		if err := errors.ValidateRoomName(r.Name); err != nil {
			return nil, "", err
		}
		if r.TargetArea <= 0 {
			return nil, "", errors.New(errors.ErrCodeInvalidProgram, "room %q has non-positive target area %v", r.Name, r.TargetArea)
		}
		if r.Zone == "" {
			out.Program.Rooms[i].Zone = inferZone(r.Name)
		} else if !r.Zone.Valid() {
			return nil, "", errors.New(errors.ErrCodeInvalidProgram, "room %q has unknown zone %q", r.Name, r.Zone)
		}
		if r.Floor != nil && (*r.Floor < 0 || *r.Floor >= out.Program.FloorCount) {
			return nil, "", errors.New(errors.ErrCodeInvalidProgram,
				"room %q floor hint %d outside 0..%d", r.Name, *r.Floor, out.Program.FloorCount-1)
		}
	}

	if raw.Massing != nil {
		out.Massing = *raw.Massing
	} else {
		out.Massing = Massing{FootprintWidth: raw.FootprintWidth, FootprintDepth: raw.FootprintDepth}
	}
	if out.Massing.FloorHeight <= 0 {
		out.Massing.FloorHeight = 2.8
	}
	if out.Massing.Roof.Type == "" {
		out.Massing.Roof = Roof{Type: RoofGable, PitchDeg: 30, Ridge: AxisEastWest}
	}
	if out.Massing.FootprintWidth <= 0 || out.Massing.FootprintDepth <= 0 {
		w, d, err := deriveFootprint(&out)
		if err != nil {
			return nil, "", err
		}
		out.Massing.FootprintWidth, out.Massing.FootprintDepth = w, d
	}

	if raw.Constraints != nil {
		out.Constraints = *raw.Constraints
	}
	if out.Constraints.CirculationWidth < 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidSpec, "circulation width cannot be negative")
	}
	if out.Constraints.WindowWallRatio < 0 || out.Constraints.WindowWallRatio > 1 {
		return nil, "", errors.New(errors.ErrCodeInvalidSpec, "window-to-wall ratio must be in [0,1], got %v", out.Constraints.WindowWallRatio)
	}
	if out.Constraints.WindowWallRatio == 0 {
		out.Constraints.WindowWallRatio = 0.25
	}

	return &out, src.Kind, nil
}

// deriveFootprint sizes a rectangular footprint from the site area and
// floor count when the massing does not pin explicit dimensions. The
// footprint targets the per-floor share of the total requested room
// area with a 4:3 width:depth proportion.
func deriveFootprint(s *DesignSpecification) (w, d float64, err error) {
	var total float64
	for _, r := range s.Program.Rooms {
		total += r.TargetArea
	}
	perFloor := total / float64(s.Program.FloorCount)
	if perFloor <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidFootprint, "cannot derive footprint: no room area requested")
	}

	// Allow for circulation on top of the net room area.
	gross := perFloor * 1.25
	if site := s.SiteArea(); site > 0 && gross > site {
		gross = site
	}

	d = math.Sqrt(gross / (4.0 / 3.0))
	w = gross / d
	return w, d, nil
}

func parseEntrance(s string) geom.Orientation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return geom.North
	case "s", "south":
		return geom.South
	case "e", "east":
		return geom.East
	case "w", "west":
		return geom.West
	case "":
		return ""
	}
	return geom.Orientation(s)
}

// inferZone guesses a zone from the room name when the wire input
// omits one. Unknown names default to private.
func inferZone(name string) Zone {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "living"), strings.Contains(n, "kitchen"),
		strings.Contains(n, "dining"), strings.Contains(n, "lobby"),
		strings.Contains(n, "office"), strings.Contains(n, "retail"):
		return ZonePublic
	case strings.Contains(n, "bath"), strings.Contains(n, "wc"),
		strings.Contains(n, "toilet"), strings.Contains(n, "hall"),
		strings.Contains(n, "corridor"), strings.Contains(n, "stor"),
		strings.Contains(n, "utility"), strings.Contains(n, "laundry"):
		return ZoneService
	}
	return ZonePrivate
}
