package spec

import (
	"testing"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/geom"
)

func TestAdaptCanonicalInput(t *testing.T) {
	raw := RawSpecification{
		Site: &Site{Area: 400, Entrance: geom.South},
		Program: &Program{
			BuildingType: TypeResidential,
			FloorCount:   2,
			Rooms: []RoomSpec{
				{Name: "Living Room", Zone: ZonePublic, TargetArea: 28},
				{Name: "Bedroom", Zone: ZonePrivate, TargetArea: 14},
			},
		},
		Massing: &Massing{FootprintWidth: 10, FootprintDepth: 8, FloorHeight: 3},
	}

	s, kind, err := Adapt(raw)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if kind != RoomSourceExplicit {
		t.Errorf("room source = %q, want %q", kind, RoomSourceExplicit)
	}
	if s.Program.FloorCount != 2 || len(s.Program.Rooms) != 2 {
		t.Errorf("program = %+v, want 2 floors / 2 rooms", s.Program)
	}
	if s.Massing.FloorHeight != 3 {
		t.Errorf("floor height = %v, want 3", s.Massing.FloorHeight)
	}
}

func TestAdaptLegacyFlattenedInput(t *testing.T) {
	raw := RawSpecification{
		BuildingType: "residential",
		FloorCount:   1,
		SiteArea:     300,
		EntranceSide: "north",
		Rooms: []RoomSpec{
			{Name: "Kitchen", TargetArea: 12},
		},
		FootprintWidth: 8,
		FootprintDepth: 6,
	}

	s, kind, err := Adapt(raw)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if kind != RoomSourceExplicit {
		t.Errorf("room source = %q, want explicit", kind)
	}
	if s.Site.Entrance != geom.North {
		t.Errorf("entrance = %q, want N", s.Site.Entrance)
	}
	// Zone was omitted: the adapter infers it from the name.
	if s.Program.Rooms[0].Zone != ZonePublic {
		t.Errorf("inferred zone = %q, want public", s.Program.Rooms[0].Zone)
	}
}

func TestAdaptDefaults(t *testing.T) {
	s, kind, err := Adapt(RawSpecification{SiteArea: 200})
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if kind != RoomSourceDefault {
		t.Errorf("room source = %q, want default", kind)
	}
	if s.Program.BuildingType != TypeResidential {
		t.Errorf("building type = %q, want residential", s.Program.BuildingType)
	}
	if s.Program.FloorCount != 1 {
		t.Errorf("floor count = %d, want 1", s.Program.FloorCount)
	}
	if len(s.Program.Rooms) == 0 {
		t.Fatal("default program produced no rooms")
	}
	if s.Massing.FootprintWidth <= 0 || s.Massing.FootprintDepth <= 0 {
		t.Errorf("derived footprint = %v x %v, want positive",
			s.Massing.FootprintWidth, s.Massing.FootprintDepth)
	}
	if s.Massing.Roof.Type != RoofGable {
		t.Errorf("default roof = %q, want gable", s.Massing.Roof.Type)
	}
}

func TestAdaptRejectsBadInput(t *testing.T) {
	floor := 5
	tests := []struct {
		name     string
		raw      RawSpecification
		wantCode errors.Code
	}{
		{
			name: "non-positive room area",
			raw: RawSpecification{
				FloorCount:     1,
				Rooms:          []RoomSpec{{Name: "Bedroom", Zone: ZonePrivate, TargetArea: 0}},
				FootprintWidth: 8, FootprintDepth: 6,
			},
			wantCode: errors.ErrCodeInvalidProgram,
		},
		{
			name: "floor hint out of range",
			raw: RawSpecification{
				FloorCount:     2,
				Rooms:          []RoomSpec{{Name: "Bedroom", Zone: ZonePrivate, TargetArea: 12, Floor: &floor}},
				FootprintWidth: 8, FootprintDepth: 6,
			},
			wantCode: errors.ErrCodeInvalidProgram,
		},
		{
			name: "self-intersecting site boundary",
			raw: RawSpecification{
				Site:           &Site{Boundary: geom.Polygon{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}}},
				Rooms:          []RoomSpec{{Name: "Bedroom", Zone: ZonePrivate, TargetArea: 12}},
				FootprintWidth: 8, FootprintDepth: 6,
			},
			wantCode: errors.ErrCodeInvalidSite,
		},
		{
			name: "unknown zone",
			raw: RawSpecification{
				Rooms:          []RoomSpec{{Name: "Bedroom", Zone: "cozy", TargetArea: 12}},
				FootprintWidth: 8, FootprintDepth: 6,
			},
			wantCode: errors.ErrCodeInvalidProgram,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Adapt(tt.raw)
			if err == nil {
				t.Fatal("Adapt() error = nil, want error")
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestResolveRoomsPriority(t *testing.T) {
	explicit := []RoomSpec{{Name: "A", Zone: ZonePublic, TargetArea: 10}}
	ctx := []RoomSpec{{Name: "B", Zone: ZonePublic, TargetArea: 10}}
	dna := []RoomSpec{{Name: "C", Zone: ZonePublic, TargetArea: 10}}

	tests := []struct {
		name                   string
		explicit, ctx, dna     []RoomSpec
		wantKind               RoomSourceKind
		wantFirst              string
		wantNonEmptyForDefault bool
	}{
		{"explicit wins", explicit, ctx, dna, RoomSourceExplicit, "A", false},
		{"context next", nil, ctx, dna, RoomSourceFromContext, "B", false},
		{"dna next", nil, nil, dna, RoomSourceFromDNA, "C", false},
		{"default last", nil, nil, nil, RoomSourceDefault, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := ResolveRooms(tt.explicit, tt.ctx, tt.dna, TypeResidential)
			if src.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", src.Kind, tt.wantKind)
			}
			if tt.wantFirst != "" && src.Rooms[0].Name != tt.wantFirst {
				t.Errorf("first room = %q, want %q", src.Rooms[0].Name, tt.wantFirst)
			}
			if tt.wantNonEmptyForDefault && len(src.Rooms) == 0 {
				t.Error("default program is empty")
			}
		})
	}
}

func TestResolveRoomsCopies(t *testing.T) {
	explicit := []RoomSpec{{Name: "A", Zone: ZonePublic, TargetArea: 10}}
	src := ResolveRooms(explicit, nil, nil, TypeResidential)

	src.Rooms[0].Name = "mutated"
	if explicit[0].Name != "A" {
		t.Error("ResolveRooms did not copy the input slice")
	}
}
