package spec

// RoomSourceKind tags where the resolved room program came from.
type RoomSourceKind string

// Room sources, in resolution priority order.
const (
	RoomSourceExplicit    RoomSourceKind = "explicit"     // request carried a room list
	RoomSourceFromContext RoomSourceKind = "from_context" // wizard context rooms
	RoomSourceFromDNA     RoomSourceKind = "from_dna"     // style DNA program
	RoomSourceDefault     RoomSourceKind = "default"      // synthesized from building type
)

// RoomSource is the tagged result of room resolution. The engine keeps
// the tag so downstream diagnostics can report where the program
// originated, but never re-resolves.
type RoomSource struct {
	Kind  RoomSourceKind
	Rooms []RoomSpec
}

// ResolveRooms picks the room program from the candidate sources in
// strict priority order: explicit request rooms, wizard context rooms,
// style DNA rooms, then a synthesized default for the building type.
// Resolution happens exactly once at ingestion; the returned slice is a
// copy the caller owns.
func ResolveRooms(explicit, fromContext, fromDNA []RoomSpec, bt BuildingType) RoomSource {
	switch {
	case len(explicit) > 0:
		return RoomSource{Kind: RoomSourceExplicit, Rooms: copyRooms(explicit)}
	case len(fromContext) > 0:
		return RoomSource{Kind: RoomSourceFromContext, Rooms: copyRooms(fromContext)}
	case len(fromDNA) > 0:
		return RoomSource{Kind: RoomSourceFromDNA, Rooms: copyRooms(fromDNA)}
	default:
		return RoomSource{Kind: RoomSourceDefault, Rooms: DefaultProgram(bt)}
	}
}

func copyRooms(rooms []RoomSpec) []RoomSpec {
	out := make([]RoomSpec, len(rooms))
	copy(out, rooms)
	for i := range out {
		if len(out[i].Adjacent) > 0 {
			adj := make([]string, len(out[i].Adjacent))
			copy(adj, out[i].Adjacent)
			out[i].Adjacent = adj
		}
	}
	return out
}

// DefaultProgram synthesizes a minimal viable room program for the
// given building type, used when no source supplies rooms at all.
func DefaultProgram(bt BuildingType) []RoomSpec {
	switch bt {
	case TypeCommercial:
		return []RoomSpec{
			{Name: "Lobby", Zone: ZonePublic, TargetArea: 30},
			{Name: "Open Office", Zone: ZonePublic, TargetArea: 60},
			{Name: "Meeting Room", Zone: ZonePrivate, TargetArea: 20},
			{Name: "WC", Zone: ZoneService, TargetArea: 8, AspectRatio: 1.5},
			{Name: "Server Room", Zone: ZoneService, TargetArea: 10},
		}
	case TypeMixedUse:
		return []RoomSpec{
			{Name: "Retail Unit", Zone: ZonePublic, TargetArea: 50},
			{Name: "Lobby", Zone: ZonePublic, TargetArea: 20},
			{Name: "Apartment Living", Zone: ZonePrivate, TargetArea: 35},
			{Name: "Apartment Bedroom", Zone: ZonePrivate, TargetArea: 16},
			{Name: "WC", Zone: ZoneService, TargetArea: 6, AspectRatio: 1.5},
		}
	default: // residential
		return []RoomSpec{
			{Name: "Living Room", Zone: ZonePublic, TargetArea: 28, AspectRatio: 1.4},
			{Name: "Kitchen", Zone: ZonePublic, TargetArea: 14},
			{Name: "Bedroom 1", Zone: ZonePrivate, TargetArea: 16},
			{Name: "Bedroom 2", Zone: ZonePrivate, TargetArea: 12},
			{Name: "Bathroom", Zone: ZoneService, TargetArea: 6, AspectRatio: 1.5},
			{Name: "Hallway", Zone: ZoneService, TargetArea: 8, AspectRatio: 3.5},
		}
	}
}
