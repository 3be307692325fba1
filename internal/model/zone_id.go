package model

// ZoneID represents a zone flag type.
// Each creature maintains a bitfield of active zone flags via atomic.Uint32.
type ZoneID uint8

const (
	ZoneIDPVP   ZoneID = iota // PvP zone (arena)
	ZoneIDPeace               // Peace zone (towns, rift waiting room)
	ZoneIDSiege               // Siege zone (castle siege area)
	ZoneIDNoPVP               // explicit no-PvP zone

	ZoneIDCount
)

// String returns the zone flag name.
func (z ZoneID) String() string {
	switch z {
	case ZoneIDPVP:
		return "PVP"
	case ZoneIDPeace:
		return "PEACE"
	case ZoneIDSiege:
		return "SIEGE"
	case ZoneIDNoPVP:
		return "NO_PVP"
	default:
		return "UNKNOWN"
	}
}
