package world

// Grid constants from the L2 world layout.
const (
	// ShiftBy - shift by N bits for 2^N units per region (2^11 = 2048)
	ShiftBy = 11

	// World boundaries (game coordinates)
	WorldXMin = -131072
	WorldYMin = -262144
	WorldXMax = 196608
	WorldYMax = 229376

	// OffsetX = abs(WorldXMin >> ShiftBy), OffsetY = abs(WorldYMin >> ShiftBy)
	OffsetX = 64
	OffsetY = 128

	// Grid size (regions count): (Max-Min) >> ShiftBy
	RegionsX = 160
	RegionsY = 240

	// Region size in game units
	RegionSize = 1 << ShiftBy
)

// CoordToRegionIndex converts world coordinate to region index.
func CoordToRegionIndex(x, y int32) (rx, ry int32) {
	rx = (x >> ShiftBy) + OffsetX
	ry = (y >> ShiftBy) + OffsetY
	return rx, ry
}

// IsValidRegionIndex checks if region index is within valid bounds.
func IsValidRegionIndex(rx, ry int32) bool {
	return rx >= 0 && rx < RegionsX && ry >= 0 && ry < RegionsY
}

// regionWindow returns the clamped inclusive index range of regions that
// intersect the square [x-radius, x+radius]×[y-radius, y+radius].
func regionWindow(x, y, radius int32) (rxMin, ryMin, rxMax, ryMax int32) {
	r := int64(radius)
	rxMin, ryMin = CoordToRegionIndex(clampCoord(int64(x)-r), clampCoord(int64(y)-r))
	rxMax, ryMax = CoordToRegionIndex(clampCoord(int64(x)+r), clampCoord(int64(y)+r))

	rxMin = max(rxMin, 0)
	ryMin = max(ryMin, 0)
	rxMax = min(rxMax, RegionsX-1)
	ryMax = min(ryMax, RegionsY-1)
	return rxMin, ryMin, rxMax, ryMax
}

func clampCoord(v int64) int32 {
	const lo, hi = -1 << 30, 1 << 30
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return int32(v)
}
