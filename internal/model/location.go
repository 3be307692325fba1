package model

import "math"

// Location представляет координаты в игровом мире.
// Value type, передаётся по значению (immutable).
type Location struct {
	X       int32
	Y       int32
	Z       int32
	Heading uint16 // 0-65535
}

// NewLocation создаёт Location с указанными координатами.
func NewLocation(x, y, z int32, heading uint16) Location {
	return Location{X: x, Y: y, Z: z, Heading: heading}
}

// WithHeading возвращает новый Location с обновлённым направлением.
func (l Location) WithHeading(heading uint16) Location {
	l.Heading = heading
	return l
}

// DistanceSquared returns the squared 3D distance to other.
func (l Location) DistanceSquared(other Location) int64 {
	dx := int64(l.X) - int64(other.X)
	dy := int64(l.Y) - int64(other.Y)
	dz := int64(l.Z) - int64(other.Z)
	return dx*dx + dy*dy + dz*dz
}

// Distance2DSquared returns the squared planar distance to other.
func (l Location) Distance2DSquared(other Location) int64 {
	dx := int64(l.X) - int64(other.X)
	dy := int64(l.Y) - int64(other.Y)
	return dx*dx + dy*dy
}

// Distance returns the 3D distance to other.
func (l Location) Distance(other Location) float64 {
	return math.Sqrt(float64(l.DistanceSquared(other)))
}

// InRange reports whether other lies within radius (3D, inclusive).
// A negative radius means unlimited range.
func (l Location) InRange(other Location, radius int32) bool {
	if radius < 0 {
		return true
	}
	r := int64(radius)
	return l.DistanceSquared(other) <= r*r
}
