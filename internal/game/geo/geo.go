// Package geo provides the geometry service used by skill targeting:
// bearings between objects and line-of-sight over static obstacles.
package geo

// CellSize: размер гео-клетки в мировых единицах (1 geo cell = 16 world units).
const CellSize = 1 << cellShift

const cellShift = 4

// MaxSeeOverHeight: obstacles lower than this above the sight line do not block it.
const MaxSeeOverHeight = 48

// Point3D is a point in world or cell coordinates.
type Point3D struct {
	X, Y, Z int32
}
