package geo

import (
	"github.com/udisondev/la2go-rift/internal/model"
)

// Obstacle is an axis-aligned solid block in world coordinates (inclusive bounds).
type Obstacle struct {
	Min, Max Point3D
}

func (o Obstacle) contains(x, y, z int32) bool {
	return x >= o.Min.X && x <= o.Max.X &&
		y >= o.Min.Y && y <= o.Max.Y &&
		z >= o.Min.Z && z <= o.Max.Z
}

// LineOfSight answers CanSee queries against a fixed set of obstacles.
// Without obstacles every pair of objects sees each other.
type LineOfSight struct {
	obstacles []Obstacle
}

// NewLineOfSight creates a LOS checker over obstacles.
func NewLineOfSight(obstacles ...Obstacle) *LineOfSight {
	return &LineOfSight{obstacles: obstacles}
}

// CanSee reports whether the straight line between from and to is clear.
// The line is traced in geo cells; the sight line runs MaxSeeOverHeight above the ground,
// so low obstacles do not block it.
func (l *LineOfSight) CanSee(from, to *model.WorldObject) bool {
	if len(l.obstacles) == 0 {
		return true
	}
	a, b := from.Location(), to.Location()
	return l.clear(
		Point3D{a.X >> cellShift, a.Y >> cellShift, a.Z + MaxSeeOverHeight},
		Point3D{b.X >> cellShift, b.Y >> cellShift, b.Z + MaxSeeOverHeight},
	)
}

func (l *LineOfSight) clear(start, end Point3D) bool {
	// Z остаётся в мировых единицах: клетки режут только плоскость XY.
	for cell := range Line3D(start, Point3D{end.X, end.Y, start.Z}) {
		z := interpolateZ(start, end, cell)
		x, y := cell.X*CellSize+CellSize/2, cell.Y*CellSize+CellSize/2
		for _, o := range l.obstacles {
			if o.contains(x, y, z) {
				return false
			}
		}
	}
	return true
}

// interpolateZ returns the sight-line height above cell, linear in XY progress.
func interpolateZ(start, end, cell Point3D) int32 {
	total := max(abs32(end.X-start.X), abs32(end.Y-start.Y))
	if total == 0 {
		return start.Z
	}
	done := max(abs32(cell.X-start.X), abs32(cell.Y-start.Y))
	return start.Z + int32(int64(end.Z-start.Z)*int64(done)/int64(total))
}
