package geo

import "iter"

// Line3D yields the cells of a 3D Bresenham line from start to end, both included.
func Line3D(start, end Point3D) iter.Seq[Point3D] {
	return func(yield func(Point3D) bool) {
		dx, dy, dz := abs32(end.X-start.X), abs32(end.Y-start.Y), abs32(end.Z-start.Z)
		sx, sy, sz := sign32(end.X-start.X), sign32(end.Y-start.Y), sign32(end.Z-start.Z)

		// главная ось определяет количество шагов
		steps := max(dx, dy, dz)
		p := start
		if !yield(p) {
			return
		}

		errX, errY, errZ := steps/2, steps/2, steps/2
		for range steps {
			errX -= dx
			if errX < 0 {
				p.X += sx
				errX += steps
			}
			errY -= dy
			if errY < 0 {
				p.Y += sy
				errY += steps
			}
			errZ -= dz
			if errZ < 0 {
				p.Z += sz
				errZ += steps
			}
			if !yield(p) {
				return
			}
		}
	}
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func sign32(x int32) int32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
