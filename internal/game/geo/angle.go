package geo

import (
	"math"

	"github.com/udisondev/la2go-rift/internal/model"
)

// AngleFrom returns the bearing from → to in degrees, normalized to [0, 360).
// Zero degrees points along +X, angles grow towards +Y.
func AngleFrom(from, to model.Location) float64 {
	deg := math.Atan2(float64(to.Y-from.Y), float64(to.X-from.X)) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}
