package rift

import (
	"fmt"
	"math/rand/v2"
)

// Box is an axis-aligned room volume with inclusive bounds.
type Box struct {
	XMin, XMax int32
	YMin, YMax int32
	ZMin, ZMax int32
}

// NewBox validates min ≤ max on every axis.
func NewBox(xMin, xMax, yMin, yMax, zMin, zMax int32) (Box, error) {
	if xMin > xMax || yMin > yMax || zMin > zMax {
		return Box{}, fmt.Errorf("box x[%d,%d] y[%d,%d] z[%d,%d]: %w",
			xMin, xMax, yMin, yMax, zMin, zMax, ErrInvalidBounds)
	}
	return Box{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax, ZMin: zMin, ZMax: zMax}, nil
}

// Contains reports whether the point lies inside the box, borders included.
func (b Box) Contains(x, y, z int32) bool {
	return x >= b.XMin && x <= b.XMax &&
		y >= b.YMin && y <= b.YMax &&
		z >= b.ZMin && z <= b.ZMax
}

// RandomX returns a uniform X in [XMin, XMax].
func (b Box) RandomX() int32 { return randBetween(b.XMin, b.XMax) }

// RandomY returns a uniform Y in [YMin, YMax].
func (b Box) RandomY() int32 { return randBetween(b.YMin, b.YMax) }

func randBetween(lo, hi int32) int32 {
	return lo + int32(rand.Int64N(int64(hi)-int64(lo)+1))
}
