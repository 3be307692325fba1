package world

import (
	"sync"

	"github.com/udisondev/la2go-rift/internal/model"
)

// Region represents a single world region (2048×2048 game units).
type Region struct {
	rx, ry int32

	visibleObjects sync.Map // objectID → *model.WorldObject
}

// NewRegion creates a new region.
func NewRegion(rx, ry int32) *Region {
	return &Region{rx: rx, ry: ry}
}

// RX returns region X index.
func (r *Region) RX() int32 { return r.rx }

// RY returns region Y index.
func (r *Region) RY() int32 { return r.ry }

// AddVisibleObject adds object to region (concurrent-safe).
func (r *Region) AddVisibleObject(obj *model.WorldObject) {
	r.visibleObjects.Store(obj.ObjectID(), obj)
}

// RemoveVisibleObject removes object from region (concurrent-safe).
func (r *Region) RemoveVisibleObject(objectID uint32) {
	r.visibleObjects.Delete(objectID)
}

// ForEachVisibleObject iterates over all objects in this region.
// If fn returns false, iteration stops.
func (r *Region) ForEachVisibleObject(fn func(*model.WorldObject) bool) {
	r.visibleObjects.Range(func(_, value any) bool {
		return fn(value.(*model.WorldObject))
	})
}

// Count returns the number of objects in the region (O(N)).
func (r *Region) Count() int {
	n := 0
	r.visibleObjects.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
