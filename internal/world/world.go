// Package world holds the region grid of live game objects and answers the
// spatial queries used by skills and rift sessions.
package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/udisondev/la2go-rift/internal/model"
)

// ErrOutOfBounds is returned when coordinates fall outside the world grid.
var ErrOutOfBounds = errors.New("coordinates out of world bounds")

// World represents the game world with 2D region grid.
// Create one per process with New and pass the handle explicitly.
type World struct {
	regions [][]*Region // [RegionsX][RegionsY]
	objects sync.Map    // objectID → *model.WorldObject

	// moveMu serializes region membership changes so an object is never
	// registered in two regions at once.
	moveMu sync.Mutex
}

// New allocates the full region grid.
func New() *World {
	w := &World{regions: make([][]*Region, RegionsX)}
	for rx := range RegionsX {
		w.regions[rx] = make([]*Region, RegionsY)
		for ry := range RegionsY {
			w.regions[rx][ry] = NewRegion(int32(rx), int32(ry))
		}
	}
	return w
}

// GetRegion returns region at world coordinates (x, y), nil if out of bounds.
func (w *World) GetRegion(x, y int32) *Region {
	rx, ry := CoordToRegionIndex(x, y)
	return w.GetRegionByIndex(rx, ry)
}

// GetRegionByIndex returns region at region index (rx, ry), nil if out of bounds.
func (w *World) GetRegionByIndex(rx, ry int32) *Region {
	if !IsValidRegionIndex(rx, ry) {
		return nil
	}
	return w.regions[rx][ry]
}

// AddObject adds object to world and its region.
func (w *World) AddObject(obj *model.WorldObject) error {
	loc := obj.Location()
	region := w.GetRegion(loc.X, loc.Y)
	if region == nil {
		return fmt.Errorf("adding object %d at (%d, %d): %w", obj.ObjectID(), loc.X, loc.Y, ErrOutOfBounds)
	}

	w.moveMu.Lock()
	defer w.moveMu.Unlock()
	w.objects.Store(obj.ObjectID(), obj)
	region.AddVisibleObject(obj)
	return nil
}

// RemoveObject removes object from world and its region.
func (w *World) RemoveObject(objectID uint32) {
	w.moveMu.Lock()
	defer w.moveMu.Unlock()

	value, ok := w.objects.LoadAndDelete(objectID)
	if !ok {
		return
	}
	loc := value.(*model.WorldObject).Location()
	if region := w.GetRegion(loc.X, loc.Y); region != nil {
		region.RemoveVisibleObject(objectID)
	}
}

// GetObject returns object by ID.
func (w *World) GetObject(objectID uint32) (*model.WorldObject, bool) {
	value, ok := w.objects.Load(objectID)
	if !ok {
		return nil, false
	}
	return value.(*model.WorldObject), true
}

// Teleport moves obj to loc and re-registers it in the destination region.
// Objects not yet in the world only get their location updated.
func (w *World) Teleport(obj *model.WorldObject, loc model.Location) error {
	dst := w.GetRegion(loc.X, loc.Y)
	if dst == nil {
		return fmt.Errorf("teleporting object %d to (%d, %d): %w", obj.ObjectID(), loc.X, loc.Y, ErrOutOfBounds)
	}

	w.moveMu.Lock()
	defer w.moveMu.Unlock()

	if _, tracked := w.objects.Load(obj.ObjectID()); !tracked {
		obj.SetLocation(loc)
		return nil
	}

	old := obj.Location()
	if src := w.GetRegion(old.X, old.Y); src != nil && src != dst {
		src.RemoveVisibleObject(obj.ObjectID())
	}
	obj.SetLocation(loc)
	dst.AddVisibleObject(obj)
	return nil
}

// RegionCount returns total number of regions.
func (w *World) RegionCount() int {
	return RegionsX * RegionsY
}

// ObjectCount returns total number of objects in world (O(N)).
func (w *World) ObjectCount() int {
	count := 0
	w.objects.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
