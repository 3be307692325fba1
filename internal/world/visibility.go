package world

import (
	"slices"

	"github.com/udisondev/la2go-rift/internal/model"
)

// forEachInRadius visits every object within radius (3D, inclusive) of center,
// scanning only the regions the radius can reach. Negative radius scans the whole grid.
func (w *World) forEachInRadius(center model.Location, radius int32, fn func(*model.WorldObject)) {
	rxMin, ryMin, rxMax, ryMax := int32(0), int32(0), int32(RegionsX-1), int32(RegionsY-1)
	if radius >= 0 {
		rxMin, ryMin, rxMax, ryMax = regionWindow(center.X, center.Y, radius)
	}
	for rx := rxMin; rx <= rxMax; rx++ {
		for ry := ryMin; ry <= ryMax; ry++ {
			w.regions[rx][ry].ForEachVisibleObject(func(obj *model.WorldObject) bool {
				if center.InRange(obj.Location(), radius) {
					fn(obj)
				}
				return true
			})
		}
	}
}

// sortByObjectID gives region scans a stable enumeration order.
func sortByObjectID(objs []*model.WorldObject) {
	slices.SortFunc(objs, func(a, b *model.WorldObject) int {
		switch {
		case a.ObjectID() < b.ObjectID():
			return -1
		case a.ObjectID() > b.ObjectID():
			return 1
		default:
			return 0
		}
	})
}

// VisibleObjects returns objects within radius of origin, excluding origin itself,
// ordered by objectID.
func (w *World) VisibleObjects(origin *model.WorldObject, radius int32) []*model.WorldObject {
	out := make([]*model.WorldObject, 0, 16)
	w.forEachInRadius(origin.Location(), radius, func(obj *model.WorldObject) {
		if obj.ObjectID() != origin.ObjectID() {
			out = append(out, obj)
		}
	})
	sortByObjectID(out)
	return out
}

// VisibleObjectsFor is VisibleObjects around origin filtered by what observer can see:
// hidden objects are skipped unless the observer is a GM.
func (w *World) VisibleObjectsFor(observer, origin *model.WorldObject, radius int32) []*model.WorldObject {
	all := w.VisibleObjects(origin, radius)
	out := all[:0]
	for _, obj := range all {
		if canObserve(observer, obj) {
			out = append(out, obj)
		}
	}
	return out
}

// KnownCharactersInRadius returns creature objects (players, npcs, summons) known to obj
// within radius, excluding obj itself. Dead creatures are included; filtering is the caller's job.
func (w *World) KnownCharactersInRadius(obj *model.WorldObject, radius int32) []*model.Character {
	objs := w.VisibleObjects(obj, radius)
	out := make([]*model.Character, 0, len(objs))
	for _, o := range objs {
		if !canObserve(obj, o) {
			continue
		}
		if c := o.AsCharacter(); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func canObserve(observer, obj *model.WorldObject) bool {
	if !obj.IsInvisible() {
		return true
	}
	if p := observer.ActingPlayer(); p != nil && p.IsGM() {
		return true
	}
	return false
}
