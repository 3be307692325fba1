package world

import (
	"testing"

	"github.com/udisondev/la2go-rift/internal/model"
)

func TestNewRegion(t *testing.T) {
	region := NewRegion(10, 20)

	if region.RX() != 10 {
		t.Errorf("RX() = %d, want 10", region.RX())
	}
	if region.RY() != 20 {
		t.Errorf("RY() = %d, want 20", region.RY())
	}
}

func TestRegion_AddRemoveVisibleObject(t *testing.T) {
	region := NewRegion(0, 0)
	obj := model.NewWorldObject(100, "TestObj", model.Location{})

	region.AddVisibleObject(obj)

	count := 0
	region.ForEachVisibleObject(func(o *model.WorldObject) bool {
		count++
		if o.ObjectID() != 100 {
			t.Errorf("ForEachVisibleObject() objectID = %d, want 100", o.ObjectID())
		}
		return true
	})
	if count != 1 {
		t.Errorf("ForEachVisibleObject() count = %d, want 1", count)
	}

	region.RemoveVisibleObject(100)
	if region.Count() != 0 {
		t.Errorf("Count() after remove = %d, want 0", region.Count())
	}
}

func TestRegion_ForEachVisibleObject_EarlyStop(t *testing.T) {
	region := NewRegion(0, 0)
	for i := range 10 {
		region.AddVisibleObject(model.NewWorldObject(uint32(i), "Obj", model.Location{}))
	}

	visited := 0
	region.ForEachVisibleObject(func(*model.WorldObject) bool {
		visited++
		return visited < 3
	})

	if visited != 3 {
		t.Errorf("ForEachVisibleObject() visited = %d, want 3 (early stop)", visited)
	}
}
