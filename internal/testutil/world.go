package testutil

import (
	"testing"

	"github.com/udisondev/la2go-rift/internal/model"
	"github.com/udisondev/la2go-rift/internal/world"
)

// NewWorld creates a fresh world holding objs; a failed insert fails the test.
func NewWorld(tb testing.TB, objs ...*model.WorldObject) *world.World {
	tb.Helper()
	w := world.New()
	for _, obj := range objs {
		if err := w.AddObject(obj); err != nil {
			tb.Fatalf("adding object %d: %v", obj.ObjectID(), err)
		}
	}
	return w
}
