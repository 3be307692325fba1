package model

import (
	"sync"
	"sync/atomic"
)

// WorldObject: базовый объект в игровом мире.
// Все объекты имеют ObjectID, Name и Location.
// Data хранит владельца: *Player, *Summon или *Npc.
type WorldObject struct {
	objectID uint32
	name     string
	location Location
	Data     any

	invisible atomic.Bool

	mu sync.RWMutex
}

// NewWorldObject создаёт новый объект в игровом мире.
func NewWorldObject(objectID uint32, name string, loc Location) *WorldObject {
	return &WorldObject{
		objectID: objectID,
		name:     name,
		location: loc,
	}
}

// ObjectID возвращает уникальный ID объекта (immutable после создания).
func (w *WorldObject) ObjectID() uint32 {
	return w.objectID
}

// Name возвращает имя объекта.
func (w *WorldObject) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// Location возвращает копию координат объекта.
func (w *WorldObject) Location() Location {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.location
}

// SetLocation устанавливает новые координаты объекта.
// Callers that track region membership must go through world.World.Teleport.
func (w *WorldObject) SetLocation(loc Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.location = loc
}

// IsInvisible reports whether the object is hidden from regular observers (GM hide).
func (w *WorldObject) IsInvisible() bool {
	return w.invisible.Load()
}

// SetInvisible toggles GM-style invisibility.
func (w *WorldObject) SetInvisible(v bool) {
	w.invisible.Store(v)
}

// AsCharacter returns the living creature behind the object, or nil for items/doors.
func (w *WorldObject) AsCharacter() *Character {
	switch d := w.Data.(type) {
	case *Player:
		return d.Character
	case *Summon:
		return d.Character
	case *Npc:
		return d.Character
	default:
		return nil
	}
}

// IsCharacter reports whether the object is a living creature.
func (w *WorldObject) IsCharacter() bool {
	return w.AsCharacter() != nil
}

// IsPlayer reports whether the object is a player.
func (w *WorldObject) IsPlayer() bool {
	_, ok := w.Data.(*Player)
	return ok
}

// IsNpc reports whether the object is an NPC or monster.
func (w *WorldObject) IsNpc() bool {
	_, ok := w.Data.(*Npc)
	return ok
}

// IsPlayable reports whether the object is a player or a player's summon.
func (w *WorldObject) IsPlayable() bool {
	switch w.Data.(type) {
	case *Player, *Summon:
		return true
	default:
		return false
	}
}

// ActingPlayer returns the player controlling the object: the player itself
// or a summon's owner. Returns nil for NPCs.
func (w *WorldObject) ActingPlayer() *Player {
	switch d := w.Data.(type) {
	case *Player:
		return d
	case *Summon:
		return d.Owner()
	default:
		return nil
	}
}
