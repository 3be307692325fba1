package rift

import "github.com/udisondev/la2go-rift/internal/model"

// Dialogs delivers NPC dialogs and system messages to players.
type Dialogs interface {
	// ShowHTML renders file (relative to the html root) from npc with %key% replacements.
	ShowHTML(player *model.Player, npc *model.Npc, file string, data map[string]string)
	SendMessage(player *model.Player, text string)
}

// Teleporter moves objects in the world.
type Teleporter interface {
	Teleport(obj *model.WorldObject, loc model.Location) error
}

// Spawner places and removes room mobs.
type Spawner interface {
	SpawnRoom(spawns []*model.Spawn)
	RefreshRoom(spawns []*model.Spawn)
	DespawnRoom(spawns []*model.Spawn)
}

// IllegalActionHandler punishes a player caught cheating.
type IllegalActionHandler func(player *model.Player, message string)

// Deps are the collaborators of a Manager.
type Deps struct {
	Rooms      RoomSource
	Dialogs    Dialogs
	Teleporter Teleporter
	Spawner    Spawner
	Scheduler  Scheduler // nil → TimeScheduler

	// OnIllegalAction is optional.
	OnIllegalAction IllegalActionHandler

	// SpawnFile is the spawn XML path; empty disables spawns.
	SpawnFile string
}
