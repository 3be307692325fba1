// Package spawn places rift room mobs into the world and brings dead ones back.
package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/la2go-rift/internal/model"
	"github.com/udisondev/la2go-rift/internal/world"
)

// ErrUnknownTemplate is returned when a spawn names a template that is not loaded.
var ErrUnknownTemplate = errors.New("unknown npc template")

// Templates resolves mob templates by ID.
type Templates interface {
	Template(templateID int32) (*model.NpcTemplate, bool)
}

// RiftSpawner places room spawn descriptors into the world.
// A descriptor holds at most one live NPC at a time.
type RiftSpawner struct {
	world     *world.World
	ids       *world.ObjectIDGenerator
	templates Templates
}

// NewRiftSpawner creates a spawner over w.
func NewRiftSpawner(w *world.World, ids *world.ObjectIDGenerator, templates Templates) *RiftSpawner {
	return &RiftSpawner{
		world:     w,
		ids:       ids,
		templates: templates,
	}
}

// SpawnRoom places an NPC on every empty descriptor.
func (s *RiftSpawner) SpawnRoom(spawns []*model.Spawn) {
	count := 0
	for _, sp := range spawns {
		if sp.Npc() != nil {
			continue
		}
		if _, err := s.DoSpawn(sp); err != nil {
			slog.Error("failed to spawn rift mob", "templateID", sp.TemplateID(), "error", err)
			continue
		}
		count++
	}
	slog.Debug("rift room spawned", "spawned", count, "descriptors", len(spawns))
}

// RefreshRoom replaces dead NPCs and refills empty descriptors.
func (s *RiftSpawner) RefreshRoom(spawns []*model.Spawn) {
	count := 0
	for _, sp := range spawns {
		if !sp.NeedsRespawn() {
			continue
		}
		s.despawn(sp)
		if _, err := s.DoSpawn(sp); err != nil {
			slog.Error("respawn failed", "templateID", sp.TemplateID(), "error", err)
			continue
		}
		count++
	}
	if count > 0 {
		slog.Debug("rift room refreshed", "respawned", count)
	}
}

// DespawnRoom removes every NPC placed for spawns.
func (s *RiftSpawner) DespawnRoom(spawns []*model.Spawn) {
	for _, sp := range spawns {
		s.despawn(sp)
	}
}

// DoSpawn creates the NPC for sp and adds it to the world.
func (s *RiftSpawner) DoSpawn(sp *model.Spawn) (*model.Npc, error) {
	tpl, ok := s.templates.Template(sp.TemplateID())
	if !ok {
		return nil, fmt.Errorf("spawning template %d: %w", sp.TemplateID(), ErrUnknownTemplate)
	}

	loc := sp.Location().WithHeading(uint16(rand.IntN(65536)))
	npc := model.NewNpc(s.ids.NextNpcID(), tpl.TemplateID(), tpl.Name(), loc, float64(tpl.MaxHP()))
	tpl.Apply(npc)
	npc.SetSpawn(sp)

	if err := s.world.AddObject(npc.WorldObject); err != nil {
		return nil, fmt.Errorf("adding NPC to world: %w", err)
	}
	sp.SetNpc(npc)

	slog.Debug("NPC spawned",
		"objectID", npc.ObjectID(),
		"name", npc.Name(),
		"templateID", tpl.TemplateID(),
		"location", loc)
	return npc, nil
}

func (s *RiftSpawner) despawn(sp *model.Spawn) {
	npc := sp.Npc()
	if npc == nil {
		return
	}
	s.world.RemoveObject(npc.ObjectID())
	sp.SetNpc(nil)
	npc.SetSpawn(nil)
}
