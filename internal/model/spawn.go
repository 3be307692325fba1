package model

import (
	"sync"
	"time"
)

// Spawn describes one monster slot: which template, where, and how fast it comes back.
// Multiplicity is expanded at load time, so every Spawn has amount 1.
type Spawn struct {
	templateID   int32
	location     Location
	respawnDelay time.Duration

	mu  sync.RWMutex
	npc *Npc // currently spawned NPC, nil when empty
}

// NewSpawn creates a spawn descriptor.
func NewSpawn(templateID int32, loc Location, respawnDelay time.Duration) *Spawn {
	return &Spawn{
		templateID:   templateID,
		location:     loc,
		respawnDelay: respawnDelay,
	}
}

// TemplateID returns the mob template ID.
func (s *Spawn) TemplateID() int32 { return s.templateID }

// Location returns the anchor point.
func (s *Spawn) Location() Location { return s.location }

// RespawnDelay returns the respawn delay.
func (s *Spawn) RespawnDelay() time.Duration { return s.respawnDelay }

// Amount is always 1.
func (s *Spawn) Amount() int { return 1 }

// Npc returns the currently spawned NPC, or nil.
func (s *Spawn) Npc() *Npc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.npc
}

// SetNpc records the spawned NPC (nil clears the slot).
func (s *Spawn) SetNpc(npc *Npc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.npc = npc
}

// NeedsRespawn reports whether the slot is empty or its NPC is dead.
func (s *Spawn) NeedsRespawn() bool {
	npc := s.Npc()
	return npc == nil || npc.IsDead()
}
