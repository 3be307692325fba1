package model

import "slices"

// Npc represents a spawned NPC or monster instance.
type Npc struct {
	*Character

	templateID int32
	clans      []string // social clans from the template ("ANT", "UNDEAD"...)
	undead     bool
	attackable bool
	spawn      *Spawn
}

// NewNpc creates an NPC. Monsters are attackable by default.
func NewNpc(objectID uint32, templateID int32, name string, loc Location, maxHP float64) *Npc {
	n := &Npc{
		Character:  NewCharacter(objectID, name, loc, maxHP),
		templateID: templateID,
		attackable: true,
	}
	n.WorldObject.Data = n
	return n
}

// TemplateID returns the NPC template ID.
func (n *Npc) TemplateID() int32 { return n.templateID }

// Clans returns the template clans.
func (n *Npc) Clans() []string { return n.clans }

// SetClans sets the template clans.
func (n *Npc) SetClans(clans ...string) { n.clans = clans }

// IsInMyClan reports whether other shares at least one template clan.
func (n *Npc) IsInMyClan(other *Npc) bool {
	if other == nil {
		return false
	}
	for _, c := range n.clans {
		if slices.Contains(other.clans, c) {
			return true
		}
	}
	return false
}

// IsUndead reports whether the NPC race is undead.
func (n *Npc) IsUndead() bool { return n.undead }

// SetUndead marks the NPC as undead.
func (n *Npc) SetUndead(v bool) { n.undead = v }

// IsAttackable reports whether players may attack the NPC without forcing.
func (n *Npc) IsAttackable() bool { return n.attackable }

// SetAttackable toggles the attackable flag (false for town NPCs).
func (n *Npc) SetAttackable(v bool) { n.attackable = v }

// Spawn returns the spawn descriptor the NPC came from (nil for scripted NPCs).
func (n *Npc) Spawn() *Spawn { return n.spawn }

// SetSpawn binds the NPC to its spawn descriptor.
func (n *Npc) SetSpawn(s *Spawn) { n.spawn = s }
