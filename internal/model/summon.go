package model

// Summon represents a pet or servitor bound to its owner.
type Summon struct {
	*Character

	owner *Player
}

// NewSummon creates a summon and attaches it to owner.
func NewSummon(objectID uint32, name string, loc Location, maxHP float64, owner *Player) *Summon {
	s := &Summon{
		Character: NewCharacter(objectID, name, loc, maxHP),
		owner:     owner,
	}
	s.WorldObject.Data = s
	if owner != nil {
		owner.SetSummon(s)
	}
	return s
}

// Owner returns the summoning player.
func (s *Summon) Owner() *Player {
	return s.owner
}
