package model

import (
	"errors"
	"fmt"
	"sync"
)

// MaxPartyMembers is the maximum party size (leader + 8 members).
const MaxPartyMembers = 9

var (
	ErrPartyFull     = errors.New("party is full")
	ErrAlreadyMember = errors.New("player already in a party")
)

// Party represents a group of players cooperating together.
// Thread-safe: all methods acquire internal mutex.
type Party struct {
	mu      sync.RWMutex
	id      int32
	leader  *Player
	members []*Player // leader всегда первый элемент
}

// NewParty creates a party with the given leader.
// Leader is automatically added as first member and linked back to the party.
func NewParty(id int32, leader *Player) *Party {
	p := &Party{
		id:      id,
		leader:  leader,
		members: make([]*Player, 0, MaxPartyMembers),
	}
	p.members = append(p.members, leader)
	leader.SetParty(p)
	return p
}

// ID returns immutable party ID.
func (p *Party) ID() int32 {
	return p.id
}

// Leader returns current party leader.
func (p *Party) Leader() *Player {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.leader
}

// LeaderObjectID returns the objectID of the current leader.
func (p *Party) LeaderObjectID() uint32 {
	return p.Leader().ObjectID()
}

// SetLeader changes party leader; the new leader is swapped to index 0.
// Caller must ensure the player is already a party member.
func (p *Party) SetLeader(player *Player) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leader = player
	for i, m := range p.members {
		if m.ObjectID() == player.ObjectID() {
			p.members[0], p.members[i] = p.members[i], p.members[0]
			break
		}
	}
}

// Members returns a snapshot copy of party members slice.
// Safe to iterate without holding the lock.
func (p *Party) Members() []*Player {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make([]*Player, len(p.members))
	copy(result, p.members)
	return result
}

// MemberCount returns the number of members in party.
func (p *Party) MemberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.members)
}

// IsMember checks if a player with given objectID is in this party.
func (p *Party) IsMember(objectID uint32) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, m := range p.members {
		if m.ObjectID() == objectID {
			return true
		}
	}
	return false
}

// IsLeader checks if a player with given objectID is the party leader.
func (p *Party) IsLeader(objectID uint32) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.leader.ObjectID() == objectID
}

// AddMember adds a player to the party and links the player back.
func (p *Party) AddMember(player *Player) error {
	if player.IsInParty() {
		return fmt.Errorf("adding %s: %w", player.Name(), ErrAlreadyMember)
	}

	p.mu.Lock()
	if len(p.members) >= MaxPartyMembers {
		p.mu.Unlock()
		return fmt.Errorf("adding %s (max %d members): %w", player.Name(), MaxPartyMembers, ErrPartyFull)
	}
	p.members = append(p.members, player)
	p.mu.Unlock()

	player.SetParty(p)
	return nil
}

// RemoveMember removes a player from the party by objectID.
// If the leader leaves, the next member becomes leader.
// Returns true if the party should be disbanded (fewer than 2 members remaining).
func (p *Party) RemoveMember(objectID uint32) bool {
	p.mu.Lock()

	idx := -1
	for i, m := range p.members {
		if m.ObjectID() == objectID {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.mu.Unlock()
		return false
	}

	removed := p.members[idx]
	// Порядок важен: лидер всегда первый.
	p.members = append(p.members[:idx], p.members[idx+1:]...)

	if p.leader.ObjectID() == objectID && len(p.members) > 0 {
		p.leader = p.members[0]
	}
	disband := len(p.members) < 2
	p.mu.Unlock()

	removed.SetParty(nil)
	return disband
}

// Disband unlinks every member from the party.
func (p *Party) Disband() {
	p.mu.Lock()
	members := p.members
	p.members = nil
	p.mu.Unlock()

	for _, m := range members {
		m.SetParty(nil)
	}
}
