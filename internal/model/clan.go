package model

import "sync"

// Clan (pledge): persistent association of players.
// Only online members are tracked here; offline members are a storage concern.
type Clan struct {
	id   int32
	name string

	mu      sync.RWMutex
	members []*Player
}

// NewClan creates an empty clan.
func NewClan(id int32, name string) *Clan {
	return &Clan{id: id, name: name}
}

// ID returns the clan ID (never 0 for a real clan).
func (c *Clan) ID() int32 { return c.id }

// Name returns the clan name.
func (c *Clan) Name() string { return c.name }

// AddMember registers an online member and links the player back.
func (c *Clan) AddMember(p *Player) {
	c.mu.Lock()
	c.members = append(c.members, p)
	c.mu.Unlock()
	p.SetClan(c)
}

// RemoveMember drops a member by objectID.
func (c *Clan) RemoveMember(objectID uint32) {
	c.mu.Lock()
	var removed *Player
	for i, m := range c.members {
		if m.ObjectID() == objectID {
			removed = m
			c.members = append(c.members[:i], c.members[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if removed != nil {
		removed.SetClan(nil)
	}
}

// Members returns a snapshot of online members in join order.
func (c *Clan) Members() []*Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Player, len(c.members))
	copy(out, c.members)
	return out
}
